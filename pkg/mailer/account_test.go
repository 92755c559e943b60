package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAccount(t *testing.T) {
	t.Parallel()

	subject, text, err := RenderAccount(TemplateWelcome, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Welcome to task manager!", subject)
	assert.Contains(t, text, "Alice")

	subject, text, err = RenderAccount(TemplateCancellation, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Goodbye!", subject)
	assert.Contains(t, text, "Alice")

	_, _, err = RenderAccount("newsletter", "Alice")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestJobBuilders(t *testing.T) {
	t.Parallel()

	w := WelcomeJob("a@example.com", "Alice")
	assert.Equal(t, TemplateWelcome, w.Template)
	assert.Equal(t, "a@example.com", w.To)
	assert.Equal(t, "Alice", w.Name)

	c := CancellationJob("a@example.com", "Alice")
	assert.Equal(t, TemplateCancellation, c.Template)
}
