package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager-api/pkg/mailer"
)

type fakeSender struct {
	err   error
	calls []sentMail
}

type sentMail struct {
	to, subject, text, html string
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, sentMail{to: to, subject: subject, text: text, html: html})
	return nil
}

func jobBody(t *testing.T, job mailer.EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestDeliverTemplateJob(t *testing.T) {
	t.Parallel()
	f := &fakeSender{}

	ok := deliver(context.Background(), f, jobBody(t, mailer.WelcomeJob("a@example.com", "Alice")))
	require.True(t, ok)
	require.Len(t, f.calls, 1)
	assert.Equal(t, "a@example.com", f.calls[0].to)
	assert.Equal(t, "Welcome to task manager!", f.calls[0].subject)
	assert.Contains(t, f.calls[0].text, "Alice")
}

func TestDeliverRawJob(t *testing.T) {
	t.Parallel()
	f := &fakeSender{}

	ok := deliver(context.Background(), f, jobBody(t, mailer.EmailJob{
		To: "a@example.com", Subject: "hi", Text: "plain", HTML: "<b>rich</b>",
	}))
	require.True(t, ok)
	require.Len(t, f.calls, 1)
	assert.Equal(t, "hi", f.calls[0].subject)
	assert.Equal(t, "<b>rich</b>", f.calls[0].html)
}

func TestDeliverDropsBadMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body []byte
	}{
		{name: "not json", body: []byte("{{nope")},
		{name: "unknown template", body: []byte(`{"to":"a@example.com","template":"newsletter"}`)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := &fakeSender{}
			assert.False(t, deliver(context.Background(), f, tt.body))
			assert.Empty(t, f.calls)
		})
	}
}

func TestDeliverDropsOnSendFailure(t *testing.T) {
	t.Parallel()
	f := &fakeSender{err: assert.AnError}

	// a failing send is reported as drop, not retry
	ok := deliver(context.Background(), f, jobBody(t, mailer.WelcomeJob("a@example.com", "Alice")))
	assert.False(t, ok)
}
