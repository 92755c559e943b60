package helpers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Parallel()
	m := &JWTManager{Secret: []byte("unit-secret")}
	uid := uuid.NewString()

	token, err := m.GenerateToken(uid)
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uid, claims.UserID)

	// no expiry claim on purpose; revocation happens server-side
	assert.Nil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	t.Parallel()
	token, err := (&JWTManager{Secret: []byte("secret-a")}).GenerateToken("u1")
	require.NoError(t, err)

	_, err = (&JWTManager{Secret: []byte("secret-b")}).ParseToken(token)
	assert.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	t.Parallel()
	m := &JWTManager{Secret: []byte("unit-secret")}
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := m.ParseToken(tok)
		assert.Error(t, err, "token %q", tok)
	}
}
