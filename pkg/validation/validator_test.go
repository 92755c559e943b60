package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "ok", password: "s3cure!pw"},
		{name: "exactly six chars", password: "sixsix"},
		{name: "too short", password: "five5", wantErr: ErrPasswordTooShort},
		{name: "empty", password: "", wantErr: ErrPasswordTooShort},
		{name: "contains password", password: "mypassword", wantErr: ErrPasswordForbidden},
		{name: "is password", password: "password", wantErr: ErrPasswordForbidden},
		{name: "uppercase variant allowed", password: "PASSWORD1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := CheckPassword(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCheckEmail(t *testing.T) {
	t.Parallel()
	assert.True(t, CheckEmail("user@example.com"))
	assert.True(t, CheckEmail("first.last+tag@sub.example.co"))
	assert.False(t, CheckEmail(""))
	assert.False(t, CheckEmail("not-an-email"))
	assert.False(t, CheckEmail("missing@tld@double.com"))
}

func TestToDetails(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, ToDetails(nil))
	})

	t.Run("json syntax error", func(t *testing.T) {
		var v struct{}
		err := json.Unmarshal([]byte("{"), &v)
		require.Error(t, err)
		assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	})

	t.Run("validator errors keyed by field", func(t *testing.T) {
		type payload struct {
			Email string `validate:"required,email"`
			Name  string `validate:"required"`
		}
		err := validator.New().Struct(payload{Email: "nope"})
		require.Error(t, err)

		details := ToDetails(err)
		assert.Equal(t, "must be a valid email", details["Email"])
		assert.Equal(t, "is required", details["Name"])
	})

	t.Run("unknown error falls back", func(t *testing.T) {
		assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(assert.AnError))
	})
}
