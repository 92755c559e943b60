package application

import "errors"

var (
	// ErrValidation wraps any bad-input failure generated at the service
	// layer (malformed email, weak password, empty description, ...).
	ErrValidation = errors.New("validation failed")

	// ErrDisallowedField rejects a patch containing a key outside the
	// whitelist. The whole patch is refused, nothing is applied.
	ErrDisallowedField = errors.New("attempt to change invalid property")

	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or revoked token")
	ErrUserNotFound       = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")

	ErrAvatarTooLarge = errors.New("avatar exceeds maximum size")
	ErrAvatarBadType  = errors.New("avatar must be a png, jpg or jpeg file")
	ErrAvatarNotFound = errors.New("no avatar stored")
)
