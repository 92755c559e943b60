package repository

import (
	"context"

	"github.com/oksasatya/go-task-manager-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations,
// including the per-user session token set and the stored avatar bytes.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// DeleteCascade removes the user and every task it owns in a single
	// transaction; a partial cascade must never be left behind.
	DeleteCascade(ctx context.Context, id string) error

	AddToken(ctx context.Context, userID, token string) error
	RemoveToken(ctx context.Context, userID, token string) error
	RemoveAllTokens(ctx context.Context, userID string) error
	HasToken(ctx context.Context, userID, token string) (bool, error)

	UpdateAvatar(ctx context.Context, userID string, avatar []byte, avatarURL string) error
	GetAvatar(ctx context.Context, userID string) ([]byte, error)
	ClearAvatar(ctx context.Context, userID string) error
}
