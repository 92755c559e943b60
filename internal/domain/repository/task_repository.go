package repository

import (
	"context"

	"github.com/oksasatya/go-task-manager-api/internal/domain/entity"
)

// TaskListOptions narrows and orders an owner-scoped task listing.
// SortField must already be vetted against the sortable column set.
type TaskListOptions struct {
	Completed *bool
	SortField string
	SortDesc  bool
	Limit     int // <= 0 means no limit
	Skip      int // <= 0 means no skip
}

// TaskRepository defines the interface for task persistence. Every lookup
// and mutation is keyed by (owner, id) so a foreign task behaves exactly
// like a missing one.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByOwnerAndID(ctx context.Context, ownerID, id string) (*entity.Task, error)
	ListByOwner(ctx context.Context, ownerID string, opts TaskListOptions) ([]*entity.Task, error)
	Update(ctx context.Context, t *entity.Task) error
	DeleteByOwnerAndID(ctx context.Context, ownerID, id string) error
}
