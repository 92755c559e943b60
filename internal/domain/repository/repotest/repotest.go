// Package repotest provides in-memory repository implementations for
// service and handler tests. The fakes mirror the SQL store's semantics,
// including the not-found conflation for foreign-owned tasks and the
// filter/sort/limit/skip behavior of task listing.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-task-manager-api/internal/domain/entity"
	"github.com/oksasatya/go-task-manager-api/internal/domain/repository"
)

// UserRepo is an in-memory repository.UserRepository.
type UserRepo struct {
	mu      sync.Mutex
	users   map[string]*entity.User
	tokens  map[string]map[string]bool
	avatars map[string][]byte
	now     time.Time

	// Tasks, when set, makes DeleteCascade mimic the transactional
	// task cascade of the SQL store.
	Tasks *TaskRepo
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		users:   make(map[string]*entity.User),
		tokens:  make(map[string]map[string]bool),
		avatars: make(map[string][]byte),
		now:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *UserRepo) tick() time.Time {
	r.now = r.now.Add(time.Second)
	return r.now
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.users {
		if strings.EqualFold(other.Email, u.Email) {
			return repository.ErrConflict
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = r.tick()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, other := range r.users {
		if other.ID != u.ID && strings.EqualFold(other.Email, u.Email) {
			return repository.ErrConflict
		}
	}
	u.CreatedAt = stored.CreatedAt
	u.UpdatedAt = r.tick()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) DeleteCascade(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	delete(r.tokens, id)
	delete(r.avatars, id)
	if r.Tasks != nil {
		r.Tasks.deleteOwned(id)
	}
	return nil
}

func (r *UserRepo) AddToken(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tokens[userID] == nil {
		r.tokens[userID] = make(map[string]bool)
	}
	r.tokens[userID][token] = true
	return nil
}

func (r *UserRepo) RemoveToken(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens[userID], token)
	return nil
}

func (r *UserRepo) RemoveAllTokens(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, userID)
	return nil
}

func (r *UserRepo) HasToken(_ context.Context, userID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens[userID][token], nil
}

func (r *UserRepo) UpdateAvatar(_ context.Context, userID string, avatar []byte, avatarURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	r.avatars[userID] = avatar
	u.AvatarURL = avatarURL
	return nil
}

func (r *UserRepo) GetAvatar(_ context.Context, userID string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return nil, repository.ErrNotFound
	}
	b := r.avatars[userID]
	if len(b) == 0 {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

func (r *UserRepo) ClearAvatar(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.avatars, userID)
	if u, ok := r.users[userID]; ok {
		u.AvatarURL = ""
	}
	return nil
}

var _ repository.UserRepository = (*UserRepo)(nil)

// TaskRepo is an in-memory repository.TaskRepository.
type TaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*entity.Task
	now   time.Time
}

func NewTaskRepo() *TaskRepo {
	return &TaskRepo{
		tasks: make(map[string]*entity.Task),
		now:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *TaskRepo) tick() time.Time {
	r.now = r.now.Add(time.Second)
	return r.now
}

func (r *TaskRepo) deleteOwned(ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tasks {
		if t.OwnerID == ownerID {
			delete(r.tasks, id)
		}
	}
}

func (r *TaskRepo) Create(_ context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = uuid.NewString()
	t.CreatedAt = r.tick()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *TaskRepo) GetByOwnerAndID(_ context.Context, ownerID, id string) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *TaskRepo) ListByOwner(_ context.Context, ownerID string, opts repository.TaskListOptions) ([]*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.Task, 0)
	for _, t := range r.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if opts.Completed != nil && t.Completed != *opts.Completed {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		var less bool
		switch opts.SortField {
		case "description":
			less = out[i].Description < out[j].Description
		case "completed":
			less = !out[i].Completed && out[j].Completed
		case "updatedAt", "updated_at":
			less = out[i].UpdatedAt.Before(out[j].UpdatedAt)
		default:
			less = out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		if opts.SortDesc {
			return !less
		}
		return less
	})

	if opts.Skip > 0 {
		if opts.Skip >= len(out) {
			return []*entity.Task{}, nil
		}
		out = out[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (r *TaskRepo) Update(_ context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tasks[t.ID]
	if !ok || stored.OwnerID != t.OwnerID {
		return repository.ErrNotFound
	}
	t.CreatedAt = stored.CreatedAt
	t.UpdatedAt = r.tick()
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *TaskRepo) DeleteByOwnerAndID(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

var _ repository.TaskRepository = (*TaskRepo)(nil)
