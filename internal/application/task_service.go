package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager-api/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager-api/internal/domain/repository"
)

// allowed keys for PATCH /tasks/:id
var taskPatchFields = map[string]struct{}{
	"description": {},
	"completed":   {},
}

// TaskService implements the ownership-scoped task CRUD. The owner always
// comes from the authenticated context, never from client input, and a
// task belonging to someone else is indistinguishable from a missing one.
type TaskService struct {
	Repo   repo.TaskRepository
	Logger *logrus.Logger
	Index  *TaskIndexer
}

func NewTaskService(r repo.TaskRepository, logger *logrus.Logger, index *TaskIndexer) *TaskService {
	return &TaskService{Repo: r, Logger: logger, Index: index}
}

// ParseListOptions parses the raw list query parameters. Invalid or absent
// limit/skip values mean "no limit" / "no skip"; sortBy is a
// "field:asc|desc" token where anything but "asc" sorts descending.
func ParseListOptions(completed, sortBy, limit, skip string) repo.TaskListOptions {
	opts := repo.TaskListOptions{}

	if completed != "" {
		v := strings.EqualFold(completed, "true")
		opts.Completed = &v
	}

	if sortBy != "" {
		parts := strings.SplitN(sortBy, ":", 2)
		opts.SortField = parts[0]
		opts.SortDesc = len(parts) < 2 || !strings.EqualFold(parts[1], "asc")
	}

	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		opts.Limit = n
	}
	if n, err := strconv.Atoi(skip); err == nil && n > 0 {
		opts.Skip = n
	}

	return opts
}

func (s *TaskService) Create(ctx context.Context, ownerID, description string, completed bool) (*entity.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}

	t := &entity.Task{Description: description, Completed: completed, OwnerID: ownerID}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.Index.IndexTask(ctx, t)
	return t, nil
}

func (s *TaskService) List(ctx context.Context, ownerID string, opts repo.TaskListOptions) ([]*entity.Task, error) {
	return s.Repo.ListByOwner(ctx, ownerID, opts)
}

func (s *TaskService) Get(ctx context.Context, ownerID, id string) (*entity.Task, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrTaskNotFound
	}
	t, err := s.Repo.GetByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// Update applies a whitelisted patch. A patch containing any key outside
// {description,completed} is rejected wholesale and the task is unchanged.
func (s *TaskService) Update(ctx context.Context, ownerID, id string, patch map[string]json.RawMessage) (*entity.Task, error) {
	for key := range patch {
		if _, ok := taskPatchFields[key]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrDisallowedField, key)
		}
	}

	t, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if raw, ok := patch["description"]; ok {
		var description string
		if err := json.Unmarshal(raw, &description); err != nil {
			return nil, fmt.Errorf("%w: description must be a string", ErrValidation)
		}
		description = strings.TrimSpace(description)
		if description == "" {
			return nil, fmt.Errorf("%w: description is required", ErrValidation)
		}
		t.Description = description
	}
	if raw, ok := patch["completed"]; ok {
		var completed bool
		if err := json.Unmarshal(raw, &completed); err != nil {
			return nil, fmt.Errorf("%w: completed must be a boolean", ErrValidation)
		}
		t.Completed = completed
	}

	if err := s.Repo.Update(ctx, t); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	s.Index.IndexTask(ctx, t)
	return t, nil
}

// Delete removes the task and returns its last state.
func (s *TaskService) Delete(ctx context.Context, ownerID, id string) (*entity.Task, error) {
	t, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.DeleteByOwnerAndID(ctx, ownerID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	s.Index.DeleteTask(ctx, id)
	return t, nil
}

// Search queries the caller's tasks in Elasticsearch.
func (s *TaskService) Search(ctx context.Context, ownerID, q string, size int) ([]map[string]any, error) {
	return s.Index.SearchByOwner(ctx, ownerID, q, size)
}
