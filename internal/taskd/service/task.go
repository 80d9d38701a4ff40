package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
	"github.com/aussiebroadwan/taskd/internal/taskd/store"
	"github.com/aussiebroadwan/taskd/pkg/idx"
	"github.com/aussiebroadwan/taskd/pkg/slogx"
)

type TaskService struct {
	Store     store.Store
	Ownership *OwnershipEnforcer

	// Now is overridable in tests.
	Now func() time.Time
}

func (s *TaskService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create stores a new, incomplete task owned by ownerID.
func (s *TaskService) Create(ctx context.Context, ownerID string, in domain.NewTask) (domain.Task, error) {
	if err := invalid(in.Validate()); err != nil {
		return domain.Task{}, err
	}

	now := s.now().UTC()
	t := domain.Task{
		ID:          idx.NewAt(now).String(),
		Title:       in.Title,
		Description: in.Description,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Store.Tasks().CreateTask(ctx, t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Task{}, ErrAccountNotFound
		}
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}

	slogx.FromContext(ctx).Debug("task created", slog.String("task_id", t.ID), slog.String("owner_id", ownerID))
	return t, nil
}

// Get returns any task by id; reads are not owner-restricted.
func (s *TaskService) Get(ctx context.Context, id string) (domain.Task, error) {
	if !idx.Valid(id) {
		return domain.Task{}, ErrTaskNotFound
	}
	t, err := s.Store.Tasks().GetTaskByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return domain.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListOwned returns one page of ownerID's tasks, newest first.
func (s *TaskService) ListOwned(ctx context.Context, ownerID string, req domain.PageRequest) (domain.Page[domain.Task], error) {
	if err := invalid(req.Validate()); err != nil {
		return domain.Page[domain.Task]{}, err
	}
	req = req.Normalize()

	total, err := s.Store.Tasks().CountTasksByOwner(ctx, ownerID)
	if err != nil {
		return domain.Page[domain.Task]{}, fmt.Errorf("count tasks: %w", err)
	}

	tasks, err := s.Store.Tasks().ListTasksByOwner(ctx, ownerID, req.Limit, req.Offset())
	if err != nil {
		return domain.Page[domain.Task]{}, fmt.Errorf("list tasks: %w", err)
	}

	return domain.NewPage(tasks, total, req), nil
}

// Update applies patch to a task the caller owns. An empty patch returns
// the task unchanged.
func (s *TaskService) Update(ctx context.Context, id, callerID string, patch domain.TaskPatch) (domain.Task, error) {
	if err := invalid(patch.Validate()); err != nil {
		return domain.Task{}, err
	}

	t, err := s.Ownership.AuthorizeMutation(ctx, id, callerID)
	if err != nil {
		return domain.Task{}, err
	}
	if patch.IsEmpty() {
		return t, nil
	}

	t = patch.Apply(t)
	t.UpdatedAt = s.now().UTC()

	if err := s.Store.Tasks().UpdateTask(ctx, t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Task{}, ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

// Delete removes a task the caller owns.
func (s *TaskService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.Ownership.AuthorizeMutation(ctx, id, callerID); err != nil {
		return err
	}

	if err := s.Store.Tasks().DeleteTask(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}

	slogx.FromContext(ctx).Debug("task deleted", slog.String("task_id", id), slog.String("by", callerID))
	return nil
}
