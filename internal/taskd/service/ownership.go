package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
	"github.com/aussiebroadwan/taskd/internal/taskd/store"
	"github.com/aussiebroadwan/taskd/pkg/idx"
)

// OwnershipEnforcer decides whether a caller may mutate a task.
type OwnershipEnforcer struct {
	Store store.Store
}

// AuthorizeMutation returns the task when callerID owns it. A missing task
// is reported before ownership is looked at. Malformed ids never reach the
// store.
func (e *OwnershipEnforcer) AuthorizeMutation(ctx context.Context, taskID, callerID string) (domain.Task, error) {
	return authorizeMutation(ctx, e.Store.Tasks(), taskID, callerID)
}

func authorizeMutation(ctx context.Context, tasks store.Tasks, taskID, callerID string) (domain.Task, error) {
	if !idx.Valid(taskID) {
		return domain.Task{}, ErrTaskNotFound
	}
	t, err := tasks.GetTaskByID(ctx, taskID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return domain.Task{}, fmt.Errorf("get task: %w", err)
	}
	if t.OwnerID != callerID {
		return domain.Task{}, ErrNotOwner
	}
	return t, nil
}
