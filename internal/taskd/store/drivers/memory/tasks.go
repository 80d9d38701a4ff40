package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
	"github.com/aussiebroadwan/taskd/internal/taskd/store"
)

type tasksRepo struct {
	run runner
}

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	return r.run(func(st *state) error {
		if _, ok := st.accounts[t.OwnerID]; !ok {
			return fmt.Errorf("%w: owner %s", store.ErrNotFound, t.OwnerID)
		}
		if _, ok := st.tasks[t.ID]; ok {
			return fmt.Errorf("%w: task id %s", store.ErrAlreadyExists, t.ID)
		}
		st.tasks[t.ID] = t
		return nil
	})
}

func (r *tasksRepo) GetTaskByID(ctx context.Context, id string) (domain.Task, error) {
	var out domain.Task
	err := r.run(func(st *state) error {
		t, ok := st.tasks[id]
		if !ok {
			return store.ErrNotFound
		}
		out = t
		return nil
	})
	return out, err
}

func (r *tasksRepo) ListTasksByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Task, error) {
	var out []domain.Task
	err := r.run(func(st *state) error {
		owned := make([]domain.Task, 0)
		for _, t := range st.tasks {
			if t.OwnerID == ownerID {
				owned = append(owned, t)
			}
		}
		// newest first, id breaks ties
		slices.SortFunc(owned, func(a, b domain.Task) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return strings.Compare(b.ID, a.ID)
		})

		if offset < 0 || limit < 0 {
			return fmt.Errorf("memory: negative limit %d or offset %d", limit, offset)
		}
		if offset >= len(owned) {
			out = []domain.Task{}
			return nil
		}
		end := offset + min(limit, len(owned)-offset)
		out = owned[offset:end]
		return nil
	})
	return out, err
}

func (r *tasksRepo) CountTasksByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.run(func(st *state) error {
		for _, t := range st.tasks {
			if t.OwnerID == ownerID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *tasksRepo) UpdateTask(ctx context.Context, t domain.Task) error {
	return r.run(func(st *state) error {
		prev, ok := st.tasks[t.ID]
		if !ok {
			return store.ErrNotFound
		}
		prev.Title = t.Title
		prev.Description = t.Description
		prev.IsCompleted = t.IsCompleted
		prev.UpdatedAt = t.UpdatedAt
		st.tasks[t.ID] = prev
		return nil
	})
}

func (r *tasksRepo) DeleteTask(ctx context.Context, id string) error {
	return r.run(func(st *state) error {
		if _, ok := st.tasks[id]; !ok {
			return store.ErrNotFound
		}
		delete(st.tasks, id)
		return nil
	})
}
