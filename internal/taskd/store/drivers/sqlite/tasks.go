package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
)

type tasksRepo struct {
	q *queries
}

func scanTask(row scanner) (domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	_, err := r.q.db.ExecContext(ctx, createTask,
		t.ID, t.Title, t.Description, t.IsCompleted, t.OwnerID,
		t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *tasksRepo) GetTaskByID(ctx context.Context, id string) (domain.Task, error) {
	t, err := scanTask(r.q.db.QueryRowContext(ctx, getTaskByID, id))
	if err != nil {
		return domain.Task{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tasksRepo) ListTasksByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Task, error) {
	rows, err := r.q.db.QueryContext(ctx, listTasksByOwner, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *tasksRepo) CountTasksByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.q.db.QueryRowContext(ctx, countTasksByOwner, ownerID).Scan(&n)
	return n, err
}

func (r *tasksRepo) UpdateTask(ctx context.Context, t domain.Task) error {
	updatedAt := t.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	return requireRow(r.q.db.ExecContext(ctx, updateTask,
		t.Title, t.Description, t.IsCompleted, updatedAt.UTC(), t.ID,
	))
}

func (r *tasksRepo) DeleteTask(ctx context.Context, id string) error {
	return requireRow(r.q.db.ExecContext(ctx, deleteTask, id))
}
