package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
)

type accountsRepo struct {
	q *queries
}

func scanAccount(row scanner) (domain.Account, error) {
	var (
		a    domain.Account
		role string
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &role, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return domain.Account{}, err
	}
	a.Role = domain.Role(role)
	return a, nil
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.q.db.ExecContext(ctx, createAccount,
		a.ID, a.Name, a.Email, a.PasswordHash, string(a.Role),
		a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	a, err := scanAccount(r.q.db.QueryRowContext(ctx, getAccountByID, id))
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	a, err := scanAccount(r.q.db.QueryRowContext(ctx, getAccountByEmail, email))
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.q.db.QueryContext(ctx, listAccounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *accountsRepo) UpdateAccount(ctx context.Context, a domain.Account) error {
	updatedAt := a.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	err := requireRow(r.q.db.ExecContext(ctx, updateAccount,
		a.Name, a.Email, a.PasswordHash, string(a.Role), updatedAt.UTC(), a.ID,
	))
	return mapConstraint(err)
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, id string) error {
	return requireRow(r.q.db.ExecContext(ctx, deleteAccount, id))
}

func (r *accountsRepo) CountAccounts(ctx context.Context) (int, error) {
	var n int
	err := r.q.db.QueryRowContext(ctx, countAccounts).Scan(&n)
	return n, err
}

func (r *accountsRepo) IsEmpty(ctx context.Context) (bool, error) {
	n, err := r.CountAccounts(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
