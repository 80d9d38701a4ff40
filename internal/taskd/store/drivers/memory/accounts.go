package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
	"github.com/aussiebroadwan/taskd/internal/taskd/store"
)

type accountsRepo struct {
	run runner
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	return r.run(func(st *state) error {
		if _, ok := st.accounts[a.ID]; ok {
			return fmt.Errorf("%w: account id %s", store.ErrAlreadyExists, a.ID)
		}
		if _, ok := st.emails[a.Email]; ok {
			return fmt.Errorf("%w: email", store.ErrAlreadyExists)
		}
		st.accounts[a.ID] = a
		st.emails[a.Email] = a.ID
		return nil
	})
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	var out domain.Account
	err := r.run(func(st *state) error {
		a, ok := st.accounts[id]
		if !ok {
			return store.ErrNotFound
		}
		out = a
		return nil
	})
	return out, err
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	var out domain.Account
	err := r.run(func(st *state) error {
		id, ok := st.emails[email]
		if !ok {
			return store.ErrNotFound
		}
		out = st.accounts[id]
		return nil
	})
	return out, err
}

func (r *accountsRepo) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var out []domain.Account
	err := r.run(func(st *state) error {
		out = make([]domain.Account, 0, len(st.accounts))
		for _, a := range st.accounts {
			out = append(out, a)
		}
		slices.SortFunc(out, func(a, b domain.Account) int {
			if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
				return c
			}
			return strings.Compare(a.ID, b.ID)
		})
		return nil
	})
	return out, err
}

func (r *accountsRepo) UpdateAccount(ctx context.Context, a domain.Account) error {
	return r.run(func(st *state) error {
		prev, ok := st.accounts[a.ID]
		if !ok {
			return store.ErrNotFound
		}
		if owner, taken := st.emails[a.Email]; taken && owner != a.ID {
			return fmt.Errorf("%w: email", store.ErrAlreadyExists)
		}
		delete(st.emails, prev.Email)
		a.CreatedAt = prev.CreatedAt
		st.accounts[a.ID] = a
		st.emails[a.Email] = a.ID
		return nil
	})
}

// DeleteAccount removes the account and, like the SQL schema, its tasks.
func (r *accountsRepo) DeleteAccount(ctx context.Context, id string) error {
	return r.run(func(st *state) error {
		a, ok := st.accounts[id]
		if !ok {
			return store.ErrNotFound
		}
		delete(st.accounts, id)
		delete(st.emails, a.Email)
		for tid, t := range st.tasks {
			if t.OwnerID == id {
				delete(st.tasks, tid)
			}
		}
		return nil
	})
}

func (r *accountsRepo) CountAccounts(ctx context.Context) (int, error) {
	var n int
	err := r.run(func(st *state) error {
		n = len(st.accounts)
		return nil
	})
	return n, err
}

func (r *accountsRepo) IsEmpty(ctx context.Context) (bool, error) {
	n, err := r.CountAccounts(ctx)
	return n == 0, err
}
