package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
	"github.com/aussiebroadwan/taskd/internal/taskd/store"
	"github.com/aussiebroadwan/taskd/pkg/idx"
)

type AccountService struct {
	Store store.Store
}

// GetAccount fetches the sanitized view of an account.
func (s *AccountService) GetAccount(ctx context.Context, id string) (domain.AccountView, error) {
	if !idx.Valid(id) {
		return domain.AccountView{}, ErrAccountNotFound
	}
	a, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.AccountView{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.AccountView{}, fmt.Errorf("get account: %w", err)
	}
	return a.View(), nil
}

// ListAccounts returns every account, oldest first.
func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.AccountView, error) {
	accounts, err := s.Store.Accounts().ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]domain.AccountView, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.View())
	}
	return out, nil
}
