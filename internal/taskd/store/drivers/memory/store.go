// Package memory is an in-process store.Store used by tests and local runs.
// A transaction holds the store lock from Tx until Commit or Rollback, so
// transactions serialize the way SQLite BEGIN IMMEDIATE does. Code running
// inside WithTx must use the tx handle, not the root store.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
	"github.com/aussiebroadwan/taskd/internal/taskd/store"
)

var ErrTxDone = errors.New("memory: transaction already committed or rolled back")

type state struct {
	accounts  map[string]domain.Account
	emails    map[string]string // email -> account id
	tasks     map[string]domain.Task
	bootstrap *store.BootstrapClaim // nil until claimed; never mutated after
}

func newState() *state {
	return &state{
		accounts: make(map[string]domain.Account),
		emails:   make(map[string]string),
		tasks:    make(map[string]domain.Task),
	}
}

func (s *state) clone() *state {
	return &state{
		accounts:  maps.Clone(s.accounts),
		emails:    maps.Clone(s.emails),
		tasks:     maps.Clone(s.tasks),
		bootstrap: s.bootstrap,
	}
}

type runner func(fn func(*state) error) error

type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) run(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

func (s *Store) Accounts() store.Accounts   { return &accountsRepo{run: s.run} }
func (s *Store) Tasks() store.Tasks         { return &tasksRepo{run: s.run} }
func (s *Store) Bootstrap() store.Bootstrap { return &bootstrapRepo{run: s.run} }

func (s *Store) ApplyMigrations() error         { return nil }
func (s *Store) Close() error                   { return nil }
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// Tx locks the store and works on a copy of its state until Commit.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &txStore{parent: s, st: s.st.clone()}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type txStore struct {
	parent *Store
	st     *state
	done   bool
}

func (t *txStore) run(fn func(*state) error) error {
	if t.done {
		return ErrTxDone
	}
	return fn(t.st)
}

func (t *txStore) Commit() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	t.parent.st = t.st
	t.parent.mu.Unlock()
	return nil
}

func (t *txStore) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.parent.mu.Unlock()
	return nil
}

func (t *txStore) Accounts() store.Accounts   { return &accountsRepo{run: t.run} }
func (t *txStore) Tasks() store.Tasks         { return &tasksRepo{run: t.run} }
func (t *txStore) Bootstrap() store.Bootstrap { return &bootstrapRepo{run: t.run} }

func (t *txStore) ApplyMigrations() error         { return nil }
func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return ErrTxDone
}
