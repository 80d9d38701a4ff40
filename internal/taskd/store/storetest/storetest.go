// Package storetest holds the behaviour every store.Store driver must share.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
	"github.com/aussiebroadwan/taskd/internal/taskd/store"
	"github.com/aussiebroadwan/taskd/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Run exercises a driver. newStore must return an empty, migrated store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("accounts", func(t *testing.T) { testAccounts(t, newStore(t)) })
	t.Run("tasks", func(t *testing.T) { testTasks(t, newStore(t)) })
	t.Run("bootstrap", func(t *testing.T) { testBootstrap(t, newStore(t)) })
	t.Run("tx", func(t *testing.T) { testTx(t, newStore(t)) })
}

// Account builds a USER account with a fresh id.
func Account(email string) domain.Account {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return domain.Account{
		ID:           idx.New().String(),
		Name:         "Test " + email,
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func task(owner string, title string, at time.Time) domain.Task {
	return domain.Task{
		ID:        idx.NewAt(at).String(),
		Title:     title,
		OwnerID:   owner,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func testAccounts(t *testing.T, s store.Store) {
	ctx := context.Background()

	empty, err := s.Accounts().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	ada := Account("ada@example.com")
	require.NoError(t, s.Accounts().CreateAccount(ctx, ada))

	dup := Account("ada@example.com")
	err = s.Accounts().CreateAccount(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := s.Accounts().GetAccountByID(ctx, ada.ID)
	require.NoError(t, err)
	require.Equal(t, ada.Email, got.Email)
	require.Equal(t, ada.PasswordHash, got.PasswordHash)
	require.Equal(t, domain.RoleUser, got.Role)
	require.WithinDuration(t, ada.CreatedAt, got.CreatedAt, time.Millisecond)

	got, err = s.Accounts().GetAccountByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, ada.ID, got.ID)

	_, err = s.Accounts().GetAccountByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Accounts().GetAccountByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)

	bob := Account("bob@example.com")
	bob.CreatedAt = ada.CreatedAt.Add(time.Second)
	require.NoError(t, s.Accounts().CreateAccount(ctx, bob))

	n, err := s.Accounts().CountAccounts(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	all, err := s.Accounts().ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, ada.ID, all[0].ID, "oldest first")

	bob.Role = domain.RoleAdmin
	bob.Name = "Robert"
	bob.UpdatedAt = bob.UpdatedAt.Add(time.Minute)
	require.NoError(t, s.Accounts().UpdateAccount(ctx, bob))
	got, err = s.Accounts().GetAccountByID(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, got.Role)
	require.Equal(t, "Robert", got.Name)

	bob.Email = ada.Email
	require.ErrorIs(t, s.Accounts().UpdateAccount(ctx, bob), store.ErrAlreadyExists)

	require.NoError(t, s.Accounts().DeleteAccount(ctx, bob.ID))
	require.ErrorIs(t, s.Accounts().DeleteAccount(ctx, bob.ID), store.ErrNotFound)
	require.ErrorIs(t, s.Accounts().UpdateAccount(ctx, bob), store.ErrNotFound)
}

func testTasks(t *testing.T, s store.Store) {
	ctx := context.Background()

	owner := Account("owner@example.com")
	other := Account("other@example.com")
	require.NoError(t, s.Accounts().CreateAccount(ctx, owner))
	require.NoError(t, s.Accounts().CreateAccount(ctx, other))

	orphan := task(idx.New().String(), "orphan", time.Now().UTC())
	require.ErrorIs(t, s.Tasks().CreateTask(ctx, orphan), store.ErrNotFound, "owner must exist")

	base := time.Now().UTC().Truncate(time.Millisecond)
	var ids []string
	for i := range 5 {
		tk := task(owner.ID, "task", base.Add(time.Duration(i)*time.Second))
		require.NoError(t, s.Tasks().CreateTask(ctx, tk))
		ids = append(ids, tk.ID)
	}
	require.NoError(t, s.Tasks().CreateTask(ctx, task(other.ID, "theirs", base)))

	n, err := s.Tasks().CountTasksByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 5, n)

	first, err := s.Tasks().ListTasksByOwner(ctx, owner.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, ids[4], first[0].ID, "newest first")
	require.Equal(t, ids[3], first[1].ID)

	last, err := s.Tasks().ListTasksByOwner(ctx, owner.ID, 2, 4)
	require.NoError(t, err)
	require.Len(t, last, 1)
	require.Equal(t, ids[0], last[0].ID)

	beyond, err := s.Tasks().ListTasksByOwner(ctx, owner.ID, 2, 10)
	require.NoError(t, err)
	require.Empty(t, beyond)

	got, err := s.Tasks().GetTaskByID(ctx, ids[0])
	require.NoError(t, err)
	require.False(t, got.IsCompleted)
	require.Equal(t, owner.ID, got.OwnerID)

	got.IsCompleted = true
	got.Title = "done"
	got.Description = "with notes"
	got.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, s.Tasks().UpdateTask(ctx, got))

	again, err := s.Tasks().GetTaskByID(ctx, ids[0])
	require.NoError(t, err)
	require.True(t, again.IsCompleted)
	require.Equal(t, "done", again.Title)
	require.Equal(t, "with notes", again.Description)
	require.Equal(t, owner.ID, again.OwnerID)

	require.NoError(t, s.Tasks().DeleteTask(ctx, ids[0]))
	require.ErrorIs(t, s.Tasks().DeleteTask(ctx, ids[0]), store.ErrNotFound)
	require.ErrorIs(t, s.Tasks().UpdateTask(ctx, got), store.ErrNotFound)
	_, err = s.Tasks().GetTaskByID(ctx, ids[0])
	require.ErrorIs(t, err, store.ErrNotFound)

	// deleting an account takes its tasks with it
	require.NoError(t, s.Accounts().DeleteAccount(ctx, owner.ID))
	n, err = s.Tasks().CountTasksByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func testBootstrap(t *testing.T, s store.Store) {
	ctx := context.Background()

	claimed, err := s.Bootstrap().Claimed(ctx)
	require.NoError(t, err)
	require.False(t, claimed)

	_, err = s.Bootstrap().GetClaim(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)

	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, s.Bootstrap().Claim(ctx, "first", at))
	require.ErrorIs(t, s.Bootstrap().Claim(ctx, "second", at.Add(time.Hour)), store.ErrAlreadyExists)

	claimed, err = s.Bootstrap().Claimed(ctx)
	require.NoError(t, err)
	require.True(t, claimed)

	claim, err := s.Bootstrap().GetClaim(ctx)
	require.NoError(t, err)
	require.Equal(t, "first", claim.AccountID)
	require.True(t, at.Equal(claim.ClaimedAt), "claimed_at %v", claim.ClaimedAt)
}

func testTx(t *testing.T, s store.Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Accounts().CreateAccount(ctx, Account("rolled@example.com")))
		require.NoError(t, tx.Bootstrap().Claim(ctx, "rolled", time.Now()))
		return boom
	})
	require.ErrorIs(t, err, boom)

	empty, err := s.Accounts().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty, "rolled back insert must not be visible")
	claimed, err := s.Bootstrap().Claimed(ctx)
	require.NoError(t, err)
	require.False(t, claimed)

	err = s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Accounts().CreateAccount(ctx, Account("kept@example.com"))
	})
	require.NoError(t, err)

	_, err = s.Accounts().GetAccountByEmail(ctx, "kept@example.com")
	require.NoError(t, err)

	tx, err := s.Tx(ctx)
	require.NoError(t, err)
	_, err = tx.Tx(ctx)
	require.Error(t, err, "nested transactions are refused")
	require.NoError(t, tx.Rollback())
}
