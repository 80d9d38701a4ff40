package service_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
	"github.com/aussiebroadwan/taskd/internal/taskd/service"
	"github.com/aussiebroadwan/taskd/internal/taskd/store/drivers/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestRegisterBootstrapIsAdmin(t *testing.T) {
	f := newMemFixture(t)
	ctx := context.Background()

	res, err := f.identity.Register(ctx, reg("Root", "root@example.com", "USER"), nil)
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, domain.RoleAdmin, res.Account.Role)
	require.Equal(t, "root@example.com", res.Account.Email)

	id := identityOf(t, f, res.Token)
	require.Equal(t, res.Account.ID, id.AccountID)
	require.Equal(t, domain.RoleAdmin, id.Role)

	claimed, err := f.store.Bootstrap().Claimed(ctx)
	require.NoError(t, err)
	require.True(t, claimed)

	require.Equal(t, []string{service.OutcomeBootstrap}, f.observer.outcomes)
}

func TestRegisterRequiresActorAfterBootstrap(t *testing.T) {
	f := newMemFixture(t)
	f.bootstrap(t)

	_, err := f.identity.Register(context.Background(), reg("Eve", "eve@example.com", ""), nil)
	require.ErrorIs(t, err, service.ErrAuthenticationRequired)
}

func TestRegisterEscalation(t *testing.T) {
	f := newMemFixture(t)
	ctx := context.Background()
	admin := f.bootstrap(t)
	user := f.user(t, admin, "bob@example.com")

	t.Run("user cannot create admin", func(t *testing.T) {
		_, err := f.identity.Register(ctx, reg("Mallory", "mallory@example.com", "ADMIN"), &user)
		require.ErrorIs(t, err, service.ErrRoleEscalation)
		require.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("user may create user", func(t *testing.T) {
		res, err := f.identity.Register(ctx, reg("Carol", "carol@example.com", "USER"), &user)
		require.NoError(t, err)
		require.Equal(t, domain.RoleUser, res.Account.Role)
	})

	t.Run("user default role", func(t *testing.T) {
		res, err := f.identity.Register(ctx, reg("Dan", "dan@example.com", ""), &user)
		require.NoError(t, err)
		require.Equal(t, domain.RoleUser, res.Account.Role)
	})

	t.Run("admin may create admin", func(t *testing.T) {
		res, err := f.identity.Register(ctx, reg("Erin", "erin@example.com", "ADMIN"), &admin)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, res.Account.Role)
	})
}

func TestRegisterValidationAndConflict(t *testing.T) {
	f := newMemFixture(t)
	ctx := context.Background()
	admin := f.bootstrap(t)

	_, err := f.identity.Register(ctx, domain.Registration{Name: "x", Email: "nope", Password: "1"}, &admin)
	require.ErrorIs(t, err, service.ErrValidation)
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "password")

	_, err = f.identity.Register(ctx, reg("Again", "root@example.com", ""), &admin)
	require.ErrorIs(t, err, service.ErrEmailInUse)
	require.ErrorIs(t, err, service.ErrConflict)

	n, err := f.store.Accounts().CountAccounts(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestRegisterValidatesBeforeBootstrap(t *testing.T) {
	f := newMemFixture(t)
	ctx := context.Background()

	_, err := f.identity.Register(ctx, domain.Registration{Name: "Root", Email: "root@example.com"}, nil)
	require.ErrorIs(t, err, service.ErrValidation)

	claimed, err := f.store.Bootstrap().Claimed(ctx)
	require.NoError(t, err)
	require.False(t, claimed)
}

func TestLoginAndValidate(t *testing.T) {
	f := newMemFixture(t)
	ctx := context.Background()
	f.bootstrap(t)

	res, err := f.identity.Login(ctx, "root@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, identityOf(t, f, res.Token).Role)

	_, wrongPw := f.identity.Login(ctx, "root@example.com", "wrong")
	_, unknown := f.identity.Login(ctx, "ghost@example.com", "secret1")
	require.ErrorIs(t, wrongPw, service.ErrInvalidCredentials)
	require.ErrorIs(t, unknown, service.ErrInvalidCredentials)
	require.Equal(t, wrongPw.Error(), unknown.Error())
	require.Equal(t, 1, f.hasher.dummies)

	view, ok, err := f.identity.Validate(ctx, "root@example.com", "secret1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "root@example.com", view.Email)

	view, ok, err = f.identity.Validate(ctx, "root@example.com", "nope")
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, view)
}

func TestConcurrentBootstrapYieldsOneAdmin(t *testing.T) {
	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "race.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	f := newFixture(t, s)
	ctx := context.Background()

	const racers = 8
	results := make([]error, racers)

	var g errgroup.Group
	for i := range racers {
		g.Go(func() error {
			_, results[i] = f.identity.Register(ctx, reg("Racer", fmt.Sprintf("racer%d@example.com", i), ""), nil)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		// Losers either lost inside the transaction or saw the winner first.
		assert.True(t, isConflictOrAuth(err), "unexpected error: %v", err)
	}
	require.Equal(t, 1, wins)

	accounts, err := s.Accounts().ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, domain.RoleAdmin, accounts[0].Role)
}

func isConflictOrAuth(err error) bool {
	return errors.Is(err, service.ErrBootstrapContended) || errors.Is(err, service.ErrAuthenticationRequired)
}

func TestBootstrapClaimUsesServiceClock(t *testing.T) {
	f := newMemFixture(t)
	ctx := context.Background()
	pinned := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f.identity.Now = func() time.Time { return pinned }

	res, err := f.identity.Register(ctx, reg("Root", "root@example.com", ""), nil)
	require.NoError(t, err)

	claim, err := f.store.Bootstrap().GetClaim(ctx)
	require.NoError(t, err)
	require.Equal(t, res.Account.ID, claim.AccountID)
	require.True(t, pinned.Equal(claim.ClaimedAt))
	require.True(t, pinned.Equal(res.Account.CreatedAt))
}

// Bootstrap is once per database. Emptying the account table afterwards
// does not reopen the first-admin path, for anonymous or admin callers.
func TestBootstrapNeverReopens(t *testing.T) {
	f := newMemFixture(t)
	ctx := context.Background()
	admin := f.bootstrap(t)

	require.NoError(t, f.store.Accounts().DeleteAccount(ctx, admin.AccountID))
	empty, err := f.store.Accounts().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	_, err = f.identity.Register(ctx, reg("Again", "again@example.com", ""), nil)
	require.ErrorIs(t, err, service.ErrBootstrapContended)
	require.ErrorIs(t, err, service.ErrConflict)

	_, err = f.identity.Register(ctx, reg("Again", "again@example.com", "ADMIN"), &admin)
	require.ErrorIs(t, err, service.ErrBootstrapContended)

	n, err := f.store.Accounts().CountAccounts(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}
