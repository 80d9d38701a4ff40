package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/taskd/internal/taskd/store"
	"github.com/aussiebroadwan/taskd/internal/taskd/store/drivers/sqlite"
	"github.com/aussiebroadwan/taskd/internal/taskd/store/storetest"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "taskd.db")))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return newFileStore(t)
	})
}

func TestSQLiteInMemory(t *testing.T) {
	s, err := sqlite.NewStore(sqlite.DSN(":memory:"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	empty, err := s.Accounts().IsEmpty(t.Context())
	require.NoError(t, err)
	require.True(t, empty)
}

func TestApplyMigrationsIdempotent(t *testing.T) {
	s := newFileStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(t.Context()))
}

func TestRoleCheckConstraint(t *testing.T) {
	s := newFileStore(t)
	a := storetest.Account("weird@example.com")
	a.Role = "ROOT"
	require.Error(t, s.Accounts().CreateAccount(t.Context(), a))
}
