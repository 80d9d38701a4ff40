package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// memory) implement it and expose sub-repositories. Transactions are only
// started from the root so they cannot nest.
type Store interface {
	Accounts() Accounts
	Tasks() Tasks
	Bootstrap() Bootstrap

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing if fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// CreateAccount inserts a new account (id is provided by app via ULID).
	// A duplicate email yields ErrAlreadyExists.
	CreateAccount(ctx context.Context, a domain.Account) error

	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByEmail matches the email exactly as stored.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// ListAccounts returns every account, oldest first.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// UpdateAccount rewrites name, email, role and password hash, and bumps
	// updated_at.
	UpdateAccount(ctx context.Context, a domain.Account) error

	DeleteAccount(ctx context.Context, id string) error

	CountAccounts(ctx context.Context) (int, error)

	// IsEmpty returns true if there are no accounts.
	IsEmpty(ctx context.Context) (bool, error)
}

type Tasks interface {
	// CreateTask inserts a task. The owner must exist.
	CreateTask(ctx context.Context, t domain.Task) error

	GetTaskByID(ctx context.Context, id string) (domain.Task, error)

	// ListTasksByOwner returns one page of the owner's tasks, newest first.
	ListTasksByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Task, error)

	CountTasksByOwner(ctx context.Context, ownerID string) (int, error)

	// UpdateTask rewrites the mutable fields. A vanished row is ErrNotFound.
	UpdateTask(ctx context.Context, t domain.Task) error

	// DeleteTask removes a task. A vanished row is ErrNotFound.
	DeleteTask(ctx context.Context, id string) error
}

// BootstrapClaim is the single record left by the first-admin path.
type BootstrapClaim struct {
	AccountID string
	ClaimedAt time.Time
}

// Bootstrap guards the one-time first-admin path.
type Bootstrap interface {
	// Claim records that bootstrap happened at the given account. It succeeds
	// at most once for the life of the store; later calls get ErrAlreadyExists.
	Claim(ctx context.Context, accountID string, at time.Time) error

	// Claimed reports whether bootstrap has already happened.
	Claimed(ctx context.Context) (bool, error)

	// GetClaim returns the claim, or ErrNotFound before bootstrap.
	GetClaim(ctx context.Context) (BootstrapClaim, error)
}
