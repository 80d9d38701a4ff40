package sqlite

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB and *sql.Tx the queries need, so the same
// repos run inside and outside a transaction.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type queries struct {
	db DBTX
}

const accountColumns = `id, name, email, password_hash, role, created_at, updated_at`

const (
	createAccount = `INSERT INTO accounts (` + accountColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	getAccountByID = `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`

	getAccountByEmail = `SELECT ` + accountColumns + ` FROM accounts WHERE email = ?`

	listAccounts = `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at ASC, id ASC`

	updateAccount = `UPDATE accounts
SET name = ?, email = ?, password_hash = ?, role = ?, updated_at = ?
WHERE id = ?`

	deleteAccount = `DELETE FROM accounts WHERE id = ?`

	countAccounts = `SELECT COUNT(*) FROM accounts`
)

const taskColumns = `id, title, description, is_completed, owner_id, created_at, updated_at`

const (
	createTask = `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	getTaskByID = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	listTasksByOwner = `SELECT ` + taskColumns + ` FROM tasks
WHERE owner_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`

	countTasksByOwner = `SELECT COUNT(*) FROM tasks WHERE owner_id = ?`

	updateTask = `UPDATE tasks
SET title = ?, description = ?, is_completed = ?, updated_at = ?
WHERE id = ?`

	deleteTask = `DELETE FROM tasks WHERE id = ?`
)

const (
	claimBootstrap = `INSERT INTO bootstrap (id, account_id, claimed_at) VALUES (1, ?, ?)`

	bootstrapClaimed = `SELECT EXISTS (SELECT 1 FROM bootstrap WHERE id = 1)`

	getBootstrapClaim = `SELECT account_id, claimed_at FROM bootstrap WHERE id = 1`
)

type scanner interface {
	Scan(dest ...any) error
}
