package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement it. Repositories hang off it as methods so a Tx can
// hand out the same repositories bound to the transaction.
type Store interface {
	Users() Users
	Approvals() Approvals
	Transactions() Transactions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction. It commits when fn returns nil and
	// rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail expects an already normalised email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts u. A taken email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser overwrites the mutable fields of u (name, email, password
	// hash, role, permission, whitelist flag) and bumps updated_at.
	UpdateUser(ctx context.Context, u domain.User) error

	DeleteUser(ctx context.Context, id string) error

	// ListUsers returns every user with its transaction count, newest first.
	ListUsers(ctx context.Context) ([]domain.UserSummary, error)

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Approvals interface {
	// UpsertApproval inserts a by email, or replaces role and permission of
	// the existing approval for that email. It returns the stored row.
	UpsertApproval(ctx context.Context, a domain.Approval) (domain.Approval, error)

	GetApprovalByEmail(ctx context.Context, email string) (domain.Approval, error)
	GetApprovalByID(ctx context.Context, id string) (domain.Approval, error)

	// ListApprovals returns every approval, newest first.
	ListApprovals(ctx context.Context) ([]domain.Approval, error)

	DeleteApproval(ctx context.Context, id string) error

	// DeleteApprovalByEmail is a no-op when nothing matches.
	DeleteApprovalByEmail(ctx context.Context, email string) error

	// UpdateApprovalEmail moves the approval for from onto to. It is a no-op
	// when from has no approval and yields ErrAlreadyExists when to has one.
	UpdateApprovalEmail(ctx context.Context, from, to string, at time.Time) error
}

type Transactions interface {
	CreateTransaction(ctx context.Context, t domain.Transaction) error

	// GetTransaction returns the row with its owner projection, which is nil
	// when the owner no longer exists.
	GetTransaction(ctx context.Context, id string) (domain.Transaction, error)

	// UpdateTransaction overwrites type, amount, category, description and
	// date, and bumps updated_at.
	UpdateTransaction(ctx context.Context, t domain.Transaction) error

	DeleteTransaction(ctx context.Context, id string) error

	// ListTransactions returns matching rows with owners, newest created
	// first. A positive f.Limit caps the result.
	ListTransactions(ctx context.Context, f domain.TransactionFilter) ([]domain.Transaction, error)
}
