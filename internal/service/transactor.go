package service

import (
	"context"
	"database/sql"

	"github.com/thingworks/things-api/internal/store"
)

// Transactor runs a function within a database transaction boundary.
// Services depend on this interface instead of *sql.DB directly so unit
// tests can substitute a pass-through implementation.
type Transactor interface {
	// Transact executes fn inside a transaction, committing on nil and
	// rolling back on error.
	Transact(ctx context.Context, fn store.TxFn) error
}

// SQLTransactor implements Transactor over a real database connection.
type SQLTransactor struct {
	db *sql.DB
}

// NewSQLTransactor creates a Transactor backed by the given database.
func NewSQLTransactor(db *sql.DB) *SQLTransactor {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	return &SQLTransactor{db: db}
}

// Transact implements Transactor using store.RunInTransaction.
func (t *SQLTransactor) Transact(ctx context.Context, fn store.TxFn) error {
	return store.RunInTransaction(ctx, t.db, fn)
}
