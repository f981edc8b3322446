package mocks

import (
	"context"
	"database/sql"

	"github.com/thingworks/things-api/internal/store"
)

// MockTransactor implements service.Transactor for testing. It invokes the
// function directly with a nil transaction; the mock stores ignore the
// transaction handle, so this exercises the same code path without a
// database.
type MockTransactor struct {
	// Err, when set, is returned without invoking the function.
	Err error

	// Calls counts how many transactions were started.
	Calls int
}

// Transact implements the service.Transactor interface
func (m *MockTransactor) Transact(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx, (*sql.Tx)(nil))
}
