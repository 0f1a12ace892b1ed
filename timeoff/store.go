/*
store.go - Persistence interface for employees and their ledgers

PURPOSE:
  Defines the boundary between the engine and storage. One profile and one
  ledger document per employee; the ledger is replaced wholesale on every
  write.

OPTIMISTIC LOCKING:
  Every stored ledger carries a version, starting at 1. SaveLedger is a
  compare-and-swap on that version: a writer that loaded version N may only
  store version N+1. A stale writer gets generic.ErrConcurrentModification
  and the stored snapshot is left untouched, so callers "roll back" simply by
  discarding their copy.

NOT FOUND:
  Getters return (nil, nil) for an unknown employee. Deletes of an unknown
  employee return generic.ErrNotFound.

IMPLEMENTATIONS:
  - store/sqlite: SQLite with embedded migrations
  - store/memory: In-memory for tests and ephemeral servers
*/
package timeoff

import (
	"context"
	"time"

	"github.com/warp/leave-ledger/generic"
)

// LedgerRecord is a stored ledger together with its version.
type LedgerRecord struct {
	EmployeeID generic.EmployeeID
	Ledger     Ledger
	Version    int64
	UpdatedAt  time.Time
}

// Store persists employee profiles and ledgers. Implementations must be safe
// for concurrent use.
type Store interface {
	// CreateEmployee stores a new profile with its initial ledger at
	// version 1. Returns generic.ErrAlreadyExists if the id is taken.
	CreateEmployee(ctx context.Context, emp Employee, ledger Ledger) error

	GetEmployee(ctx context.Context, id generic.EmployeeID) (*Employee, error)

	// ListEmployees returns every profile ordered by name.
	ListEmployees(ctx context.Context) ([]Employee, error)

	// DeleteEmployee removes the profile and its ledger.
	DeleteEmployee(ctx context.Context, id generic.EmployeeID) error

	GetLedger(ctx context.Context, id generic.EmployeeID) (*LedgerRecord, error)

	// ListLedgers returns the current ledger of every employee.
	ListLedgers(ctx context.Context) (map[generic.EmployeeID]Ledger, error)

	// SaveLedger replaces the ledger if its stored version equals
	// expectedVersion and returns the new version.
	SaveLedger(ctx context.Context, id generic.EmployeeID, ledger Ledger, expectedVersion int64) (int64, error)

	Close() error
}
