/*
Package sqlite provides a SQLite-backed implementation of timeoff.Store.

PURPOSE:
  Persists employee profiles and their leave ledgers. Each ledger is stored
  as a single JSON document (the same shape the HTTP API serves) next to a
  version counter used for optimistic locking.

KEY TABLES:
  employees: Profile records (id, name, legal id, department, hire date)
  ledgers:   One JSON document + version per employee

OPTIMISTIC LOCKING:
  SaveLedger issues
    UPDATE ledgers SET ..., version = version + 1
    WHERE employee_id = ? AND version = ?
  and reports generic.ErrConcurrentModification when no row matched but the
  employee exists.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking. The
  pool is limited to one connection so ":memory:" databases are shared by
  every query.

MIGRATION:
  Schema is applied on New() from the embedded migrations/ directory with
  golang-migrate (migrate.go).

USAGE:
  store, err := sqlite.New("./data/leave.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - timeoff/store.go: Interface definition
  - store/memory: In-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/warp/leave-ledger/generic"
	"github.com/warp/leave-ledger/timeoff"
)

// Store implements timeoff.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ timeoff.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection; it backs the readiness endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// CreateEmployee inserts the profile and its first ledger atomically.
func (s *Store) CreateEmployee(ctx context.Context, emp timeoff.Employee, ledger timeoff.Ledger) error {
	doc, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO employees (id, name, legal_id, department, hire_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(emp.ID), emp.Name, emp.LegalID, emp.Department,
		emp.HireDate.String(),
		emp.CreatedAt.Format(time.RFC3339),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("employee %s: %w", emp.ID, generic.ErrAlreadyExists)
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledgers (employee_id, document, version, updated_at)
		VALUES (?, ?, 1, ?)`,
		string(emp.ID), string(doc), now.Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id generic.EmployeeID) (*timeoff.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, legal_id, department, hire_date, created_at FROM employees WHERE id = ?",
		string(id),
	)
	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns all employees.
func (s *Store) ListEmployees(ctx context.Context) ([]timeoff.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, legal_id, department, hire_date, created_at FROM employees ORDER BY name, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []timeoff.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee; the ledger goes with it.
func (s *Store) DeleteEmployee(ctx context.Context, id generic.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (timeoff.Employee, error) {
	var emp timeoff.Employee
	var id, hireDate, createdAt string
	if err := row.Scan(&id, &emp.Name, &emp.LegalID, &emp.Department, &hireDate, &createdAt); err != nil {
		return emp, err
	}
	emp.ID = generic.EmployeeID(id)

	var err error
	if emp.HireDate, err = generic.ParseDate(hireDate); err != nil {
		return emp, fmt.Errorf("employee %s: %w", id, err)
	}
	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return emp, nil
}

// =============================================================================
// LEDGERS
// =============================================================================

// GetLedger loads the ledger document of an employee.
func (s *Store) GetLedger(ctx context.Context, id generic.EmployeeID) (*timeoff.LedgerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc, updatedAt string
	rec := timeoff.LedgerRecord{EmployeeID: id}
	err := s.db.QueryRowContext(ctx,
		"SELECT document, version, updated_at FROM ledgers WHERE employee_id = ?",
		string(id),
	).Scan(&doc, &rec.Version, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(doc), &rec.Ledger); err != nil {
		return nil, fmt.Errorf("decode ledger %s: %w", id, err)
	}
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rec, nil
}

// ListLedgers loads every ledger.
func (s *Store) ListLedgers(ctx context.Context) (map[generic.EmployeeID]timeoff.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT employee_id, document FROM ledgers")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[generic.EmployeeID]timeoff.Ledger{}
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		var l timeoff.Ledger
		if err := json.Unmarshal([]byte(doc), &l); err != nil {
			return nil, fmt.Errorf("decode ledger %s: %w", id, err)
		}
		out[generic.EmployeeID(id)] = l
	}
	return out, rows.Err()
}

// SaveLedger replaces the ledger document with compare-and-swap on version.
func (s *Store) SaveLedger(ctx context.Context, id generic.EmployeeID, ledger timeoff.Ledger, expectedVersion int64) (int64, error) {
	doc, err := json.Marshal(ledger)
	if err != nil {
		return 0, fmt.Errorf("encode ledger: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE ledgers
		SET document = ?, version = version + 1, updated_at = ?
		WHERE employee_id = ? AND version = ?`,
		string(doc), time.Now().UTC().Format(time.RFC3339), string(id), expectedVersion,
	)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		return expectedVersion + 1, nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ledgers WHERE employee_id = ?", string(id)).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, generic.ErrNotFound
	}
	return 0, generic.ErrConcurrentModification
}

// =============================================================================
// HELPERS
// =============================================================================

func isUniqueConstraintError(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		se.ExtendedCode == sqlite3.ErrConstraintUnique
}
