// Package memory provides an in-memory timeoff.Store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/leave-ledger/generic"
	"github.com/warp/leave-ledger/timeoff"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu        sync.RWMutex
	employees map[generic.EmployeeID]timeoff.Employee
	ledgers   map[generic.EmployeeID]timeoff.LedgerRecord
}

func New() *Store {
	return &Store{
		employees: make(map[generic.EmployeeID]timeoff.Employee),
		ledgers:   make(map[generic.EmployeeID]timeoff.LedgerRecord),
	}
}

var _ timeoff.Store = (*Store)(nil)

func (s *Store) CreateEmployee(_ context.Context, emp timeoff.Employee, ledger timeoff.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.employees[emp.ID]; exists {
		return generic.ErrAlreadyExists
	}
	now := time.Now().UTC()
	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = now
	}
	s.employees[emp.ID] = emp
	s.ledgers[emp.ID] = timeoff.LedgerRecord{EmployeeID: emp.ID, Ledger: ledger, Version: 1, UpdatedAt: now}
	return nil
}

func (s *Store) GetEmployee(_ context.Context, id generic.EmployeeID) (*timeoff.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp, ok := s.employees[id]
	if !ok {
		return nil, nil
	}
	return &emp, nil
}

func (s *Store) ListEmployees(_ context.Context) ([]timeoff.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]timeoff.Employee, 0, len(s.employees))
	for _, emp := range s.employees {
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) DeleteEmployee(_ context.Context, id generic.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[id]; !ok {
		return generic.ErrNotFound
	}
	delete(s.employees, id)
	delete(s.ledgers, id)
	return nil
}

// GetLedger returns the stored record. Ledgers are immutable values, so the
// record can be handed out without copying.
func (s *Store) GetLedger(_ context.Context, id generic.EmployeeID) (*timeoff.LedgerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.ledgers[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *Store) ListLedgers(_ context.Context) (map[generic.EmployeeID]timeoff.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[generic.EmployeeID]timeoff.Ledger, len(s.ledgers))
	for id, rec := range s.ledgers {
		out[id] = rec.Ledger
	}
	return out, nil
}

func (s *Store) SaveLedger(_ context.Context, id generic.EmployeeID, ledger timeoff.Ledger, expectedVersion int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.ledgers[id]
	if !ok {
		return 0, generic.ErrNotFound
	}
	if rec.Version != expectedVersion {
		return 0, generic.ErrConcurrentModification
	}

	rec.Ledger = ledger
	rec.Version++
	rec.UpdatedAt = time.Now().UTC()
	s.ledgers[id] = rec
	return rec.Version, nil
}

func (s *Store) Close() error { return nil }
