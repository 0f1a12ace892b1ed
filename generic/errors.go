/*
errors.go - Centralized error types shared by the engine and the service

PURPOSE:
  All error types in one place for consistency and discoverability.
  The engine never panics on a business rule: ledger operations return an
  Outcome and the Outcome maps onto these sentinels so the HTTP layer can
  pick a status code with errors.Is.

ERROR CATEGORIES:
  1. Invariant violations - booking an occupied day, deleting a protected
     or referenced category, clearing an approved day
  2. Not found - unknown employee, date or category
  3. Store errors - persistence failures and version conflicts

SEE ALSO:
  - timeoff/outcome.go: Outcome -> error mapping
  - api/handlers.go: error -> HTTP status mapping
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDayOccupied is returned when a date already holds an entry for the
	// employee. Booking is first-writer-wins.
	ErrDayOccupied = errors.New("day already booked")

	// ErrApprovedLocked is returned when clearing an approved entry while the
	// ledger is configured to keep approvals irreversible.
	ErrApprovedLocked = errors.New("approved day cannot be cleared")

	// ErrUnknownCategory is returned when an entry references a category that
	// is not in the employee's catalog.
	ErrUnknownCategory = errors.New("unknown leave category")

	// ErrProtectedCategory is returned when deleting a tenure-based category.
	ErrProtectedCategory = errors.New("protected leave category")

	// ErrCategoryInUse is returned when deleting a category referenced by entries.
	ErrCategoryInUse = errors.New("leave category in use")

	// ErrInvalidKey is returned when a category key cannot be normalized.
	ErrInvalidKey = errors.New("invalid leave category key")

	// ErrInvalidAllowance is returned when a category's annual allowance is
	// negative.
	ErrInvalidAllowance = errors.New("invalid annual allowance")

	// ErrDuplicateKey is returned when a new category collides with an existing
	// or protected key.
	ErrDuplicateKey = errors.New("duplicate leave category key")

	// ErrNotFound is returned when an employee, date or category is absent.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when creating an employee whose id is taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNonWorkingDay is returned by callers that refuse to book weekends,
	// holidays or days outside the employee's work week.
	ErrNonWorkingDay = errors.New("non-working day")

	// ErrInvalidLedger is returned when a ledger fails validation at the
	// persistence boundary.
	ErrInvalidLedger = errors.New("invalid ledger")

	// ErrInvalidDate is returned for malformed ISO dates.
	ErrInvalidDate = errors.New("invalid date")

	// ErrYearOutOfRange is returned for years before the Gregorian reform.
	ErrYearOutOfRange = errors.New("year out of range")

	// ErrConcurrentModification is returned when optimistic locking detects a conflict.
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// OccupiedDayError provides details about a booking collision.
type OccupiedDayError struct {
	EmployeeID EmployeeID
	Date       Date
	Existing   string // category key already booked on that date
}

func (e *OccupiedDayError) Error() string {
	return fmt.Sprintf("day already booked: %s for %s (%s)", e.Date, e.EmployeeID, e.Existing)
}

func (e *OccupiedDayError) Unwrap() error {
	return ErrDayOccupied
}

// LedgerValidationError lists every invariant a ledger breaks.
type LedgerValidationError struct {
	Problems []string
}

func (e *LedgerValidationError) Error() string {
	return fmt.Sprintf("invalid ledger: %v", e.Problems)
}

func (e *LedgerValidationError) Unwrap() error {
	return ErrInvalidLedger
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// IsConflict returns true if the error reports a rejected state transition.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDayOccupied) ||
		errors.Is(err, ErrApprovedLocked) ||
		errors.Is(err, ErrProtectedCategory) ||
		errors.Is(err, ErrCategoryInUse) ||
		errors.Is(err, ErrDuplicateKey) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrConcurrentModification)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrInvalidKey) ||
		errors.Is(err, ErrInvalidAllowance) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidLedger) ||
		errors.Is(err, ErrNonWorkingDay) ||
		errors.Is(err, ErrYearOutOfRange)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
