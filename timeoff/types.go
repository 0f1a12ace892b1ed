// Package timeoff implements the leave ledger and entitlement engine.
// It owns the leave-day state machine, the leave category catalog, the
// tenure-based entitlement calculators, the holiday calendar generator and
// the aggregation pipeline used by reports. Everything here is pure: no I/O,
// no shared mutable state.
package timeoff

import (
	"slices"
	"time"

	"github.com/warp/leave-ledger/generic"
)

// =============================================================================
// LEAVE STATUS
// =============================================================================

// Status is the lifecycle state of a booked day.
type Status string

const (
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
)

func (s Status) Valid() bool {
	return s == StatusRequested || s == StatusApproved
}

// =============================================================================
// LEAVE CATEGORIES
// =============================================================================

// CategoryKey identifies a leave category. Keys are uppercase with
// underscores; build them with NormalizeKey.
type CategoryKey string

// Built-in categories. Vacation and personal leave are tenure-based and
// protected from deletion.
const (
	CategoryVacation      CategoryKey = "VACATION"
	CategoryPersonalLeave CategoryKey = "PERSONAL_LEAVE"
	CategoryBridgeDay     CategoryKey = "BRIDGE_DAY"
	CategorySickLeave     CategoryKey = "SICK_LEAVE"
	CategoryOther         CategoryKey = "OTHER"
)

// IsProtected reports whether the category can never be deleted.
func (k CategoryKey) IsProtected() bool {
	return k == CategoryVacation || k == CategoryPersonalLeave
}

// LeaveType is one catalog entry.
type LeaveType struct {
	Label     string `json:"label"`
	Color     string `json:"color"`
	TextColor string `json:"textColor"`
	// AnnualAllowance of 0 means unbounded (tracked only).
	AnnualAllowance int `json:"annualAllowance"`
}

// Unbounded reports whether the category has no annual cap.
func (t LeaveType) Unbounded() bool { return t.AnnualAllowance == 0 }

// Catalog maps category keys to their definition.
type Catalog map[CategoryKey]LeaveType

// Clone returns an independent copy.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Keys returns the catalog keys sorted ascending.
func (c Catalog) Keys() []CategoryKey {
	keys := make([]CategoryKey, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// =============================================================================
// LEAVE ENTRY
// =============================================================================

// LeaveEntry is one calendar date claimed by one employee.
type LeaveEntry struct {
	CategoryKey CategoryKey `json:"categoryKey"`
	Status      Status      `json:"status"`
}

// DatedEntry is a LeaveEntry together with its date.
type DatedEntry struct {
	Date generic.Date `json:"date"`
	LeaveEntry
}

// =============================================================================
// WORK WEEK
// =============================================================================

// WorkWeek flags working weekdays, index 0 = Monday.
type WorkWeek [7]bool

// DefaultWorkWeek is Monday to Friday.
var DefaultWorkWeek = WorkWeek{true, true, true, true, true, false, false}

// Works reports whether the weekday of d is a working day.
func (w WorkWeek) Works(d generic.Date) bool {
	return w[d.MondayIndex()]
}

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee is the identity of a ledger owner. HireDate is the only input to
// entitlement calculation and does not change after creation.
type Employee struct {
	ID         generic.EmployeeID
	Name       string
	LegalID    string
	Department string
	HireDate   generic.Date
	CreatedAt  time.Time
}
