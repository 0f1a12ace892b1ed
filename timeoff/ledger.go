/*
ledger.go - Per-employee leave ledger with the day state machine

PURPOSE:
  Holds everything one employee owns: the booked days, the leave category
  catalog and the working weekdays. The ledger is an immutable value; every
  mutation returns a new Ledger together with an Outcome.

STATE MACHINE (per employee, per date):
  Empty --Assign--> Requested --Approve--> Approved
  Requested --Clear--> Empty
  Approved  --Clear--> Empty   (only with LedgerConfig.AllowClearApproved)

INVARIANT:
  At most one entry per date. Booking is first-writer-wins: assigning an
  occupied date leaves the existing entry in place, whatever its category.

  Every entry references a category in the catalog, and the protected
  categories are always present. Validate checks both at the persistence
  boundary.

NOT CHECKED HERE:
  Weekends, holidays and the work week. The ledger stores whatever date it
  is given; callers that care consult holidays.go first.

EXAMPLE:
  l := timeoff.NewLedger(timeoff.DefaultCatalog(), timeoff.DefaultWorkWeek, nil)
  l, out := l.Assign(day, timeoff.CategoryVacation)    // applied
  _, out = l.Assign(day, timeoff.CategorySickLeave)    // occupied, l unchanged
  l, out = l.Approve(day)                              // applied
  l, out = l.Clear(day, timeoff.LedgerConfig{})        // approved_locked

SEE ALSO:
  - catalog.go: Category add/update/remove
  - outcome.go: Outcome values and error mapping
  - entitlement.go: RecomputeEntitlements
*/
package timeoff

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/warp/leave-ledger/generic"
)

// LedgerConfig tunes the state machine.
type LedgerConfig struct {
	// AllowClearApproved lets Clear remove approved entries.
	AllowClearApproved bool
}

// Ledger is one employee's leave record. The zero value is an empty ledger
// with no catalog; use NewLedger.
type Ledger struct {
	entries map[generic.Date]LeaveEntry
	catalog Catalog
	week    WorkWeek
}

// NewLedger builds a ledger from its parts. Inputs are copied. Call Validate
// when the parts come from outside the engine.
func NewLedger(catalog Catalog, week WorkWeek, entries map[generic.Date]LeaveEntry) Ledger {
	l := Ledger{
		entries: make(map[generic.Date]LeaveEntry, len(entries)),
		catalog: catalog.Clone(),
		week:    week,
	}
	for d, e := range entries {
		l.entries[d] = e
	}
	return l
}

func (l Ledger) clone() Ledger {
	return NewLedger(l.catalog, l.week, l.entries)
}

// =============================================================================
// STATE TRANSITIONS
// =============================================================================

// Assign books date under key as a requested day.
func (l Ledger) Assign(date generic.Date, key CategoryKey) (Ledger, Outcome) {
	if _, taken := l.entries[date]; taken {
		return l, OutcomeOccupied
	}
	if _, known := l.catalog[key]; !known {
		return l, OutcomeUnknownCategory
	}

	next := l.clone()
	next.entries[date] = LeaveEntry{CategoryKey: key, Status: StatusRequested}
	return next, OutcomeApplied
}

// Approve moves a requested day to approved. Approving an approved day is a
// no-op and reports OutcomeUnchanged.
func (l Ledger) Approve(date generic.Date) (Ledger, Outcome) {
	e, ok := l.entries[date]
	if !ok {
		return l, OutcomeAbsent
	}
	if e.Status == StatusApproved {
		return l, OutcomeUnchanged
	}

	next := l.clone()
	e.Status = StatusApproved
	next.entries[date] = e
	return next, OutcomeApplied
}

// Clear removes the entry for date.
func (l Ledger) Clear(date generic.Date, cfg LedgerConfig) (Ledger, Outcome) {
	e, ok := l.entries[date]
	if !ok {
		return l, OutcomeAbsent
	}
	if e.Status == StatusApproved && !cfg.AllowClearApproved {
		return l, OutcomeApprovedLocked
	}

	next := l.clone()
	delete(next.entries, date)
	return next, OutcomeApplied
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Entry returns the entry booked on date.
func (l Ledger) Entry(date generic.Date) (LeaveEntry, bool) {
	e, ok := l.entries[date]
	return e, ok
}

// Entries returns every entry ordered by date.
func (l Ledger) Entries() []DatedEntry {
	out := make([]DatedEntry, 0, len(l.entries))
	for d, e := range l.entries {
		out = append(out, DatedEntry{Date: d, LeaveEntry: e})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// EntriesInYear returns the entries dated in year, ordered by date.
func (l Ledger) EntriesInYear(year int) []DatedEntry {
	var out []DatedEntry
	for _, e := range l.Entries() {
		if e.Date.Year == year {
			out = append(out, e)
		}
	}
	return out
}

// Catalog returns a copy of the employee's leave categories.
func (l Ledger) Catalog() Catalog { return l.catalog.Clone() }

func (l Ledger) WorkWeek() WorkWeek { return l.week }

// Len is the number of booked days.
func (l Ledger) Len() int { return len(l.entries) }

// =============================================================================
// VALIDATION
// =============================================================================

// Validate reports every invariant the ledger breaks as a
// *generic.LedgerValidationError.
func (l Ledger) Validate() error {
	var problems []string

	for _, k := range []CategoryKey{CategoryVacation, CategoryPersonalLeave} {
		if _, ok := l.catalog[k]; !ok {
			problems = append(problems, fmt.Sprintf("protected category %s missing", k))
		}
	}
	for _, k := range l.catalog.Keys() {
		if normalized, ok := NormalizeKey(string(k)); !ok || normalized != k {
			problems = append(problems, fmt.Sprintf("invalid category key %q", k))
		}
		if l.catalog[k].AnnualAllowance < 0 {
			problems = append(problems, fmt.Sprintf("category %s has negative allowance", k))
		}
	}
	for _, e := range l.Entries() {
		if _, ok := l.catalog[e.CategoryKey]; !ok {
			problems = append(problems, fmt.Sprintf("%s references unknown category %s", e.Date, e.CategoryKey))
		}
		if !e.Status.Valid() {
			problems = append(problems, fmt.Sprintf("%s has invalid status %q", e.Date, e.Status))
		}
	}

	if len(problems) > 0 {
		return &generic.LedgerValidationError{Problems: problems}
	}
	return nil
}

// =============================================================================
// JSON
// =============================================================================

type ledgerJSON struct {
	LeaveDays  map[generic.Date]LeaveEntry `json:"leaveDays"`
	LeaveTypes Catalog                     `json:"leaveTypes"`
	WorkDays   WorkWeek                    `json:"workDays"`
}

func (l Ledger) MarshalJSON() ([]byte, error) {
	doc := ledgerJSON{
		LeaveDays:  l.entries,
		LeaveTypes: l.catalog,
		WorkDays:   l.week,
	}
	if doc.LeaveDays == nil {
		doc.LeaveDays = map[generic.Date]LeaveEntry{}
	}
	if doc.LeaveTypes == nil {
		doc.LeaveTypes = Catalog{}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes a ledger document. A missing workDays array means
// the default Monday to Friday week. The result is not validated.
func (l *Ledger) UnmarshalJSON(b []byte) error {
	doc := ledgerJSON{WorkDays: DefaultWorkWeek}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	*l = NewLedger(doc.LeaveTypes, doc.WorkDays, doc.LeaveDays)
	return nil
}
