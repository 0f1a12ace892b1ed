/*
aggregate.go - Cross-ledger aggregation for reports and summaries

PURPOSE:
  Counts requested and approved days per category for one year across any
  set of employee ledgers, and keeps the (employee, date) pairs behind each
  count so callers can draw timelines and heatmaps.

SCOPE:
  Query.Filter narrows employees and categories; empty means all. The
  effective catalog is the merge of the filtered employees' catalogs when an
  employee filter is set, otherwise the catalog passed in.

JANUARY ROLLOVER:
  Vacation taken January 1-15 is usually the tail of the previous year's
  allowance. When the rule applies those entries are left out of the tally.
  RolloverScope chooses when it applies; the default only applies it to a
  single employee's own view, never to the global report.

CONCURRENCY:
  Aggregate reads its inputs and allocates its outputs. It is safe to call
  from any number of goroutines.
*/
package timeoff

import (
	"fmt"
	"sort"
	"time"

	"github.com/warp/leave-ledger/generic"
)

// RolloverScope selects when the January rollover exclusion applies.
type RolloverScope string

const (
	// RolloverSingleEmployee applies the rule when the employee filter names
	// exactly one employee.
	RolloverSingleEmployee RolloverScope = "single_employee"
	RolloverAlways         RolloverScope = "always"
	RolloverNever          RolloverScope = "never"
)

// RolloverCutoffDay is the last January day treated as rollover.
const RolloverCutoffDay = 15

// ParseRolloverScope accepts the three scope names; empty means
// RolloverSingleEmployee.
func ParseRolloverScope(s string) (RolloverScope, error) {
	switch RolloverScope(s) {
	case "", RolloverSingleEmployee:
		return RolloverSingleEmployee, nil
	case RolloverAlways, RolloverNever:
		return RolloverScope(s), nil
	default:
		return "", fmt.Errorf("unknown rollover scope %q", s)
	}
}

// Filter narrows an aggregation. Nil or empty slices mean "all".
type Filter struct {
	Categories []CategoryKey
	Employees  []generic.EmployeeID
}

type Query struct {
	Year     int
	Filter   Filter
	Rollover RolloverScope
}

// EmployeeDate is one booked day of one employee.
type EmployeeDate struct {
	EmployeeID generic.EmployeeID `json:"employeeId"`
	Date       generic.Date       `json:"date"`
}

// Stats is the aggregation result for one category.
type Stats struct {
	Requested      int            `json:"requestedCount"`
	Approved       int            `json:"approvedCount"`
	RequestedDates []EmployeeDate `json:"requestedDates"`
	ApprovedDates  []EmployeeDate `json:"approvedDates"`
}

func newStats() *Stats {
	return &Stats{RequestedDates: []EmployeeDate{}, ApprovedDates: []EmployeeDate{}}
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Aggregate tallies the entries of q.Year. catalog is the effective catalog
// when no employee filter is set; nil means the merge of every ledger's
// catalog. Every key of the effective catalog (after the category filter)
// has a Stats value, zeroed when nothing was booked.
func Aggregate(ledgers map[generic.EmployeeID]Ledger, catalog Catalog, q Query) map[CategoryKey]*Stats {
	employees := inScopeEmployees(ledgers, q.Filter.Employees)

	effective := catalog
	if len(q.Filter.Employees) > 0 || effective == nil {
		catalogs := make([]Catalog, 0, len(employees))
		for _, id := range employees {
			catalogs = append(catalogs, ledgers[id].catalog)
		}
		effective = MergeCatalogs(catalogs...)
	}

	wanted := make(map[CategoryKey]bool, len(q.Filter.Categories))
	for _, k := range q.Filter.Categories {
		wanted[k] = true
	}

	out := make(map[CategoryKey]*Stats, len(effective))
	for k := range effective {
		if len(wanted) == 0 || wanted[k] {
			out[k] = newStats()
		}
	}

	skipRollover := rolloverApplies(q, len(employees))
	for _, id := range employees {
		for d, e := range ledgers[id].entries {
			if d.Year != q.Year {
				continue
			}
			s, ok := out[e.CategoryKey]
			if !ok {
				continue
			}
			if skipRollover && isRollover(d, e.CategoryKey) {
				continue
			}

			pair := EmployeeDate{EmployeeID: id, Date: d}
			switch e.Status {
			case StatusRequested:
				s.Requested++
				s.RequestedDates = append(s.RequestedDates, pair)
			case StatusApproved:
				s.Approved++
				s.ApprovedDates = append(s.ApprovedDates, pair)
			}
		}
	}

	for _, s := range out {
		sortEmployeeDates(s.RequestedDates)
		sortEmployeeDates(s.ApprovedDates)
	}
	return out
}

// inScopeEmployees returns the ids to aggregate, sorted so catalog merges
// are deterministic.
func inScopeEmployees(ledgers map[generic.EmployeeID]Ledger, filter []generic.EmployeeID) []generic.EmployeeID {
	var ids []generic.EmployeeID
	if len(filter) == 0 {
		for id := range ledgers {
			ids = append(ids, id)
		}
	} else {
		seen := make(map[generic.EmployeeID]bool, len(filter))
		for _, id := range filter {
			if _, ok := ledgers[id]; ok && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// rolloverApplies decides the January rule from the resolved scope, so
// duplicate or unknown ids in the filter do not change the outcome.
func rolloverApplies(q Query, inScope int) bool {
	switch q.Rollover {
	case RolloverAlways:
		return true
	case RolloverNever:
		return false
	default:
		return len(q.Filter.Employees) > 0 && inScope == 1
	}
}

func isRollover(d generic.Date, key CategoryKey) bool {
	return key == CategoryVacation && d.Month == time.January && d.Day <= RolloverCutoffDay
}

func sortEmployeeDates(pairs []EmployeeDate) {
	sort.Slice(pairs, func(i, j int) bool {
		if c := pairs[i].Date.Compare(pairs[j].Date); c != 0 {
			return c < 0
		}
		return pairs[i].EmployeeID < pairs[j].EmployeeID
	})
}
