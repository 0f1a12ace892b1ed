package timeoff

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/leave-ledger/generic"
)

// =============================================================================
// YEARLY REPORT
// =============================================================================

// CategoryCount is the number of approved days of one category.
type CategoryCount struct {
	Key      CategoryKey `json:"key"`
	Label    string      `json:"label"`
	Approved int         `json:"approved"`
}

// EmployeeCount is the number of approved days of one employee.
type EmployeeCount struct {
	EmployeeID generic.EmployeeID `json:"employeeId"`
	Name       string             `json:"name"`
	Approved   int                `json:"approved"`
}

// DateCount is the number of employees off on one date.
type DateCount struct {
	Date  generic.Date `json:"date"`
	Count int          `json:"count"`
}

// Report is the yearly dashboard for a set of employees. Only approved days
// count.
type Report struct {
	Year               int                    `json:"year"`
	EmployeeCount      int                    `json:"employeeCount"`
	TotalApproved      int                    `json:"totalApproved"`
	TotalAvailable     int                    `json:"totalAvailable"`
	ConsumptionPercent decimal.Decimal        `json:"consumptionPercent"`
	TopCategory        CategoryKey            `json:"topCategory,omitempty"`
	ByCategory         []CategoryCount        `json:"byCategory"`
	ByEmployee         []EmployeeCount        `json:"byEmployee"`
	ByDate             []DateCount            `json:"byDate"`
	Stats              map[CategoryKey]*Stats `json:"stats"`
}

var hundred = decimal.NewFromInt(100)

// BuildReport aggregates ledgers under q and derives the dashboard figures.
// employees supplies display names; ledgers without a profile are reported
// under their id.
func BuildReport(ledgers map[generic.EmployeeID]Ledger, employees map[generic.EmployeeID]Employee, catalog Catalog, q Query) Report {
	stats := Aggregate(ledgers, catalog, q)
	inScope := inScopeEmployees(ledgers, q.Filter.Employees)

	effective := catalog
	if len(q.Filter.Employees) > 0 || effective == nil {
		effective = MergeCatalogs(catalogsOf(ledgers, inScope)...)
	}

	r := Report{
		Year:          q.Year,
		EmployeeCount: len(inScope),
		Stats:         stats,
		ByCategory:    []CategoryCount{},
		ByEmployee:    []EmployeeCount{},
		ByDate:        []DateCount{},
	}

	perEmployee := map[generic.EmployeeID]int{}
	perDate := map[generic.Date]int{}
	for key, s := range stats {
		r.TotalApproved += s.Approved
		r.ByCategory = append(r.ByCategory, CategoryCount{Key: key, Label: effective[key].Label, Approved: s.Approved})
		for _, p := range s.ApprovedDates {
			perEmployee[p.EmployeeID]++
			perDate[p.Date]++
		}
	}

	// Most used first, then by key so ties are stable.
	sort.Slice(r.ByCategory, func(i, j int) bool {
		a, b := r.ByCategory[i], r.ByCategory[j]
		if a.Approved != b.Approved {
			return a.Approved > b.Approved
		}
		return a.Key < b.Key
	})
	if len(r.ByCategory) > 0 && r.ByCategory[0].Approved > 0 {
		r.TopCategory = r.ByCategory[0].Key
	}

	for _, id := range inScope {
		name := string(id)
		if e, ok := employees[id]; ok && e.Name != "" {
			name = e.Name
		}
		r.ByEmployee = append(r.ByEmployee, EmployeeCount{EmployeeID: id, Name: name, Approved: perEmployee[id]})

		for key, lt := range ledgers[id].catalog {
			if _, counted := stats[key]; counted && lt.AnnualAllowance > 0 {
				r.TotalAvailable += lt.AnnualAllowance
			}
		}
	}

	for d, n := range perDate {
		r.ByDate = append(r.ByDate, DateCount{Date: d, Count: n})
	}
	sort.Slice(r.ByDate, func(i, j int) bool { return r.ByDate[i].Date.Before(r.ByDate[j].Date) })

	r.ConsumptionPercent = ConsumptionPercent(r.TotalApproved, r.TotalAvailable)
	return r
}

// ConsumptionPercent is approved/available as a whole percentage, rounded
// half up. It is zero when nothing is available.
func ConsumptionPercent(approved, available int) decimal.Decimal {
	if available <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(approved)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(available))).
		Round(0)
}

func catalogsOf(ledgers map[generic.EmployeeID]Ledger, ids []generic.EmployeeID) []Catalog {
	out := make([]Catalog, 0, len(ids))
	for _, id := range ids {
		out = append(out, ledgers[id].catalog)
	}
	return out
}

// =============================================================================
// EMPLOYEE SUMMARY
// =============================================================================

// CategorySummary is one row of an employee's yearly overview.
type CategorySummary struct {
	Key       CategoryKey `json:"key"`
	LeaveType LeaveType   `json:"leaveType"`
	Approved  int         `json:"approved"`
	Requested int         `json:"requested"`

	// Remaining is nil for unbounded categories.
	Remaining *int `json:"remaining"`

	ApprovedDates  []generic.Date `json:"approvedDates"`
	RequestedDates []generic.Date `json:"requestedDates"`
}

// Summarize reports every category of one employee's ledger for year,
// ordered by key.
func Summarize(id generic.EmployeeID, ledger Ledger, year int, rollover RolloverScope) []CategorySummary {
	stats := Aggregate(
		map[generic.EmployeeID]Ledger{id: ledger},
		nil,
		Query{Year: year, Filter: Filter{Employees: []generic.EmployeeID{id}}, Rollover: rollover},
	)

	out := make([]CategorySummary, 0, len(stats))
	for _, key := range ledger.catalog.Keys() {
		s := stats[key]
		lt := ledger.catalog[key]
		row := CategorySummary{
			Key:            key,
			LeaveType:      lt,
			Approved:       s.Approved,
			Requested:      s.Requested,
			ApprovedDates:  datesOf(s.ApprovedDates),
			RequestedDates: datesOf(s.RequestedDates),
		}
		if !lt.Unbounded() {
			remaining := lt.AnnualAllowance - s.Approved
			row.Remaining = &remaining
		}
		out = append(out, row)
	}
	return out
}

func datesOf(pairs []EmployeeDate) []generic.Date {
	out := make([]generic.Date, len(pairs))
	for i, p := range pairs {
		out[i] = p.Date
	}
	return out
}
