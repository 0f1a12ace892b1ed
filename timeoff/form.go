package timeoff

import (
	"fmt"
	"strings"
	"time"

	"github.com/warp/leave-ledger/generic"
)

// collapseThreshold is the number of days in a month above which the form
// lists ranges instead of individual days.
const collapseThreshold = 5

// DayRange is a run of consecutive calendar days, From == To for a single day.
type DayRange struct {
	From generic.Date `json:"from"`
	To   generic.Date `json:"to"`
}

func (r DayRange) String() string {
	if r.From == r.To {
		return fmt.Sprintf("%d", r.From.Day)
	}
	return fmt.Sprintf("del %d al %d", r.From.Day, r.To.Day)
}

// MonthGroup is the part of a request falling in one month.
type MonthGroup struct {
	Year   int            `json:"year"`
	Month  time.Month     `json:"month"`
	Dates  []generic.Date `json:"dates"`
	Ranges []DayRange     `json:"ranges"`
}

// Summary renders the days of the month the way the printed form lists them:
// every day when there are few, collapsed ranges otherwise.
func (g MonthGroup) Summary() string {
	parts := make([]string, 0, len(g.Dates))
	if len(g.Dates) > collapseThreshold {
		for _, r := range g.Ranges {
			parts = append(parts, r.String())
		}
	} else {
		for _, d := range g.Dates {
			parts = append(parts, fmt.Sprintf("%d", d.Day))
		}
	}
	return strings.Join(parts, ", ")
}

// RequestForm is the content of a leave request document for one employee
// and one category.
type RequestForm struct {
	Employee  Employee     `json:"employee"`
	Category  CategoryKey  `json:"category"`
	Title     string       `json:"title"`
	Year      int          `json:"year"`
	Status    Status       `json:"status"`
	TotalDays int          `json:"totalDays"`
	Months    []MonthGroup `json:"months"`
}

// Empty reports whether there is nothing to request.
func (f RequestForm) Empty() bool { return f.TotalDays == 0 }

// BuildRequestForm collects the employee's days of category key with the
// given status in year, grouped by month.
func BuildRequestForm(emp Employee, ledger Ledger, key CategoryKey, status Status, year int) RequestForm {
	title := string(key)
	if lt, ok := ledger.catalog[key]; ok && lt.Label != "" {
		title = strings.ToUpper(lt.Label)
	}

	form := RequestForm{
		Employee: emp,
		Category: key,
		Title:    title,
		Year:     year,
		Status:   status,
		Months:   []MonthGroup{},
	}

	for _, e := range ledger.EntriesInYear(year) {
		if e.CategoryKey != key || e.Status != status {
			continue
		}
		form.TotalDays++

		n := len(form.Months)
		if n == 0 || form.Months[n-1].Month != e.Date.Month {
			form.Months = append(form.Months, MonthGroup{Year: year, Month: e.Date.Month})
			n++
		}
		g := &form.Months[n-1]
		g.Dates = append(g.Dates, e.Date)
	}

	for i := range form.Months {
		form.Months[i].Ranges = CollapseRanges(form.Months[i].Dates)
	}
	return form
}

// CollapseRanges merges sorted dates into runs of consecutive days.
func CollapseRanges(dates []generic.Date) []DayRange {
	var out []DayRange
	for _, d := range dates {
		n := len(out)
		if n > 0 && out[n-1].To.AddDays(1) == d {
			out[n-1].To = d
			continue
		}
		out = append(out, DayRange{From: d, To: d})
	}
	return out
}
