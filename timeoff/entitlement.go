/*
entitlement.go - Tenure-based annual allowances

PURPOSE:
  Computes how many vacation and personal leave days an employee is owed in
  a year from their hire date. Both calculators are pure functions of
  (hireDate, asOf); asOf is always explicit so results are reproducible.

VACATION:
  22 base days plus the bonus of the highest tier reached:

    years of service   bonus
    >= 15              +1
    >= 20              +2
    >= 25              +3
    >= 30              +4
    >= 35              +5

PERSONAL LEAVE:
  6 base days plus a bonus per completed triennium (3 years):

    triennia   bonus
    < 6        0
    6, 7       +2
    >= 8       +2 and +1 per triennium above 7

WHEN TO RECOMPUTE:
  On onboarding (SeedCatalog) and when a profile is activated
  (RecomputeEntitlements). Plain reads never recompute, so a manual edit of
  an allowance survives until the next activation.

SEE ALSO:
  - catalog.go: DefaultCatalog, base allowances
*/
package timeoff

import "github.com/warp/leave-ledger/generic"

// TenureTier grants Bonus extra days once AfterYears of service are reached.
type TenureTier struct {
	AfterYears int
	Bonus      int
}

// VacationTiers is ordered ascending; the last tier reached applies.
var VacationTiers = []TenureTier{
	{AfterYears: 15, Bonus: 1},
	{AfterYears: 20, Bonus: 2},
	{AfterYears: 25, Bonus: 3},
	{AfterYears: 30, Bonus: 4},
	{AfterYears: 35, Bonus: 5},
}

// YearsOfService counts completed years between hire and asOf. The
// anniversary day itself counts as completed. Negative spans yield 0.
func YearsOfService(hire, asOf generic.Date) int {
	years := asOf.Year - hire.Year
	if asOf.Month < hire.Month || (asOf.Month == hire.Month && asOf.Day < hire.Day) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// VacationDays returns the annual vacation allowance.
func VacationDays(hire, asOf generic.Date) int {
	years := YearsOfService(hire, asOf)

	bonus := 0
	for _, tier := range VacationTiers {
		if years >= tier.AfterYears {
			bonus = tier.Bonus
		}
	}
	return BaseVacationDays + bonus
}

// PersonalLeaveDays returns the annual personal leave allowance.
func PersonalLeaveDays(hire, asOf generic.Date) int {
	triennia := YearsOfService(hire, asOf) / 3

	switch {
	case triennia >= 8:
		return BasePersonalLeaveDays + 2 + (triennia - 7)
	case triennia >= 6:
		return BasePersonalLeaveDays + 2
	default:
		return BasePersonalLeaveDays
	}
}

// SeedCatalog is the default catalog with tenure-based allowances filled in.
func SeedCatalog(hire, asOf generic.Date) Catalog {
	c := DefaultCatalog()
	applyEntitlements(c, hire, asOf)
	return c
}

// RecomputeEntitlements overwrites the vacation and personal leave
// allowances with the computed values. Labels and colors are kept.
func (l Ledger) RecomputeEntitlements(hire, asOf generic.Date) Ledger {
	next := l.clone()
	applyEntitlements(next.catalog, hire, asOf)
	return next
}

func applyEntitlements(c Catalog, hire, asOf generic.Date) {
	defaults := DefaultCatalog()
	for key, days := range map[CategoryKey]int{
		CategoryVacation:      VacationDays(hire, asOf),
		CategoryPersonalLeave: PersonalLeaveDays(hire, asOf),
	} {
		lt, ok := c[key]
		if !ok {
			lt = defaults[key]
		}
		lt.AnnualAllowance = days
		c[key] = lt
	}
}
