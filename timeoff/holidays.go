/*
holidays.go - Regional holiday calendar generator

PURPOSE:
  Produces the public holidays of a year for one region: a table of fixed
  dates plus the Easter-relative movable feasts. Holidays are derived, never
  stored, and the same year always yields the same map.

EASTER:
  Computed with the anonymous Gregorian algorithm (Meeus/Jones/Butcher).
  Valid from 1583, the first full Gregorian year.

COLLISIONS:
  The fixed table is written first, in table order, then the movable feasts.
  A later write to the same date replaces the earlier one, so a movable feast
  wins over a fixed holiday on the rare years they coincide.

SEE ALSO:
  - api/holidays.go: LRU cache of generated years
*/
package timeoff

import (
	"fmt"
	"sort"
	"time"

	"github.com/warp/leave-ledger/generic"
)

// FirstGregorianYear is the earliest year GenerateHolidays accepts.
const FirstGregorianYear = 1583

// HolidayKind classifies a holiday by origin.
type HolidayKind string

const (
	KindNationalFixed   HolidayKind = "national_fixed"
	KindRegionalFixed   HolidayKind = "regional_fixed"
	KindLocalFixed      HolidayKind = "local_fixed"
	KindPatronFixed     HolidayKind = "patron_fixed"
	KindMovableNational HolidayKind = "movable_national"
	KindMovableRegional HolidayKind = "movable_regional"
)

type Holiday struct {
	Name string      `json:"name"`
	Kind HolidayKind `json:"kind"`
}

// DatedHoliday is a Holiday with its date, for ordered listings.
type DatedHoliday struct {
	Date generic.Date `json:"date"`
	Holiday
}

// Holidays maps each holiday date of a year to its description.
type Holidays map[generic.Date]Holiday

// Sorted lists the holidays by date.
func (h Holidays) Sorted() []DatedHoliday {
	out := make([]DatedHoliday, 0, len(h))
	for d, hol := range h {
		out = append(out, DatedHoliday{Date: d, Holiday: hol})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Has reports whether date is a holiday.
func (h Holidays) Has(date generic.Date) bool {
	_, ok := h[date]
	return ok
}

// =============================================================================
// CALENDAR DEFINITION
// =============================================================================

// FixedHoliday recurs on the same month and day every year.
type FixedHoliday struct {
	Month time.Month
	Day   int
	Holiday
}

// MovableHoliday is placed OffsetDays from Easter Sunday.
type MovableHoliday struct {
	OffsetDays int
	Holiday
}

// Calendar describes the holidays of one region.
type Calendar struct {
	Fixed   []FixedHoliday
	Movable []MovableHoliday
}

// DefaultCalendar is Catalonia with the local holidays of Tossa de Mar.
var DefaultCalendar = Calendar{
	Fixed: []FixedHoliday{
		{time.January, 1, Holiday{"Cap d'Any", KindNationalFixed}},
		{time.January, 6, Holiday{"Reis", KindNationalFixed}},
		{time.January, 22, Holiday{"Sant Vicenç", KindPatronFixed}},
		{time.May, 1, Holiday{"Dia del Treball", KindNationalFixed}},
		{time.June, 24, Holiday{"Sant Joan", KindRegionalFixed}},
		{time.June, 29, Holiday{"Sant Pere", KindLocalFixed}},
		{time.August, 15, Holiday{"L'Assumpció", KindNationalFixed}},
		{time.September, 11, Holiday{"Diada Nacional de Catalunya", KindRegionalFixed}},
		{time.October, 12, Holiday{"Festa Nacional d'Espanya", KindNationalFixed}},
		{time.November, 1, Holiday{"Tots Sants", KindNationalFixed}},
		{time.December, 6, Holiday{"Dia de la Constitució", KindNationalFixed}},
		{time.December, 8, Holiday{"La Immaculada", KindNationalFixed}},
		{time.December, 25, Holiday{"Nadal", KindNationalFixed}},
		{time.December, 26, Holiday{"Sant Esteve", KindRegionalFixed}},
	},
	Movable: []MovableHoliday{
		{-2, Holiday{"Divendres Sant", KindMovableNational}},
		{1, Holiday{"Dilluns de Pasqua", KindMovableRegional}},
	},
}

// =============================================================================
// GENERATION
// =============================================================================

// EasterSunday returns the Gregorian Easter Sunday of year.
func EasterSunday(year int) generic.Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return generic.NewDate(year, time.Month(month), day)
}

// Generate returns the holidays of year.
func (c Calendar) Generate(year int) (Holidays, error) {
	if year < FirstGregorianYear {
		return nil, fmt.Errorf("%w: %d", generic.ErrYearOutOfRange, year)
	}

	out := make(Holidays, len(c.Fixed)+len(c.Movable))
	for _, f := range c.Fixed {
		out[generic.NewDate(year, f.Month, f.Day)] = f.Holiday
	}

	easter := EasterSunday(year)
	for _, m := range c.Movable {
		out[easter.AddDays(m.OffsetDays)] = m.Holiday
	}
	return out, nil
}

// GenerateHolidays returns the holidays of year for DefaultCalendar.
func GenerateHolidays(year int) (Holidays, error) {
	return DefaultCalendar.Generate(year)
}

// IsWorkingDay reports whether an employee with the given work week works on
// date: a weekday of the week that is not a holiday.
func IsWorkingDay(date generic.Date, holidays Holidays, week WorkWeek) bool {
	return week.Works(date) && !holidays.Has(date)
}
