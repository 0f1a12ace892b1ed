package api

import (
	"maps"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/warp/leave-ledger/timeoff"
)

// HolidayCache memoizes generated holiday years. Generation is cheap but
// every booking consults it, and the calendar never changes at runtime.
type HolidayCache struct {
	calendar timeoff.Calendar
	years    *lru.Cache[int, timeoff.Holidays]
}

// NewHolidayCache keeps at most size years of calendar.
func NewHolidayCache(size int, calendar timeoff.Calendar) (*HolidayCache, error) {
	years, err := lru.New[int, timeoff.Holidays](size)
	if err != nil {
		return nil, err
	}
	return &HolidayCache{calendar: calendar, years: years}, nil
}

// Year returns the holidays of year. The map is a copy the caller may modify.
func (c *HolidayCache) Year(year int) (timeoff.Holidays, error) {
	if h, ok := c.years.Get(year); ok {
		return maps.Clone(h), nil
	}

	h, err := c.calendar.Generate(year)
	if err != nil {
		return nil, err
	}
	c.years.Add(year, h)
	return maps.Clone(h), nil
}

// Len is the number of cached years.
func (c *HolidayCache) Len() int { return c.years.Len() }
