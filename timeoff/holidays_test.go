package timeoff_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-ledger/generic"
	"github.com/warp/leave-ledger/timeoff"
)

func TestEasterSunday(t *testing.T) {
	known := map[int]string{
		1961: "1961-04-02",
		2000: "2000-04-23",
		2008: "2008-03-23",
		2011: "2011-04-24",
		2019: "2019-04-21",
		2024: "2024-03-31",
		2025: "2025-04-20",
		2038: "2038-04-25",
	}
	for year, want := range known {
		assert.Equal(t, date(want), timeoff.EasterSunday(year), "year %d", year)
	}
}

func TestGenerateHolidays_2025(t *testing.T) {
	h, err := timeoff.GenerateHolidays(2025)
	require.NoError(t, err)

	assert.Equal(t, timeoff.Holiday{Name: "Divendres Sant", Kind: timeoff.KindMovableNational}, h[date("2025-04-18")])
	assert.Equal(t, timeoff.Holiday{Name: "Dilluns de Pasqua", Kind: timeoff.KindMovableRegional}, h[date("2025-04-21")])
	assert.Equal(t, timeoff.KindPatronFixed, h[date("2025-01-22")].Kind)
	assert.Equal(t, timeoff.KindLocalFixed, h[date("2025-06-29")].Kind)
	assert.Equal(t, "Diada Nacional de Catalunya", h[date("2025-09-11")].Name)
	assert.Len(t, h, 16)
}

func TestGenerateHolidays_Deterministic(t *testing.T) {
	for _, year := range []int{1583, 1900, 2025, 2100, 3000} {
		a, err := timeoff.GenerateHolidays(year)
		require.NoError(t, err)
		b, err := timeoff.GenerateHolidays(year)
		require.NoError(t, err)
		assert.Equal(t, a, b, "year %d", year)
		assert.Equal(t, a.Sorted(), b.Sorted())
	}
}

func TestGenerateHolidays_OutOfRange(t *testing.T) {
	_, err := timeoff.GenerateHolidays(1582)
	assert.ErrorIs(t, err, generic.ErrYearOutOfRange)
	assert.True(t, generic.IsClientError(err))
}

func TestCalendar_MovableReplacesFixedOnCollision(t *testing.T) {
	// Easter 2011 is April 24, so Easter Monday falls on April 25.
	cal := timeoff.Calendar{
		Fixed: []timeoff.FixedHoliday{
			{Month: time.April, Day: 25, Holiday: timeoff.Holiday{Name: "Local fair", Kind: timeoff.KindLocalFixed}},
		},
		Movable: timeoff.DefaultCalendar.Movable,
	}

	h, err := cal.Generate(2011)
	require.NoError(t, err)

	assert.Equal(t, "Dilluns de Pasqua", h[date("2011-04-25")].Name)
	assert.Len(t, h, 2)
}

func TestHolidays_Sorted(t *testing.T) {
	h, err := timeoff.GenerateHolidays(2025)
	require.NoError(t, err)

	sorted := h.Sorted()
	require.Len(t, sorted, len(h))
	assert.Equal(t, date("2025-01-01"), sorted[0].Date)
	assert.Equal(t, "Cap d'Any", sorted[0].Name)
	assert.Equal(t, date("2025-12-26"), sorted[len(sorted)-1].Date)
	for i := 1; i < len(sorted); i++ {
		assert.True(t, sorted[i-1].Date.Before(sorted[i].Date))
	}
}

func TestIsWorkingDay(t *testing.T) {
	h, err := timeoff.GenerateHolidays(2025)
	require.NoError(t, err)

	assert.True(t, timeoff.IsWorkingDay(date("2025-04-17"), h, timeoff.DefaultWorkWeek))
	assert.False(t, timeoff.IsWorkingDay(date("2025-04-18"), h, timeoff.DefaultWorkWeek), "Good Friday")
	assert.False(t, timeoff.IsWorkingDay(date("2025-04-19"), h, timeoff.DefaultWorkWeek), "Saturday")

	noMondays := timeoff.WorkWeek{false, true, true, true, true, false, false}
	assert.False(t, timeoff.IsWorkingDay(date("2025-04-14"), h, noMondays))
	assert.True(t, noMondays.Works(date("2025-04-15")))
}
