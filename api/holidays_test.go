package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-ledger/generic"
	"github.com/warp/leave-ledger/timeoff"
)

func TestHolidayCache_MemoizesYears(t *testing.T) {
	cache, err := NewHolidayCache(2, timeoff.DefaultCalendar)
	require.NoError(t, err)

	h, err := cache.Year(2025)
	require.NoError(t, err)
	assert.True(t, h.Has(generic.MustParseDate("2025-04-21")))

	_, err = cache.Year(2025)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	// Evicts the least recently used year past the size
	for _, y := range []int{2026, 2027} {
		_, err := cache.Year(y)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cache.Len())
}

func TestHolidayCache_ReturnsCopies(t *testing.T) {
	cache, err := NewHolidayCache(4, timeoff.DefaultCalendar)
	require.NoError(t, err)

	h, err := cache.Year(2025)
	require.NoError(t, err)
	delete(h, generic.MustParseDate("2025-12-25"))

	again, err := cache.Year(2025)
	require.NoError(t, err)
	assert.True(t, again.Has(generic.MustParseDate("2025-12-25")))
}

func TestHolidayCache_RejectsEarlyYears(t *testing.T) {
	cache, err := NewHolidayCache(4, timeoff.DefaultCalendar)
	require.NoError(t, err)

	_, err = cache.Year(1582)
	assert.ErrorIs(t, err, generic.ErrYearOutOfRange)
	assert.Equal(t, 0, cache.Len())
}

func TestNewHolidayCache_InvalidSize(t *testing.T) {
	_, err := NewHolidayCache(0, timeoff.DefaultCalendar)
	assert.Error(t, err)
}
