package generic

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-04-18")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2025, Month: time.April, Day: 18}, d)
	assert.Equal(t, "2025-04-18", d.String())

	for _, bad := range []string{"", "2025-4-18", "2025-02-29", "18/04/2025"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestNewDate_NormalizesOverflow(t *testing.T) {
	assert.Equal(t, MustParseDate("2025-02-01"), NewDate(2025, time.January, 32))
	assert.Equal(t, MustParseDate("2024-12-31"), NewDate(2025, time.January, 0))
}

func TestDate_Arithmetic(t *testing.T) {
	easter := MustParseDate("2025-04-20")

	assert.Equal(t, MustParseDate("2025-04-18"), easter.AddDays(-2))
	assert.Equal(t, MustParseDate("2025-04-21"), easter.AddDays(1))
	assert.Equal(t, MustParseDate("2025-03-01"), MustParseDate("2025-02-28").AddDays(1))

	assert.Equal(t, time.Sunday, easter.Weekday())
	assert.Equal(t, 6, easter.MondayIndex())
	assert.Equal(t, 0, easter.AddDays(1).MondayIndex())

	assert.Equal(t, 4, DaysBetween(MustParseDate("2025-02-03"), MustParseDate("2025-02-07")))
	assert.Equal(t, 365, DaysBetween(MustParseDate("2025-01-01"), MustParseDate("2026-01-01")))
}

func TestDate_Compare(t *testing.T) {
	a := MustParseDate("2025-01-15")
	b := MustParseDate("2025-02-01")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.After(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, -1, MustParseDate("2024-12-31").Compare(a))
}

func TestDateOf_UsesOwnLocation(t *testing.T) {
	madrid := time.FixedZone("CET", 3600)
	ts := time.Date(2025, time.March, 10, 0, 30, 0, 0, madrid)

	assert.Equal(t, MustParseDate("2025-03-10"), DateOf(ts))
	assert.Equal(t, MustParseDate("2025-03-09"), DateOf(ts.UTC()))
}

func TestDate_JSONMapKey(t *testing.T) {
	in := map[Date]int{MustParseDate("2025-01-07"): 1}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2025-01-07":1}`, string(b))

	var out map[Date]int
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)

	var bad map[Date]int
	assert.Error(t, json.Unmarshal([]byte(`{"7 Jan":1}`), &bad))
}

func TestMustParseDate_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParseDate("nope") })
}
