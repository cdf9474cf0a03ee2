package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayRangeUTC_CoversWholeBusinessDay(t *testing.T) {
	require.NoError(t, Init(""))

	// Africa/Douala is UTC+1 year-round.
	ref := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	start, end := DayRangeUTC(ref)

	assert.Equal(t, time.Date(2025, time.March, 9, 23, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.March, 10, 23, 0, 0, 0, time.UTC), end)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestStartOfDayUTC_MidnightEdge(t *testing.T) {
	require.NoError(t, Init(""))

	// 23:30 UTC is already 00:30 of the next day in UTC+1.
	ref := time.Date(2025, time.March, 9, 23, 30, 0, 0, time.UTC)
	start := StartOfDayUTC(ref)

	assert.Equal(t, time.Date(2025, time.March, 9, 23, 0, 0, 0, time.UTC), start)
}

func TestStartOfWeekUTC_Monday(t *testing.T) {
	require.NoError(t, Init(""))

	// 2025-03-12 is a Wednesday.
	ref := time.Date(2025, time.March, 12, 12, 0, 0, 0, time.UTC)
	start := StartOfWeekUTC(ref)

	assert.Equal(t, time.Date(2025, time.March, 9, 23, 0, 0, 0, time.UTC), start)
}

func TestStartOfMonthUTC(t *testing.T) {
	require.NoError(t, Init(""))

	ref := time.Date(2025, time.July, 20, 8, 0, 0, 0, time.UTC)
	start := StartOfMonthUTC(ref)

	assert.Equal(t, time.Date(2025, time.June, 30, 23, 0, 0, 0, time.UTC), start)
}
