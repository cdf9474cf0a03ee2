// Package biztime provides utilities for business timezone calculations.
// All storage and transport use UTC. The business timezone is only used for
// calculating date boundaries (start/end of day), which drive the
// per-day usage windows such as the daily AI message allowance.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "Africa/Douala"
)

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init initializes the business timezone. Should be called once at startup.
// If tz is empty, defaults to Africa/Douala.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit initializes the business timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize business timezone %q: %v", tz, err))
	}
}

// Location returns the business timezone location, auto-initializing with
// the default timezone if Init was never called.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns the start of day (00:00:00) in business timezone,
// converted to UTC for storage/query use.
func StartOfDayUTC(t time.Time) time.Time {
	bizTime := t.In(Location())
	startOfDay := time.Date(bizTime.Year(), bizTime.Month(), bizTime.Day(), 0, 0, 0, 0, Location())
	return startOfDay.UTC()
}

// EndOfDayUTC returns the exclusive end of day (start of the next day) in
// business timezone, converted to UTC.
func EndOfDayUTC(t time.Time) time.Time {
	return StartOfDayUTC(t).Add(24 * time.Hour)
}

// DayRangeUTC returns the [start, end) UTC boundaries of the business day
// containing t.
func DayRangeUTC(t time.Time) (time.Time, time.Time) {
	start := StartOfDayUTC(t)
	return start, start.Add(24 * time.Hour)
}

// StartOfWeekUTC returns the start of the ISO week (Monday 00:00:00) in
// business timezone, converted to UTC.
func StartOfWeekUTC(t time.Time) time.Time {
	bizTime := t.In(Location())
	weekday := int(bizTime.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := bizTime.AddDate(0, 0, -(weekday - 1))
	startOfWeek := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, Location())
	return startOfWeek.UTC()
}

// StartOfMonthUTC returns the first day of the month (00:00:00) in business
// timezone, converted to UTC.
func StartOfMonthUTC(t time.Time) time.Time {
	bizTime := t.In(Location())
	startOfMonth := time.Date(bizTime.Year(), bizTime.Month(), 1, 0, 0, 0, 0, Location())
	return startOfMonth.UTC()
}

// StartOfYearUTC returns January 1st (00:00:00) in business timezone,
// converted to UTC.
func StartOfYearUTC(t time.Time) time.Time {
	bizTime := t.In(Location())
	startOfYear := time.Date(bizTime.Year(), time.January, 1, 0, 0, 0, 0, Location())
	return startOfYear.UTC()
}
