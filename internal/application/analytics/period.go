package analytics

import (
	"strings"
	"time"

	"github.com/tailorcv/tailorcv/internal/shared/biztime"
)

type Period string

const (
	PeriodDay    Period = "day"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodYear   Period = "year"
	PeriodAll    Period = "all"
	PeriodCustom Period = "custom"
)

// DateRange is a closed-open UTC window. Both bounds nil means all time.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (r DateRange) IsBounded() bool {
	return r.Start != nil && r.End != nil
}

// ResolvePeriod turns a requested period (and optional custom bounds, as
// YYYY-MM-DD strings) into the effective period and its UTC range. Unknown
// periods and incomplete custom bounds fall back to the current year.
// Swapped custom bounds are normalized rather than rejected.
func ResolvePeriod(now time.Time, period string, startDate, endDate string) (Period, DateRange) {
	switch Period(strings.ToLower(period)) {
	case PeriodDay:
		start := biztime.StartOfDayUTC(now)
		end := start.Add(24 * time.Hour)
		return PeriodDay, DateRange{Start: &start, End: &end}
	case PeriodWeek:
		start := biztime.StartOfWeekUTC(now)
		end := start.Add(7 * 24 * time.Hour)
		return PeriodWeek, DateRange{Start: &start, End: &end}
	case PeriodMonth:
		start := biztime.StartOfMonthUTC(now)
		end := biztime.StartOfMonthUTC(start.Add(32 * 24 * time.Hour))
		return PeriodMonth, DateRange{Start: &start, End: &end}
	case PeriodYear:
		return yearRange(now)
	case PeriodAll:
		return PeriodAll, DateRange{}
	case PeriodCustom:
		return resolveCustomRange(now, startDate, endDate)
	default:
		return yearRange(now)
	}
}

func yearRange(now time.Time) (Period, DateRange) {
	start := biztime.StartOfYearUTC(now)
	end := biztime.StartOfYearUTC(start.AddDate(1, 0, 1))
	return PeriodYear, DateRange{Start: &start, End: &end}
}

func resolveCustomRange(now time.Time, startDate, endDate string) (Period, DateRange) {
	if startDate == "" || endDate == "" {
		return yearRange(now)
	}

	loc := biztime.Location()
	start, err := time.ParseInLocation("2006-01-02", startDate, loc)
	if err != nil {
		return yearRange(now)
	}
	end, err := time.ParseInLocation("2006-01-02", endDate, loc)
	if err != nil {
		return yearRange(now)
	}

	if end.Before(start) {
		start, end = end, start
	}

	from := start.UTC()
	to := end.Add(24 * time.Hour).UTC()
	return PeriodCustom, DateRange{Start: &from, End: &to}
}

// PeriodLabel is the human label shown alongside the resolved range.
func PeriodLabel(period Period, r DateRange) string {
	switch period {
	case PeriodDay:
		return "Today"
	case PeriodWeek:
		return "This Week"
	case PeriodMonth:
		return "This Month"
	case PeriodYear:
		return "This Year"
	case PeriodAll:
		return "All Time"
	default:
		if r.IsBounded() {
			loc := biztime.Location()
			return r.Start.In(loc).Format("Jan 02, 2006") + " - " +
				r.End.Add(-time.Second).In(loc).Format("Jan 02, 2006")
		}
		return "Custom Range"
	}
}
