package analytics

import (
	"context"
	"time"
)

// RevenueRow is one (currency, interval, price) group of active subscribers.
type RevenueRow struct {
	Currency    string
	Interval    string
	Price       uint64
	Subscribers int64
}

// BookingRow is one (currency, price) group of subscribers who became paid
// inside the requested range.
type BookingRow struct {
	Currency    string
	Price       uint64
	Subscribers int64
}

// DayCount is one day of a growth series, keyed by YYYY-MM-DD.
type DayCount struct {
	Day   string
	Count int64
}

// TemplateUsage is one CV template with its usage count in range.
type TemplateUsage struct {
	Slug  string
	Name  string
	Count int64
}

// IndustryCount is one user industry with its population in range.
type IndustryCount struct {
	Industry string
	Count    int64
}

// Repository supplies the aggregate queries behind the admin analytics
// report. Every range parameter is optional: an unbounded DateRange means
// all time.
type Repository interface {
	CountNewUsers(ctx context.Context, r DateRange) (int64, error)
	CountCvs(ctx context.Context, r DateRange) (int64, error)
	CountCoverLetters(ctx context.Context, r DateRange) (int64, error)
	CountJobApplications(ctx context.Context, r DateRange) (int64, error)

	// CountActiveSubscribers counts users with an active, unexpired
	// subscription as of now.
	CountActiveSubscribers(ctx context.Context, now time.Time) (int64, error)
	// CountNewPaidSubscribers counts active subscribers whose subscription
	// was last updated inside the range.
	CountNewPaidSubscribers(ctx context.Context, now time.Time, r DateRange) (int64, error)

	RevenueRows(ctx context.Context, now time.Time) ([]RevenueRow, error)
	BookingRows(ctx context.Context, now time.Time, r DateRange) ([]BookingRow, error)

	ActiveCurrencies(ctx context.Context) ([]string, error)

	UserSignupsByDay(ctx context.Context, from, to time.Time) ([]DayCount, error)
	CvsByDay(ctx context.Context, from, to time.Time) ([]DayCount, error)
	JobApplicationsByDay(ctx context.Context, from, to time.Time) ([]DayCount, error)

	JobApplicationStatusCounts(ctx context.Context, r DateRange) (map[string]int64, error)
	TopTemplates(ctx context.Context, r DateRange, limit int) ([]TemplateUsage, error)
	TopIndustries(ctx context.Context, r DateRange, limit int) ([]IndustryCount, error)
}
