package analytics

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tailorcv/tailorcv/internal/application/analytics/dto"
	"github.com/tailorcv/tailorcv/internal/shared/biztime"
	"github.com/tailorcv/tailorcv/internal/shared/constants"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
)

const topListLimit = 8

// jobApplicationStatuses is the canonical status order for the
// applications-by-status table.
var jobApplicationStatuses = []string{
	"saved", "applied", "interviewing", "offered", "rejected", "withdrawn",
}

// ReportQuery carries the raw report filters from the request.
type ReportQuery struct {
	Period    string
	StartDate string
	EndDate   string
	Currency  string
}

// Service assembles the admin analytics report: headline counts, estimated
// recurring revenue grouped by currency, growth series, and top lists.
// Revenue figures are estimates derived from plan prices of currently
// active subscribers, not ledger data.
type Service struct {
	repo   Repository
	logger logger.Interface
	now    func() time.Time
}

func NewService(repo Repository, logger logger.Interface) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Report builds the analytics payload for the requested period and currency.
func (s *Service) Report(ctx context.Context, query ReportQuery) (dto.Report, error) {
	now := s.now()
	period, dateRange := ResolvePeriod(now, query.Period, query.StartDate, query.EndDate)

	currencies, err := s.repo.ActiveCurrencies(ctx)
	if err != nil {
		return dto.Report{}, err
	}
	for i, currency := range currencies {
		currencies[i] = strings.ToUpper(currency)
	}
	selectedCurrency := s.selectCurrency(query.Currency, currencies)

	newSignups, err := s.repo.CountNewUsers(ctx, dateRange)
	if err != nil {
		return dto.Report{}, err
	}
	totalCvs, err := s.repo.CountCvs(ctx, dateRange)
	if err != nil {
		return dto.Report{}, err
	}
	totalCoverLetters, err := s.repo.CountCoverLetters(ctx, dateRange)
	if err != nil {
		return dto.Report{}, err
	}
	totalApplications, err := s.repo.CountJobApplications(ctx, dateRange)
	if err != nil {
		return dto.Report{}, err
	}

	activeSubscribers, err := s.repo.CountActiveSubscribers(ctx, now)
	if err != nil {
		return dto.Report{}, err
	}
	newPaidSubscribers, err := s.repo.CountNewPaidSubscribers(ctx, now, dateRange)
	if err != nil {
		return dto.Report{}, err
	}

	revenueRows, err := s.repo.RevenueRows(ctx, now)
	if err != nil {
		return dto.Report{}, err
	}
	revenueByCurrency := buildRevenueByCurrency(revenueRows)
	mrr, arr := selectedRevenue(revenueByCurrency, selectedCurrency)

	bookingRows, err := s.repo.BookingRows(ctx, now, dateRange)
	if err != nil {
		return dto.Report{}, err
	}
	bookings := selectedBookings(bookingRows, selectedCurrency)

	growth, err := s.buildGrowth(ctx, now, dateRange)
	if err != nil {
		return dto.Report{}, err
	}

	statusCounts, err := s.repo.JobApplicationStatusCounts(ctx, dateRange)
	if err != nil {
		return dto.Report{}, err
	}
	applicationsByStatus := make([]dto.StatusCount, 0, len(jobApplicationStatuses))
	for _, status := range jobApplicationStatuses {
		applicationsByStatus = append(applicationsByStatus, dto.StatusCount{
			Status: status,
			Label:  headline(status),
			Count:  statusCounts[status],
		})
	}

	topTemplates, err := s.buildTopTemplates(ctx, dateRange)
	if err != nil {
		return dto.Report{}, err
	}
	topIndustries, err := s.buildTopIndustries(ctx, dateRange)
	if err != nil {
		return dto.Report{}, err
	}

	return dto.Report{
		Period:              string(period),
		Currency:            selectedCurrency,
		AvailableCurrencies: append([]string{"ALL"}, currencies...),
		DateRange: dto.DateRangeInfo{
			Label: PeriodLabel(period, dateRange),
			Start: dateString(dateRange.Start),
			End:   endDateString(dateRange.End),
		},
		Overview: dto.Overview{
			NewSignups:         newSignups,
			TotalCvs:           totalCvs,
			TotalCoverLetters:  totalCoverLetters,
			TotalApplications:  totalApplications,
			ActiveSubscribers:  activeSubscribers,
			NewPaidSubscribers: newPaidSubscribers,
			EstimatedMRR:       round2(mrr),
			EstimatedARR:       round2(arr),
			EstimatedBookings:  round2(bookings),
			Currency:           selectedCurrency,
			CurrencySymbol:     CurrencySymbol(selectedCurrency),
		},
		Growth:               growth,
		ApplicationsByStatus: applicationsByStatus,
		TopTemplates:         topTemplates,
		TopIndustries:        topIndustries,
		RevenueByCurrency:    revenueByCurrency,
	}, nil
}

// selectCurrency validates the requested currency against the active set,
// preferring the shop's home currency when nothing valid is requested.
func (s *Service) selectCurrency(requested string, available []string) string {
	requested = strings.ToUpper(strings.TrimSpace(requested))
	if requested == "ALL" {
		return requested
	}
	for _, currency := range available {
		if currency == requested {
			return requested
		}
	}
	return preferredCurrency(available)
}

func preferredCurrency(available []string) string {
	for _, currency := range available {
		if currency == constants.DefaultCurrency {
			return currency
		}
	}
	if len(available) > 0 {
		return available[0]
	}
	return "ALL"
}

// buildRevenueByCurrency converts grouped subscriber rows into MRR/ARR
// estimates per currency. Monthly plans contribute price to MRR and 12x to
// ARR; yearly plans the inverse; one-time plans contribute to ARR only.
func buildRevenueByCurrency(rows []RevenueRow) []dto.CurrencyRevenue {
	type bucket struct {
		subscribers int64
		mrr         float64
		arr         float64
	}
	buckets := make(map[string]*bucket)
	for _, row := range rows {
		currency := strings.ToUpper(row.Currency)
		b, ok := buckets[currency]
		if !ok {
			b = &bucket{}
			buckets[currency] = b
		}

		count := float64(row.Subscribers)
		price := float64(row.Price) / 100 // minor units to major
		b.subscribers += row.Subscribers

		switch row.Interval {
		case "monthly":
			b.mrr += price * count
			b.arr += price * 12 * count
		case "yearly":
			b.mrr += price / 12 * count
			b.arr += price * count
		case "one_time":
			b.arr += price * count
		}
	}

	out := make([]dto.CurrencyRevenue, 0, len(buckets))
	for currency, b := range buckets {
		out = append(out, dto.CurrencyRevenue{
			Currency:          currency,
			ActiveSubscribers: b.subscribers,
			MRR:               round2(b.mrr),
			ARR:               round2(b.arr),
			CurrencySymbol:    CurrencySymbol(currency),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}

func selectedRevenue(revenue []dto.CurrencyRevenue, currency string) (mrr, arr float64) {
	if currency == "ALL" {
		for _, entry := range revenue {
			mrr += entry.MRR
			arr += entry.ARR
		}
		return mrr, arr
	}
	for _, entry := range revenue {
		if entry.Currency == currency {
			return entry.MRR, entry.ARR
		}
	}
	return 0, 0
}

func selectedBookings(rows []BookingRow, currency string) float64 {
	var total float64
	for _, row := range rows {
		if currency != "ALL" && strings.ToUpper(row.Currency) != currency {
			continue
		}
		total += float64(row.Price) / 100 * float64(row.Subscribers)
	}
	return total
}

// buildGrowth fills the daily series over the range, defaulting to the last
// 30 days when the range is unbounded. Days with no rows appear as zero.
func (s *Service) buildGrowth(ctx context.Context, now time.Time, r DateRange) (dto.Growth, error) {
	from, to := r.Start, r.End
	if from == nil || to == nil {
		start := biztime.StartOfDayUTC(now).AddDate(0, 0, -29)
		end := biztime.StartOfDayUTC(now).Add(24 * time.Hour)
		from, to = &start, &end
	}

	users, err := s.repo.UserSignupsByDay(ctx, *from, *to)
	if err != nil {
		return dto.Growth{}, err
	}
	cvs, err := s.repo.CvsByDay(ctx, *from, *to)
	if err != nil {
		return dto.Growth{}, err
	}
	applications, err := s.repo.JobApplicationsByDay(ctx, *from, *to)
	if err != nil {
		return dto.Growth{}, err
	}

	return dto.Growth{
		Users:        fillSeries(*from, *to, users),
		Cvs:          fillSeries(*from, *to, cvs),
		Applications: fillSeries(*from, *to, applications),
	}, nil
}

func fillSeries(from, to time.Time, counts []DayCount) []dto.SeriesPoint {
	byDay := make(map[string]int64, len(counts))
	for _, c := range counts {
		byDay[c.Day] = c.Count
	}

	loc := biztime.Location()
	series := make([]dto.SeriesPoint, 0)
	for day := from.In(loc); day.Before(to.In(loc)); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		series = append(series, dto.SeriesPoint{
			Date:  key,
			Label: day.Format("Jan 02"),
			Count: byDay[key],
		})
	}
	return series
}

func (s *Service) buildTopTemplates(ctx context.Context, r DateRange) ([]dto.TemplateUsage, error) {
	rows, err := s.repo.TopTemplates(ctx, r, topListLimit)
	if err != nil {
		return nil, err
	}
	// An empty window falls back to all-time usage so the table is never
	// blank while data exists.
	if len(rows) == 0 && r.IsBounded() {
		if rows, err = s.repo.TopTemplates(ctx, DateRange{}, topListLimit); err != nil {
			return nil, err
		}
	}

	out := make([]dto.TemplateUsage, 0, len(rows))
	for _, row := range rows {
		name := row.Name
		if name == "" {
			name = headline(row.Slug)
		}
		out = append(out, dto.TemplateUsage{
			Slug:  row.Slug,
			Name:  name,
			Count: row.Count,
		})
	}
	return out, nil
}

func (s *Service) buildTopIndustries(ctx context.Context, r DateRange) ([]dto.IndustryShare, error) {
	rows, err := s.repo.TopIndustries(ctx, r, topListLimit)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 && r.IsBounded() {
		if rows, err = s.repo.TopIndustries(ctx, DateRange{}, topListLimit); err != nil {
			return nil, err
		}
	}

	var total int64
	for _, row := range rows {
		total += row.Count
	}
	if total == 0 {
		total = 1
	}

	out := make([]dto.IndustryShare, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.IndustryShare{
			Industry:   row.Industry,
			Label:      headline(row.Industry),
			Count:      row.Count,
			Percentage: round1(float64(row.Count) / float64(total) * 100),
		})
	}
	return out, nil
}

// CurrencySymbol maps a currency code to its display symbol.
func CurrencySymbol(currency string) string {
	switch strings.ToUpper(currency) {
	case "USD":
		return "$"
	case "ALL":
		return ""
	default:
		return strings.ToUpper(currency)
	}
}

// headline turns a snake_case or kebab-case key into a display label.
func headline(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.In(biztime.Location()).Format("2006-01-02")
	return &s
}

// endDateString renders the inclusive end day of a closed-open range.
func endDateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Add(-time.Second).In(biztime.Location()).Format("2006-01-02")
	return &s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
