package dto

// Overview is the headline metric block of the analytics report.
type Overview struct {
	NewSignups         int64   `json:"new_signups"`
	TotalCvs           int64   `json:"total_cvs"`
	TotalCoverLetters  int64   `json:"total_cover_letters"`
	TotalApplications  int64   `json:"total_applications"`
	ActiveSubscribers  int64   `json:"active_subscribers"`
	NewPaidSubscribers int64   `json:"new_paid_subscribers"`
	EstimatedMRR       float64 `json:"estimated_mrr"`
	EstimatedARR       float64 `json:"estimated_arr"`
	EstimatedBookings  float64 `json:"estimated_bookings"`
	Currency           string  `json:"currency"`
	CurrencySymbol     string  `json:"currency_symbol"`
}

// CurrencyRevenue is the recurring-revenue estimate for one currency.
type CurrencyRevenue struct {
	Currency          string  `json:"currency"`
	ActiveSubscribers int64   `json:"active_subscribers"`
	MRR               float64 `json:"mrr"`
	ARR               float64 `json:"arr"`
	CurrencySymbol    string  `json:"currency_symbol"`
}

// SeriesPoint is one day of a growth chart.
type SeriesPoint struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// StatusCount is one job-application status bucket.
type StatusCount struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Count  int64  `json:"count"`
}

// TemplateUsage is one row of the top-templates table.
type TemplateUsage struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// IndustryShare is one row of the top-industries table.
type IndustryShare struct {
	Industry   string  `json:"industry"`
	Label      string  `json:"label"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DateRangeInfo describes the resolved reporting window.
type DateRangeInfo struct {
	Label string  `json:"label"`
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// Growth bundles the daily series of the report.
type Growth struct {
	Users        []SeriesPoint `json:"users"`
	Cvs          []SeriesPoint `json:"cvs"`
	Applications []SeriesPoint `json:"applications"`
}

// Report is the full admin analytics payload.
type Report struct {
	Period               string            `json:"period"`
	Currency             string            `json:"currency"`
	AvailableCurrencies  []string          `json:"available_currencies"`
	DateRange            DateRangeInfo     `json:"date_range"`
	Overview             Overview          `json:"overview"`
	Growth               Growth            `json:"growth"`
	ApplicationsByStatus []StatusCount     `json:"applications_by_status"`
	TopTemplates         []TemplateUsage   `json:"top_templates"`
	TopIndustries        []IndustryShare   `json:"top_industries"`
	RevenueByCurrency    []CurrencyRevenue `json:"revenue_by_currency"`
}
