package dto

import "time"

// PlanData is the plan descriptor surfaced to clients. For users without an
// active subscription it carries the synthetic free-tier descriptor rather
// than a database row.
type PlanData struct {
	ID                 *uint      `json:"id"`
	Name               string     `json:"name"`
	Slug               string     `json:"slug"`
	Status             string     `json:"status"`
	IsFree             bool       `json:"is_free"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at"`
}

// UsageSnapshot holds the current usage counters for one user. The AI
// message counter covers the current business day only.
type UsageSnapshot struct {
	Cvs             int `json:"cvs"`
	CoverLetters    int `json:"cover_letters"`
	JobApplications int `json:"job_applications"`
	AIMessagesToday int `json:"ai_messages_today"`
}

// LimitUsageItem is one row of the dashboard usage table.
type LimitUsageItem struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Used      int    `json:"used"`
	Limit     *int   `json:"limit"`
	Remaining *int   `json:"remaining"`
	Reached   bool   `json:"reached"`
}

// DashboardSummary aggregates plan, feature flags and usage for the
// account dashboard.
type DashboardSummary struct {
	CurrentPlan   PlanData         `json:"current_plan"`
	Features      map[string]bool  `json:"features"`
	Usage         []LimitUsageItem `json:"usage"`
	ShouldUpgrade bool             `json:"should_upgrade"`
}
