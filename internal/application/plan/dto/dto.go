package dto

import (
	"time"

	"github.com/tailorcv/tailorcv/internal/domain/plan"
)

// CreatePlanRequest carries the fields for a new pricing plan. Price is in
// minor currency units.
type CreatePlanRequest struct {
	Name        string         `json:"name" binding:"required,max=100"`
	Slug        string         `json:"slug" binding:"required,max=100"`
	Description string         `json:"description"`
	Price       uint64         `json:"price"`
	Currency    string         `json:"currency" binding:"required,len=3"`
	Interval    string         `json:"interval" binding:"required,oneof=monthly yearly one_time"`
	IsPopular   bool           `json:"is_popular"`
	SortOrder   int            `json:"sort_order"`
	Features    map[string]any `json:"features"`
}

// UpdatePlanRequest carries a partial plan update; nil fields are left
// untouched.
type UpdatePlanRequest struct {
	Name        *string        `json:"name" binding:"omitempty,max=100"`
	Description *string        `json:"description"`
	Price       *uint64        `json:"price"`
	Currency    *string        `json:"currency" binding:"omitempty,len=3"`
	IsPopular   *bool          `json:"is_popular"`
	SortOrder   *int           `json:"sort_order"`
	Features    map[string]any `json:"features"`
}

// ListPlansRequest filters the admin plan listing.
type ListPlansRequest struct {
	Status   *string `form:"status" binding:"omitempty,oneof=active inactive"`
	Interval *string `form:"interval" binding:"omitempty,oneof=monthly yearly one_time"`
	Currency *string `form:"currency" binding:"omitempty,len=3"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

// PlanResponse is the admin-facing plan representation.
type PlanResponse struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Price       uint64         `json:"price"`
	Currency    string         `json:"currency"`
	Interval    string         `json:"interval"`
	IsPopular   bool           `json:"is_popular"`
	SortOrder   int            `json:"sort_order"`
	Status      string         `json:"status"`
	Features    map[string]any `json:"features"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// FromPlan maps the aggregate to its response form.
func FromPlan(p *plan.Plan) PlanResponse {
	return PlanResponse{
		ID:          p.ID(),
		Name:        p.Name(),
		Slug:        p.Slug(),
		Description: p.Description(),
		Price:       p.Price(),
		Currency:    p.Currency(),
		Interval:    p.Interval().String(),
		IsPopular:   p.IsPopular(),
		SortOrder:   p.SortOrder(),
		Status:      string(p.Status()),
		Features:    p.Features(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

// FromPlans maps a list of aggregates.
func FromPlans(plans []*plan.Plan) []PlanResponse {
	out := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, FromPlan(p))
	}
	return out
}
