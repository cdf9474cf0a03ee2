package dto

import (
	"time"

	"github.com/tailorcv/tailorcv/internal/domain/user"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// AssignSubscriptionRequest attaches a plan to a user. EndsAt is nil for
// one-time lifetime purchases.
type AssignSubscriptionRequest struct {
	PlanID uint       `json:"plan_id" binding:"required"`
	EndsAt *time.Time `json:"ends_at"`
}

type ListUsersRequest struct {
	Role               *string `form:"role" binding:"omitempty,oneof=user admin"`
	SubscriptionStatus *string `form:"subscription_status" binding:"omitempty,oneof=free active expired cancelled"`
	Search             string  `form:"search"`
	Page               int     `form:"page"`
	PageSize           int     `form:"page_size"`
}

type UserResponse struct {
	ID                 uint       `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	SubscriptionStatus string     `json:"subscription_status"`
	PricingPlanID      *uint      `json:"pricing_plan_id,omitempty"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// AuthResponse carries the issued tokens plus the user snapshot.
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// FromUser maps the aggregate to its response form.
func FromUser(u *user.User) UserResponse {
	return UserResponse{
		ID:                 u.ID(),
		Name:               u.Name(),
		Email:              u.Email(),
		Role:               string(u.Role()),
		SubscriptionStatus: string(u.SubscriptionStatus()),
		PricingPlanID:      u.PricingPlanID(),
		SubscriptionEndsAt: u.SubscriptionEndsAt(),
		CreatedAt:          u.CreatedAt(),
	}
}

// FromUsers maps a list of aggregates.
func FromUsers(users []*user.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}
