package user

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filter Filter) ([]*User, int64, error)
	FindExpiredSubscriptions(ctx context.Context, asOf time.Time) ([]*User, error)

	CountByStatus(ctx context.Context, status string) (int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type Filter struct {
	Role               *string
	SubscriptionStatus *string
	PricingPlanID      *uint
	Search             string
	Page               int
	PageSize           int
	SortBy             string
	SortDesc           bool
}
