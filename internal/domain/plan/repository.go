package plan

import "context"

type Repository interface {
	Create(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetBySlug(ctx context.Context, slug string) (*Plan, error)
	Update(ctx context.Context, plan *Plan) error
	Delete(ctx context.Context, id uint) error

	GetAllActive(ctx context.Context) ([]*Plan, error)
	List(ctx context.Context, filter Filter) ([]*Plan, int64, error)

	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

type Filter struct {
	Status   *string
	Interval *string
	Currency *string
	Page     int
	PageSize int
	SortBy   string
}
