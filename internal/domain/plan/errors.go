package plan

import "errors"

var (
	ErrPlanNotFound   = errors.New("pricing plan not found")
	ErrPlanInactive   = errors.New("pricing plan inactive")
	ErrPlanSlugExists = errors.New("plan slug already exists")
	ErrInvalidPrice   = errors.New("invalid price")
)
