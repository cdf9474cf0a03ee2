package plan

import (
	"context"
	"strings"

	"github.com/tailorcv/tailorcv/internal/application/plan/dto"
	"github.com/tailorcv/tailorcv/internal/domain/entitlement"
	"github.com/tailorcv/tailorcv/internal/domain/plan"
	"github.com/tailorcv/tailorcv/internal/shared/constants"
	appErrors "github.com/tailorcv/tailorcv/internal/shared/errors"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
	"github.com/tailorcv/tailorcv/internal/shared/utils"
)

// Service is the admin write side of the pricing catalog. The entitlement
// resolver reads the rows this service maintains; the features blob is
// validated for shape here so a malformed override never reaches a plan
// row.
type Service struct {
	planRepo plan.Repository
	logger   logger.Interface
}

func NewService(planRepo plan.Repository, logger logger.Interface) *Service {
	return &Service{
		planRepo: planRepo,
		logger:   logger,
	}
}

// CreatePlan registers a new pricing plan. Slugs are unique across active
// and inactive plans.
func (s *Service) CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))

	exists, err := s.planRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		s.logger.Errorw("failed to check plan slug", "error", err, "slug", slug)
		return nil, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}
	if exists {
		return nil, appErrors.NewConflictError("a plan with this slug already exists")
	}

	if err := validateFeaturesBlob(req.Features); err != nil {
		return nil, err
	}

	p, err := plan.NewPlan(req.Name, slug, req.Description, req.Price,
		strings.ToUpper(req.Currency), plan.Interval(req.Interval))
	if err != nil {
		return nil, appErrors.NewValidationError(err.Error())
	}
	if req.IsPopular {
		p.MarkPopular(true)
	}
	if req.SortOrder != 0 {
		p.SetSortOrder(req.SortOrder)
	}
	if len(req.Features) > 0 {
		p.UpdateFeatures(req.Features)
	}

	if err := s.planRepo.Create(ctx, p); err != nil {
		if appErrors.IsDuplicateError(err) {
			return nil, appErrors.NewConflictError("a plan with this slug already exists")
		}
		s.logger.Errorw("failed to create plan", "error", err, "slug", slug)
		return nil, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}

	s.logger.Infow("pricing plan created", "plan_id", p.ID(), "slug", p.Slug())
	resp := dto.FromPlan(p)
	return &resp, nil
}

// UpdatePlan applies a partial update to an existing plan.
func (s *Service) UpdatePlan(ctx context.Context, id uint, req dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	p, err := s.getPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Features != nil {
		if err := validateFeaturesBlob(req.Features); err != nil {
			return nil, err
		}
		p.UpdateFeatures(req.Features)
	}

	if req.Name != nil || req.Description != nil {
		name := p.Name()
		if req.Name != nil {
			name = *req.Name
		}
		description := p.Description()
		if req.Description != nil {
			description = *req.Description
		}
		if err := p.UpdateDetails(name, description); err != nil {
			return nil, appErrors.NewValidationError(err.Error())
		}
	}

	if req.Price != nil || req.Currency != nil {
		price := p.Price()
		if req.Price != nil {
			price = *req.Price
		}
		currency := p.Currency()
		if req.Currency != nil {
			currency = strings.ToUpper(*req.Currency)
		}
		if err := p.UpdatePrice(price, currency); err != nil {
			return nil, appErrors.NewValidationError(err.Error())
		}
	}

	if req.IsPopular != nil {
		p.MarkPopular(*req.IsPopular)
	}
	if req.SortOrder != nil {
		p.SetSortOrder(*req.SortOrder)
	}

	if err := s.planRepo.Update(ctx, p); err != nil {
		s.logger.Errorw("failed to update plan", "error", err, "plan_id", id)
		return nil, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}

	resp := dto.FromPlan(p)
	return &resp, nil
}

// ActivatePlan makes a plan purchasable again.
func (s *Service) ActivatePlan(ctx context.Context, id uint) error {
	return s.setStatus(ctx, id, true)
}

// DeactivatePlan retires a plan from sale. Existing subscribers keep their
// entitlements; deactivation only hides the plan from purchase.
func (s *Service) DeactivatePlan(ctx context.Context, id uint) error {
	return s.setStatus(ctx, id, false)
}

// GetPlan loads one plan by ID.
func (s *Service) GetPlan(ctx context.Context, id uint) (*dto.PlanResponse, error) {
	p, err := s.getPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromPlan(p)
	return &resp, nil
}

// ListPlans returns a filtered page of plans plus the total count.
func (s *Service) ListPlans(ctx context.Context, req dto.ListPlansRequest) ([]dto.PlanResponse, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}

	plans, total, err := s.planRepo.List(ctx, plan.Filter{
		Status:   req.Status,
		Interval: req.Interval,
		Currency: req.Currency,
		Page:     page,
		PageSize: pageSize,
		SortBy:   "sort_order",
	})
	if err != nil {
		s.logger.Errorw("failed to list plans", "error", err)
		return nil, 0, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}

	return dto.FromPlans(plans), total, nil
}

// ListActivePlans returns every purchasable plan for the public pricing
// page, in sort order.
func (s *Service) ListActivePlans(ctx context.Context) ([]dto.PlanResponse, error) {
	plans, err := s.planRepo.GetAllActive(ctx)
	if err != nil {
		s.logger.Errorw("failed to load active plans", "error", err)
		return nil, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}
	return dto.FromPlans(plans), nil
}

func (s *Service) setStatus(ctx context.Context, id uint, active bool) error {
	p, err := s.getPlan(ctx, id)
	if err != nil {
		return err
	}

	if active {
		p.Activate()
	} else {
		p.Deactivate()
	}

	if err := s.planRepo.Update(ctx, p); err != nil {
		s.logger.Errorw("failed to change plan status", "error", err, "plan_id", id, "active", active)
		return appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}
	return nil
}

func (s *Service) getPlan(ctx context.Context, id uint) (*plan.Plan, error) {
	p, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Errorw("failed to load plan", "error", err, "plan_id", id)
		return nil, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}
	if p == nil {
		return nil, appErrors.NewNotFoundError("pricing plan not found")
	}
	return p, nil
}

// validateFeaturesBlob rejects override blobs whose sub-sections are not
// mappings. Unknown keys inside the sub-maps are allowed; resolution
// ignores what it does not recognize.
func validateFeaturesBlob(blob map[string]any) error {
	if len(blob) == 0 {
		return nil
	}
	if _, ok := entitlement.ParseOverrideBlob(blob); !ok {
		return appErrors.NewValidationError("features must contain 'limits' and/or 'features' mappings")
	}
	return nil
}
