package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tailorcv/tailorcv/internal/domain/plan"
	"github.com/tailorcv/tailorcv/internal/infrastructure/persistence/models"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
	sharedquery "github.com/tailorcv/tailorcv/internal/shared/query"
)

type PlanRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPlanRepository(db *gorm.DB, logger logger.Interface) plan.Repository {
	return &PlanRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, p *plan.Plan) error {
	model, err := r.toModel(p)
	if err != nil {
		r.logger.Errorw("failed to convert plan to model", "error", err)
		return fmt.Errorf("failed to convert plan to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create pricing plan", "error", err, "slug", p.Slug())
		return fmt.Errorf("failed to create pricing plan: %w", err)
	}

	if err := p.SetID(model.ID); err != nil {
		return err
	}

	return nil
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id uint) (*plan.Plan, error) {
	var model models.PricingPlanModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get pricing plan by ID", "error", err, "plan_id", id)
		return nil, fmt.Errorf("failed to get pricing plan: %w", err)
	}

	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*plan.Plan, error) {
	var model models.PricingPlanModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get pricing plan by slug", "error", err, "slug", slug)
		return nil, fmt.Errorf("failed to get pricing plan by slug: %w", err)
	}

	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) Update(ctx context.Context, p *plan.Plan) error {
	model, err := r.toModel(p)
	if err != nil {
		r.logger.Errorw("failed to convert plan to model", "error", err)
		return fmt.Errorf("failed to convert plan to model: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&models.PricingPlanModel{}).
		Where("id = ?", p.ID()).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"description": model.Description,
			"price":       model.Price,
			"currency":    model.Currency,
			"interval":    model.Interval,
			"is_popular":  model.IsPopular,
			"sort_order":  model.SortOrder,
			"status":      model.Status,
			"features":    model.Features,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update pricing plan", "error", result.Error, "plan_id", p.ID())
		return fmt.Errorf("failed to update pricing plan: %w", result.Error)
	}

	return nil
}

func (r *PlanRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.PricingPlanModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete pricing plan", "error", result.Error, "plan_id", id)
		return fmt.Errorf("failed to delete pricing plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return plan.ErrPlanNotFound
	}
	return nil
}

func (r *PlanRepositoryImpl) GetAllActive(ctx context.Context) ([]*plan.Plan, error) {
	var planModels []*models.PricingPlanModel
	err := r.db.WithContext(ctx).
		Where("status = ?", "active").
		Order("sort_order ASC, id ASC").
		Find(&planModels).Error
	if err != nil {
		r.logger.Errorw("failed to get active pricing plans", "error", err)
		return nil, fmt.Errorf("failed to get active pricing plans: %w", err)
	}

	return r.toEntities(planModels)
}

func (r *PlanRepositoryImpl) List(ctx context.Context, filter plan.Filter) ([]*plan.Plan, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PricingPlanModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Interval != nil {
		query = query.Where("`interval` = ?", *filter.Interval)
	}
	if filter.Currency != nil {
		query = query.Where("currency = ?", *filter.Currency)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count pricing plans", "error", err)
		return nil, 0, fmt.Errorf("failed to count pricing plans: %w", err)
	}

	order := "sort_order ASC, id ASC"
	if filter.SortBy == "created_at" {
		order = "created_at DESC"
	}

	var planModels []*models.PricingPlanModel
	if filter.PageSize > 0 {
		pf := sharedquery.PageFilter{Page: filter.Page, PageSize: filter.PageSize}
		query = query.Offset(pf.Offset()).Limit(pf.Limit())
	}
	if err := query.Order(order).Find(&planModels).Error; err != nil {
		r.logger.Errorw("failed to list pricing plans", "error", err)
		return nil, 0, fmt.Errorf("failed to list pricing plans: %w", err)
	}

	plans, err := r.toEntities(planModels)
	if err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}

func (r *PlanRepositoryImpl) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PricingPlanModel{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to check plan slug existence", "error", err, "slug", slug)
		return false, fmt.Errorf("failed to check plan slug existence: %w", err)
	}
	return count > 0, nil
}

func (r *PlanRepositoryImpl) toModel(p *plan.Plan) (*models.PricingPlanModel, error) {
	var features datatypes.JSON
	if len(p.Features()) > 0 {
		data, err := json.Marshal(p.Features())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal plan features: %w", err)
		}
		features = data
	}

	return &models.PricingPlanModel{
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
		Features:    features,
		Version:     p.Version(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}, nil
}

func (r *PlanRepositoryImpl) toEntity(model *models.PricingPlanModel) (*plan.Plan, error) {
	var features map[string]interface{}
	if len(model.Features) > 0 {
		if err := json.Unmarshal(model.Features, &features); err != nil {
			// A non-object blob (array, scalar) carries no overrides. The
			// plan itself must still load.
			r.logger.Warnw("ignoring non-object plan features blob",
				"error", err, "plan_id", model.ID, "slug", model.Slug)
			features = nil
		}
	}

	return plan.ReconstructPlan(
		model.ID,
		model.Name,
		model.Slug,
		model.Description,
		model.Price,
		model.Currency,
		plan.Interval(model.Interval),
		model.IsPopular,
		model.SortOrder,
		model.Status,
		features,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (r *PlanRepositoryImpl) toEntities(planModels []*models.PricingPlanModel) ([]*plan.Plan, error) {
	plans := make([]*plan.Plan, 0, len(planModels))
	for _, model := range planModels {
		p, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}
