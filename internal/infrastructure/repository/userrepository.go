package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tailorcv/tailorcv/internal/domain/user"
	"github.com/tailorcv/tailorcv/internal/infrastructure/persistence/models"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
	sharedquery "github.com/tailorcv/tailorcv/internal/shared/query"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUserRepository(db *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, u *user.User) error {
	model := r.toModel(u)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create user", "error", err, "email", u.Email())
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := u.SetID(model.ID); err != nil {
		return err
	}

	return nil
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by ID", "error", err, "user_id", id)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.toEntity(&model)
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return r.toEntity(&model)
}

func (r *UserRepositoryImpl) Update(ctx context.Context, u *user.User) error {
	model := r.toModel(u)

	result := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", u.ID()).
		Updates(map[string]interface{}{
			"name":                 model.Name,
			"email":                model.Email,
			"password_hash":        model.PasswordHash,
			"role":                 model.Role,
			"subscription_status":  model.SubscriptionStatus,
			"pricing_plan_id":      model.PricingPlanID,
			"subscription_ends_at": model.SubscriptionEndsAt,
			"version":              model.Version,
			"updated_at":           model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update user", "error", result.Error, "user_id", u.ID())
		return fmt.Errorf("failed to update user: %w", result.Error)
	}

	return nil
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.UserModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete user", "error", result.Error, "user_id", id)
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) List(ctx context.Context, filter user.Filter) ([]*user.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UserModel{})

	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.SubscriptionStatus != nil {
		query = query.Where("subscription_status = ?", *filter.SubscriptionStatus)
	}
	if filter.PricingPlanID != nil {
		query = query.Where("pricing_plan_id = ?", *filter.PricingPlanID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count users", "error", err)
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	sortBy := filter.SortBy
	switch sortBy {
	case "name", "email", "created_at":
	default:
		sortBy = "created_at"
	}
	sf := sharedquery.SortFilter{SortBy: sortBy}
	if filter.SortDesc {
		sf.SortOrder = "desc"
	}

	if filter.PageSize > 0 {
		pf := sharedquery.PageFilter{Page: filter.Page, PageSize: filter.PageSize}
		query = query.Offset(pf.Offset()).Limit(pf.Limit())
	}

	var userModels []*models.UserModel
	if err := query.Order(sf.OrderClause()).Find(&userModels).Error; err != nil {
		r.logger.Errorw("failed to list users", "error", err)
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users, err := r.toEntities(userModels)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// FindExpiredSubscriptions returns active subscribers whose end date has
// passed. Used by the expiry sweep.
func (r *UserRepositoryImpl) FindExpiredSubscriptions(ctx context.Context, asOf time.Time) ([]*user.User, error) {
	var userModels []*models.UserModel
	err := r.db.WithContext(ctx).
		Where("subscription_status = ?", string(user.SubscriptionActive)).
		Where("subscription_ends_at IS NOT NULL AND subscription_ends_at < ?", asOf).
		Find(&userModels).Error
	if err != nil {
		r.logger.Errorw("failed to find expired subscriptions", "error", err)
		return nil, fmt.Errorf("failed to find expired subscriptions: %w", err)
	}

	return r.toEntities(userModels)
}

func (r *UserRepositoryImpl) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("subscription_status = ?", status).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count users by status", "error", err, "status", status)
		return 0, fmt.Errorf("failed to count users by status: %w", err)
	}
	return count, nil
}

func (r *UserRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to check email existence", "error", err)
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepositoryImpl) toModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:                 u.ID(),
		Name:               u.Name(),
		Email:              u.Email(),
		PasswordHash:       u.PasswordHash(),
		Role:               string(u.Role()),
		SubscriptionStatus: string(u.SubscriptionStatus()),
		PricingPlanID:      u.PricingPlanID(),
		SubscriptionEndsAt: u.SubscriptionEndsAt(),
		Version:            u.Version(),
		CreatedAt:          u.CreatedAt(),
		UpdatedAt:          u.UpdatedAt(),
	}
}

func (r *UserRepositoryImpl) toEntity(model *models.UserModel) (*user.User, error) {
	return user.ReconstructUser(
		model.ID,
		model.Name,
		model.Email,
		model.PasswordHash,
		model.Role,
		model.SubscriptionStatus,
		model.PricingPlanID,
		model.SubscriptionEndsAt,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (r *UserRepositoryImpl) toEntities(userModels []*models.UserModel) ([]*user.User, error) {
	users := make([]*user.User, 0, len(userModels))
	for _, model := range userModels {
		u, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}
