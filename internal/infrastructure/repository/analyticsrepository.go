package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tailorcv/tailorcv/internal/application/analytics"
	"github.com/tailorcv/tailorcv/internal/infrastructure/persistence/models"
	"github.com/tailorcv/tailorcv/internal/shared/constants"
	shareddb "github.com/tailorcv/tailorcv/internal/shared/db"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
)

// AnalyticsRepositoryImpl runs the aggregate queries behind the admin
// report. Read-only; every method is a single grouped query.
type AnalyticsRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewAnalyticsRepository(db *gorm.DB, logger logger.Interface) analytics.Repository {
	return &AnalyticsRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *AnalyticsRepositoryImpl) CountNewUsers(ctx context.Context, rng analytics.DateRange) (int64, error) {
	return r.countInRange(ctx, &models.UserModel{}, rng, "users")
}

func (r *AnalyticsRepositoryImpl) CountCvs(ctx context.Context, rng analytics.DateRange) (int64, error) {
	return r.countInRange(ctx, &models.CvModel{}, rng, "cvs")
}

func (r *AnalyticsRepositoryImpl) CountCoverLetters(ctx context.Context, rng analytics.DateRange) (int64, error) {
	return r.countInRange(ctx, &models.CoverLetterModel{}, rng, "cover letters")
}

func (r *AnalyticsRepositoryImpl) CountJobApplications(ctx context.Context, rng analytics.DateRange) (int64, error) {
	return r.countInRange(ctx, &models.JobApplicationModel{}, rng, "job applications")
}

func (r *AnalyticsRepositoryImpl) CountActiveSubscribers(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.activeSubscribers(ctx, now).Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count active subscribers", "error", err)
		return 0, fmt.Errorf("failed to count active subscribers: %w", err)
	}
	return count, nil
}

func (r *AnalyticsRepositoryImpl) CountNewPaidSubscribers(ctx context.Context, now time.Time, rng analytics.DateRange) (int64, error) {
	var count int64
	err := applyRange(r.activeSubscribers(ctx, now), "updated_at", rng).Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count new paid subscribers", "error", err)
		return 0, fmt.Errorf("failed to count new paid subscribers: %w", err)
	}
	return count, nil
}

// RevenueRows groups active subscribers by their plan's currency, interval
// and price.
func (r *AnalyticsRepositoryImpl) RevenueRows(ctx context.Context, now time.Time) ([]analytics.RevenueRow, error) {
	var rows []analytics.RevenueRow
	err := r.activeSubscribers(ctx, now).
		Select("p.currency AS currency, p.`interval` AS `interval`, p.price AS price, COUNT(*) AS subscribers").
		Joins(fmt.Sprintf("JOIN %s p ON p.id = %s.pricing_plan_id",
			constants.TablePricingPlans, constants.TableUsers)).
		Scopes(shareddb.NotDeletedWithAlias("p")).
		Group("p.currency, p.`interval`, p.price").
		Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to load revenue rows", "error", err)
		return nil, fmt.Errorf("failed to load revenue rows: %w", err)
	}
	return rows, nil
}

// BookingRows groups subscribers who became paid inside the range by
// currency and price.
func (r *AnalyticsRepositoryImpl) BookingRows(ctx context.Context, now time.Time, rng analytics.DateRange) ([]analytics.BookingRow, error) {
	var rows []analytics.BookingRow
	query := r.activeSubscribers(ctx, now).
		Select("p.currency AS currency, p.price AS price, COUNT(*) AS subscribers").
		Joins(fmt.Sprintf("JOIN %s p ON p.id = %s.pricing_plan_id",
			constants.TablePricingPlans, constants.TableUsers)).
		Scopes(shareddb.NotDeletedWithAlias("p"))
	err := applyRange(query, constants.TableUsers+".updated_at", rng).
		Group("p.currency, p.price").
		Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to load booking rows", "error", err)
		return nil, fmt.Errorf("failed to load booking rows: %w", err)
	}
	return rows, nil
}

func (r *AnalyticsRepositoryImpl) ActiveCurrencies(ctx context.Context) ([]string, error) {
	var currencies []string
	err := r.db.WithContext(ctx).Model(&models.PricingPlanModel{}).
		Where("status = ?", "active").
		Distinct("currency").
		Order("currency ASC").
		Pluck("currency", &currencies).Error
	if err != nil {
		r.logger.Errorw("failed to load active currencies", "error", err)
		return nil, fmt.Errorf("failed to load active currencies: %w", err)
	}
	return currencies, nil
}

func (r *AnalyticsRepositoryImpl) UserSignupsByDay(ctx context.Context, from, to time.Time) ([]analytics.DayCount, error) {
	return r.countByDay(ctx, &models.UserModel{}, from, to, "user signups")
}

func (r *AnalyticsRepositoryImpl) CvsByDay(ctx context.Context, from, to time.Time) ([]analytics.DayCount, error) {
	return r.countByDay(ctx, &models.CvModel{}, from, to, "cvs")
}

func (r *AnalyticsRepositoryImpl) JobApplicationsByDay(ctx context.Context, from, to time.Time) ([]analytics.DayCount, error) {
	return r.countByDay(ctx, &models.JobApplicationModel{}, from, to, "job applications")
}

func (r *AnalyticsRepositoryImpl) JobApplicationStatusCounts(ctx context.Context, rng analytics.DateRange) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	query := r.db.WithContext(ctx).Model(&models.JobApplicationModel{}).
		Select("status, COUNT(*) AS count")
	err := applyRange(query, "created_at", rng).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to load job application status counts", "error", err)
		return nil, fmt.Errorf("failed to load job application status counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// TopTemplates ranks CV templates by how many CVs used them in range.
func (r *AnalyticsRepositoryImpl) TopTemplates(ctx context.Context, rng analytics.DateRange, limit int) ([]analytics.TemplateUsage, error) {
	var rows []analytics.TemplateUsage
	query := r.db.WithContext(ctx).Model(&models.CvModel{}).
		Select("t.slug AS slug, t.name AS name, COUNT(*) AS count").
		Joins(fmt.Sprintf("JOIN %s t ON t.id = %s.template_id",
			constants.TableCvTemplates, constants.TableCvs)).
		Scopes(shareddb.NotDeletedWithAlias("t"))
	err := applyRange(query, "created_at", rng).
		Group("t.slug, t.name").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to load top templates", "error", err)
		return nil, fmt.Errorf("failed to load top templates: %w", err)
	}
	return rows, nil
}

// TopIndustries ranks the industries CVs created in range target.
func (r *AnalyticsRepositoryImpl) TopIndustries(ctx context.Context, rng analytics.DateRange, limit int) ([]analytics.IndustryCount, error) {
	var rows []analytics.IndustryCount
	query := r.db.WithContext(ctx).Model(&models.CvModel{}).
		Select("industry, COUNT(*) AS count").
		Where("industry <> ''")
	err := applyRange(query, "created_at", rng).
		Group("industry").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to load top industries", "error", err)
		return nil, fmt.Errorf("failed to load top industries: %w", err)
	}
	return rows, nil
}

// activeSubscribers scopes users to those holding an active, unexpired
// subscription as of now.
func (r *AnalyticsRepositoryImpl) activeSubscribers(ctx context.Context, now time.Time) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("subscription_status = ?", "active").
		Where("pricing_plan_id IS NOT NULL").
		Where("subscription_ends_at IS NULL OR subscription_ends_at > ?", now)
}

func (r *AnalyticsRepositoryImpl) countInRange(ctx context.Context, model interface{}, rng analytics.DateRange, what string) (int64, error) {
	var count int64
	err := applyRange(r.db.WithContext(ctx).Model(model), "created_at", rng).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count "+what, "error", err)
		return 0, fmt.Errorf("failed to count %s: %w", what, err)
	}
	return count, nil
}

func (r *AnalyticsRepositoryImpl) countByDay(ctx context.Context, model interface{}, from, to time.Time, what string) ([]analytics.DayCount, error) {
	var rows []analytics.DayCount
	err := r.db.WithContext(ctx).Model(model).
		Select("DATE(created_at) AS day, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to load daily counts", "error", err, "series", what)
		return nil, fmt.Errorf("failed to load daily %s counts: %w", what, err)
	}
	return rows, nil
}

// applyRange narrows a query to rows whose column falls in [Start, End).
func applyRange(query *gorm.DB, column string, rng analytics.DateRange) *gorm.DB {
	if rng.Start != nil {
		query = query.Where(column+" >= ?", *rng.Start)
	}
	if rng.End != nil {
		query = query.Where(column+" < ?", *rng.End)
	}
	return query
}
