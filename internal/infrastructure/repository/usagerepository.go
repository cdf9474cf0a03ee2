package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	appentitlement "github.com/tailorcv/tailorcv/internal/application/entitlement"
	"github.com/tailorcv/tailorcv/internal/infrastructure/persistence/models"
	"github.com/tailorcv/tailorcv/internal/shared/constants"
	shareddb "github.com/tailorcv/tailorcv/internal/shared/db"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
)

// UsageRepositoryImpl counts consumed resources for entitlement checks.
// Each count is a separate query; checks tolerate the slight staleness.
type UsageRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUsageRepository(db *gorm.DB, logger logger.Interface) appentitlement.UsageRepository {
	return &UsageRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *UsageRepositoryImpl) CountCvs(ctx context.Context, userID uint) (int, error) {
	return r.countOwned(ctx, &models.CvModel{}, userID, "cvs")
}

func (r *UsageRepositoryImpl) CountCoverLetters(ctx context.Context, userID uint) (int, error) {
	return r.countOwned(ctx, &models.CoverLetterModel{}, userID, "cover letters")
}

func (r *UsageRepositoryImpl) CountJobApplications(ctx context.Context, userID uint) (int, error) {
	return r.countOwned(ctx, &models.JobApplicationModel{}, userID, "job applications")
}

// CountAIMessagesBetween counts user-authored chat messages in [from, to)
// across all of the user's sessions.
func (r *UsageRepositoryImpl) CountAIMessagesBetween(ctx context.Context, userID uint, from, to time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ChatMessageModel{}).
		Joins(fmt.Sprintf("JOIN %s s ON s.id = %s.session_id",
			constants.TableChatSessions, constants.TableChatMessages)).
		Scopes(shareddb.NotDeletedWithAlias("s")).
		Where("s.user_id = ?", userID).
		Where(fmt.Sprintf("%s.role = ?", constants.TableChatMessages), constants.ChatRoleUser).
		Where(fmt.Sprintf("%s.created_at >= ? AND %s.created_at < ?",
			constants.TableChatMessages, constants.TableChatMessages), from, to).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count AI messages", "error", err, "user_id", userID)
		return 0, fmt.Errorf("failed to count AI messages: %w", err)
	}
	return int(count), nil
}

func (r *UsageRepositoryImpl) countOwned(ctx context.Context, model interface{}, userID uint, what string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count "+what, "error", err, "user_id", userID)
		return 0, fmt.Errorf("failed to count %s: %w", what, err)
	}
	return int(count), nil
}
