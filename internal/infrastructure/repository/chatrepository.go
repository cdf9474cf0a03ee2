package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tailorcv/tailorcv/internal/application/assistant"
	"github.com/tailorcv/tailorcv/internal/infrastructure/persistence/models"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
)

type ChatRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewChatRepository(db *gorm.DB, logger logger.Interface) assistant.ChatRepository {
	return &ChatRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *ChatRepositoryImpl) CreateSession(ctx context.Context, userID uint, title string) (uint, error) {
	model := models.ChatSessionModel{
		UserID: userID,
		Title:  title,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.logger.Errorw("failed to create chat session", "error", err, "user_id", userID)
		return 0, fmt.Errorf("failed to create chat session: %w", err)
	}
	return model.ID, nil
}

// SessionOwner returns (0, nil) when the session does not exist.
func (r *ChatRepositoryImpl) SessionOwner(ctx context.Context, sessionID uint) (uint, error) {
	var model models.ChatSessionModel
	err := r.db.WithContext(ctx).Select("id", "user_id").First(&model, sessionID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		r.logger.Errorw("failed to load chat session", "error", err, "session_id", sessionID)
		return 0, fmt.Errorf("failed to load chat session: %w", err)
	}
	return model.UserID, nil
}

func (r *ChatRepositoryImpl) AppendMessage(ctx context.Context, sessionID uint, role, content string) error {
	model := models.ChatMessageModel{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.logger.Errorw("failed to append chat message", "error", err, "session_id", sessionID)
		return fmt.Errorf("failed to append chat message: %w", err)
	}

	// Touch the session so recency ordering follows activity.
	if err := r.db.WithContext(ctx).Model(&models.ChatSessionModel{}).
		Where("id = ?", sessionID).
		Update("updated_at", model.CreatedAt).Error; err != nil {
		r.logger.Warnw("failed to touch chat session", "error", err, "session_id", sessionID)
	}

	return nil
}

// RecentMessages returns the newest messages of a session in chronological
// order.
func (r *ChatRepositoryImpl) RecentMessages(ctx context.Context, sessionID uint, limit int) ([]assistant.ChatMessage, error) {
	var rows []models.ChatMessageModel
	query := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to load chat messages", "error", err, "session_id", sessionID)
		return nil, fmt.Errorf("failed to load chat messages: %w", err)
	}

	messages := make([]assistant.ChatMessage, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		messages = append(messages, assistant.ChatMessage{
			Role:    rows[i].Role,
			Content: rows[i].Content,
		})
	}
	return messages, nil
}
