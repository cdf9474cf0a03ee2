package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/tailorcv/tailorcv/internal/shared/constants"
)

// ChatSessionModel represents the database persistence model for assistant
// chat sessions.
type ChatSessionModel struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"not null;index"`
	Title     string `gorm:"size:200"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (ChatSessionModel) TableName() string {
	return constants.TableChatSessions
}
