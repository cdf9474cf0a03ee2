package models

import (
	"time"

	"github.com/tailorcv/tailorcv/internal/shared/constants"
)

// ChatMessageModel represents the database persistence model for assistant
// chat messages. User-role rows are what the daily AI message counter
// counts, so CreatedAt is indexed alongside the session.
type ChatMessageModel struct {
	ID        uint   `gorm:"primarykey"`
	SessionID uint   `gorm:"not null;index:idx_chat_messages_session_created"`
	Role      string `gorm:"not null;size:20"`
	Content   string `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index:idx_chat_messages_session_created"`
}

// TableName specifies the table name for GORM
func (ChatMessageModel) TableName() string {
	return constants.TableChatMessages
}
