package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/tailorcv/tailorcv/internal/shared/constants"
)

// CoverLetterModel represents the database persistence model for cover
// letters.
type CoverLetterModel struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"not null;index"`
	Title     string `gorm:"not null;size:200"`
	JobTitle  string `gorm:"size:200"`
	Company   string `gorm:"size:200"`
	Tone      string `gorm:"size:50"`
	Content   string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (CoverLetterModel) TableName() string {
	return constants.TableCoverLetters
}
