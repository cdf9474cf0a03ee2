package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/tailorcv/tailorcv/internal/shared/constants"
)

// CvTemplateModel represents the database persistence model for CV
// templates.
type CvTemplateModel struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"not null;size:100"`
	Slug        string `gorm:"uniqueIndex;not null;size:100"`
	Description string `gorm:"size:500"`
	PreviewURL  string `gorm:"size:500"`
	IsPremium   bool   `gorm:"default:false"`
	SortOrder   int    `gorm:"default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (CvTemplateModel) TableName() string {
	return constants.TableCvTemplates
}
