package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tailorcv/tailorcv/internal/shared/constants"
)

// CvModel represents the database persistence model for CVs. Content holds
// the structured document sections as JSON; Industry is the target industry
// the CV is tailored for.
type CvModel struct {
	ID         uint   `gorm:"primarykey"`
	UserID     uint   `gorm:"not null;index"`
	TemplateID *uint  `gorm:"index"`
	Title      string `gorm:"not null;size:200"`
	Industry   string `gorm:"size:100;index"`
	Content    datatypes.JSON
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (CvModel) TableName() string {
	return constants.TableCvs
}
