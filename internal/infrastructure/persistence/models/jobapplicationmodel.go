package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/tailorcv/tailorcv/internal/shared/constants"
)

// JobApplicationModel represents the database persistence model for tracked
// job applications.
type JobApplicationModel struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"not null;index"`
	Company   string `gorm:"not null;size:200"`
	Position  string `gorm:"not null;size:200"`
	Status    string `gorm:"not null;size:20;default:saved;index"`
	AppliedAt *time.Time
	Notes     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (JobApplicationModel) TableName() string {
	return constants.TableJobApplications
}

// BeforeCreate hook for GORM
func (j *JobApplicationModel) BeforeCreate(tx *gorm.DB) error {
	if j.Status == "" {
		j.Status = "saved"
	}
	return nil
}
