package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tailorcv/tailorcv/internal/shared/constants"
)

// PricingPlanModel represents the database persistence model for pricing
// plans. The Features column holds the per-plan capability override blob.
type PricingPlanModel struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"not null;size:100"`
	Slug        string `gorm:"uniqueIndex;not null;size:100"`
	Description string `gorm:"size:500"`
	Price       uint64 `gorm:"not null"`
	Currency    string `gorm:"not null;size:3"`
	Interval    string `gorm:"not null;size:20"`
	IsPopular   bool   `gorm:"default:false"`
	SortOrder   int    `gorm:"default:0"`
	Status      string `gorm:"not null;size:20;default:active;index"`
	Features    datatypes.JSON
	Version     int `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (PricingPlanModel) TableName() string {
	return constants.TablePricingPlans
}

// BeforeCreate hook for GORM
func (p *PricingPlanModel) BeforeCreate(tx *gorm.DB) error {
	if p.Status == "" {
		p.Status = "active"
	}
	if p.Currency == "" {
		p.Currency = constants.DefaultCurrency
	}
	if p.Version == 0 {
		p.Version = 1
	}
	return nil
}
