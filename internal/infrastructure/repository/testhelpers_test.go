package repository

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tailorcv/tailorcv/internal/infrastructure/persistence/models"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.UserModel{},
		&models.PricingPlanModel{},
		&models.CvModel{},
		&models.CvTemplateModel{},
		&models.CoverLetterModel{},
		&models.JobApplicationModel{},
		&models.ChatSessionModel{},
		&models.ChatMessageModel{},
	)
	require.NoError(t, err)

	return db
}

func testLogger() logger.Interface {
	return logger.NewLogger()
}

func ptrUint(v uint) *uint { return &v }

func ptrTime(v time.Time) *time.Time { return &v }
