package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tailorcv/tailorcv/internal/infrastructure/persistence/models"
	"github.com/tailorcv/tailorcv/internal/shared/constants"
)

func seedOwnedRows(t *testing.T, db *gorm.DB, userID uint, cvs, letters, applications int) {
	t.Helper()
	for i := 0; i < cvs; i++ {
		require.NoError(t, db.Create(&models.CvModel{UserID: userID, Title: "CV"}).Error)
	}
	for i := 0; i < letters; i++ {
		require.NoError(t, db.Create(&models.CoverLetterModel{UserID: userID, Title: "Letter"}).Error)
	}
	for i := 0; i < applications; i++ {
		require.NoError(t, db.Create(&models.JobApplicationModel{UserID: userID, Company: "Acme", Position: "Engineer"}).Error)
	}
}

func TestUsageRepository_Counts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsageRepository(db, testLogger())
	ctx := context.Background()

	seedOwnedRows(t, db, 1, 3, 2, 5)
	seedOwnedRows(t, db, 2, 1, 0, 0)

	cvs, err := repo.CountCvs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, cvs)

	letters, err := repo.CountCoverLetters(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, letters)

	applications, err := repo.CountJobApplications(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, applications)

	cvs, err = repo.CountCvs(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, cvs)

	cvs, err = repo.CountCvs(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, cvs)
}

func TestUsageRepository_CountAIMessagesBetween(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsageRepository(db, testLogger())
	ctx := context.Background()

	mine := models.ChatSessionModel{UserID: 1, Title: "Interview prep"}
	require.NoError(t, db.Create(&mine).Error)
	theirs := models.ChatSessionModel{UserID: 2, Title: "Other"}
	require.NoError(t, db.Create(&theirs).Error)

	dayStart := time.Date(2026, 8, 29, 23, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	seed := func(session uint, role string, at time.Time) {
		require.NoError(t, db.Create(&models.ChatMessageModel{
			SessionID: session,
			Role:      role,
			Content:   "hello",
			CreatedAt: at,
		}).Error)
	}

	seed(mine.ID, constants.ChatRoleUser, dayStart.Add(time.Hour))
	seed(mine.ID, constants.ChatRoleAssistant, dayStart.Add(time.Hour))
	seed(mine.ID, constants.ChatRoleUser, dayStart.Add(23*time.Hour))
	// Outside the window.
	seed(mine.ID, constants.ChatRoleUser, dayStart.Add(-time.Minute))
	seed(mine.ID, constants.ChatRoleUser, dayEnd)
	// Someone else's session.
	seed(theirs.ID, constants.ChatRoleUser, dayStart.Add(time.Hour))

	count, err := repo.CountAIMessagesBetween(ctx, 1, dayStart, dayEnd)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = repo.CountAIMessagesBetween(ctx, 3, dayStart, dayEnd)
	require.NoError(t, err)
	assert.Zero(t, count)
}
