package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/tailorcv/tailorcv/internal/domain/plan"
	"github.com/tailorcv/tailorcv/internal/infrastructure/persistence/models"
)

func createTestPlan(t *testing.T, slug string) *plan.Plan {
	t.Helper()
	p, err := plan.NewPlan("Pro Monthly", slug, "Full access", 5000_00, "XAF", plan.IntervalMonthly)
	require.NoError(t, err)
	return p
}

func TestPlanRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlanRepository(db, testLogger())
	ctx := context.Background()

	t.Run("create assigns ID", func(t *testing.T) {
		p := createTestPlan(t, "pro-monthly-xaf")

		err := repo.Create(ctx, p)
		require.NoError(t, err)
		assert.NotZero(t, p.ID())
	})

	t.Run("get by ID round-trips the aggregate", func(t *testing.T) {
		p := createTestPlan(t, "pro-yearly-xaf")
		p.UpdateFeatures(map[string]interface{}{
			"limits": map[string]interface{}{"cvs": float64(10)},
		})
		require.NoError(t, repo.Create(ctx, p))

		found, err := repo.GetByID(ctx, p.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, p.Slug(), found.Slug())
		assert.Equal(t, p.Price(), found.Price())
		assert.Equal(t, p.Features(), found.Features())
	})

	t.Run("array features blob loads as a plan without overrides", func(t *testing.T) {
		// Legacy rows store a feature list instead of the override object.
		// Such a blob carries no overrides but must not hide the plan.
		model := models.PricingPlanModel{
			Name:     "Pro Monthly",
			Slug:     "pro-monthly-legacy",
			Price:    5000_00,
			Currency: "XAF",
			Interval: "monthly",
			Features: datatypes.JSON(`["ai_assistant","premium_templates"]`),
		}
		require.NoError(t, db.Create(&model).Error)

		found, err := repo.GetByID(ctx, model.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "pro-monthly-legacy", found.Slug())
		assert.Empty(t, found.Features())
	})

	t.Run("missing plan returns nil without error", func(t *testing.T) {
		found, err := repo.GetByID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("duplicate slug fails", func(t *testing.T) {
		first := createTestPlan(t, "starter-xaf")
		require.NoError(t, repo.Create(ctx, first))

		second := createTestPlan(t, "starter-xaf")
		err := repo.Create(ctx, second)
		assert.Error(t, err)
	})
}

func TestPlanRepository_GetBySlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlanRepository(db, testLogger())
	ctx := context.Background()

	p := createTestPlan(t, "pro-monthly-xaf")
	require.NoError(t, repo.Create(ctx, p))

	found, err := repo.GetBySlug(ctx, "pro-monthly-xaf")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, p.ID(), found.ID())

	missing, err := repo.GetBySlug(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPlanRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlanRepository(db, testLogger())
	ctx := context.Background()

	p := createTestPlan(t, "pro-monthly-xaf")
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, p.UpdatePrice(7500_00, "XAF"))
	p.Deactivate()
	require.NoError(t, repo.Update(ctx, p))

	found, err := repo.GetByID(ctx, p.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, uint64(7500_00), found.Price())
	assert.False(t, found.IsActive())
	assert.Equal(t, p.Version(), found.Version())
}

func TestPlanRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlanRepository(db, testLogger())
	ctx := context.Background()

	p := createTestPlan(t, "pro-monthly-xaf")
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.Delete(ctx, p.ID()))

	found, err := repo.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Nil(t, found)

	err = repo.Delete(ctx, p.ID())
	assert.ErrorIs(t, err, plan.ErrPlanNotFound)
}

func TestPlanRepository_GetAllActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlanRepository(db, testLogger())
	ctx := context.Background()

	active := createTestPlan(t, "pro-monthly-xaf")
	active.SetSortOrder(2)
	require.NoError(t, repo.Create(ctx, active))

	first := createTestPlan(t, "starter-monthly-xaf")
	first.SetSortOrder(1)
	require.NoError(t, repo.Create(ctx, first))

	retired := createTestPlan(t, "legacy-xaf")
	retired.Deactivate()
	require.NoError(t, repo.Create(ctx, retired))

	plans, err := repo.GetAllActive(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "starter-monthly-xaf", plans[0].Slug())
	assert.Equal(t, "pro-monthly-xaf", plans[1].Slug())
}

func TestPlanRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlanRepository(db, testLogger())
	ctx := context.Background()

	monthly := createTestPlan(t, "pro-monthly-xaf")
	require.NoError(t, repo.Create(ctx, monthly))

	yearly, err := plan.NewPlan("Pro Yearly", "pro-yearly-xaf", "", 50000_00, "XAF", plan.IntervalYearly)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, yearly))

	t.Run("unfiltered returns everything with total", func(t *testing.T) {
		plans, total, err := repo.List(ctx, plan.Filter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, plans, 2)
	})

	t.Run("interval filter narrows results", func(t *testing.T) {
		interval := "yearly"
		plans, total, err := repo.List(ctx, plan.Filter{Interval: &interval, Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, plans, 1)
		assert.Equal(t, "pro-yearly-xaf", plans[0].Slug())
	})

	t.Run("pagination keeps the full total", func(t *testing.T) {
		plans, total, err := repo.List(ctx, plan.Filter{Page: 2, PageSize: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, plans, 1)
	})
}

func TestPlanRepository_ExistsBySlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlanRepository(db, testLogger())
	ctx := context.Background()

	p := createTestPlan(t, "pro-monthly-xaf")
	require.NoError(t, repo.Create(ctx, p))

	exists, err := repo.ExistsBySlug(ctx, "pro-monthly-xaf")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsBySlug(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, exists)
}
