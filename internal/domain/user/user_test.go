package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidUser(t *testing.T) *User {
	t.Helper()
	u, err := NewUser("Ada", "ada@example.com", "$2a$10$hash")
	require.NoError(t, err)
	return u
}

// =====================================================================
// TestNewUser
// =====================================================================

func TestNewUser_Valid(t *testing.T) {
	u := newValidUser(t)

	assert.Equal(t, "Ada", u.Name())
	assert.Equal(t, "ada@example.com", u.Email())
	assert.Equal(t, RoleUser, u.Role())
	assert.False(t, u.IsAdmin())
	assert.Equal(t, SubscriptionFree, u.SubscriptionStatus())
	assert.Nil(t, u.PricingPlanID())
	assert.Nil(t, u.SubscriptionEndsAt())
	assert.Equal(t, 1, u.Version())
}

func TestNewUser_NormalizesEmail(t *testing.T) {
	u, err := NewUser("Ada", "  Ada@Example.COM ", "$2a$10$hash")

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email())
}

func TestNewUser_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    string
		hash     string
	}{
		{"empty name", "", "a@b.com", "hash"},
		{"empty email", "Ada", "", "hash"},
		{"malformed email", "Ada", "not-an-email", "hash"},
		{"empty hash", "Ada", "a@b.com", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser(tc.userName, tc.email, tc.hash)
			assert.Error(t, err)
		})
	}
}

// =====================================================================
// TestReconstructUser
// =====================================================================

func TestReconstructUser_Valid(t *testing.T) {
	now := time.Now()
	planID := uint(3)
	endsAt := now.Add(30 * 24 * time.Hour)

	u, err := ReconstructUser(9, "Ada", "ada@example.com", "hash", "admin",
		"active", &planID, &endsAt, 5, now, now)

	require.NoError(t, err)
	assert.Equal(t, uint(9), u.ID())
	assert.True(t, u.IsAdmin())
	assert.Equal(t, SubscriptionActive, u.SubscriptionStatus())
	require.NotNil(t, u.PricingPlanID())
	assert.Equal(t, uint(3), *u.PricingPlanID())
	require.NotNil(t, u.SubscriptionEndsAt())
	assert.Equal(t, 5, u.Version())
}

func TestReconstructUser_InvalidRole(t *testing.T) {
	_, err := ReconstructUser(1, "Ada", "a@b.com", "hash", "superuser",
		"free", nil, nil, 1, time.Now(), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid user role")
}

func TestReconstructUser_InvalidSubscriptionStatus(t *testing.T) {
	_, err := ReconstructUser(1, "Ada", "a@b.com", "hash", "user",
		"paused", nil, nil, 1, time.Now(), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid subscription status")
}

// =====================================================================
// TestUser_SubscriptionLifecycle
// =====================================================================

func TestUser_StartSubscription(t *testing.T) {
	u := newValidUser(t)
	endsAt := time.Now().Add(30 * 24 * time.Hour)

	require.NoError(t, u.StartSubscription(3, &endsAt))

	assert.Equal(t, SubscriptionActive, u.SubscriptionStatus())
	require.NotNil(t, u.PricingPlanID())
	assert.Equal(t, uint(3), *u.PricingPlanID())
	assert.Equal(t, 2, u.Version())
}

func TestUser_StartSubscription_LifetimeHasNoEndDate(t *testing.T) {
	u := newValidUser(t)

	require.NoError(t, u.StartSubscription(5, nil))

	assert.Equal(t, SubscriptionActive, u.SubscriptionStatus())
	assert.Nil(t, u.SubscriptionEndsAt())
}

func TestUser_StartSubscription_ZeroPlanID(t *testing.T) {
	u := newValidUser(t)

	assert.Error(t, u.StartSubscription(0, nil))
	assert.Equal(t, SubscriptionFree, u.SubscriptionStatus())
}

func TestUser_CancelSubscription_KeepsPlanReference(t *testing.T) {
	u := newValidUser(t)
	require.NoError(t, u.StartSubscription(3, nil))

	u.CancelSubscription()

	assert.Equal(t, SubscriptionCancelled, u.SubscriptionStatus())
	require.NotNil(t, u.PricingPlanID())
	assert.Equal(t, uint(3), *u.PricingPlanID())
}

func TestUser_CancelSubscription_NoOpWhenNotActive(t *testing.T) {
	u := newValidUser(t)

	u.CancelSubscription()

	assert.Equal(t, SubscriptionFree, u.SubscriptionStatus())
	assert.Equal(t, 1, u.Version())
}

func TestUser_ExpireSubscription(t *testing.T) {
	u := newValidUser(t)
	require.NoError(t, u.StartSubscription(3, nil))

	u.ExpireSubscription()

	assert.Equal(t, SubscriptionExpired, u.SubscriptionStatus())
}

func TestUser_PromoteToAdmin(t *testing.T) {
	u := newValidUser(t)

	u.PromoteToAdmin()
	assert.True(t, u.IsAdmin())
	assert.Equal(t, 2, u.Version())

	// Promoting twice is a no-op.
	u.PromoteToAdmin()
	assert.Equal(t, 2, u.Version())
}

// =====================================================================
// TestHasPremiumAccess
// =====================================================================

func TestHasPremiumAccess(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	t.Run("free user has no premium access", func(t *testing.T) {
		u := newValidUser(t)
		assert.False(t, u.HasPremiumAccess(now))
	})

	t.Run("active subscription with future end date", func(t *testing.T) {
		u := newValidUser(t)
		require.NoError(t, u.StartSubscription(3, &future))
		assert.True(t, u.HasPremiumAccess(now))
	})

	t.Run("active subscription without end date", func(t *testing.T) {
		u := newValidUser(t)
		require.NoError(t, u.StartSubscription(3, nil))
		assert.True(t, u.HasPremiumAccess(now))
	})

	t.Run("past end date loses access even while marked active", func(t *testing.T) {
		u := newValidUser(t)
		require.NoError(t, u.StartSubscription(3, &past))
		assert.False(t, u.HasPremiumAccess(now))
	})

	t.Run("cancelled subscription loses access", func(t *testing.T) {
		u := newValidUser(t)
		require.NoError(t, u.StartSubscription(3, &future))
		u.CancelSubscription()
		assert.False(t, u.HasPremiumAccess(now))
	})

	t.Run("admin always has access", func(t *testing.T) {
		u := newValidUser(t)
		u.PromoteToAdmin()
		assert.True(t, u.HasPremiumAccess(now))
	})
}
