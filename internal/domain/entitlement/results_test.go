package entitlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capsWithLimit(key LimitKey, limit *int) CapabilitySet {
	caps := NewCapabilitySet()
	caps.Limits[key] = limit
	return caps
}

// =====================================================================
// TestCheckLimit_*
// =====================================================================

func TestCheckLimit_UnlimitedAlwaysAllows(t *testing.T) {
	caps := capsWithLimit(LimitCvs, nil)

	tests := []struct {
		name string
		used int
	}{
		{"zero usage", 0},
		{"huge usage", 1 << 30},
		{"negative usage", -5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := caps.CheckLimit(LimitCvs, tc.used, "CVs")

			assert.True(t, result.Allowed)
			assert.Nil(t, result.Limit)
			assert.Nil(t, result.Remaining)
			assert.Nil(t, result.Message)
			assert.Equal(t, tc.used, result.Used)
		})
	}
}

func TestCheckLimit_AtLimitDisallows(t *testing.T) {
	caps := capsWithLimit(LimitCvs, IntPtr(3))

	result := caps.CheckLimit(LimitCvs, 3, "CVs")

	assert.False(t, result.Allowed)
	require.NotNil(t, result.Remaining)
	assert.Equal(t, 0, *result.Remaining)
	require.NotNil(t, result.Message)
	assert.Contains(t, *result.Message, "CVs")
	assert.Contains(t, *result.Message, "3")
}

func TestCheckLimit_OneBelowLimitAllows(t *testing.T) {
	caps := capsWithLimit(LimitCvs, IntPtr(3))

	result := caps.CheckLimit(LimitCvs, 2, "CVs")

	assert.True(t, result.Allowed)
	require.NotNil(t, result.Remaining)
	assert.Equal(t, 1, *result.Remaining)
	assert.Nil(t, result.Message)
}

func TestCheckLimit_OverLimitClampsRemainingToZero(t *testing.T) {
	caps := capsWithLimit(LimitCvs, IntPtr(3))

	result := caps.CheckLimit(LimitCvs, 7, "CVs")

	assert.False(t, result.Allowed)
	require.NotNil(t, result.Remaining)
	assert.Equal(t, 0, *result.Remaining)
}

func TestCheckLimit_MissingKeyTreatedAsUnlimited(t *testing.T) {
	caps := NewCapabilitySet()

	result := caps.CheckLimit(LimitJobApplications, 1000, "job applications")

	assert.True(t, result.Allowed)
	assert.Nil(t, result.Limit)
}

// =====================================================================
// TestCheckFeature_*
// =====================================================================

func TestCheckFeature_Enabled(t *testing.T) {
	caps := NewCapabilitySet()
	caps.Features[FeatureAIAssistant] = true

	result := caps.CheckFeature(FeatureAIAssistant, "AI Assistant")

	assert.True(t, result.Allowed)
	assert.Nil(t, result.Message)
}

func TestCheckFeature_DisabledCarriesMessage(t *testing.T) {
	caps := NewCapabilitySet()

	result := caps.CheckFeature(FeatureAICvGeneration, "AI CV generation")

	assert.False(t, result.Allowed)
	require.NotNil(t, result.Message)
	assert.Contains(t, *result.Message, "AI CV generation")
	assert.Contains(t, *result.Message, "Upgrade")
}
