// Package entitlement holds the capability model: the static plan catalog,
// the deep-merge rules for layering plan overrides, and the result types for
// limit and feature checks. Everything here is pure data shaping; nothing
// performs I/O.
package entitlement

// LimitKey identifies a countable resource limit.
type LimitKey string

const (
	LimitCvs              LimitKey = "cvs"
	LimitCoverLetters     LimitKey = "cover_letters"
	LimitJobApplications  LimitKey = "job_applications"
	LimitAIMessagesPerDay LimitKey = "ai_messages_per_day"
)

// FeatureKey identifies a boolean plan capability.
type FeatureKey string

const (
	FeatureAIAssistant      FeatureKey = "ai_assistant"
	FeatureAICvGeneration   FeatureKey = "ai_cv_generation"
	FeatureAICoverLetter    FeatureKey = "ai_cover_letter_generation"
	FeatureAIJobAnalysis    FeatureKey = "ai_job_analysis"
	FeaturePremiumTemplates FeatureKey = "premium_templates"
)

// AllLimitKeys returns the known limit keys in dashboard display order.
func AllLimitKeys() []LimitKey {
	return []LimitKey{
		LimitCvs,
		LimitCoverLetters,
		LimitJobApplications,
		LimitAIMessagesPerDay,
	}
}

// AllFeatureKeys returns the known feature keys.
func AllFeatureKeys() []FeatureKey {
	return []FeatureKey{
		FeatureAIAssistant,
		FeatureAICvGeneration,
		FeatureAICoverLetter,
		FeatureAIJobAnalysis,
		FeaturePremiumTemplates,
	}
}

// LimitLabel returns the human-readable label used in dashboard rows and
// limit-reached messages.
func LimitLabel(key LimitKey) string {
	switch key {
	case LimitCvs:
		return "CVs"
	case LimitCoverLetters:
		return "Cover Letters"
	case LimitJobApplications:
		return "Job Applications"
	case LimitAIMessagesPerDay:
		return "AI Messages Today"
	default:
		return string(key)
	}
}
