package entitlement

import "fmt"

// LimitCheckResult is the outcome of checking a countable action against the
// resolved capability set. Limit and Remaining are nil when the limit is
// unlimited; Message is set only when the action is disallowed.
type LimitCheckResult struct {
	Allowed   bool    `json:"allowed"`
	Limit     *int    `json:"limit"`
	Used      int     `json:"used"`
	Remaining *int    `json:"remaining"`
	Message   *string `json:"message"`
}

// FeatureCheckResult is the outcome of checking a boolean capability.
type FeatureCheckResult struct {
	Allowed bool    `json:"allowed"`
	Message *string `json:"message"`
}

// CheckLimit evaluates used against the limit for key in this capability
// set. A nil limit always allows, regardless of the used value.
func (c CapabilitySet) CheckLimit(key LimitKey, used int, resourceLabel string) LimitCheckResult {
	limit := c.Limit(key)
	if limit == nil {
		return LimitCheckResult{
			Allowed: true,
			Used:    used,
		}
	}

	remaining := *limit - used
	if remaining < 0 {
		remaining = 0
	}
	allowed := used < *limit

	result := LimitCheckResult{
		Allowed:   allowed,
		Limit:     IntPtr(*limit),
		Used:      used,
		Remaining: IntPtr(remaining),
	}
	if !allowed {
		msg := fmt.Sprintf("You've reached your %s limit (%d) on the current plan. Upgrade to continue.",
			resourceLabel, *limit)
		result.Message = &msg
	}
	return result
}

// CheckFeature evaluates the boolean capability for key.
func (c CapabilitySet) CheckFeature(key FeatureKey, featureLabel string) FeatureCheckResult {
	if c.HasFeature(key) {
		return FeatureCheckResult{Allowed: true}
	}
	msg := fmt.Sprintf("%s is not available on your current plan. Upgrade to continue.", featureLabel)
	return FeatureCheckResult{
		Allowed: false,
		Message: &msg,
	}
}
