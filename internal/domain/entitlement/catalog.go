package entitlement

import "encoding/json"

// Catalog holds the static capability tables: the free tier, the default for
// any paid plan, and per-slug overrides for plans that deviate from the paid
// default. It is loaded once at startup and treated as immutable afterwards.
type Catalog struct {
	free        CapabilitySet
	paidDefault CapabilitySet
	overrides   map[string]CapabilitySet
}

func NewCatalog(free, paidDefault CapabilitySet, overrides map[string]CapabilitySet) *Catalog {
	if overrides == nil {
		overrides = make(map[string]CapabilitySet)
	}
	return &Catalog{
		free:        free,
		paidDefault: paidDefault,
		overrides:   overrides,
	}
}

// Free returns a copy of the free-tier capability table.
func (c *Catalog) Free() CapabilitySet {
	return c.free.Clone()
}

// PaidDefault returns a copy of the paid-default capability table.
func (c *Catalog) PaidDefault() CapabilitySet {
	return c.paidDefault.Clone()
}

// SlugOverride returns the static override table for slug. Unknown slugs
// report false; callers treat that as a no-op layer, never an error.
func (c *Catalog) SlugOverride(slug string) (CapabilitySet, bool) {
	override, ok := c.overrides[slug]
	if !ok {
		return CapabilitySet{}, false
	}
	return override.Clone(), true
}

// ResolveForSlug layers the static per-slug override (if any) on top of the
// paid-default table.
func (c *Catalog) ResolveForSlug(slug string) CapabilitySet {
	resolved := c.PaidDefault()
	if override, ok := c.overrides[slug]; ok {
		resolved = Merge(resolved, override)
	}
	return resolved
}

// DefaultCatalog returns the compiled-in capability tables. Config may
// replace individual tables at startup; these values are the shipped
// defaults for the product tiers.
func DefaultCatalog() *Catalog {
	free := CapabilitySet{
		Limits: map[LimitKey]*int{
			LimitCvs:              IntPtr(1),
			LimitCoverLetters:     IntPtr(2),
			LimitJobApplications:  IntPtr(10),
			LimitAIMessagesPerDay: IntPtr(20),
		},
		Features: map[FeatureKey]bool{
			FeatureAIAssistant:      true,
			FeatureAICvGeneration:   false,
			FeatureAICoverLetter:    false,
			FeatureAIJobAnalysis:    false,
			FeaturePremiumTemplates: false,
		},
	}

	paidDefault := CapabilitySet{
		Limits: map[LimitKey]*int{
			LimitCvs:              nil,
			LimitCoverLetters:     nil,
			LimitJobApplications:  nil,
			LimitAIMessagesPerDay: nil,
		},
		Features: map[FeatureKey]bool{
			FeatureAIAssistant:      true,
			FeatureAICvGeneration:   true,
			FeatureAICoverLetter:    true,
			FeatureAIJobAnalysis:    true,
			FeaturePremiumTemplates: true,
		},
	}

	starter := CapabilitySet{
		Limits: map[LimitKey]*int{
			LimitCvs:              IntPtr(5),
			LimitCoverLetters:     IntPtr(10),
			LimitJobApplications:  IntPtr(50),
			LimitAIMessagesPerDay: IntPtr(120),
		},
		Features: map[FeatureKey]bool{
			FeatureAIAssistant:      true,
			FeatureAICvGeneration:   true,
			FeatureAICoverLetter:    true,
			FeatureAIJobAnalysis:    false,
			FeaturePremiumTemplates: true,
		},
	}

	unlimited := CapabilitySet{
		Limits: map[LimitKey]*int{
			LimitCvs:              nil,
			LimitCoverLetters:     nil,
			LimitJobApplications:  nil,
			LimitAIMessagesPerDay: nil,
		},
	}

	overrides := map[string]CapabilitySet{
		"starter-monthly-xaf": starter,
		"starter-monthly-usd": starter.Clone(),
		"pro-monthly-xaf":     unlimited,
		"pro-yearly-xaf":      unlimited.Clone(),
		"pro-monthly-usd":     unlimited.Clone(),
		"pro-yearly-usd":      unlimited.Clone(),
		"lifetime-xaf":        unlimited.Clone(),
	}

	return NewCatalog(free, paidDefault, overrides)
}

// CatalogFromTables builds a catalog from raw config tables, falling back to
// the compiled-in defaults for any table that is absent. Raw tables use the
// same shape as the persisted plan override blob: a map with "limits" and
// "features" sub-maps.
func CatalogFromTables(free, paidDefault map[string]any, overrides map[string]map[string]any) *Catalog {
	defaults := DefaultCatalog()

	freeSet := defaults.free
	if parsed, ok := ParseOverrideBlob(free); ok {
		freeSet = parsed
	}

	paidSet := defaults.paidDefault
	if parsed, ok := ParseOverrideBlob(paidDefault); ok {
		paidSet = parsed
	}

	overrideSets := defaults.overrides
	if len(overrides) > 0 {
		overrideSets = make(map[string]CapabilitySet, len(overrides))
		for slug, table := range overrides {
			if parsed, ok := ParseOverrideBlob(table); ok {
				overrideSets[slug] = parsed
			}
		}
	}

	return NewCatalog(freeSet, paidSet, overrideSets)
}

// ParseOverrideBlob converts a semi-structured override mapping (decoded
// plan JSON or a raw config table) into a capability set. It reports false
// when the value is not a non-empty mapping, which callers treat as "no
// override" rather than an error: a plan row carrying a bare list or scalar
// in its features column must not break entitlement resolution.
func ParseOverrideBlob(blob map[string]any) (CapabilitySet, bool) {
	if len(blob) == 0 {
		return CapabilitySet{}, false
	}

	out := NewCapabilitySet()
	applied := false

	if rawLimits, ok := blob["limits"].(map[string]any); ok {
		for key, value := range rawLimits {
			limit, valid := toLimit(value)
			if !valid {
				continue
			}
			out.Limits[LimitKey(key)] = limit
			applied = true
		}
	}

	if rawFeatures, ok := blob["features"].(map[string]any); ok {
		for key, value := range rawFeatures {
			flag, valid := toFlag(value)
			if !valid {
				continue
			}
			out.Features[FeatureKey(key)] = flag
			applied = true
		}
	}

	if !applied {
		return CapabilitySet{}, false
	}
	return out, true
}

// toLimit converts a decoded JSON/config value into a limit pointer.
// nil stays nil (unlimited); numbers become finite limits.
func toLimit(value any) (*int, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case int:
		return IntPtr(v), true
	case int64:
		return IntPtr(int(v)), true
	case float64:
		return IntPtr(int(v)), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil, false
		}
		return IntPtr(int(n)), true
	default:
		return nil, false
	}
}

// toFlag converts a decoded value into a feature flag the way loose JSON
// and YAML sources express booleans.
func toFlag(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	case float64:
		return v != 0, true
	default:
		return false, false
	}
}
