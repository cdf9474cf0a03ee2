package entitlement

// CapabilitySet is the effective set of limits and feature flags for one
// user at one instant. A nil limit value means unlimited; a key that is
// absent from Limits is treated the same way on lookup, but merge layering
// distinguishes the two: only present keys participate in a merge.
type CapabilitySet struct {
	Limits   map[LimitKey]*int
	Features map[FeatureKey]bool
}

// NewCapabilitySet returns an empty capability set with allocated maps.
func NewCapabilitySet() CapabilitySet {
	return CapabilitySet{
		Limits:   make(map[LimitKey]*int),
		Features: make(map[FeatureKey]bool),
	}
}

// Limit returns the limit for key; nil means unlimited.
func (c CapabilitySet) Limit(key LimitKey) *int {
	if c.Limits == nil {
		return nil
	}
	return c.Limits[key]
}

// HasFeature reports whether the boolean feature is enabled. Unknown keys
// resolve to false.
func (c CapabilitySet) HasFeature(key FeatureKey) bool {
	if c.Features == nil {
		return false
	}
	return c.Features[key]
}

// Clone returns a deep copy. Limit pointers are re-allocated so that callers
// can never mutate a shared catalog table through a resolved set.
func (c CapabilitySet) Clone() CapabilitySet {
	out := NewCapabilitySet()
	for k, v := range c.Limits {
		if v == nil {
			out.Limits[k] = nil
			continue
		}
		n := *v
		out.Limits[k] = &n
	}
	for k, v := range c.Features {
		out.Features[k] = v
	}
	return out
}

// Merge layers override on top of base and returns a new set. The merge is
// right-biased per key: any key present in override wins, including an
// explicit nil limit (unlimited) replacing a finite base value and vice
// versa. Neither input is mutated.
func Merge(base, override CapabilitySet) CapabilitySet {
	out := base.Clone()
	for k, v := range override.Limits {
		if v == nil {
			out.Limits[k] = nil
			continue
		}
		n := *v
		out.Limits[k] = &n
	}
	for k, v := range override.Features {
		out.Features[k] = v
	}
	return out
}

// AdminCapabilities returns the maximal capability set: every known limit
// unlimited and every known feature enabled. Admin resolution short-circuits
// before any plan lookup, so a slug override can never weaken it.
func AdminCapabilities() CapabilitySet {
	out := NewCapabilitySet()
	for _, k := range AllLimitKeys() {
		out.Limits[k] = nil
	}
	for _, k := range AllFeatureKeys() {
		out.Features[k] = true
	}
	return out
}

// IntPtr is a convenience for building capability tables and tests.
func IntPtr(n int) *int {
	return &n
}
