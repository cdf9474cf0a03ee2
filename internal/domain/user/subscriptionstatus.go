package user

// SubscriptionStatus is the persisted subscription lifecycle state of a
// user. "free" means never subscribed; "expired" and "cancelled" users keep
// their plan reference for history but get no paid entitlements.
type SubscriptionStatus string

const (
	SubscriptionFree      SubscriptionStatus = "free"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionFree, SubscriptionActive, SubscriptionExpired, SubscriptionCancelled:
		return true
	}
	return false
}

func (s SubscriptionStatus) String() string {
	return string(s)
}
