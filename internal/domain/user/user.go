package user

import (
	"fmt"
	"strings"
	"time"
)

// User is the account aggregate. Subscription state lives directly on the
// user: a plan reference, a lifecycle status, and an optional end date.
// Entitlement resolution reads these three fields together; none of them is
// meaningful in isolation.
type User struct {
	id                 uint
	name               string
	email              string
	passwordHash       string
	role               Role
	subscriptionStatus SubscriptionStatus
	pricingPlanID      *uint
	subscriptionEndsAt *time.Time
	version            int
	createdAt          time.Time
	updatedAt          time.Time
}

func NewUser(name, email, passwordHash string) (*User, error) {
	if name == "" {
		return nil, fmt.Errorf("user name is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("user email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email address: %s", email)
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}

	now := time.Now()
	return &User{
		name:               name,
		email:              email,
		passwordHash:       passwordHash,
		role:               RoleUser,
		subscriptionStatus: SubscriptionFree,
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

func ReconstructUser(id uint, name, email, passwordHash string, role string,
	subscriptionStatus string, pricingPlanID *uint, subscriptionEndsAt *time.Time,
	version int, createdAt, updatedAt time.Time) (*User, error) {

	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}

	userRole := Role(role)
	if !userRole.IsValid() {
		return nil, fmt.Errorf("invalid user role: %s", role)
	}

	status := SubscriptionStatus(subscriptionStatus)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", subscriptionStatus)
	}

	return &User{
		id:                 id,
		name:               name,
		email:              email,
		passwordHash:       passwordHash,
		role:               userRole,
		subscriptionStatus: status,
		pricingPlanID:      pricingPlanID,
		subscriptionEndsAt: subscriptionEndsAt,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}

func (u *User) ID() uint {
	return u.id
}

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

func (u *User) Name() string {
	return u.name
}

func (u *User) Email() string {
	return u.email
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) Role() Role {
	return u.role
}

func (u *User) SubscriptionStatus() SubscriptionStatus {
	return u.subscriptionStatus
}

func (u *User) PricingPlanID() *uint {
	return u.pricingPlanID
}

func (u *User) SubscriptionEndsAt() *time.Time {
	return u.subscriptionEndsAt
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// Version returns the aggregate version for optimistic locking
func (u *User) Version() int {
	return u.version
}

func (u *User) IsAdmin() bool {
	return u.role == RoleAdmin
}

// HasPremiumAccess reports whether the user currently holds a paid plan:
// an active subscription with a plan reference whose end date, if any, has
// not passed. Admins always have premium access.
func (u *User) HasPremiumAccess(now time.Time) bool {
	if u.IsAdmin() {
		return true
	}
	if u.subscriptionStatus != SubscriptionActive || u.pricingPlanID == nil {
		return false
	}
	return u.subscriptionEndsAt == nil || u.subscriptionEndsAt.After(now)
}

func (u *User) PromoteToAdmin() {
	if u.role == RoleAdmin {
		return
	}
	u.role = RoleAdmin
	u.updatedAt = time.Now()
	u.version++
}

// StartSubscription attaches a plan to the user and marks the subscription
// active. endsAt is nil for one-time lifetime purchases.
func (u *User) StartSubscription(planID uint, endsAt *time.Time) error {
	if planID == 0 {
		return fmt.Errorf("plan ID cannot be zero")
	}
	u.pricingPlanID = &planID
	u.subscriptionStatus = SubscriptionActive
	u.subscriptionEndsAt = endsAt
	u.updatedAt = time.Now()
	u.version++
	return nil
}

// CancelSubscription flags the subscription cancelled. The plan reference
// and end date are kept for history.
func (u *User) CancelSubscription() {
	if u.subscriptionStatus != SubscriptionActive {
		return
	}
	u.subscriptionStatus = SubscriptionCancelled
	u.updatedAt = time.Now()
	u.version++
}

// ExpireSubscription flags an active subscription expired. Called by the
// expiry sweep once the end date has passed.
func (u *User) ExpireSubscription() {
	if u.subscriptionStatus != SubscriptionActive {
		return
	}
	u.subscriptionStatus = SubscriptionExpired
	u.updatedAt = time.Now()
	u.version++
}

func (u *User) UpdateName(name string) error {
	if name == "" {
		return fmt.Errorf("user name is required")
	}
	u.name = name
	u.updatedAt = time.Now()
	u.version++
	return nil
}

func (u *User) ChangePassword(passwordHash string) error {
	if passwordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	u.passwordHash = passwordHash
	u.updatedAt = time.Now()
	u.version++
	return nil
}
