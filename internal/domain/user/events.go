package user

import (
	"strconv"
	"time"

	"github.com/tailorcv/tailorcv/internal/domain/shared/events"
)

// Event types emitted by the user aggregate.
const (
	EventUserRegistered        = "user.registered"
	EventSubscriptionAssigned  = "user.subscription_assigned"
	EventSubscriptionCancelled = "user.subscription_cancelled"
	EventSubscriptionExpired   = "user.subscription_expired"
)

// UserRegisteredEvent fires after a new account is created.
type UserRegisteredEvent struct {
	events.BaseEvent
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func NewUserRegisteredEvent(u *User, occurredAt time.Time) UserRegisteredEvent {
	return UserRegisteredEvent{
		BaseEvent: baseEvent(u.ID(), EventUserRegistered, occurredAt),
		UserID:    u.ID(),
		Email:     u.Email(),
		Name:      u.Name(),
	}
}

// SubscriptionEvent covers plan assignment, cancellation, and expiry.
type SubscriptionEvent struct {
	events.BaseEvent
	UserID   uint       `json:"user_id"`
	Email    string     `json:"email"`
	Name     string     `json:"name"`
	PlanName string     `json:"plan_name,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
}

func NewSubscriptionAssignedEvent(u *User, planName string, endsAt *time.Time, occurredAt time.Time) SubscriptionEvent {
	return subscriptionEvent(u, EventSubscriptionAssigned, planName, endsAt, occurredAt)
}

func NewSubscriptionCancelledEvent(u *User, occurredAt time.Time) SubscriptionEvent {
	return subscriptionEvent(u, EventSubscriptionCancelled, "", nil, occurredAt)
}

func NewSubscriptionExpiredEvent(u *User, occurredAt time.Time) SubscriptionEvent {
	return subscriptionEvent(u, EventSubscriptionExpired, "", nil, occurredAt)
}

func subscriptionEvent(u *User, eventType, planName string, endsAt *time.Time, occurredAt time.Time) SubscriptionEvent {
	return SubscriptionEvent{
		BaseEvent: baseEvent(u.ID(), eventType, occurredAt),
		UserID:    u.ID(),
		Email:     u.Email(),
		Name:      u.Name(),
		PlanName:  planName,
		EndsAt:    endsAt,
	}
}

func baseEvent(userID uint, eventType string, occurredAt time.Time) events.BaseEvent {
	return events.BaseEvent{
		AggregateID: strconv.FormatUint(uint64(userID), 10),
		EventType:   eventType,
		OccurredAt:  occurredAt,
	}
}
