// Package events carries domain events between aggregates and the
// infrastructure handlers that react to them.
package events

import (
	"time"
)

// DomainEvent is the contract every domain event satisfies.
type DomainEvent interface {
	// GetAggregateID returns the ID of the aggregate that generated the event
	GetAggregateID() string

	// GetEventType returns the type/name of the event
	GetEventType() string

	// GetOccurredAt returns when the event occurred
	GetOccurredAt() time.Time
}

// BaseEvent provides the common fields for all domain events.
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e BaseEvent) GetAggregateID() string {
	return e.AggregateID
}

func (e BaseEvent) GetEventType() string {
	return e.EventType
}

func (e BaseEvent) GetOccurredAt() time.Time {
	return e.OccurredAt
}

// EventHandler processes domain events of the types it subscribed to.
type EventHandler interface {
	Handle(event DomainEvent) error
}

// EventPublisher publishes domain events. Services hold this narrow
// interface so tests can pass a nil or recording publisher.
type EventPublisher interface {
	Publish(event DomainEvent) error
}
