package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []DomainEvent
	err    error
}

func (h *recordingHandler) Handle(event DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func testEvent(eventType string) BaseEvent {
	return BaseEvent{
		AggregateID: "42",
		EventType:   eventType,
		OccurredAt:  time.Now().UTC(),
	}
}

func TestInMemoryEventDispatcher(t *testing.T) {
	t.Run("delivers events to subscribed handlers", func(t *testing.T) {
		d := NewInMemoryEventDispatcher(10, nil)
		handler := &recordingHandler{}
		require.NoError(t, d.Subscribe("user.registered", handler))
		require.NoError(t, d.Start())

		require.NoError(t, d.Publish(testEvent("user.registered")))
		require.NoError(t, d.Publish(testEvent("user.subscription_expired")))

		require.NoError(t, d.Stop())
		assert.Equal(t, 1, handler.count())
		assert.Equal(t, "user.registered", handler.events[0].GetEventType())
	})

	t.Run("publish fails when not running", func(t *testing.T) {
		d := NewInMemoryEventDispatcher(10, nil)
		err := d.Publish(testEvent("user.registered"))
		assert.Error(t, err)
	})

	t.Run("handler errors reach the error callback", func(t *testing.T) {
		var mu sync.Mutex
		var failures int
		d := NewInMemoryEventDispatcher(10, func(event DomainEvent, err error) {
			mu.Lock()
			failures++
			mu.Unlock()
		})
		handler := &recordingHandler{err: assert.AnError}
		require.NoError(t, d.Subscribe("user.registered", handler))
		require.NoError(t, d.Start())

		require.NoError(t, d.Publish(testEvent("user.registered")))
		require.NoError(t, d.Stop())

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 1, failures)
	})

	t.Run("stop drains queued events", func(t *testing.T) {
		d := NewInMemoryEventDispatcher(100, nil)
		handler := &recordingHandler{}
		require.NoError(t, d.Subscribe("user.registered", handler))
		require.NoError(t, d.Start())

		for i := 0; i < 20; i++ {
			require.NoError(t, d.Publish(testEvent("user.registered")))
		}
		require.NoError(t, d.Stop())

		assert.Equal(t, 20, handler.count())
	})

	t.Run("double start fails", func(t *testing.T) {
		d := NewInMemoryEventDispatcher(10, nil)
		require.NoError(t, d.Start())
		assert.Error(t, d.Start())
		require.NoError(t, d.Stop())
	})
}
