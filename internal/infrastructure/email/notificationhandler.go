package email

import (
	"fmt"

	"github.com/tailorcv/tailorcv/internal/domain/shared/events"
	"github.com/tailorcv/tailorcv/internal/domain/user"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
)

// LifecycleNotificationHandler turns user lifecycle events into emails.
type LifecycleNotificationHandler struct {
	mailer *SMTPEmailService
	logger logger.Interface
}

func NewLifecycleNotificationHandler(mailer *SMTPEmailService, logger logger.Interface) *LifecycleNotificationHandler {
	return &LifecycleNotificationHandler{
		mailer: mailer,
		logger: logger,
	}
}

// EventTypes lists the event types this handler subscribes to.
func (h *LifecycleNotificationHandler) EventTypes() []string {
	return []string{
		user.EventUserRegistered,
		user.EventSubscriptionAssigned,
		user.EventSubscriptionExpired,
	}
}

func (h *LifecycleNotificationHandler) Handle(event events.DomainEvent) error {
	switch e := event.(type) {
	case user.UserRegisteredEvent:
		return h.mailer.SendWelcomeEmail(e.Email, e.Name)
	case user.SubscriptionEvent:
		switch e.GetEventType() {
		case user.EventSubscriptionAssigned:
			return h.mailer.SendSubscriptionAssignedEmail(e.Email, e.Name, e.PlanName, e.EndsAt)
		case user.EventSubscriptionExpired:
			return h.mailer.SendSubscriptionExpiredEmail(e.Email, e.Name)
		}
		return nil
	default:
		return fmt.Errorf("unexpected event type %s", event.GetEventType())
	}
}
