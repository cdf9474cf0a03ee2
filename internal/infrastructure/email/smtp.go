// Package email sends transactional mail over SMTP.
package email

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/tailorcv/tailorcv/internal/infrastructure/template"
	"github.com/tailorcv/tailorcv/internal/shared/config"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
)

// templateData feeds the email templates.
type templateData struct {
	Name     string
	PlanName string
	EndsAt   *time.Time
}

// SMTPEmailService renders lifecycle emails from the template loader and
// delivers them via gomail.
type SMTPEmailService struct {
	cfg       config.SMTPConfig
	dialer    *gomail.Dialer
	templates *template.EmailTemplateLoader
	logger    logger.Interface
}

func NewSMTPEmailService(cfg config.SMTPConfig, templates *template.EmailTemplateLoader, logger logger.Interface) *SMTPEmailService {
	return &SMTPEmailService{
		cfg:       cfg,
		dialer:    gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		templates: templates,
		logger:    logger,
	}
}

func (s *SMTPEmailService) SendWelcomeEmail(to, name string) error {
	return s.send(to, "Welcome to TailorCV", template.TemplateWelcome, templateData{Name: name})
}

func (s *SMTPEmailService) SendSubscriptionAssignedEmail(to, name, planName string, endsAt *time.Time) error {
	return s.send(to, "Your TailorCV subscription is active", template.TemplateSubscriptionAssigned, templateData{
		Name:     name,
		PlanName: planName,
		EndsAt:   endsAt,
	})
}

func (s *SMTPEmailService) SendSubscriptionExpiredEmail(to, name string) error {
	return s.send(to, "Your TailorCV subscription has ended", template.TemplateSubscriptionExpired, templateData{Name: name})
}

func (s *SMTPEmailService) send(to, subject, templateName string, data templateData) error {
	htmlBody, err := s.templates.Render(templateName, data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromAddress, s.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debugw("email sent", "to", to, "template", templateName)
	return nil
}
