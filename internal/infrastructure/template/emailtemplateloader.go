// Package template loads optional HTML email templates from disk,
// falling back to built-in defaults when a file is absent.
package template

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/tailorcv/tailorcv/internal/shared/logger"
)

// Template names the mailer renders.
const (
	TemplateWelcome              = "welcome"
	TemplateSubscriptionAssigned = "subscription_assigned"
	TemplateSubscriptionExpired  = "subscription_expired"
)

var defaultTemplates = map[string]string{
	TemplateWelcome: `<html><body>
<h2>Welcome to TailorCV, {{.Name}}!</h2>
<p>Your account is ready. Build your first CV, draft cover letters, and track your applications from your dashboard.</p>
</body></html>`,
	TemplateSubscriptionAssigned: `<html><body>
<h2>Your {{.PlanName}} subscription is active</h2>
<p>Hi {{.Name}}, your TailorCV subscription is now active{{if .EndsAt}} until {{.EndsAt.Format "January 2, 2006"}}{{end}}. Enjoy your expanded limits and premium templates.</p>
</body></html>`,
	TemplateSubscriptionExpired: `<html><body>
<h2>Your subscription has ended</h2>
<p>Hi {{.Name}}, your TailorCV subscription has expired and your account is back on the free plan. Your documents are untouched; resubscribe anytime to regain your previous limits.</p>
</body></html>`,
}

// EmailTemplateLoader resolves a template name to a parsed html/template.
// Custom templates live as {name}.html files in the configured directory.
type EmailTemplateLoader struct {
	templates map[string]*template.Template
	path      string
	logger    logger.Interface
}

func NewEmailTemplateLoader(path string, logger logger.Interface) *EmailTemplateLoader {
	return &EmailTemplateLoader{
		templates: make(map[string]*template.Template),
		path:      path,
		logger:    logger,
	}
}

// Load parses the built-in defaults and then any custom files found in
// the templates directory. A missing directory is not an error.
func (l *EmailTemplateLoader) Load() error {
	for name, body := range defaultTemplates {
		tmpl, err := template.New(name).Parse(body)
		if err != nil {
			return fmt.Errorf("failed to parse built-in template %s: %w", name, err)
		}
		l.templates[name] = tmpl
	}

	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		l.logger.Debugw("email templates directory not found, using defaults", "path", l.path)
		return nil
	}

	for name := range defaultTemplates {
		file := filepath.Join(l.path, name+".html")
		content, err := os.ReadFile(file)
		if err != nil {
			if !os.IsNotExist(err) {
				l.logger.Warnw("failed to read email template, using default",
					"template", name, "error", err)
			}
			continue
		}

		tmpl, err := template.New(name).Parse(string(content))
		if err != nil {
			l.logger.Warnw("failed to parse email template, using default",
				"template", name, "error", err)
			continue
		}

		l.templates[name] = tmpl
		l.logger.Infow("loaded custom email template", "template", name, "file", file)
	}

	return nil
}

// Render executes the named template with the given data.
func (l *EmailTemplateLoader) Render(name string, data any) (string, error) {
	tmpl, ok := l.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template: %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template %s: %w", name, err)
	}
	return buf.String(), nil
}
