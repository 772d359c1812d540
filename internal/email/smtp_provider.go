package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"circuithub_backend/internal/config"
)

// SMTPProvider delivers mail over SMTP using the server's email config.
type SMTPProvider struct {
	cfg       *config.Config
	templates *TemplateManager
}

func NewSMTPProvider(cfg *config.Config) *SMTPProvider {
	return &SMTPProvider{
		cfg:       cfg,
		templates: NewTemplateManager(),
	}
}

// NewProvider returns the SMTP provider when email is enabled and configured,
// otherwise a no-op so callers never have to check.
func NewProvider(cfg *config.Config) Provider {
	if !cfg.Email.Enabled || cfg.Email.SMTPHost == "" {
		return NoopProvider{}
	}
	return NewSMTPProvider(cfg)
}

func (p *SMTPProvider) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	from := p.cfg.Email.FromEmail
	if p.cfg.Email.FromName != "" {
		from = m.FormatAddress(p.cfg.Email.FromEmail, p.cfg.Email.FromName)
	}
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(
		p.cfg.Email.SMTPHost,
		p.cfg.Email.SMTPPort,
		p.cfg.Email.SMTPUsername,
		p.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}

func (p *SMTPProvider) SendRoleDecision(to, role string, approved bool, reason string) error {
	templateName := "role_rejected"
	subject := fmt.Sprintf("Your %s request was not approved", role)
	if approved {
		templateName = "role_approved"
		subject = fmt.Sprintf("You are now a %s", role)
	}

	if reason == "" {
		reason = "No reason provided"
	}

	body, err := p.templates.Render(templateName, map[string]any{
		"Role":   role,
		"Reason": reason,
	})
	if err != nil {
		return err
	}

	return p.Send(to, subject, body)
}
