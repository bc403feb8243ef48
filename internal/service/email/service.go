package email

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/domain"
)

// Message is a rendered email. Either body may be empty.
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

type Provider interface {
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	// Provider type: "sendgrid" or "smtp"
	Provider string

	FromEmail string
	FromName  string

	SendGridAPIKey string

	// SMTP configuration (Mailhog in development)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool

	AdminEmail  string
	FrontendURL string // base for links in emails
}

// DefaultConfig targets a local Mailhog.
func DefaultConfig() *Config {
	return &Config{
		Provider:    "smtp",
		FromEmail:   "noreply@arremateai.com",
		FromName:    "ArremateAI",
		SMTPHost:    "localhost",
		SMTPPort:    1025,
		AdminEmail:  "admin@arremateai.com",
		FrontendURL: "http://localhost:3000",
	}
}

type Service struct {
	config    *Config
	provider  Provider
	templates map[string]*pair
	log       *zap.Logger
}

type pair struct {
	subject string
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

func NewService(config *Config, log *zap.Logger) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var provider Provider
	switch config.Provider {
	case "sendgrid":
		if config.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SendGrid API key is required")
		}
		provider = NewSendGridProvider(config.SendGridAPIKey, config.FromEmail, config.FromName)
	case "smtp":
		provider = NewSMTPProvider(
			config.SMTPHost,
			config.SMTPPort,
			config.SMTPUsername,
			config.SMTPPassword,
			config.FromEmail,
			config.FromName,
			config.SMTPUseTLS,
		)
	default:
		return nil, fmt.Errorf("unknown email provider: %s", config.Provider)
	}

	return NewWithProvider(config, provider, log), nil
}

// NewWithProvider builds a service on an already configured provider.
func NewWithProvider(config *Config, provider Provider, log *zap.Logger) *Service {
	s := &Service{
		config:    config,
		provider:  provider,
		templates: make(map[string]*pair),
		log:       log,
	}
	s.loadTemplates()
	return s
}

func (s *Service) loadTemplates() {
	for name, t := range catalog {
		s.templates[name] = &pair{
			subject: t.subject,
			text:    texttemplate.Must(texttemplate.New(name).Parse(t.text)),
			html:    htmltemplate.Must(htmltemplate.Must(htmltemplate.New("base").Parse(baseTemplate)).Parse(t.html)),
		}
	}
}

// SendTemplate renders templateName with data and sends it to every address
// in to.
func (s *Service) SendTemplate(ctx context.Context, to []string, templateName string, data map[string]interface{}) error {
	t, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template not found: %s", templateName)
	}
	if data == nil {
		data = make(map[string]interface{})
	}
	data["FrontendURL"] = s.config.FrontendURL

	var text, html bytes.Buffer
	if err := t.text.Execute(&text, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	if err := t.html.ExecuteTemplate(&html, "base", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	msg := Message{To: to, Subject: t.subject, Text: text.String(), HTML: html.String()}
	s.log.Info("Sending email",
		zap.Strings("to", to),
		zap.String("template", templateName),
	)
	if err := s.provider.Send(ctx, msg); err != nil {
		s.log.Error("Failed to send email",
			zap.Strings("to", to),
			zap.String("template", templateName),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *Service) SendSellerPending(ctx context.Context, seller *domain.User) error {
	return s.SendTemplate(ctx, []string{s.config.AdminEmail}, TemplateSellerPending, map[string]interface{}{
		"Name":     seller.Name,
		"Document": sellerDocument(seller),
		"Email":    seller.Email,
		"Status":   string(domain.SellerStatusPendingApproval),
	})
}

func (s *Service) SendSellerApproved(ctx context.Context, seller *domain.User) error {
	return s.SendTemplate(ctx, []string{seller.Email}, TemplateSellerApproved, map[string]interface{}{
		"Name": seller.Name,
	})
}

func (s *Service) SendSellerRejected(ctx context.Context, seller *domain.User, reason string) error {
	if strings.TrimSpace(reason) == "" {
		reason = "Não especificado"
	}
	return s.SendTemplate(ctx, []string{seller.Email}, TemplateSellerRejected, map[string]interface{}{
		"Name":   seller.Name,
		"Reason": reason,
	})
}

func sellerDocument(u *domain.User) string {
	if u.CNPJ != nil && *u.CNPJ != "" {
		return "CNPJ: " + *u.CNPJ
	}
	if u.CPF != nil && *u.CPF != "" {
		return "CPF: " + *u.CPF
	}
	return ""
}
