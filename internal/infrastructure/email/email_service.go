package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/termwise/glossary-saas/internal/core/domain/user"
	"github.com/termwise/glossary-saas/internal/core/ports"
)

// EmailConfig holds email service configuration
type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	CompanyName    string
	BaseURL        string
}

// EmailService implements the EmailService interface using SendGrid
type EmailService struct {
	config *EmailConfig
	logger *logrus.Logger
	client *sendgrid.Client
}

// NewEmailService creates a new email service instance
func NewEmailService(config *EmailConfig, logger *logrus.Logger) (ports.EmailService, error) {
	if config == nil {
		return nil, fmt.Errorf("email config is required")
	}
	client := sendgrid.NewSendClient(config.SendGridAPIKey)

	return &EmailService{
		config: config,
		logger: logger,
		client: client,
	}, nil
}

// sendEmail sends an email using SendGrid
func (e *EmailService) sendEmail(to, subject, htmlContent string) error {
	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	recipient := mail.NewEmail("", to)

	message := mail.NewSingleEmail(from, subject, recipient, "", htmlContent)

	response, err := e.client.Send(message)
	if err != nil {
		if e.logger != nil {
			e.logger.WithFields(logrus.Fields{"to": to, "subject": subject}).WithError(err).Error("Failed to send email")
		}
		return fmt.Errorf("failed to send email: %w", err)
	}

	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{"to": to, "subject": subject, "status_code": response.StatusCode}).Info("Email sent successfully")
	}

	return nil
}

func (e *EmailService) SendWelcomeEmail(_ context.Context, u *user.User) error {
	subject := fmt.Sprintf("Welcome to %s", e.config.CompanyName)
	body := fmt.Sprintf(
		`<p>Hi %s,</p>
		<p>Your account is ready. Every term in the glossary is open to you during your first week.</p>
		<p><a href="%s">Start browsing</a></p>`,
		u.DisplayName, e.config.BaseURL)
	return e.sendEmail(u.Email, subject, body)
}

func (e *EmailService) SendPremiumActivatedEmail(_ context.Context, u *user.User) error {
	subject := fmt.Sprintf("%s Premium is active", e.config.CompanyName)
	body := fmt.Sprintf(
		`<p>Hi %s,</p>
		<p>Thanks for your purchase. Daily limits no longer apply to your account.</p>
		<p><a href="%s">Back to the glossary</a></p>`,
		u.DisplayName, e.config.BaseURL)
	return e.sendEmail(u.Email, subject, body)
}
