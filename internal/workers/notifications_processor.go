// internal/workers/notifications_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pharmapos-be/internal/core/ports"
	"github.com/ammerola/pharmapos-be/internal/pkg/config"
)

// EmailPayload represents a generic outbound email task
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ExpiryAlertPayload configures a scheduled expiry alert run
type ExpiryAlertPayload struct {
	Days      int    `json:"days"`
	Recipient string `json:"recipient,omitempty"`
}

// NotificationProcessor handles email notifications
type NotificationProcessor struct {
	service ports.MedicineService
	config  *config.Config
	logger  *slog.Logger
}

// NewNotificationProcessor creates a new notification processor
func NewNotificationProcessor(service ports.MedicineService, config *config.Config, logger *slog.Logger) *NotificationProcessor {
	return &NotificationProcessor{
		service: service,
		config:  config,
		logger:  logger.With(slog.String("processor", "notification")),
	}
}

// SendExpiryAlert compiles the expiring and expired stock report and
// emails it to the pharmacy's alert recipient
func (p *NotificationProcessor) SendExpiryAlert(ctx context.Context, t *asynq.Task) error {
	var payload ExpiryAlertPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	days := payload.Days
	if days <= 0 {
		days = p.config.Pharmacy.ExpiryWindowDays
	}
	recipient := payload.Recipient
	if recipient == "" {
		recipient = p.config.Email.AlertRecipient
	}
	if recipient == "" {
		p.logger.WarnContext(ctx, "no alert recipient configured, skipping expiry alert")
		return nil
	}

	report, err := p.service.Expiring(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to build expiry report: %w", err)
	}

	if len(report.Expiring) == 0 && len(report.Expired) == 0 {
		p.logger.InfoContext(ctx, "no expiring or expired stock, alert skipped",
			slog.Int("days", days))
		return nil
	}

	subject := fmt.Sprintf("Stock expiry alert: %d expiring, %d expired",
		len(report.Expiring), len(report.Expired))

	var body strings.Builder
	if len(report.Expired) > 0 {
		body.WriteString("EXPIRED (pull from shelves):\n")
		for _, m := range report.Expired {
			fmt.Fprintf(&body, "  - %s (%s), qty %d, expired %s\n",
				m.Name, m.Generic, m.Quantity, m.Expiry.Format("2006-01-02"))
		}
		body.WriteString("\n")
	}
	if len(report.Expiring) > 0 {
		fmt.Fprintf(&body, "EXPIRING within %d days:\n", days)
		for _, m := range report.Expiring {
			fmt.Fprintf(&body, "  - %s (%s), qty %d, expires %s\n",
				m.Name, m.Generic, m.Quantity, m.Expiry.Format("2006-01-02"))
		}
	}

	return p.send(ctx, recipient, subject, body.String())
}

// SendEmail sends email notifications
func (p *NotificationProcessor) SendEmail(ctx context.Context, t *asynq.Task) error {
	var payload EmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return p.send(ctx, payload.To, payload.Subject, payload.Body)
}

func (p *NotificationProcessor) send(ctx context.Context, to, subject, body string) error {
	p.logger.InfoContext(ctx, "sending email",
		slog.String("to", to),
		slog.String("subject", subject))

	// In development, just log the email
	if p.config.App.Environment == "development" {
		p.logger.InfoContext(ctx, "email would be sent",
			slog.String("to", to),
			slog.String("subject", subject),
			slog.String("body", body))
		return nil
	}

	email := p.config.Email
	from := email.FromAddress
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		from, to, subject, body,
	))

	addr := fmt.Sprintf("%s:%s", email.SMTPHost, email.SMTPPort)
	auth := smtp.PlainAuth("", email.SMTPUser, email.SMTPPassword, email.SMTPHost)
	if err := smtp.SendMail(addr, auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	p.logger.InfoContext(ctx, "email sent successfully")
	return nil
}
