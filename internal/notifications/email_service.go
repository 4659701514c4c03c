package notifications

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"text/template"

	"bustix/internal/shared/config"
)

// EmailService renders and delivers one booking event as a customer email.
type EmailService interface {
	SendBookingEvent(ctx context.Context, event *BookingEvent) error
}

const confirmedTemplate = `Your booking {{.BookingReference}} is confirmed.

Seats: {{.Seats}}
Total: {{printf "%.0f" .TotalPrice}} {{.Currency}}

Please arrive at the boarding point 15 minutes before departure.`

const cancelledTemplate = `Your booking {{.BookingReference}} has been cancelled.
{{if gt .RefundAmount 0.0}}
Refund: {{printf "%.0f" .RefundAmount}} {{.Currency}} will be returned to your payment method within 5-7 business days.
{{else}}
No refund applies to this cancellation.
{{end}}`

// SMTPEmailService sends booking emails over plain SMTP.
type SMTPEmailService struct {
	config    config.EmailConfig
	templates map[EventType]*template.Template
}

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(cfg config.EmailConfig) (*SMTPEmailService, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	templates := map[EventType]*template.Template{
		EventBookingConfirmed: template.Must(template.New("confirmed").Parse(confirmedTemplate)),
		EventBookingCancelled: template.Must(template.New("cancelled").Parse(cancelledTemplate)),
	}

	return &SMTPEmailService{config: cfg, templates: templates}, nil
}

// SendBookingEvent renders the event into an email and delivers it. Events
// without a contact email are skipped, not failed.
func (s *SMTPEmailService) SendBookingEvent(ctx context.Context, event *BookingEvent) error {
	if event.ContactEmail == "" {
		log.Printf("📧 Booking event %s has no contact email, skipping", event.ID)
		return nil
	}

	tmpl, ok := s.templates[event.Type]
	if !ok {
		return fmt.Errorf("no email template for event type %s", event.Type)
	}

	var body bytes.Buffer
	data := struct {
		*BookingEvent
		Seats string
	}{BookingEvent: event, Seats: strings.Join(event.SeatCodes, ", ")}
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := s.subjectFor(event)
	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.config.FromEmail, event.ContactEmail, subject, body.String())

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{event.ContactEmail}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", event.ContactEmail, err)
	}

	log.Printf("📧 Email sent to %s for booking %s (%s)", event.ContactEmail, event.BookingReference, event.Type)
	return nil
}

func (s *SMTPEmailService) subjectFor(event *BookingEvent) string {
	switch event.Type {
	case EventBookingConfirmed:
		return fmt.Sprintf("✅ Booking %s confirmed", event.BookingReference)
	case EventBookingCancelled:
		return fmt.Sprintf("❌ Booking %s cancelled", event.BookingReference)
	default:
		return fmt.Sprintf("Update on booking %s", event.BookingReference)
	}
}
