package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	ledgerRepo "frontdesk/database/repository/ledger"
	providerRepo "frontdesk/database/repository/provider"
	"frontdesk/models"

	"go.uber.org/zap"
)

// EmailSender is the raw delivery transport.
type EmailSender interface {
	Send(to, subject, body string) error
}

// SMTPSender delivers via plain SMTP (Mailpit-compatible in development).
type SMTPSender struct {
	addr string
	from string
}

func NewSMTPSender(host, port, from string) *SMTPSender {
	host = strings.TrimSpace(host)
	port = strings.TrimSpace(port)
	from = strings.TrimSpace(from)
	if from == "" {
		from = "frontdesk@clinic.local"
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%s", host, port),
		from: from,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	msg := buildMessage(s.from, to, subject, body)
	return smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg))
}

func buildMessage(from, to, subject, body string) string {
	// Minimal RFC 5322 message; enough for Mailpit and most SMTP relays.
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		body,
	)
}

// DefaultNotificationService is the production implementation: it resolves
// the booking and provider, composes the email variant for the request kind,
// and hands it to the sender.
type DefaultNotificationService struct {
	Ledger    ledgerRepo.LedgerRepository
	Providers providerRepo.ProviderRepository
	Sender    EmailSender
	Logger    *zap.Logger
}

func NewDefaultNotificationService(ledger ledgerRepo.LedgerRepository, providers providerRepo.ProviderRepository, sender EmailSender, logger *zap.Logger) (*DefaultNotificationService, error) {
	if ledger == nil || providers == nil || sender == nil {
		return nil, fmt.Errorf("notification service initialization error: missing dependency")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotificationService{Ledger: ledger, Providers: providers, Sender: sender, Logger: logger}, nil
}

func (s *DefaultNotificationService) Notify(ctx context.Context, req models.NotificationRequest) error {
	b, err := s.Ledger.GetBooking(ctx, req.BookingID)
	if err != nil {
		return fmt.Errorf("Notify: could not find booking %s: %w", req.BookingID, err)
	}
	to := req.Email
	if to == "" {
		to = b.Caller.Email
	}
	if to == "" {
		// Caller never gave an address; nothing to deliver.
		s.Logger.Info("skipping notification, no email on file", zap.String("booking_id", b.ID))
		return nil
	}

	var providerName string
	if p, perr := s.Providers.GetByID(ctx, b.ProviderID); perr == nil {
		providerName = p.Name
	}

	subject, body := ComposeEmail(req.Kind, b, providerName)
	if err := s.Sender.Send(to, subject, body); err != nil {
		return fmt.Errorf("Notify: failed to send %s email for booking %s: %w", req.Kind, b.ID, err)
	}
	s.Logger.Info("notification sent",
		zap.String("booking_id", b.ID),
		zap.String("kind", string(req.Kind)),
		zap.String("to", to))
	return nil
}

// ComposeEmail renders the subject and body for a notification kind.
func ComposeEmail(kind models.NotificationKind, b *models.Booking, providerName string) (string, string) {
	if providerName == "" {
		providerName = b.ProviderID
	}
	when := b.Start.Format("Monday, January 2 at 3:04 PM")
	patient := b.Caller.Name
	if patient == "" {
		patient = "Patient"
	}

	switch kind {
	case models.NotificationCancelled:
		return "Your appointment has been cancelled",
			fmt.Sprintf("Hello %s,\n\nYour appointment with %s on %s has been cancelled.\n\nIf this was a mistake, please call the front desk to rebook.\n", patient, providerName, when)
	case models.NotificationRescheduled:
		return "Your appointment has been rescheduled",
			fmt.Sprintf("Hello %s,\n\nYour appointment has been moved. You are now seeing %s on %s (%d minutes).\n\nWe look forward to seeing you.\n", patient, providerName, when, int(b.End.Sub(b.Start)/time.Minute))
	case models.NotificationReminder:
		return "Appointment reminder",
			fmt.Sprintf("Hello %s,\n\nThis is a reminder of your upcoming appointment with %s on %s.\n", patient, providerName, when)
	default:
		return "Your appointment is confirmed",
			fmt.Sprintf("Hello %s,\n\nYour appointment with %s is confirmed for %s (%d minutes).\n\nWe look forward to seeing you.\n", patient, providerName, when, int(b.End.Sub(b.Start)/time.Minute))
	}
}
