package mail

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/config"
	"github.com/spec-kit/chat-service/internal/observability"
)

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// OTPMessage renders the registration OTP email.
func OTPMessage(to, otp string, ttl time.Duration) Message {
	validity := formatValidity(ttl)
	return Message{
		To:      to,
		Subject: "Your OTP for Chat App Registration",
		Text: fmt.Sprintf("Your One-Time Password (OTP) for Chat App registration is: %s\n\nThis OTP is valid for %s.",
			otp, validity),
		HTML: fmt.Sprintf("<p>Your One-Time Password (OTP) for Chat App registration is: <strong>%s</strong></p><p>This OTP is valid for %s.</p>",
			otp, validity),
	}
}

func formatValidity(ttl time.Duration) string {
	if ttl%time.Minute == 0 && ttl >= time.Minute {
		minutes := int(ttl / time.Minute)
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	return fmt.Sprintf("%d seconds", int(ttl/time.Second))
}

// New picks the SMTP mailer when a host is configured and the log mailer otherwise.
func New(cfg config.MailConfig, logger *zap.Logger) (Mailer, error) {
	if !cfg.Enabled() {
		logger.Warn("SMTP_HOST not set; OTP emails will only be logged")
		return NewLogMailer(logger), nil
	}
	return NewSMTPMailer(cfg)
}

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer builds a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("mail not delivered (no SMTP configured)",
		zap.String("to", observability.MaskEmail(msg.To)),
		zap.String("subject", msg.Subject))
	return nil
}
