package mailer

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/resend/resend-go/v3"
)

// EmailSender delivers transactional mail. Services depend on this, not on Resend.
type EmailSender interface {
	SendWelcome(ctx context.Context, toEmail string) error
}

type resendSender struct {
	client    *resend.Client
	fromEmail string
}

// NewResendSender creates an EmailSender backed by the Resend API.
func NewResendSender(apiKey, fromEmail string) EmailSender {
	return &resendSender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
	}
}

// NewResendSenderWithClient is used by tests to point the client at a fake server.
func NewResendSenderWithClient(client *resend.Client, fromEmail string) EmailSender {
	return &resendSender{
		client:    client,
		fromEmail: fromEmail,
	}
}

func (s *resendSender) SendWelcome(ctx context.Context, toEmail string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Blog <%s>", s.fromEmail),
		To:      []string{toEmail},
		Subject: "Bem-vindo à newsletter",
		Html:    WelcomeHTML(toEmail),
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

// WelcomeHTML renders the minimal welcome message.
func WelcomeHTML(toEmail string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family:Arial,Helvetica,sans-serif;">
  <p>Olá, %s!</p>
  <p>Obrigado por assinar a nossa newsletter. Você receberá os próximos posts no seu email.</p>
</body>
</html>`, html.EscapeString(toEmail))
}

// NoOpSender logs instead of sending. Used when RESEND_API_KEY is not set.
type NoOpSender struct {
	logger *slog.Logger
}

func NewNoOpSender(logger *slog.Logger) *NoOpSender {
	logger.Warn("⚠️ [Mailer] RESEND_API_KEY not set - welcome emails are disabled")
	return &NoOpSender{logger: logger}
}

func (s *NoOpSender) SendWelcome(ctx context.Context, toEmail string) error {
	s.logger.Debug("📭 [Mailer] Skipping welcome email", "to", toEmail)
	return nil
}
