// Package notify delivers grade change alerts through an SMTP relay.
// Delivery is best effort: the watcher logs failures and moves on, so
// nothing in this package is allowed to panic on bad configuration.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/uqgrd/uqgrd/config"
	"github.com/uqgrd/uqgrd/internal/domain/grade"
	"github.com/uqgrd/uqgrd/internal/domain/shared"
)

const portalLink = "https://monportail.uqam.ca"

// Mailer sends grade update emails over SMTP with STARTTLS.
type Mailer struct {
	cfg    config.SMTPConfig
	logger *slog.Logger
}

// NewMailer creates a new Mailer.
func NewMailer(cfg config.SMTPConfig, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{cfg: cfg, logger: logger}
}

// Notify sends a grade update email for one course. Missing SMTP
// credentials are reported as an error, never a panic: the watcher
// treats them as any other delivery failure.
func (m *Mailer) Notify(ctx context.Context, recipient, sigle, title string, detail grade.Detail) error {
	if m.cfg.Username == "" || m.cfg.Password == "" {
		return shared.ErrNotifyConfigMissing
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.Username); err != nil {
		return shared.WrapError("notify", "Send", shared.ErrInvalidInput, "invalid sender address", err)
	}
	if err := msg.To(recipient); err != nil {
		return shared.WrapError("notify", "Send", shared.ErrInvalidInput, "invalid recipient address", err)
	}

	msg.Subject(Subject(sigle))
	msg.SetBodyString(mail.TypeTextPlain, Body(sigle, title, detail))

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return shared.WrapError("notify", "Send", shared.ErrInvalidState, "smtp client setup failed", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return shared.WrapError("notify", "Send", shared.ErrNotifyFailed, "smtp delivery failed", err)
	}

	m.logger.Info("notification sent", "sigle", sigle, "recipient", recipient)
	return nil
}

// Subject builds the email subject for a course update.
func Subject(sigle string) string {
	return fmt.Sprintf("UQAM Grade Update: %s", sigle)
}

// Body builds the plaintext email body. Absent values render as "N/A"
// so the message shape stays stable whatever the portal published.
func Body(sigle, title string, detail grade.Detail) string {
	letter := "N/A"
	if detail.Letter != nil {
		letter = *detail.Letter
	}

	total := "N/A"
	if detail.Total != nil {
		total = fmt.Sprintf("%.2f%%", *detail.Total)
	}

	return fmt.Sprintf(
		"New grade detected!\n\nCourse: %s - %s\nGrade: %s\nTotal: %s\n\nCheck here: %s",
		sigle, title, letter, total, portalLink,
	)
}

// RecipientFor derives the student's institutional address from the
// portal username.
func RecipientFor(username, domain string) string {
	return username + "@" + domain
}
