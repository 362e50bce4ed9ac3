// Package adapters はnotification機能の外部I/O（メール送信・永続化）を実装します。
package adapters

import (
	"context"
	"fmt"
	"log/slog"

	"jar_backend/internal/feature/notification/domain"
	"jar_backend/internal/feature/notification/domain/entity"
	"jar_backend/internal/feature/notification/render"
	"jar_backend/internal/platform/mail"
)

// emailMailer はrenderで組み立てた本文をmail.Senderで配送します。
// auth・family・notificationの各ユースケースのMailerを兼ねます。
type emailMailer struct {
	sender   mail.Sender
	composer *render.Composer
}

// NewEmailMailer returns the mailer used by every feature.
func NewEmailMailer(sender mail.Sender, composer *render.Composer) *emailMailer {
	return &emailMailer{sender: sender, composer: composer}
}

// SendVerification sends the signup verification link.
func (m *emailMailer) SendVerification(ctx context.Context, email, rawToken string) error {
	return m.deliver(ctx, "verification", email, nil, m.composer.Verification(rawToken))
}

// SendPasswordReset sends the password reset link.
func (m *emailMailer) SendPasswordReset(ctx context.Context, email, rawToken string) error {
	return m.deliver(ctx, "password_reset", email, nil, m.composer.PasswordReset(rawToken))
}

// SendFamilyInvite sends a family invitation.
func (m *emailMailer) SendFamilyInvite(ctx context.Context, email, rawToken, familyName string) error {
	return m.deliver(ctx, "family_invite", email, nil, m.composer.FamilyInvite(rawToken, familyName))
}

// SendEntryAlert notifies one member about a new entry.
func (m *emailMailer) SendEntryAlert(ctx context.Context, to string, alert render.EntryAlert) error {
	if to == "" {
		slog.Warn("missing recipient for entry alert email", "entryType", alert.EntryType)
		return nil
	}
	return m.deliver(ctx, "entry_alert", to, nil, m.composer.EntryAlert(alert))
}

// SendReminder delivers a daily or weekly payload. The first recipient is the
// To address and the rest are BCC. No recipients is not an error.
func (m *emailMailer) SendReminder(ctx context.Context, p domain.Payload) error {
	if len(p.Recipients) == 0 {
		slog.Warn("no recipients for reminder email", "familyId", p.FamilyID, "type", p.Kind)
		return nil
	}

	var email render.Email
	switch p.Kind {
	case entity.KindDaily:
		email = m.composer.DailyReminder(p.Daily)
	case entity.KindWeekly:
		email = m.composer.WeeklyReflection(p.Weekly)
	default:
		return fmt.Errorf("unknown reminder type %q", p.Kind)
	}
	return m.deliver(ctx, string(p.Kind)+"_reminder", p.Recipients[0], p.Recipients[1:], email)
}

func (m *emailMailer) deliver(ctx context.Context, kind, to string, bcc []string, email render.Email) error {
	msg := mail.Message{
		To:      to,
		Bcc:     bcc,
		Subject: email.Subject,
		HTML:    email.HTML,
		Text:    email.Text,
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}
	slog.Info("email sent", "kind", kind, "to", mail.MaskEmail(to), "bcc", len(bcc))
	return nil
}
