// Package mail delivers rendered emails. SES is used when a region is
// configured; otherwise messages are only logged.
package mail

import (
	"context"
	"log/slog"
	"strings"
)

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	Bcc     []string
	Subject string
	HTML    string
	Text    string
}

// Recipients returns To followed by Bcc.
func (m Message) Recipients() []string {
	out := make([]string, 0, 1+len(m.Bcc))
	if m.To != "" {
		out = append(out, m.To)
	}
	return append(out, m.Bcc...)
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender records messages without delivering them. Used when no email
// transport is configured.
type LogSender struct{}

// Send logs the masked recipients and subject.
func (LogSender) Send(_ context.Context, msg Message) error {
	slog.Info("email transport not configured, skipping delivery",
		"to", MaskEmail(msg.To),
		"bcc", maskAll(msg.Bcc),
		"subject", msg.Subject,
	)
	return nil
}

// testRecipientSender adds a fixed address as BCC to every message.
type testRecipientSender struct {
	inner     Sender
	recipient string
}

// WithTestRecipient wraps inner so that recipient receives a copy of every
// message. An empty recipient returns inner unchanged.
func WithTestRecipient(inner Sender, recipient string) Sender {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return inner
	}
	return &testRecipientSender{inner: inner, recipient: recipient}
}

func (s *testRecipientSender) Send(ctx context.Context, msg Message) error {
	for _, r := range msg.Recipients() {
		if strings.EqualFold(r, s.recipient) {
			return s.inner.Send(ctx, msg)
		}
	}
	msg.Bcc = append(append([]string(nil), msg.Bcc...), s.recipient)
	return s.inner.Send(ctx, msg)
}

// MaskEmail keeps the first two characters of the local part for logging.
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" {
		return "***"
	}
	if len(local) > 2 {
		local = local[:2]
	}
	return local + "***@" + domain
}

func maskAll(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		out = append(out, MaskEmail(e))
	}
	return out
}
