// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"

	"jar_backend/internal/platform/config"
	infrahttp "jar_backend/internal/platform/http"
	"jar_backend/internal/platform/mail"
)

// NewMailSender creates the email transport. SES is used when AWS_REGION is
// set; otherwise messages are only logged. EMAIL_TEST_RECIPIENT receives a
// copy of every message.
func NewMailSender(ctx context.Context, cfg *config.Config) mail.Sender {
	var sender mail.Sender = mail.LogSender{}
	if cfg.AWSRegion != "" {
		ses, err := mail.NewSESSender(ctx, infrahttp.NewHTTPClient(infrahttp.DefaultTimeout), cfg.AWSRegion, cfg.EmailFrom, cfg.EmailFromName)
		if err != nil {
			slog.Error("SES unavailable, emails will only be logged", "error", err)
		} else {
			sender = ses
		}
	} else {
		slog.Warn("AWS_REGION is not set. Emails will only be logged.")
	}
	return mail.WithTestRecipient(sender, cfg.EmailTestRecipient)
}
