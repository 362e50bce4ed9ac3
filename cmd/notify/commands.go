package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"jar_backend/internal/feature/notification/domain/entity"
)

// Notifier is the part of the notification use case the CLI drives.
type Notifier interface {
	SendForFamily(ctx context.Context, familyID string, kind entity.Kind) (*entity.Notification, error)
	SendScheduled(ctx context.Context, kind entity.Kind) (int, error)
}

// runContext is bound into every command's Run method.
type runContext struct {
	ctx      context.Context
	notifier Notifier
	out      io.Writer
}

// SendCmd sends one reminder to a single family.
type SendCmd struct {
	Kind     string `arg:"" enum:"daily,weekly" help:"Reminder type (daily or weekly)."`
	FamilyID string `name:"family-id" required:"" help:"Family to notify."`
}

func (c *SendCmd) Run(rc *runContext) error {
	n, err := rc.notifier.SendForFamily(rc.ctx, c.FamilyID, entity.Kind(c.Kind))
	if err != nil {
		return fmt.Errorf("send %s reminder: %w", c.Kind, err)
	}
	fmt.Fprintf(rc.out, "sent %s reminder to %d recipient(s) at %s\n", n.Type, n.Recipients, n.SentAt.Format(time.RFC3339))
	return nil
}

// ScheduledCmd runs a scheduled pass over every family, as the cron would.
type ScheduledCmd struct {
	Kind string `arg:"" enum:"daily,weekly" help:"Reminder type (daily or weekly)."`
}

func (c *ScheduledCmd) Run(rc *runContext) error {
	sent, err := rc.notifier.SendScheduled(rc.ctx, entity.Kind(c.Kind))
	if err != nil {
		return fmt.Errorf("scheduled %s reminders: %w", c.Kind, err)
	}
	fmt.Fprintf(rc.out, "sent %s reminders to %d family(ies)\n", c.Kind, sent)
	return nil
}
