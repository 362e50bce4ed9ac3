// Package scheduler は日次・週次リマインダーをcron式に従って起動します。
package scheduler

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"jar_backend/internal/feature/notification/domain/entity"
)

// ScheduledSender sends one kind of reminder to every eligible family.
type ScheduledSender interface {
	SendScheduled(ctx context.Context, kind entity.Kind) (int, error)
}

// Scheduler owns a single cron runner.
type Scheduler struct {
	cron    *cron.Cron
	sender  ScheduledSender
	timeout time.Duration
	jobs    int
}

// parser は5フィールド形式に加え、先頭の秒フィールドと@daily等の記述子を受け付けます。
var parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// New registers the daily and weekly jobs. Empty expressions are not
// scheduled; invalid ones are logged and skipped.
func New(sender ScheduledSender, dailyCron, weeklyCron string) *Scheduler {
	logger := slogLogger{}
	s := &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		sender:  sender,
		timeout: 10 * time.Minute,
	}
	s.add(entity.KindDaily, dailyCron)
	s.add(entity.KindWeekly, weeklyCron)
	return s
}

func (s *Scheduler) add(kind entity.Kind, spec string) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return
	}
	if _, err := s.cron.AddFunc(spec, func() { s.run(kind) }); err != nil {
		slog.Warn("invalid notification cron expression, skipping schedule", "type", kind, "cron", spec, "error", err)
		return
	}
	s.jobs++
	slog.Info("notification cron scheduled", "type", kind, "cron", spec)
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int { return s.jobs }

// Start runs the scheduler in its own goroutine. It does nothing without jobs.
func (s *Scheduler) Start() {
	if s.jobs == 0 {
		return
	}
	s.cron.Start()
}

// Stop stops scheduling and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		slog.Warn("notification scheduler did not stop in time")
	}
}

func (s *Scheduler) run(kind entity.Kind) {
	slog.Info("notification cron triggered", "type", kind)
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.sender.SendScheduled(ctx, kind); err != nil {
		slog.Error("scheduled notification failed", "type", kind, "error", err)
	}
}

// slogLogger adapts cron's logger to slog.
type slogLogger struct{}

func (slogLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
