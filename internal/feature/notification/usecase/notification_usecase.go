// Package usecase はエントリ通知と日次・週次リマインダーの送信を実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	authentity "jar_backend/internal/feature/auth/domain/entity"
	familyentity "jar_backend/internal/feature/family/domain/entity"
	jarentity "jar_backend/internal/feature/jar/domain/entity"
	"jar_backend/internal/feature/notification/domain"
	"jar_backend/internal/feature/notification/domain/entity"
	"jar_backend/internal/feature/notification/render"
	prefdomain "jar_backend/internal/feature/preferences/domain"
	"jar_backend/internal/shared/apperr"
)

var (
	ErrAccessDenied   = apperr.Forbidden("Access denied")
	ErrInvalidKind    = apperr.Validation("Invalid notification type", apperr.FieldError{Field: "type", Message: "must be daily or weekly"})
	ErrDeliveryFailed = apperr.New(apperr.KindUnavailable, "Failed to send notification")
)

// NotificationRepository stores sent reminders.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	// ListByFamily returns the family's notifications, newest first.
	ListByFamily(ctx context.Context, familyID string) ([]entity.Notification, error)
}

// FamilyRepository reads families.
type FamilyRepository interface {
	FindByID(ctx context.Context, id string) (*familyentity.Family, error)
	List(ctx context.Context) ([]familyentity.Family, error)
}

// MemberRepository reads family members.
type MemberRepository interface {
	FindByID(ctx context.Context, id string) (*authentity.User, error)
	ListByFamily(ctx context.Context, familyID string) ([]authentity.User, error)
}

// EntryRepository reads jar entries.
type EntryRepository interface {
	ListByFamily(ctx context.Context, familyID string) ([]jarentity.JarEntry, error)
}

// PreferenceReader resolves a family's notification preferences.
type PreferenceReader interface {
	ForFamily(ctx context.Context, familyID string) (prefdomain.Preferences, error)
}

// Mailer renders and delivers notification emails.
type Mailer interface {
	SendEntryAlert(ctx context.Context, to string, alert render.EntryAlert) error
	SendReminder(ctx context.Context, p domain.Payload) error
}

// AuditRecorder records notification events.
type AuditRecorder interface {
	Record(ctx context.Context, userID, action string, details map[string]any)
}

type notificationUsecase struct {
	notifications NotificationRepository
	families      FamilyRepository
	members       MemberRepository
	entries       EntryRepository
	prefs         PreferenceReader
	mailer        Mailer
	audit         AuditRecorder
	builder       *domain.Builder
	now           func() time.Time
}

// NewNotificationUsecase creates the notification use case.
func NewNotificationUsecase(
	notifications NotificationRepository,
	families FamilyRepository,
	members MemberRepository,
	entries EntryRepository,
	prefs PreferenceReader,
	mailer Mailer,
	audit AuditRecorder,
	builder *domain.Builder,
) *notificationUsecase {
	return &notificationUsecase{
		notifications: notifications,
		families:      families,
		members:       members,
		entries:       entries,
		prefs:         prefs,
		mailer:        mailer,
		audit:         audit,
		builder:       builder,
		now:           time.Now,
	}
}

// NotifyEntryCreated emails every other member of the entry's family when the
// family has entry alerts enabled. Individual delivery failures are logged.
func (u *notificationUsecase) NotifyEntryCreated(ctx context.Context, e *jarentity.JarEntry, author *authentity.User) error {
	prefs, err := u.prefs.ForFamily(ctx, e.FamilyID)
	if err != nil {
		return err
	}
	if !prefs.EntryAlerts {
		slog.Debug("entry alerts disabled", "familyId", e.FamilyID)
		return nil
	}

	members, err := u.members.ListByFamily(ctx, e.FamilyID)
	if err != nil {
		return fmt.Errorf("failed to load family members: %w", err)
	}

	authorName := ""
	if author != nil {
		authorName = author.DisplayName()
	}
	for _, m := range members {
		if m.Email == "" || (author != nil && m.ID == author.ID) {
			continue
		}
		alert := render.EntryAlert{
			EntryType:     e.EntryType,
			Content:       e.Content,
			AuthorName:    authorName,
			RecipientName: m.FirstName,
		}
		if err := u.mailer.SendEntryAlert(ctx, m.Email, alert); err != nil {
			slog.Warn("entry alert email failed", "entryId", e.ID, "recipientId", m.ID, "error", err)
		}
	}
	return nil
}

// Send builds and delivers a reminder for familyID on behalf of userID, then
// records it. The caller must belong to the family.
func (u *notificationUsecase) Send(ctx context.Context, userID, familyID string, kind entity.Kind) (*entity.Notification, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	user, err := u.members.FindByID(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, ErrAccessDenied
		}
		return nil, err
	}
	if user.FamilyID == nil || *user.FamilyID != familyID {
		return nil, ErrAccessDenied
	}

	p, err := u.build(ctx, familyID, kind, user.DisplayName())
	if err != nil {
		return nil, err
	}
	n, err := u.deliver(ctx, p)
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, userID, "NOTIFICATION_SENT", map[string]any{
		"type":       string(kind),
		"familyId":   familyID,
		"recipients": n.Recipients,
	})
	return n, nil
}

// SendForFamily sends a reminder to familyID without an acting member. Used by
// operator tooling; the audit entry has no user.
func (u *notificationUsecase) SendForFamily(ctx context.Context, familyID string, kind entity.Kind) (*entity.Notification, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	p, err := u.build(ctx, familyID, kind, "")
	if err != nil {
		return nil, err
	}
	n, err := u.deliver(ctx, p)
	if err != nil {
		return nil, err
	}
	u.audit.Record(ctx, "", "NOTIFICATION_SENT", map[string]any{
		"type":       string(kind),
		"familyId":   familyID,
		"recipients": n.Recipients,
		"manual":     true,
	})
	return n, nil
}

// SendScheduled sends kind to every family whose preferences allow it.
// Failures for one family are logged and do not stop the others. It returns
// the number of families that received the reminder.
func (u *notificationUsecase) SendScheduled(ctx context.Context, kind entity.Kind) (int, error) {
	if !kind.Valid() {
		return 0, ErrInvalidKind
	}
	families, err := u.families.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list families: %w", err)
	}

	sent := 0
	for _, f := range families {
		prefs, err := u.prefs.ForFamily(ctx, f.ID)
		if err != nil {
			slog.Error("failed to load preferences for scheduled reminder", "familyId", f.ID, "error", err)
			continue
		}
		if (kind == entity.KindDaily && !prefs.DailyReminder) || (kind == entity.KindWeekly && !prefs.WeeklyReminder) {
			continue
		}

		p, err := u.buildFor(ctx, &f, kind, "", prefs)
		if err != nil {
			slog.Error("failed to build scheduled reminder", "familyId", f.ID, "type", kind, "error", err)
			continue
		}
		if len(p.Recipients) == 0 {
			continue
		}
		n, err := u.deliver(ctx, p)
		if err != nil {
			slog.Error("failed to send scheduled reminder", "familyId", f.ID, "type", kind, "error", err)
			continue
		}
		u.audit.Record(ctx, "", "NOTIFICATION_SENT", map[string]any{
			"type":       string(kind),
			"familyId":   f.ID,
			"recipients": n.Recipients,
			"scheduled":  true,
		})
		sent++
	}
	slog.Info("scheduled reminders sent", "type", kind, "families", len(families), "sent", sent)
	return sent, nil
}

// List returns the family's notifications, newest first.
func (u *notificationUsecase) List(ctx context.Context, userID, familyID string) ([]entity.Notification, error) {
	user, err := u.members.FindByID(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, ErrAccessDenied
		}
		return nil, err
	}
	if user.FamilyID == nil {
		return nil, ErrAccessDenied
	}
	if familyID == "" {
		familyID = *user.FamilyID
	}
	if *user.FamilyID != familyID {
		return nil, ErrAccessDenied
	}
	return u.notifications.ListByFamily(ctx, familyID)
}

func (u *notificationUsecase) build(ctx context.Context, familyID string, kind entity.Kind, triggeredBy string) (domain.Payload, error) {
	f, err := u.families.FindByID(ctx, familyID)
	if err != nil {
		return domain.Payload{}, err
	}
	prefs, err := u.prefs.ForFamily(ctx, familyID)
	if err != nil {
		return domain.Payload{}, err
	}
	return u.buildFor(ctx, f, kind, triggeredBy, prefs)
}

func (u *notificationUsecase) buildFor(ctx context.Context, f *familyentity.Family, kind entity.Kind, triggeredBy string, prefs prefdomain.Preferences) (domain.Payload, error) {
	members, err := u.members.ListByFamily(ctx, f.ID)
	if err != nil {
		return domain.Payload{}, fmt.Errorf("failed to load family members: %w", err)
	}
	entries, err := u.entries.ListByFamily(ctx, f.ID)
	if err != nil {
		return domain.Payload{}, fmt.Errorf("failed to load jar entries: %w", err)
	}

	in := domain.ReminderInput{
		Family:      f,
		Members:     members,
		Entries:     entries,
		TriggeredBy: triggeredBy,
		Now:         u.now(),
	}
	switch kind {
	case entity.KindDaily:
		return u.builder.BuildDailyReminder(in), nil
	case entity.KindWeekly:
		return u.builder.BuildWeeklyReflection(in, prefs), nil
	}
	return domain.Payload{}, ErrInvalidKind
}

func (u *notificationUsecase) deliver(ctx context.Context, p domain.Payload) (*entity.Notification, error) {
	if err := u.mailer.SendReminder(ctx, p); err != nil {
		return nil, errors.Join(ErrDeliveryFailed, err)
	}
	n := &entity.Notification{
		FamilyID:   p.FamilyID,
		Type:       p.Kind,
		Recipients: len(p.Recipients),
		SentAt:     u.now(),
	}
	if err := u.notifications.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to save notification: %w", err)
	}
	return n, nil
}
