// Package usecase はnotification preferencesのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"

	authentity "jar_backend/internal/feature/auth/domain/entity"
	"jar_backend/internal/feature/preferences/domain"
	"jar_backend/internal/feature/preferences/domain/entity"
	"jar_backend/internal/shared/apperr"
)

// ErrMembershipRequired is returned to users that do not belong to a family.
var ErrMembershipRequired = apperr.Forbidden("Family membership required")

// PreferenceRepository は家族ごとの通知設定の永続化を抽象化します。
type PreferenceRepository interface {
	// Find returns nil without error when the family has no row.
	Find(ctx context.Context, familyID string) (*entity.NotificationPreference, error)
	Upsert(ctx context.Context, p *entity.NotificationPreference) error
}

// MemberRepository resolves the acting user.
type MemberRepository interface {
	FindByID(ctx context.Context, id string) (*authentity.User, error)
}

// AuditRecorder records preference changes.
type AuditRecorder interface {
	Record(ctx context.Context, userID, action string, details map[string]any)
}

type preferencesUsecase struct {
	prefs   PreferenceRepository
	members MemberRepository
	audit   AuditRecorder
}

// NewPreferencesUsecase creates the preferences use case.
func NewPreferencesUsecase(prefs PreferenceRepository, members MemberRepository, audit AuditRecorder) *preferencesUsecase {
	return &preferencesUsecase{prefs: prefs, members: members, audit: audit}
}

// Get returns the caller's family preferences with defaults applied.
func (u *preferencesUsecase) Get(ctx context.Context, userID string) (domain.Preferences, error) {
	familyID, err := u.familyOf(ctx, userID)
	if err != nil {
		return domain.Preferences{}, err
	}
	return u.ForFamily(ctx, familyID)
}

// ForFamily returns the resolved preferences of a family. An empty familyID yields the defaults.
func (u *preferencesUsecase) ForFamily(ctx context.Context, familyID string) (domain.Preferences, error) {
	if familyID == "" {
		return domain.Defaults(), nil
	}
	rec, err := u.prefs.Find(ctx, familyID)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	return domain.Resolve(rec), nil
}

// Update merges partial into the stored preferences and saves them.
func (u *preferencesUsecase) Update(ctx context.Context, userID string, partial map[string]any) (domain.Preferences, error) {
	familyID, err := u.familyOf(ctx, userID)
	if err != nil {
		return domain.Preferences{}, err
	}
	rec, err := u.prefs.Find(ctx, familyID)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}

	merged := domain.Merge(familyID, rec, partial)
	if err := u.prefs.Upsert(ctx, merged); err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to save preferences: %w", err)
	}

	p := domain.Resolve(merged)
	u.audit.Record(ctx, userID, "NOTIFICATION_PREFERENCES_UPDATED", map[string]any{
		"familyId":    familyID,
		"preferences": map[string]any{
			domain.FieldDailyReminder:           p.DailyReminder,
			domain.FieldWeeklyReminder:          p.WeeklyReminder,
			domain.FieldEntryAlerts:             p.EntryAlerts,
			domain.FieldSummaryEmail:            p.SummaryEmail,
			domain.FieldPreferredReflectionTime: p.PreferredReflectionTime,
		},
	})
	return p, nil
}

func (u *preferencesUsecase) familyOf(ctx context.Context, userID string) (string, error) {
	user, err := u.members.FindByID(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return "", ErrMembershipRequired
		}
		return "", err
	}
	if user.FamilyID == nil || *user.FamilyID == "" {
		return "", ErrMembershipRequired
	}
	return *user.FamilyID, nil
}
