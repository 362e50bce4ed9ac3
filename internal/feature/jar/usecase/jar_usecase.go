// Package usecase はjarフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	authentity "jar_backend/internal/feature/auth/domain/entity"
	"jar_backend/internal/feature/jar/domain"
	"jar_backend/internal/feature/jar/domain/entity"
	"jar_backend/internal/shared/access"
	"jar_backend/internal/shared/apperr"
)

// EntryRepository はjarエントリの永続化を抽象化します。
type EntryRepository interface {
	Create(ctx context.Context, e *entity.JarEntry) error
	FindByID(ctx context.Context, id string) (*entity.JarEntry, error)
	// ListByFamily returns every entry of the family, oldest first.
	ListByFamily(ctx context.Context, familyID string) ([]entity.JarEntry, error)
	Update(ctx context.Context, e *entity.JarEntry) error
	// Delete removes the entry and any responses to it.
	Delete(ctx context.Context, familyID, id string) error
	HasResponse(ctx context.Context, entryID string) (bool, error)
}

// MemberRepository resolves the acting user.
type MemberRepository interface {
	FindByID(ctx context.Context, id string) (*authentity.User, error)
}

// EntryNotifier tells the rest of the family about a new entry.
type EntryNotifier interface {
	NotifyEntryCreated(ctx context.Context, entry *entity.JarEntry, author *authentity.User) error
}

// AuditRecorder records jar events.
type AuditRecorder interface {
	Record(ctx context.Context, userID, action string, details map[string]any)
}

// CreateInput is a new entry as sent by the client.
type CreateInput struct {
	EntryType  entity.EntryType
	Content    string
	Author     string
	Target     string
	Context    any
	ResponseTo string
}

// UpdateInput changes the text of an entry. Context is replaced only when SetContext is true.
type UpdateInput struct {
	Content    string
	Context    any
	SetContext bool
}

// Timeline is the categorized jar plus its statistics.
type Timeline struct {
	Entries []domain.DisplayEntry
	Pending []domain.DisplayEntry
	Stats   domain.Stats
}

// Summary periods.
const (
	PeriodWeekly = "weekly"
	PeriodAll    = "all"
)

type jarUsecase struct {
	entries  EntryRepository
	members  MemberRepository
	notifier EntryNotifier
	audit    AuditRecorder
	catalog  *domain.Catalog
	now      func() time.Time
	dispatch func(func())
}

// NewJarUsecase creates the jar use case. notifier may be nil.
func NewJarUsecase(entries EntryRepository, members MemberRepository, notifier EntryNotifier, audit AuditRecorder, catalog *domain.Catalog) *jarUsecase {
	return &jarUsecase{
		entries:  entries,
		members:  members,
		notifier: notifier,
		audit:    audit,
		catalog:  catalog,
		now:      time.Now,
		dispatch: func(f func()) { go f() },
	}
}

// Create validates a submission against the author's role and stores it.
// 通知はリクエストとは切り離して送信し、失敗してもエントリ作成は成功させます。
func (u *jarUsecase) Create(ctx context.Context, userID string, in CreateInput) (*entity.JarEntry, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	user, err := u.members.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.FamilyID == nil || *user.FamilyID == "" {
		return nil, ErrNoFamily
	}
	sub := submitter(user)

	md, err := domain.Authorize(sub, domain.Submission{
		EntryType:  in.EntryType,
		Author:     in.Author,
		Target:     in.Target,
		Context:    in.Context,
		ResponseTo: in.ResponseTo,
	})
	if err != nil {
		return nil, err
	}
	if md.ResponseTo != "" {
		if md, err = u.authorizeResponse(ctx, sub, *user.FamilyID, md.ResponseTo, in.Context); err != nil {
			return nil, err
		}
	}

	return u.store(ctx, user, in.EntryType, content, md)
}

// Respond stores a child's response to a better choice.
func (u *jarUsecase) Respond(ctx context.Context, userID, entryID, content string) (*entity.JarEntry, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	user, err := u.members.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.FamilyID == nil || *user.FamilyID == "" {
		return nil, ErrNoFamily
	}

	md, err := u.authorizeResponse(ctx, submitter(user), *user.FamilyID, entryID, nil)
	if err != nil {
		return nil, err
	}
	return u.store(ctx, user, entity.EntryBetterChoice, content, md)
}

func (u *jarUsecase) store(ctx context.Context, user *authentity.User, t entity.EntryType, content string, md entity.Metadata) (*entity.JarEntry, error) {
	e := &entity.JarEntry{
		FamilyID:  *user.FamilyID,
		UserID:    user.ID,
		EntryType: t,
		Content:   content,
	}
	e.SetMeta(md)
	if err := u.entries.Create(ctx, e); err != nil {
		return nil, err
	}

	if md.ResponseTo != "" {
		u.audit.Record(ctx, user.ID, "JAR_ENTRY_RESPONDED", map[string]any{"entryId": md.ResponseTo, "responseId": e.ID})
	} else {
		u.audit.Record(ctx, user.ID, "JAR_ENTRY_CREATED", map[string]any{"entryId": e.ID, "entryType": string(e.EntryType)})
	}
	u.notify(ctx, e, user)
	return e, nil
}

// authorizeResponse looks up the better choice being answered. Entries of
// other families are treated as missing.
func (u *jarUsecase) authorizeResponse(ctx context.Context, sub domain.Submitter, familyID, targetID string, note any) (entity.Metadata, error) {
	target, err := u.entries.FindByID(ctx, targetID)
	switch {
	case errors.Is(err, ErrEntryNotFound):
		target = nil
	case err != nil:
		return entity.Metadata{}, err
	case target.FamilyID != familyID:
		target = nil
	}

	answered := false
	if target != nil {
		if answered, err = u.entries.HasResponse(ctx, target.ID); err != nil {
			return entity.Metadata{}, err
		}
	}
	return domain.AuthorizeResponse(sub, target, answered, note)
}

func (u *jarUsecase) notify(ctx context.Context, e *entity.JarEntry, author *authentity.User) {
	if u.notifier == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	u.dispatch(func() {
		if err := u.notifier.NotifyEntryCreated(detached, e, author); err != nil {
			slog.Warn("entry notification failed", "entryId", e.ID, "familyId", e.FamilyID, "error", err)
		}
	})
}

// List returns the family's categorized entries, optionally filtered by type.
// familyID defaults to the caller's family; unknown filters are ignored.
func (u *jarUsecase) List(ctx context.Context, userID, familyID, filter string) ([]domain.DisplayEntry, error) {
	user, err := u.ensureFamilyAccess(ctx, userID, familyID)
	if err != nil {
		return nil, err
	}
	entries, err := u.entries.ListByFamily(ctx, *user.FamilyID)
	if err != nil {
		return nil, err
	}
	display, _ := u.catalog.Categorize(entries)
	if t := entity.EntryType(filter); t.Valid() {
		display = domain.Filter(display, t)
	}
	return display, nil
}

// Get returns one entry of the caller's family.
func (u *jarUsecase) Get(ctx context.Context, userID, id string) (*entity.JarEntry, error) {
	e, err := u.entries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := u.ensureFamilyAccess(ctx, userID, e.FamilyID); err != nil {
		return nil, err
	}
	return e, nil
}

// Update changes the content (and optionally the context) of an entry.
// Author, target and the response link are kept as stored.
func (u *jarUsecase) Update(ctx context.Context, userID, id string, in UpdateInput) (*entity.JarEntry, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	e, err := u.entries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user, err := u.ensureFamilyAccess(ctx, userID, e.FamilyID)
	if err != nil {
		return nil, err
	}
	if !access.Allowed(user.Role, access.ActionEditEntry) {
		return nil, ErrParentsOnlyUpdate
	}

	e.Content = content
	if in.SetContext {
		md := e.Meta()
		md.Context = in.Context
		e.SetMeta(md)
	}
	if err := u.entries.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	u.audit.Record(ctx, userID, "JAR_ENTRY_UPDATED", map[string]any{"entryId": id})
	return e, nil
}

// Delete removes an entry and its responses.
func (u *jarUsecase) Delete(ctx context.Context, userID, id string) error {
	e, err := u.entries.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user, err := u.ensureFamilyAccess(ctx, userID, e.FamilyID)
	if err != nil {
		return err
	}
	if !access.Allowed(user.Role, access.ActionEditEntry) {
		return ErrParentsOnlyDelete
	}

	if err := u.entries.Delete(ctx, e.FamilyID, e.ID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	u.audit.Record(ctx, userID, "JAR_ENTRY_DELETED", map[string]any{"entryId": id})
	return nil
}

// Summary counts entries per type. The weekly period covers the last seven
// days up to now; any other value counts everything.
func (u *jarUsecase) Summary(ctx context.Context, userID, familyID, period string) ([]domain.TypeCount, error) {
	user, err := u.ensureFamilyAccess(ctx, userID, familyID)
	if err != nil {
		return nil, err
	}
	entries, err := u.entries.ListByFamily(ctx, *user.FamilyID)
	if err != nil {
		return nil, err
	}

	var since time.Time
	if period == "" || period == PeriodWeekly {
		since = u.now().Add(-7 * 24 * time.Hour)
	}
	return domain.SummarizeByType(entries, since), nil
}

// Timeline returns the categorized entries, the pending better choices and
// the stats relative to now.
func (u *jarUsecase) Timeline(ctx context.Context, userID, familyID string) (*Timeline, error) {
	user, err := u.ensureFamilyAccess(ctx, userID, familyID)
	if err != nil {
		return nil, err
	}
	entries, err := u.entries.ListByFamily(ctx, *user.FamilyID)
	if err != nil {
		return nil, err
	}

	display, pending := u.catalog.Categorize(entries)
	return &Timeline{
		Entries: display,
		Pending: pending,
		Stats:   domain.ComputeStats(display, u.now()),
	}, nil
}

// ensureFamilyAccess loads the caller and checks membership of familyID.
// An empty familyID means the caller's own family.
func (u *jarUsecase) ensureFamilyAccess(ctx context.Context, userID, familyID string) (*authentity.User, error) {
	user, err := u.members.FindByID(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, ErrFamilyAccessDenied
		}
		return nil, err
	}
	if user.FamilyID == nil || *user.FamilyID == "" {
		if familyID == "" {
			return nil, ErrNoFamily
		}
		return nil, ErrFamilyAccessDenied
	}
	if familyID != "" && *user.FamilyID != familyID {
		return nil, ErrFamilyAccessDenied
	}
	return user, nil
}

func submitter(u *authentity.User) domain.Submitter {
	return domain.Submitter{Role: u.Role, FamilyRole: u.FamilyRole}
}
