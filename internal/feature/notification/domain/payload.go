// Package domain はリマインダーメールの内容を組み立てる純粋なロジックを提供します。
package domain

import (
	"strings"
	"time"

	authentity "jar_backend/internal/feature/auth/domain/entity"
	familyentity "jar_backend/internal/feature/family/domain/entity"
	jardomain "jar_backend/internal/feature/jar/domain"
	jarentity "jar_backend/internal/feature/jar/domain/entity"
	"jar_backend/internal/feature/notification/domain/entity"
	"jar_backend/internal/feature/notification/render"
	prefdomain "jar_backend/internal/feature/preferences/domain"
)

// Payload is a reminder ready to be rendered and sent. Exactly one of Daily
// and Weekly is filled, matching Kind.
type Payload struct {
	Kind       entity.Kind
	FamilyID   string
	Recipients []string
	Daily      render.DailyReminder
	Weekly     render.WeeklyReflection
}

// ReminderInput is everything a reminder is built from.
type ReminderInput struct {
	Family  *familyentity.Family
	Members []authentity.User
	// Entries are the family's stored entries in any order.
	Entries []jarentity.JarEntry
	// TriggeredBy is the display name of the member who sent it manually.
	TriggeredBy string
	Now         time.Time
}

// Builder creates reminder payloads.
type Builder struct {
	catalog     *jardomain.Catalog
	defaultName string
}

// NewBuilder returns a builder labelling authors with catalog. defaultName is
// used for families without a name.
func NewBuilder(catalog *jardomain.Catalog, defaultName string) *Builder {
	return &Builder{catalog: catalog, defaultName: defaultName}
}

// BuildDailyReminder previews the entries created since midnight of in.Now.
func (b *Builder) BuildDailyReminder(in ReminderInput) Payload {
	now := in.Now
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return Payload{
		Kind:       entity.KindDaily,
		FamilyID:   in.Family.ID,
		Recipients: Recipients(in.Members),
		Daily: render.DailyReminder{
			FamilyName:  in.Family.Name(b.defaultName),
			TriggeredBy: in.TriggeredBy,
			Entries:     b.preview(in.Entries, start),
			Date:        now,
		},
	}
}

// BuildWeeklyReflection previews the last seven calendar days. The summary
// counts are included only when the family opted into summary emails.
func (b *Builder) BuildWeeklyReflection(in ReminderInput, prefs prefdomain.Preferences) Payload {
	start := jardomain.WindowStart(in.Now)
	summary := jardomain.SummarizeByType(in.Entries, start)
	total := 0
	for _, c := range summary {
		total += c.Count
	}
	return Payload{
		Kind:       entity.KindWeekly,
		FamilyID:   in.Family.ID,
		Recipients: Recipients(in.Members),
		Weekly: render.WeeklyReflection{
			FamilyName:     in.Family.Name(b.defaultName),
			TriggeredBy:    in.TriggeredBy,
			Entries:        b.preview(in.Entries, start),
			Summary:        summary,
			TotalEntries:   total,
			Range:          render.Range{Start: start, End: in.Now},
			IncludeSummary: prefs.SummaryEmail,
		},
	}
}

// preview returns the primary entries created at or after since, newest first.
func (b *Builder) preview(entries []jarentity.JarEntry, since time.Time) []render.PreviewEntry {
	display, _ := b.catalog.Categorize(entries)
	out := make([]render.PreviewEntry, 0, len(display))
	for _, d := range display {
		if d.CreatedAt.Before(since) {
			continue
		}
		out = append(out, render.PreviewEntry{
			Type:        d.Type,
			Content:     d.Text,
			AuthorLabel: d.Author,
			CreatedAt:   d.CreatedAt,
		})
	}
	return out
}

// Recipients returns the distinct member emails in member order.
func Recipients(members []authentity.User) []string {
	seen := make(map[string]struct{}, len(members))
	out := make([]string, 0, len(members))
	for _, m := range members {
		email := strings.TrimSpace(m.Email)
		if email == "" {
			continue
		}
		key := strings.ToLower(email)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, email)
	}
	return out
}
