package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "jar_backend/internal/feature/auth/domain/entity"
	familyentity "jar_backend/internal/feature/family/domain/entity"
	jardomain "jar_backend/internal/feature/jar/domain"
	jarentity "jar_backend/internal/feature/jar/domain/entity"
	"jar_backend/internal/feature/notification/domain/entity"
	prefdomain "jar_backend/internal/feature/preferences/domain"
)

func entryAt(id string, t jarentity.EntryType, author string, at time.Time) jarentity.JarEntry {
	e := jarentity.JarEntry{ID: id, FamilyID: "fam-1", EntryType: t, Content: "text " + id, CreatedAt: at}
	e.SetMeta(jarentity.Metadata{Author: author, Target: "child"})
	return e
}

func fixture() ReminderInput {
	name := "Sunshine Crew"
	return ReminderInput{
		Family: &familyentity.Family{ID: "fam-1", FamilyName: &name},
		Members: []authentity.User{
			{ID: "u-mom", Email: "mom@example.com"},
			{ID: "u-dad", Email: "dad@example.com"},
			{ID: "u-kid", Email: ""},
		},
		Now: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
	}
}

// TestBuildDailyReminder は当日分のエントリだけがプレビューされることを検証します。
func TestBuildDailyReminder(t *testing.T) {
	t.Parallel()

	in := fixture()
	in.TriggeredBy = "Avery Parent"
	in.Entries = []jarentity.JarEntry{
		entryAt("yesterday", jarentity.EntryGoodThing, "dad", time.Date(2024, 5, 9, 23, 0, 0, 0, time.UTC)),
		entryAt("today", jarentity.EntryGratitude, "mom", time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)),
	}

	p := NewBuilder(jardomain.NewCatalog(""), "Family").BuildDailyReminder(in)

	assert.Equal(t, entity.KindDaily, p.Kind)
	assert.Equal(t, "fam-1", p.FamilyID)
	assert.Equal(t, []string{"mom@example.com", "dad@example.com"}, p.Recipients)
	assert.Equal(t, "Sunshine Crew", p.Daily.FamilyName)
	assert.Equal(t, "Avery Parent", p.Daily.TriggeredBy)
	require.Len(t, p.Daily.Entries, 1)
	assert.Equal(t, "Mom", p.Daily.Entries[0].AuthorLabel)
	assert.Equal(t, jarentity.EntryGratitude, p.Daily.Entries[0].Type)
	assert.Equal(t, "text today", p.Daily.Entries[0].Content)
}

// TestBuildWeeklyReflection は直近7日間の集計と要約メール設定の反映を検証します。
func TestBuildWeeklyReflection(t *testing.T) {
	t.Parallel()

	in := fixture()
	in.Entries = []jarentity.JarEntry{
		entryAt("old", jarentity.EntryGoodThing, "dad", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)),
		entryAt("e1", jarentity.EntryGoodThing, "dad", time.Date(2024, 5, 4, 17, 0, 0, 0, time.UTC)),
		entryAt("e2", jarentity.EntryGratitude, "mom", time.Date(2024, 5, 5, 19, 30, 0, 0, time.UTC)),
		entryAt("e3", jarentity.EntryGratitude, "child", time.Date(2024, 5, 6, 20, 15, 0, 0, time.UTC)),
	}

	b := NewBuilder(jardomain.NewCatalog(""), "Family")
	p := b.BuildWeeklyReflection(in, prefdomain.Defaults())

	assert.Equal(t, entity.KindWeekly, p.Kind)
	assert.Equal(t, 3, p.Weekly.TotalEntries)
	assert.Equal(t, []jardomain.TypeCount{
		{EntryType: jarentity.EntryGoodThing, Count: 1},
		{EntryType: jarentity.EntryGratitude, Count: 2},
	}, p.Weekly.Summary)
	assert.True(t, p.Weekly.IncludeSummary)
	assert.Equal(t, time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC), p.Weekly.Range.Start)

	require.Len(t, p.Weekly.Entries, 3)
	labels := []string{p.Weekly.Entries[0].AuthorLabel, p.Weekly.Entries[1].AuthorLabel, p.Weekly.Entries[2].AuthorLabel}
	assert.Equal(t, []string{"Child", "Mom", "Dad"}, labels)

	prefs := prefdomain.Defaults()
	prefs.SummaryEmail = false
	assert.False(t, b.BuildWeeklyReflection(in, prefs).Weekly.IncludeSummary)
}

// TestBuildDailyReminder_UnnamedFamily は名前のない家族に既定名が使われることを検証します。
func TestBuildDailyReminder_UnnamedFamily(t *testing.T) {
	t.Parallel()

	in := fixture()
	in.Family = &familyentity.Family{ID: "fam-1"}
	p := NewBuilder(jardomain.NewCatalog("Mia"), "Mia’s Jar Family").BuildDailyReminder(in)
	assert.Equal(t, "Mia’s Jar Family", p.Daily.FamilyName)
	assert.Empty(t, p.Daily.Entries)
}

// TestRecipients は空と重複のメールアドレスが除外されることを検証します。
func TestRecipients(t *testing.T) {
	t.Parallel()

	got := Recipients([]authentity.User{
		{Email: "mom@example.com"},
		{Email: " "},
		{Email: "MOM@example.com"},
		{Email: "dad@example.com"},
	})
	assert.Equal(t, []string{"mom@example.com", "dad@example.com"}, got)
}
