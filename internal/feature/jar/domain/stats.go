package domain

import (
	"time"

	"jar_backend/internal/feature/jar/domain/entity"
)

// TimelineDays is the number of calendar days covered by the timeline.
const TimelineDays = 7

// Counts holds entry totals per type.
type Counts struct {
	Total        int
	GoodThing    int
	Gratitude    int
	BetterChoice int
}

// VoiceCounts breaks gratitude down by who wrote to whom.
type VoiceCounts struct {
	Parents    int
	ChildToDad int
	ChildToMom int
}

// Bucket is one calendar day of the timeline.
type Bucket struct {
	Date    time.Time
	Entries []DisplayEntry
}

// Label is the short weekday name, e.g. "Mon".
func (b Bucket) Label() string { return b.Date.Format("Mon") }

// Count is the number of entries in the bucket.
func (b Bucket) Count() int { return len(b.Entries) }

// Stats is the aggregate view of a family's jar.
type Stats struct {
	Counts        Counts
	Voices        VoiceCounts
	WeeklyEntries []DisplayEntry
	Timeline      []Bucket
}

// WindowStart returns midnight of the oldest day in the trailing window that
// ends with now's calendar day.
func WindowStart(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(TimelineDays - 1))
}

// ComputeStats aggregates display entries relative to now. Day boundaries
// follow now's location, so an entry at exactly midnight belongs to the day
// that starts at that instant.
func ComputeStats(display []DisplayEntry, now time.Time) Stats {
	start := WindowStart(now)
	end := start.AddDate(0, 0, TimelineDays)

	st := Stats{
		WeeklyEntries: make([]DisplayEntry, 0),
		Timeline:      make([]Bucket, TimelineDays),
	}
	for i := range st.Timeline {
		st.Timeline[i] = Bucket{Date: start.AddDate(0, 0, i), Entries: make([]DisplayEntry, 0)}
	}

	for _, d := range display {
		st.Counts.Total++
		switch d.Type {
		case entity.EntryGoodThing:
			st.Counts.GoodThing++
		case entity.EntryGratitude:
			st.Counts.Gratitude++
		case entity.EntryBetterChoice:
			st.Counts.BetterChoice++
		}

		switch d.Category {
		case CategoryParentGratitude:
			st.Voices.Parents++
		case CategoryChildGratitudeDad:
			st.Voices.ChildToDad++
		case CategoryChildGratitudeMom:
			st.Voices.ChildToMom++
		}

		at := d.CreatedAt.In(now.Location())
		if at.Before(start) || !at.Before(end) {
			continue
		}
		st.WeeklyEntries = append(st.WeeklyEntries, d)
		for i := TimelineDays - 1; i >= 0; i-- {
			if !at.Before(st.Timeline[i].Date) {
				st.Timeline[i].Entries = append(st.Timeline[i].Entries, d)
				break
			}
		}
	}
	return st
}

// TypeCount is the number of entries of one type.
type TypeCount struct {
	EntryType entity.EntryType
	Count     int
}

// SummarizeByType counts entries created at or after since, in display type
// order. Types with no entries are omitted. A zero since counts everything.
func SummarizeByType(entries []entity.JarEntry, since time.Time) []TypeCount {
	counts := make(map[entity.EntryType]int, len(entity.EntryTypes))
	for _, e := range entries {
		if !since.IsZero() && e.CreatedAt.Before(since) {
			continue
		}
		counts[e.EntryType]++
	}

	out := make([]TypeCount, 0, len(entity.EntryTypes))
	for _, t := range entity.EntryTypes {
		if n := counts[t]; n > 0 {
			out = append(out, TypeCount{EntryType: t, Count: n})
		}
	}
	return out
}
