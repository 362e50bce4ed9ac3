// Package domain はエクスポート対象期間と出力行を定義します。
package domain

import (
	"encoding/json"
	"strings"
	"time"

	authentity "jar_backend/internal/feature/auth/domain/entity"
	jarentity "jar_backend/internal/feature/jar/domain/entity"
)

// Period selects how far back an export reaches.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAll     Period = "all"
)

// ParsePeriod returns the period for s. An empty s means PeriodAll.
func ParsePeriod(s string) (Period, bool) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodAll, true
	case PeriodWeekly, PeriodMonthly, PeriodAll:
		return p, true
	}
	return "", false
}

// Since returns the earliest creation time included in p, or the zero time
// for PeriodAll.
func (p Period) Since(now time.Time) time.Time {
	switch p {
	case PeriodWeekly:
		return now.Add(-7 * 24 * time.Hour)
	case PeriodMonthly:
		return now.Add(-30 * 24 * time.Hour)
	}
	return time.Time{}
}

// Row is one exported entry.
type Row struct {
	CreatedAt time.Time
	EntryType jarentity.EntryType
	Author    string
	Content   string
	Metadata  jarentity.Metadata
}

// Date formats the creation time in UTC with milliseconds.
func (r Row) Date() string {
	return r.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// ContentJSON is the CSV content column: {"content": ..., "metadata": ...}.
func (r Row) ContentJSON() (string, error) {
	b, err := json.Marshal(struct {
		Content  string             `json:"content"`
		Metadata jarentity.Metadata `json:"metadata"`
	}{r.Content, r.Metadata})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MetadataJSON returns the metadata as JSON, or "" when it is empty.
func (r Row) MetadataJSON() string {
	md := r.Metadata
	if md.Author == "" && md.Target == "" && md.Context == nil && md.ResponseTo == "" {
		return ""
	}
	b, err := json.Marshal(r.Metadata)
	if err != nil {
		return ""
	}
	return string(b)
}

// BuildRows selects the entries created at or after since, oldest first,
// and names each author after the member who wrote it.
func BuildRows(entries []jarentity.JarEntry, members []authentity.User, since time.Time) []Row {
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = strings.TrimSpace(m.DisplayName())
	}

	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		if !since.IsZero() && e.CreatedAt.Before(since) {
			continue
		}
		rows = append(rows, Row{
			CreatedAt: e.CreatedAt,
			EntryType: e.EntryType,
			Author:    names[e.UserID],
			Content:   e.Content,
			Metadata:  e.Meta(),
		})
	}
	return rows
}
