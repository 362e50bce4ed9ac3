// Package domain resolves notification preferences with per-field defaults.
package domain

import (
	"strings"

	"jar_backend/internal/feature/preferences/domain/entity"
)

// DefaultReflectionTime is used when no reflection time is stored.
const DefaultReflectionTime = "Sunday evening"

// Field names accepted by Merge, matching the JSON API.
const (
	FieldDailyReminder           = "dailyReminder"
	FieldWeeklyReminder          = "weeklyReminder"
	FieldEntryAlerts             = "entryAlerts"
	FieldSummaryEmail            = "summaryEmail"
	FieldPreferredReflectionTime = "preferredReflectionTime"
)

// Preferences is the fully resolved view; it never has missing fields.
type Preferences struct {
	DailyReminder           bool
	WeeklyReminder          bool
	EntryAlerts             bool
	SummaryEmail            bool
	PreferredReflectionTime string
}

// Defaults returns the preferences of a family that never saved any.
func Defaults() Preferences {
	return Preferences{
		DailyReminder:           true,
		WeeklyReminder:          true,
		EntryAlerts:             true,
		SummaryEmail:            true,
		PreferredReflectionTime: DefaultReflectionTime,
	}
}

// Resolve fills each missing field of rec independently. A nil rec yields Defaults.
func Resolve(rec *entity.NotificationPreference) Preferences {
	p := Defaults()
	if rec == nil {
		return p
	}
	p.DailyReminder = boolOr(rec.DailyReminder, p.DailyReminder)
	p.WeeklyReminder = boolOr(rec.WeeklyReminder, p.WeeklyReminder)
	p.EntryAlerts = boolOr(rec.EntryAlerts, p.EntryAlerts)
	p.SummaryEmail = boolOr(rec.SummaryEmail, p.SummaryEmail)
	if rec.PreferredReflectionTime != nil && strings.TrimSpace(*rec.PreferredReflectionTime) != "" {
		p.PreferredReflectionTime = *rec.PreferredReflectionTime
	}
	return p
}

// Merge applies the fields present in partial on top of rec and returns the
// row to store. A field of the wrong type, or a blank reflection time, is
// reset to its default; absent fields keep the stored value. Unknown keys are
// ignored.
func Merge(familyID string, rec *entity.NotificationPreference, partial map[string]any) *entity.NotificationPreference {
	out := entity.NotificationPreference{FamilyID: familyID}
	if rec != nil {
		out = *rec
		out.FamilyID = familyID
	}
	def := Defaults()

	for key, ptr := range map[string]**bool{
		FieldDailyReminder:  &out.DailyReminder,
		FieldWeeklyReminder: &out.WeeklyReminder,
		FieldEntryAlerts:    &out.EntryAlerts,
		FieldSummaryEmail:   &out.SummaryEmail,
	} {
		v, ok := partial[key]
		if !ok {
			continue
		}
		b, isBool := v.(bool)
		if !isBool {
			b = defaultBool(def, key)
		}
		*ptr = &b
	}

	if v, ok := partial[FieldPreferredReflectionTime]; ok {
		s, isString := v.(string)
		s = strings.TrimSpace(s)
		if !isString || s == "" {
			s = def.PreferredReflectionTime
		}
		out.PreferredReflectionTime = &s
	}
	return &out
}

func defaultBool(p Preferences, key string) bool {
	switch key {
	case FieldDailyReminder:
		return p.DailyReminder
	case FieldWeeklyReminder:
		return p.WeeklyReminder
	case FieldEntryAlerts:
		return p.EntryAlerts
	default:
		return p.SummaryEmail
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
