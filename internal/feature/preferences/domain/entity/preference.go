// Package entity defines the domain entities for notification preferences.
package entity

import "time"

// NotificationPreference is the stored per-family row. Every setting is
// nullable so rows written by older clients may leave fields unset.
type NotificationPreference struct {
	FamilyID                string `gorm:"primaryKey;size:36"`
	DailyReminder           *bool
	WeeklyReminder          *bool
	EntryAlerts             *bool
	SummaryEmail            *bool
	PreferredReflectionTime *string `gorm:"size:100"`
	UpdatedAt               time.Time
}
