// Package entity defines the audit log entity.
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is one recorded security or data event. UserID is nil for
// system actions such as scheduled reminders.
type AuditLog struct {
	ID        string            `gorm:"primaryKey;size:36"`
	UserID    *string           `gorm:"size:36;index"`
	Action    string            `gorm:"size:64;index;not null"`
	Details   datatypes.JSONMap `gorm:"column:details"`
	CreatedAt time.Time         `gorm:"index"`
}

// BeforeCreate assigns a UUID when none is set.
func (a *AuditLog) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
