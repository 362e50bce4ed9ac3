// Package entity defines the domain entities for the notification feature.
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind is the type of a family notification.
type Kind string

const (
	KindDaily  Kind = "daily"
	KindWeekly Kind = "weekly"
)

// Valid reports whether k is daily or weekly.
func (k Kind) Valid() bool {
	return k == KindDaily || k == KindWeekly
}

// Notification records one reminder email sent to a family.
type Notification struct {
	ID         string    `gorm:"primaryKey;size:36"`
	FamilyID   string    `gorm:"size:36;index;not null"`
	Type       Kind      `gorm:"size:16;not null"`
	Recipients int       `gorm:"not null;default:0"`
	SentAt     time.Time `gorm:"index;not null"`
}

// BeforeCreate assigns a UUID when none is set.
func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
