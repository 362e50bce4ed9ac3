// Package entity defines the domain entities for the family feature.
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jar_backend/internal/shared/access"
)

// Family groups the three household members and their jar.
type Family struct {
	ID         string  `gorm:"primaryKey;size:36"`
	FamilyName *string `gorm:"size:120"`
	CreatedAt  time.Time
}

// BeforeCreate assigns a UUID when none is set.
func (f *Family) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// Name returns the family name or fallback when unnamed.
func (f *Family) Name(fallback string) string {
	if f.FamilyName == nil || *f.FamilyName == "" {
		return fallback
	}
	return *f.FamilyName
}

// FamilyInvitation is a pending invite. The raw token is only emailed;
// TokenHash is its SHA-256.
type FamilyInvitation struct {
	ID          string            `gorm:"primaryKey;size:36"`
	FamilyID    string            `gorm:"size:36;index;not null"`
	Email       string            `gorm:"size:255;not null"`
	FamilyRole  access.FamilyRole `gorm:"size:16;not null"`
	TokenHash   string            `gorm:"size:64;uniqueIndex;not null"`
	ExpiresAt   time.Time         `gorm:"not null"`
	InvitedByID string            `gorm:"size:36;not null"`
	CreatedAt   time.Time
}

// BeforeCreate assigns a UUID when none is set.
func (i *FamilyInvitation) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
