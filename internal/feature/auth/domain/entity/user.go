// Package entity defines the domain entities for the auth feature.
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jar_backend/internal/shared/access"
)

// User represents a registered family member.
type User struct {
	// ID is the UUID of the user.
	ID string `gorm:"primaryKey;size:36"`

	// Email is unique across all users and stored lowercased.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// PasswordHash is the bcrypt hash. Plaintext passwords are never stored.
	PasswordHash string `gorm:"size:255;not null"`

	// Role is derived from FamilyRole (mom/dad → parent, child → child).
	Role access.Role `gorm:"size:16;not null"`

	// FamilyRole and FamilyID are unique together: one member per slot per family.
	FamilyRole access.FamilyRole `gorm:"size:16;not null;uniqueIndex:idx_family_role,priority:2"`
	FamilyID   *string           `gorm:"size:36;uniqueIndex:idx_family_role,priority:1"`

	EmailVerified bool `gorm:"not null;default:false"`

	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns a UUID when none is set.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// DisplayName は「名 姓」を返します。姓が空なら名のみです。
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
