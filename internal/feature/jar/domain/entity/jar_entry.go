// Package entity defines the domain entities for the jar feature.
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EntryType is the kind of jar entry.
type EntryType string

const (
	EntryGoodThing    EntryType = "good_thing"
	EntryGratitude    EntryType = "gratitude"
	EntryBetterChoice EntryType = "better_choice"
)

// EntryTypes lists the supported types in display order.
var EntryTypes = []EntryType{EntryGoodThing, EntryGratitude, EntryBetterChoice}

// Valid reports whether t is one of the three supported types.
func (t EntryType) Valid() bool {
	switch t {
	case EntryGoodThing, EntryGratitude, EntryBetterChoice:
		return true
	}
	return false
}

// Metadata is the structured part of an entry. Author and Target are set by
// the server from the submitter's role.
type Metadata struct {
	Author     string `json:"author,omitempty"`
	Target     string `json:"target,omitempty"`
	Context    any    `json:"context,omitempty"`
	ResponseTo string `json:"responseTo,omitempty"`
}

// JarEntry is a single note in the family jar.
type JarEntry struct {
	ID        string                       `gorm:"primaryKey;size:36" json:"id"`
	FamilyID  string                       `gorm:"size:36;index;not null" json:"familyId"`
	UserID    string                       `gorm:"size:36;index;not null" json:"userId"`
	EntryType EntryType                    `gorm:"size:32;not null" json:"entryType"`
	Content   string                       `gorm:"type:text;not null" json:"content"`
	Metadata  datatypes.JSONType[Metadata] `json:"metadata"`

	// ResponseTo mirrors Metadata.ResponseTo so the unique index allows one response per better choice.
	ResponseTo *string   `gorm:"size:36;uniqueIndex" json:"responseTo,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when none is set.
func (e *JarEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Meta returns the decoded metadata.
func (e *JarEntry) Meta() Metadata {
	return e.Metadata.Data()
}

// SetMeta replaces the metadata and keeps the ResponseTo column in sync.
func (e *JarEntry) SetMeta(md Metadata) {
	e.Metadata = datatypes.NewJSONType(md)
	if md.ResponseTo == "" {
		e.ResponseTo = nil
		return
	}
	ref := md.ResponseTo
	e.ResponseTo = &ref
}

// IsResponse reports whether the entry answers another better choice.
func (e *JarEntry) IsResponse() bool {
	return e.Meta().ResponseTo != ""
}
