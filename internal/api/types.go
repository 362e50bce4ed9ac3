// Package api は HTTP API のリクエスト/レスポンス型を定義します。
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"jar_backend/internal/shared/apperr"
)

// Envelope is the shape of every JSON response.
type Envelope struct {
	Status  string              `json:"status"`
	Data    any                 `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// SignupRequest defines model for SignupRequest.
type SignupRequest struct {
	Email      openapi_types.Email `json:"email" binding:"required,email"`
	Password   string              `json:"password" binding:"required,min=8"`
	FamilyRole string              `json:"familyRole" binding:"required,oneof=mom dad child"`
	FirstName  string              `json:"firstName" binding:"required"`
	LastName   *string             `json:"lastName,omitempty" binding:"omitempty,min=1"`
	FamilyId   *openapi_types.UUID `json:"familyId,omitempty"`
}

// SignupResponse defines model for SignupResponse.
type SignupResponse struct {
	Id         string `json:"id"`
	Email      string `json:"email"`
	FamilyRole string `json:"familyRole"`
}

// LoginRequest defines model for LoginRequest.
type LoginRequest struct {
	Email    openapi_types.Email `json:"email" binding:"required,email"`
	Password string              `json:"password" binding:"required,min=8"`
}

// LoginResponse defines model for LoginResponse.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"`
	User      UserResponse `json:"user"`
}

// UserResponse defines model for UserResponse.
type UserResponse struct {
	Id            string  `json:"id"`
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	FamilyRole    string  `json:"familyRole"`
	FamilyId      *string `json:"familyId"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName,omitempty"`
	EmailVerified bool    `json:"emailVerified"`
}

// TokenRequest defines model for the verify-email body.
type TokenRequest struct {
	Token string `json:"token" binding:"required,min=10"`
}

// PasswordResetRequest defines model for PasswordResetRequest.
type PasswordResetRequest struct {
	Email openapi_types.Email `json:"email" binding:"required,email"`
}

// ResetPasswordRequest defines model for ResetPasswordRequest.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required,min=10"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// CreateFamilyRequest defines model for CreateFamilyRequest.
type CreateFamilyRequest struct {
	FamilyName *string `json:"familyName,omitempty" binding:"omitempty,min=1"`
}

// FamilyResponse defines model for FamilyResponse.
type FamilyResponse struct {
	Id         string         `json:"id"`
	FamilyName *string        `json:"familyName"`
	CreatedAt  time.Time      `json:"createdAt"`
	Members    []UserResponse `json:"members"`
}

// InviteRequest defines model for InviteRequest.
type InviteRequest struct {
	Email      openapi_types.Email `json:"email" binding:"required,email"`
	FamilyRole string              `json:"familyRole" binding:"required,oneof=mom dad child"`
	FamilyId   *openapi_types.UUID `json:"familyId,omitempty"`
}

// InviteResponse defines model for InviteResponse.
type InviteResponse struct {
	Email      string    `json:"email"`
	FamilyRole string    `json:"familyRole"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// AcceptInviteRequest defines model for AcceptInviteRequest.
type AcceptInviteRequest struct {
	Token     string  `json:"token" binding:"required,min=10"`
	FirstName *string `json:"firstName,omitempty" binding:"omitempty,min=1"`
	LastName  *string `json:"lastName,omitempty" binding:"omitempty,min=1"`
}

// EntryMetadata defines model for EntryMetadata.
type EntryMetadata struct {
	Author     *string `json:"author,omitempty"`
	Target     *string `json:"target,omitempty"`
	Context    any     `json:"context,omitempty"`
	ResponseTo *string `json:"responseTo,omitempty"`
}

// CreateEntryRequest defines model for CreateEntryRequest.
type CreateEntryRequest struct {
	EntryType string         `json:"entryType" binding:"required"`
	Content   string         `json:"content" binding:"required"`
	Metadata  *EntryMetadata `json:"metadata,omitempty"`
}

// UpdateEntryRequest defines model for UpdateEntryRequest.
type UpdateEntryRequest struct {
	Content  string         `json:"content" binding:"required"`
	Metadata *EntryMetadata `json:"metadata,omitempty"`
}

// RespondRequest defines model for RespondRequest.
type RespondRequest struct {
	Content string `json:"content" binding:"required"`
}

// EntryResponse is a stored jar entry.
type EntryResponse struct {
	Id        string        `json:"id"`
	FamilyId  string        `json:"familyId"`
	UserId    string        `json:"userId"`
	EntryType string        `json:"entryType"`
	Content   string        `json:"content"`
	Metadata  EntryMetadata `json:"metadata"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// DisplayEntry is an entry after categorization.
type DisplayEntry struct {
	Id          string     `json:"id"`
	Type        string     `json:"type"`
	Category    string     `json:"category"`
	Label       string     `json:"label"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Author      string     `json:"author"`
	Target      string     `json:"target"`
	Text        string     `json:"text"`
	Context     any        `json:"context,omitempty"`
	Response    *string    `json:"response"`
	RespondedAt *time.Time `json:"respondedAt"`
	Pending     bool       `json:"pending"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// SummaryItem defines model for SummaryItem.
type SummaryItem struct {
	EntryType string `json:"entryType"`
	Count     int    `json:"count"`
}

// EntryCounts holds per-type totals.
type EntryCounts struct {
	Total        int `json:"total"`
	GoodThing    int `json:"good_thing"`
	Gratitude    int `json:"gratitude"`
	BetterChoice int `json:"better_choice"`
}

// GratitudeByVoice breaks gratitude entries down by who spoke to whom.
type GratitudeByVoice struct {
	Parents    int `json:"parents"`
	ChildToDad int `json:"childToDad"`
	ChildToMom int `json:"childToMom"`
}

// TimelineBucket is one calendar day of the seven day timeline.
type TimelineBucket struct {
	Label   string             `json:"label"`
	Date    openapi_types.Date `json:"date"`
	Count   int                `json:"count"`
	Entries []DisplayEntry     `json:"entries"`
}

// Stats defines model for Stats.
type Stats struct {
	Counts           EntryCounts      `json:"counts"`
	GratitudeByVoice GratitudeByVoice `json:"gratitudeByVoice"`
	WeeklyEntries    []DisplayEntry   `json:"weeklyEntries"`
	Timeline         []TimelineBucket `json:"timeline"`
}

// TimelineResponse defines model for TimelineResponse.
type TimelineResponse struct {
	Entries []DisplayEntry `json:"entries"`
	Pending []DisplayEntry `json:"pending"`
	Stats   Stats          `json:"stats"`
}

// NotificationPreferences defines model for NotificationPreferences.
type NotificationPreferences struct {
	DailyReminder           bool   `json:"dailyReminder"`
	WeeklyReminder          bool   `json:"weeklyReminder"`
	EntryAlerts             bool   `json:"entryAlerts"`
	SummaryEmail            bool   `json:"summaryEmail"`
	PreferredReflectionTime string `json:"preferredReflectionTime"`
}

// SendNotificationRequest defines model for SendNotificationRequest.
type SendNotificationRequest struct {
	FamilyId openapi_types.UUID `json:"familyId" binding:"required"`
	Type     string             `json:"type" binding:"required,oneof=daily weekly"`
}

// NotificationResponse defines model for NotificationResponse.
type NotificationResponse struct {
	Id         string    `json:"id"`
	FamilyId   string    `json:"familyId"`
	Type       string    `json:"type"`
	Recipients int       `json:"recipients"`
	SentAt     time.Time `json:"sentAt"`
}

// AuditLogResponse defines model for AuditLogResponse.
type AuditLogResponse struct {
	Id        string         `json:"id"`
	UserId    *string        `json:"userId"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details"`
	CreatedAt time.Time      `json:"createdAt"`
}
