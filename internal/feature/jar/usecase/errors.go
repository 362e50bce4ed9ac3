package usecase

import "jar_backend/internal/shared/apperr"

var (
	ErrEntryNotFound      = apperr.NotFound("Entry not found")
	ErrFamilyAccessDenied = apperr.Forbidden("Family access denied")
	ErrNoFamily           = apperr.Validation("User must belong to a family")
	ErrEmptyContent       = apperr.Validation("Validation failed", apperr.FieldError{Field: "content", Message: "is required"})
	ErrParentsOnlyUpdate  = apperr.Forbidden("Only parents can update entries")
	ErrParentsOnlyDelete  = apperr.Forbidden("Only parents can delete entries")
)
