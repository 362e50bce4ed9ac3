package usecase

import "jar_backend/internal/shared/apperr"

var (
	ErrFamilyNotFound     = apperr.NotFound("Family not found")
	ErrAccessDenied       = apperr.Forbidden("Access denied")
	ErrInviterNotInFamily = apperr.Forbidden("Inviter must belong to the family")
	ErrAlreadyInFamily    = apperr.Conflict("User already assigned to a family")
	ErrInAnotherFamily    = apperr.Conflict("User already in another family")
	ErrAlreadyMember      = apperr.Conflict("User already belongs to this family with a different role")
	ErrRoleTaken          = apperr.Conflict("Family role already taken")
	ErrInvalidInvitation  = apperr.NotFound("Invalid or expired token")
	ErrInviteeNotFound    = apperr.NotFound("Invited user must sign up before accepting")
)
