// Package usecase implements the business logic for the auth feature.
package usecase

import "jar_backend/internal/shared/apperr"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = apperr.NotFound("User not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = apperr.Conflict("Account already exists")

	// ErrFamilyRoleTaken is returned when the family already has a member in the requested slot.
	ErrFamilyRoleTaken = apperr.Conflict("Family role already taken")

	// ErrFamilyNotFound is returned when signup names a family that does not exist.
	ErrFamilyNotFound = apperr.NotFound("Family not found")

	// ErrEmailNotAllowed is returned when the email is not the one configured for the family role.
	ErrEmailNotAllowed = apperr.Forbidden("Email is not allowed for this family role")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = apperr.Unauthorized("Invalid credentials")

	// ErrEmailNotVerified is returned on login before the email is confirmed.
	ErrEmailNotVerified = apperr.Forbidden("Email verification required")

	// ErrInvalidToken is returned for unknown and expired tokens alike.
	ErrInvalidToken = apperr.NotFound("Invalid or expired token")
)
