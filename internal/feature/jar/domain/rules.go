// Package domain holds the jar's pure business rules: who may write which
// entry, how stored entries are shown, and the weekly statistics.
package domain

import (
	"jar_backend/internal/feature/jar/domain/entity"
	"jar_backend/internal/shared/access"
	"jar_backend/internal/shared/apperr"
)

// Rule violations. Each is a distinct sentinel so callers can match with errors.Is.
var (
	ErrUnsupportedEntryType    = apperr.Validation("Unsupported entry type")
	ErrChildGoodThing          = apperr.Forbidden("Children cannot add good things")
	ErrSubmitAsYourself        = apperr.Forbidden("Parents can only submit entries as themselves")
	ErrFamilyRoleMismatch      = apperr.Forbidden("Family role does not match the entry author role")
	ErrChildGratitudeTarget    = apperr.Validation("Child gratitude must target mother or father")
	ErrParentResponse          = apperr.Forbidden("Parents cannot create a better-choice response")
	ErrChildBetterChoiceNoRef  = apperr.Forbidden("Child better choices must respond to an existing entry")
	ErrOnlyChildrenRespond     = apperr.Forbidden("Only children can respond to better choices")
	ErrNotBetterChoice         = apperr.NotFound("Better choice entry not found")
	ErrCannotRespondToResponse = apperr.Validation("Responses cannot be responded to")
	ErrAlreadyResponded        = apperr.Conflict("Better choice already has a response")
)

// Submitter is the authenticated author of a submission.
type Submitter struct {
	Role       access.Role
	FamilyRole access.FamilyRole
}

// Submission is the client-supplied part of a new entry.
type Submission struct {
	EntryType  entity.EntryType
	Author     string
	Target     string
	Context    any
	ResponseTo string
}

// IsResponse reports whether the submission answers a better choice.
func (s Submission) IsResponse() bool {
	return s.EntryType == entity.EntryBetterChoice && s.ResponseTo != ""
}

// Authorize validates a submission and returns the metadata to store.
// Author and Target are always derived from the submitter; a client-supplied
// author is only checked for consistency. For responses the caller must
// still run AuthorizeResponse against the referenced entry.
func Authorize(sub Submitter, s Submission) (entity.Metadata, error) {
	if !s.EntryType.Valid() {
		return entity.Metadata{}, ErrUnsupportedEntryType
	}

	switch s.EntryType {
	case entity.EntryGoodThing:
		if sub.Role == access.RoleChild {
			return entity.Metadata{}, ErrChildGoodThing
		}
		return parentEntry(sub, s, access.ActionCreateGoodThing)

	case entity.EntryGratitude:
		if sub.Role == access.RoleParent {
			return parentEntry(sub, s, access.ActionCreateGratitudeChild)
		}
		if err := requireChild(sub, access.ActionCreateGratitudeToParents, ErrFamilyRoleMismatch); err != nil {
			return entity.Metadata{}, err
		}
		target := access.Target(s.Target)
		if target != access.TargetMother && target != access.TargetFather {
			return entity.Metadata{}, ErrChildGratitudeTarget
		}
		return entity.Metadata{
			Author:  string(access.FamilyRoleChild),
			Target:  string(target),
			Context: s.Context,
		}, nil

	default: // better_choice
		if s.ResponseTo == "" {
			if sub.Role == access.RoleChild {
				return entity.Metadata{}, ErrChildBetterChoiceNoRef
			}
			return parentEntry(sub, s, access.ActionCreateBetterChoice)
		}
		if sub.Role == access.RoleParent {
			return entity.Metadata{}, ErrParentResponse
		}
		if err := requireChild(sub, access.ActionRespondBetterChoice, ErrOnlyChildrenRespond); err != nil {
			return entity.Metadata{}, err
		}
		return entity.Metadata{
			Author:     string(access.FamilyRoleChild),
			Context:    s.Context,
			ResponseTo: s.ResponseTo,
		}, nil
	}
}

// AuthorizeResponse validates a child's response to target. target is nil
// when the referenced entry does not exist in the submitter's family.
func AuthorizeResponse(sub Submitter, target *entity.JarEntry, alreadyResponded bool, context any) (entity.Metadata, error) {
	if sub.Role != access.RoleChild {
		return entity.Metadata{}, ErrOnlyChildrenRespond
	}
	if err := requireChild(sub, access.ActionRespondBetterChoice, ErrOnlyChildrenRespond); err != nil {
		return entity.Metadata{}, err
	}
	if target == nil || target.EntryType != entity.EntryBetterChoice {
		return entity.Metadata{}, ErrNotBetterChoice
	}
	if target.IsResponse() {
		return entity.Metadata{}, ErrCannotRespondToResponse
	}
	if alreadyResponded {
		return entity.Metadata{}, ErrAlreadyResponded
	}
	return entity.Metadata{
		Author:     string(access.FamilyRoleChild),
		Context:    context,
		ResponseTo: target.ID,
	}, nil
}

// parentEntry applies the shared parent-author rules. The target is always the child.
func parentEntry(sub Submitter, s Submission, action access.Action) (entity.Metadata, error) {
	if sub.Role != access.RoleParent || !access.Allowed(sub.Role, action) {
		return entity.Metadata{}, ErrFamilyRoleMismatch
	}
	if !sub.FamilyRole.IsParent() {
		return entity.Metadata{}, ErrFamilyRoleMismatch
	}
	if s.Author != "" {
		if claimed, ok := access.Canonicalize(s.Author); !ok || claimed != sub.FamilyRole {
			return entity.Metadata{}, ErrSubmitAsYourself
		}
	}
	return entity.Metadata{
		Author:  string(sub.FamilyRole),
		Target:  string(access.TargetChild),
		Context: s.Context,
	}, nil
}

func requireChild(sub Submitter, action access.Action, roleErr error) error {
	if sub.Role != access.RoleChild || !access.Allowed(sub.Role, action) {
		return roleErr
	}
	if sub.FamilyRole != access.FamilyRoleChild {
		return ErrFamilyRoleMismatch
	}
	return nil
}
