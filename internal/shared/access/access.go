// Package access holds the fixed household roles, the synonym folding for
// role names and the declarative role × action permission table.
package access

import "strings"

// Role is the coarse authorization role.
type Role string

const (
	RoleParent Role = "parent"
	RoleChild  Role = "child"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleParent || r == RoleChild
}

// FamilyRole is one of the three household identities.
type FamilyRole string

const (
	FamilyRoleMom   FamilyRole = "mom"
	FamilyRoleDad   FamilyRole = "dad"
	FamilyRoleChild FamilyRole = "child"
)

// FamilyRoles lists every household slot in display order.
var FamilyRoles = []FamilyRole{FamilyRoleMom, FamilyRoleDad, FamilyRoleChild}

// Valid reports whether f is a known family role.
func (f FamilyRole) Valid() bool {
	switch f {
	case FamilyRoleMom, FamilyRoleDad, FamilyRoleChild:
		return true
	}
	return false
}

// IsParent reports whether f is one of the parent slots.
func (f FamilyRole) IsParent() bool {
	return f == FamilyRoleMom || f == FamilyRoleDad
}

// UserRole derives the coarse role from the household slot.
func (f FamilyRole) UserRole() Role {
	if f.IsParent() {
		return RoleParent
	}
	return RoleChild
}

// Label returns the display name used in emails and the UI.
func (f FamilyRole) Label(childName string) string {
	switch f {
	case FamilyRoleMom:
		return "Mom"
	case FamilyRoleDad:
		return "Dad"
	case FamilyRoleChild:
		if childName != "" {
			return childName
		}
		return "Child"
	}
	return "A family member"
}

// Target is the addressee of a jar entry.
type Target string

const (
	TargetChild  Target = "child"
	TargetMother Target = "mother"
	TargetFather Target = "father"
)

// Canonicalize folds the accepted spellings of a household identity into a
// FamilyRole. mom/mother and dad/father are synonyms; matching ignores case
// and surrounding space. ok is false for anything else.
func Canonicalize(s string) (FamilyRole, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mom", "mother":
		return FamilyRoleMom, true
	case "dad", "father":
		return FamilyRoleDad, true
	case "child":
		return FamilyRoleChild, true
	}
	return "", false
}

// Action names a permission-checked operation.
type Action string

const (
	ActionFamilyCreate             Action = "family:create"
	ActionFamilyInvite             Action = "family:invite"
	ActionCreateGoodThing          Action = "jar:create:good_thing"
	ActionCreateGratitudeChild     Action = "jar:create:gratitude_child"
	ActionCreateBetterChoice       Action = "jar:create:better_choice"
	ActionCreateGratitudeToParents Action = "jar:create:gratitude_parents"
	ActionRespondBetterChoice      Action = "jar:respond:better_choice"
	ActionEditEntry                Action = "jar:edit"
	ActionViewJar                  Action = "jar:view"
	ActionExportJar                Action = "jar:export"
	ActionSendNotification         Action = "notification:send"
)

var permissions = map[Role]map[Action]struct{}{
	RoleParent: set(
		ActionFamilyCreate,
		ActionFamilyInvite,
		ActionCreateGoodThing,
		ActionCreateGratitudeChild,
		ActionCreateBetterChoice,
		ActionEditEntry,
		ActionViewJar,
		ActionExportJar,
		ActionSendNotification,
	),
	RoleChild: set(
		ActionCreateGratitudeToParents,
		ActionRespondBetterChoice,
		ActionViewJar,
		ActionExportJar,
	),
}

func set(actions ...Action) map[Action]struct{} {
	m := make(map[Action]struct{}, len(actions))
	for _, a := range actions {
		m[a] = struct{}{}
	}
	return m
}

// Allowed reports whether role may perform every one of actions.
func Allowed(role Role, actions ...Action) bool {
	granted, ok := permissions[role]
	if !ok {
		return false
	}
	for _, a := range actions {
		if _, ok := granted[a]; !ok {
			return false
		}
	}
	return true
}
