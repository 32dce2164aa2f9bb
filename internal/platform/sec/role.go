// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package sec

// # Editorial Roles

// Role represents one capability label granted to an actor within a journal.
//
// Unlike a moderation hierarchy, editorial roles are NOT ordered: a proofreader
// is not "more" than a secretary, they simply gate different transitions.
// Permission checks therefore match against explicit role sets, never levels.
type Role string

const (
	// Submits manuscripts and resubmits after revision requests
	RoleAuthor Role = "author"

	// Evaluates manuscripts through review assignments
	RoleReviewer Role = "reviewer"

	// Runs screening and bounces submissions back to authors
	RoleSecretary Role = "secretary"

	// Coordinates screening and reviewer assignment
	RoleManager Role = "manager"

	// Moves accepted articles and issues through production
	RoleProofreader Role = "proofreader"

	// Casts votes in editorial council decisions
	RoleCouncil Role = "council"

	// Finalizes decisions, alone or on behalf of the council
	RoleChiefEditor Role = "chief_editor"

	// Unrestricted system access
	RoleAdmin Role = "admin"
)

// allRoles is the closed set of recognized role labels.
var allRoles = map[Role]struct{}{
	RoleAuthor:      {},
	RoleReviewer:    {},
	RoleSecretary:   {},
	RoleManager:     {},
	RoleProofreader: {},
	RoleCouncil:     {},
	RoleChiefEditor: {},
	RoleAdmin:       {},
}

// ParseRole validates a raw role label against the closed enum.
// Unknown labels are rejected rather than defaulted, so a typo in a
// membership record can never silently grant or deny a capability.
func ParseRole(raw string) (Role, bool) {
	role := Role(raw)
	_, ok := allRoles[role]
	return role, ok
}

// # Principal

// Principal is the resolved capability set of the caller, passed explicitly
// into every core operation.
//
// Roles are resolved once — by the external membership/identity collaborator
// that minted the JWT — and carried here as data. The core never performs
// hidden session or membership lookups.
type Principal struct {
	// UserID is the opaque identity of the actor.
	UserID string

	// Roles is the set of editorial roles granted to the actor.
	Roles []Role
}

// Has reports whether the principal carries the given role.
// RoleAdmin implies every other role.
func (p Principal) Has(role Role) bool {
	for _, r := range p.Roles {
		if r == role || r == RoleAdmin {
			return true
		}
	}
	return false
}

// HasAny reports whether the principal carries at least one of the given roles.
func (p Principal) HasAny(roles ...Role) bool {
	for _, role := range roles {
		if p.Has(role) {
			return true
		}
	}
	return false
}
