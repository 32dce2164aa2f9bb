// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/peerline/peerline/internal/platform/sec"
)

/*
TestParseRole checks that only the closed set of editorial role labels
is accepted, and unknown labels are rejected rather than defaulted.
*/
func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    sec.Role
		isValid bool
	}{
		{"author", "author", sec.RoleAuthor, true},
		{"reviewer", "reviewer", sec.RoleReviewer, true},
		{"secretary", "secretary", sec.RoleSecretary, true},
		{"manager", "manager", sec.RoleManager, true},
		{"proofreader", "proofreader", sec.RoleProofreader, true},
		{"council", "council", sec.RoleCouncil, true},
		{"chief_editor", "chief_editor", sec.RoleChiefEditor, true},
		{"admin", "admin", sec.RoleAdmin, true},
		{"unknown_label", "moderator", "", false},
		{"empty", "", "", false},
		{"case_sensitive", "Author", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, ok := sec.ParseRole(tt.raw)

			assert.Equal(t, tt.isValid, ok)
			if tt.isValid {
				assert.Equal(t, tt.want, role)
			}
		})
	}
}

/*
TestPrincipal_Has verifies the membership check and the admin wildcard.
*/
func TestPrincipal_Has(t *testing.T) {
	t.Run("direct_membership", func(t *testing.T) {
		p := sec.Principal{UserID: "u1", Roles: []sec.Role{sec.RoleSecretary, sec.RoleCouncil}}

		assert.True(t, p.Has(sec.RoleSecretary))
		assert.True(t, p.Has(sec.RoleCouncil))
		assert.False(t, p.Has(sec.RoleAuthor))
	})

	t.Run("admin_implies_everything", func(t *testing.T) {
		p := sec.Principal{UserID: "u2", Roles: []sec.Role{sec.RoleAdmin}}

		assert.True(t, p.Has(sec.RoleAuthor))
		assert.True(t, p.Has(sec.RoleChiefEditor))
		assert.True(t, p.Has(sec.RoleAdmin))
	})

	t.Run("no_roles", func(t *testing.T) {
		p := sec.Principal{UserID: "u3"}

		assert.False(t, p.Has(sec.RoleAuthor))
	})
}

/*
TestPrincipal_HasAny verifies the any-of membership test used by the
per-operation permission checks.
*/
func TestPrincipal_HasAny(t *testing.T) {
	p := sec.Principal{UserID: "u4", Roles: []sec.Role{sec.RoleProofreader}}

	// 1. At least one role in the allowed set matches
	assert.True(t, p.HasAny(sec.RoleManager, sec.RoleProofreader))

	// 2. No overlap with the allowed set
	assert.False(t, p.HasAny(sec.RoleManager, sec.RoleChiefEditor))

	// 3. Empty allowed set never matches
	assert.False(t, p.HasAny())
}
