// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package article

import (
	"github.com/peerline/peerline/internal/platform/sec"
)

// # Transition Table
//
// The single authoritative definition of which lifecycle moves are legal,
// which roles may trigger them, and which guard must hold. Everything the
// service layer does is driven off this table; no handler or dashboard may
// mutate status through any other path.

// guard identifies the precondition evaluated before a transition commits.
type guard int

const (
	// guardNone: no precondition beyond role and reachability.
	guardNone guard = iota

	// guardManuscriptPresent: title set and at least one manuscript file attached.
	guardManuscriptPresent

	// guardScreening: the screening checklist gate decides the actual target.
	guardScreening

	// guardDecisionBasis: at least one submitted review exists, or the
	// council has reached majority. The transition also stamps the final
	// decision (single-decider finalization).
	guardDecisionBasis

	// guardRevisedManuscript: a new manuscript file was uploaded after the
	// revision was requested.
	guardRevisedManuscript

	// guardProductionFile: a production PDF is attached.
	guardProductionFile
)

// rule is one legal (from, to) edge of the lifecycle state machine.
type rule struct {
	roles []sec.Role
	guard guard

	// authorOwned transitions may only be triggered by the article's own
	// author, not any actor holding the author role.
	authorOwned bool
}

var transitions = map[Status]map[Status]rule{
	StatusDraft: {
		StatusSubmitted: {
			roles:       []sec.Role{sec.RoleAuthor},
			guard:       guardManuscriptPresent,
			authorOwned: true,
		},
	},
	StatusSubmitted: {
		StatusScreening: {
			roles: []sec.Role{sec.RoleSecretary, sec.RoleManager},
			guard: guardNone,
		},
		// Bounce back to the author without screening.
		StatusDraft: {
			roles: []sec.Role{sec.RoleSecretary},
			guard: guardNone,
		},
	},
	StatusScreening: {
		StatusUnderReview: {
			roles: []sec.Role{sec.RoleSecretary, sec.RoleManager},
			guard: guardScreening,
		},
		StatusSubmitted: {
			roles: []sec.Role{sec.RoleSecretary, sec.RoleManager},
			guard: guardScreening,
		},
	},
	StatusUnderReview: {
		StatusRevisionMinor: {
			roles: []sec.Role{sec.RoleChiefEditor},
			guard: guardDecisionBasis,
		},
		StatusRevisionMajor: {
			roles: []sec.Role{sec.RoleChiefEditor},
			guard: guardDecisionBasis,
		},
		StatusAccepted: {
			roles: []sec.Role{sec.RoleChiefEditor},
			guard: guardDecisionBasis,
		},
		StatusRejected: {
			roles: []sec.Role{sec.RoleChiefEditor},
			guard: guardDecisionBasis,
		},
	},
	StatusRevisionMinor: {
		StatusUnderReview: {
			roles:       []sec.Role{sec.RoleAuthor},
			guard:       guardRevisedManuscript,
			authorOwned: true,
		},
	},
	StatusRevisionMajor: {
		StatusUnderReview: {
			roles:       []sec.Role{sec.RoleAuthor},
			guard:       guardRevisedManuscript,
			authorOwned: true,
		},
	},
	StatusAccepted: {
		StatusInProduction: {
			roles: []sec.Role{sec.RoleProofreader},
			guard: guardNone,
		},
	},
	StatusInProduction: {
		// Production is reversible until publication.
		StatusAccepted: {
			roles: []sec.Role{sec.RoleProofreader},
			guard: guardNone,
		},
		StatusPublished: {
			roles: []sec.Role{sec.RoleProofreader},
			guard: guardProductionFile,
		},
	},
}

// ruleFor looks up the transition rule for a (from, to) pair.
func ruleFor(from, to Status) (rule, bool) {
	targets, ok := transitions[from]
	if !ok {
		return rule{}, false
	}
	r, ok := targets[to]
	return r, ok
}

// LegalTargets returns the statuses reachable from the given status,
// regardless of role or guard. Dashboards use it to render available moves.
func LegalTargets(from Status) []Status {
	targets := make([]Status, 0, len(transitions[from]))
	for _, candidate := range []Status{
		// Fixed order keeps API responses deterministic.
		StatusDraft, StatusSubmitted, StatusScreening, StatusUnderReview,
		StatusRevisionMinor, StatusRevisionMajor, StatusAccepted,
		StatusRejected, StatusInProduction, StatusPublished,
	} {
		if _, ok := transitions[from][candidate]; ok {
			targets = append(targets, candidate)
		}
	}
	return targets
}
