// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package article

import "time"

// # Status Enumeration

// Status is the authoritative lifecycle state of an article.
//
// There is exactly one state machine: any Kanban-style staging view a
// dashboard renders is a read projection of this column, never a second
// source of truth.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusSubmitted     Status = "submitted"
	StatusScreening     Status = "screening"
	StatusUnderReview   Status = "under_review"
	StatusRevisionMinor Status = "revision_minor"
	StatusRevisionMajor Status = "revision_major"
	StatusAccepted      Status = "accepted"
	StatusRejected      Status = "rejected"
	StatusInProduction  Status = "in_production"
	StatusPublished     Status = "published"
)

// allStatuses is the closed enumeration; unknown strings are rejected at the boundary.
var allStatuses = map[Status]struct{}{
	StatusDraft:         {},
	StatusSubmitted:     {},
	StatusScreening:     {},
	StatusUnderReview:   {},
	StatusRevisionMinor: {},
	StatusRevisionMajor: {},
	StatusAccepted:      {},
	StatusRejected:      {},
	StatusInProduction:  {},
	StatusPublished:     {},
}

// ParseStatus validates a raw status label against the closed enum.
func ParseStatus(raw string) (Status, bool) {
	status := Status(raw)
	_, ok := allStatuses[status]
	return status, ok
}

// Terminal reports whether no transition leaves this status.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusPublished
}

// Statuses returns every valid status label. Used for boundary validation.
func Statuses() []string {
	return []string{
		string(StatusDraft), string(StatusSubmitted), string(StatusScreening),
		string(StatusUnderReview), string(StatusRevisionMinor), string(StatusRevisionMajor),
		string(StatusAccepted), string(StatusRejected), string(StatusInProduction),
		string(StatusPublished),
	}
}

// # Decision Enumeration

// Decision is an editorial verdict on an article. The same closed enum is
// used for reviewer recommendations, council votes, and the final decision.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionMinor  Decision = "minor"
	DecisionMajor  Decision = "major"
	DecisionReject Decision = "reject"
)

// ParseDecision validates a raw decision label against the closed enum.
func ParseDecision(raw string) (Decision, bool) {
	switch Decision(raw) {
	case DecisionAccept, DecisionMinor, DecisionMajor, DecisionReject:
		return Decision(raw), true
	}
	return "", false
}

// Status maps a finalized decision to the article status it implies.
func (d Decision) Status() Status {
	switch d {
	case DecisionAccept:
		return StatusAccepted
	case DecisionMinor:
		return StatusRevisionMinor
	case DecisionMajor:
		return StatusRevisionMajor
	case DecisionReject:
		return StatusRejected
	}
	return ""
}

// Decisions returns every valid decision label. Used for boundary validation.
func Decisions() []string {
	return []string{
		string(DecisionAccept), string(DecisionMinor),
		string(DecisionMajor), string(DecisionReject),
	}
}

// # Models

// Screening holds the pre-review checklist. Each flag is tri-state:
// nil = not yet checked, true/false = checked with outcome.
type Screening struct {
	ScopeOK    *bool  `json:"scope_ok"`
	FormatOK   *bool  `json:"format_ok"`
	ZGSOK      *bool  `json:"zgs_ok"`
	AntiplagOK *bool  `json:"antiplag_ok"`
	Notes      string `json:"notes"`
}

// Complete reports whether all four flags are set and true.
func (s Screening) Complete() bool {
	flags := []*bool{s.ScopeOK, s.FormatOK, s.ZGSOK, s.AntiplagOK}
	for _, flag := range flags {
		if flag == nil || !*flag {
			return false
		}
	}
	return true
}

// Article represents a manuscript under editorial handling.
type Article struct {
	ID        string `json:"id"`
	JournalID string `json:"journal_id"`
	AuthorID  string `json:"author_id"`
	Status    Status `json:"status"`

	// Opaque text, not validated by the core beyond presence rules.
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Keywords string `json:"keywords"`

	Screening Screening `json:"screening"`

	// FinalDecision is set if and only if the article has passed through a
	// finalized council decision or a chief editor's single-decider verdict.
	FinalDecision *Decision  `json:"final_decision"`
	FinalizedAt   *time.Time `json:"finalized_at"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"` // soft-delete tracker; articles are never hard-deleted
}

// StatusChange is one append-only audit record of a lifecycle transition.
type StatusChange struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"article_id"`
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	ActorID   string    `json:"actor_id"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter holds the parameters for a paginated article search.
type Filter struct {
	JournalID string
	AuthorID  string
	Status    Status
}

// Global field names for validation
const (
	FieldTitle     = "title"
	FieldAbstract  = "abstract"
	FieldKeywords  = "keywords"
	FieldJournalID = "journal_id"
	FieldStatus    = "status"
	FieldTarget    = "target"
	FieldScreening = "screening"
	FieldDecision  = "decision"
)
