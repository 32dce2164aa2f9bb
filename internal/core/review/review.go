// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

/*
Package review implements reviewer assignments: the invitation protocol,
review submission, and the advisory deadline computation.

An assignment is an independently mutable sub-resource of an article. The
lifecycle controller never mutates assignments; it only asks whether a
submitted review exists when evaluating a decision.
*/
package review

import (
	"time"

	"github.com/peerline/peerline/internal/core/article"
)

// Status is the assignment's own small state machine.
type Status string

const (
	// StatusInvited: created, awaiting the reviewer's response.
	StatusInvited Status = "invited"

	// StatusDeclined: the reviewer turned the invitation down. Terminal,
	// and no longer counts as an active assignment.
	StatusDeclined Status = "declined"

	// StatusInReview: the reviewer accepted and is working.
	StatusInReview Status = "in_review"

	// StatusSubmitted: the review is in. Terminal.
	StatusSubmitted Status = "submitted"
)

// ParseStatus maps a raw label onto a known assignment status.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusInvited, StatusDeclined, StatusInReview, StatusSubmitted:
		return Status(raw), true
	}
	return "", false
}

// Score bounds for a submitted review.
const (
	MinScore = 1
	MaxScore = 5
)

// Assignment is one reviewer's engagement with one article.
type Assignment struct {
	ID         string `json:"id"`
	ArticleID  string `json:"article_id"`
	ReviewerID string `json:"reviewer_id"`
	Status     Status `json:"status"`

	// DueAt is advisory. Nothing transitions on expiry; overdue
	// assignments remain fully actionable.
	DueAt time.Time `json:"due_at"`

	// Review payload. Meaningful only once Status is submitted.
	Score                *int              `json:"score,omitempty"`
	Decision             *article.Decision `json:"decision,omitempty"`
	CommentsPublic       string            `json:"comments_public,omitempty"`
	CommentsConfidential string            `json:"-"`

	InvitedAt   time.Time  `json:"invited_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Active reports whether the assignment still occupies the reviewer's slot
// on the article. Declined assignments free the slot for a re-invite.
func (a Assignment) Active() bool {
	return a.Status != StatusDeclined
}

// Overdue reports whether the advisory deadline has passed without a
// submitted review.
func (a Assignment) Overdue(now time.Time) bool {
	return a.Status != StatusSubmitted && a.Status != StatusDeclined && now.After(a.DueAt)
}

// DaysRemaining returns whole days until the deadline, negative once passed.
func (a Assignment) DaysRemaining(now time.Time) int {
	return int(a.DueAt.Sub(now).Hours() / 24)
}

// Field names for validation
const (
	FieldReviewerID = "reviewer_id"
	FieldDueAt      = "due_at"
	FieldDecision   = "decision"
	FieldScore      = "score"
)
