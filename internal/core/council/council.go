// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

/*
Package council implements the editorial council: journal-scoped membership,
per-article voting with recast semantics, the majority tally, and decision
finalization.

Votes use the same closed decision enum as peer reviews. One row exists per
(member, article) pair; recasting replaces the value but keeps the original
cast position, which is the documented tie-break order.
*/
package council

import (
	"time"

	"github.com/peerline/peerline/internal/core/article"
)

// Member is a voting participant, scoped to one journal's council roster.
type Member struct {
	ID        string    `json:"id"`
	JournalID string    `json:"journal_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	RoleLabel string    `json:"role_label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Vote is one member's current vote on one article.
type Vote struct {
	ID        string           `json:"id"`
	ArticleID string           `json:"article_id"`
	MemberID  string           `json:"member_id"`
	Value     article.Decision `json:"value"`
	Comment   string           `json:"comment,omitempty"`

	// CastAt is the member's first cast time on this article. Recasting
	// changes Value and UpdatedAt but never CastAt.
	CastAt    time.Time `json:"cast_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Field names for validation
const (
	FieldValue     = "value"
	FieldUserID    = "user_id"
	FieldName      = "name"
	FieldDecision  = "decision"
	FieldJournalID = "journal_id"
)
