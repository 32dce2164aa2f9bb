// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

/*
Package issue implements the periodical production pipeline.

An issue aggregates published articles into one release. Its state machine
is deliberately separate from the article lifecycle: no screening, no
review, just a production gate mirroring the article's.
*/
package issue

import "time"

// Status is the issue's state machine.
type Status string

const (
	StatusDraft        Status = "draft"
	StatusInProduction Status = "in_production"
	StatusPublished    Status = "published"
)

// ParseStatus maps a raw label onto a known issue status.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusDraft, StatusInProduction, StatusPublished:
		return Status(raw), true
	}
	return "", false
}

// next returns the single legal successor of a status. Published is terminal.
func (s Status) next() (Status, bool) {
	switch s {
	case StatusDraft:
		return StatusInProduction, true
	case StatusInProduction:
		return StatusPublished, true
	}
	return "", false
}

// Issue is one periodical release.
type Issue struct {
	ID        string `json:"id"`
	JournalID string `json:"journal_id"`
	Title     string `json:"title"`

	// Slug is derived from the title at creation, e.g. "2026-vol-12-no-3".
	Slug string `json:"slug"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Field names for validation
const (
	FieldJournalID = "journal_id"
	FieldTitle     = "title"
	FieldTarget    = "target"
)
