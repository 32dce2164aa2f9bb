// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package schema

// JournalIssueTable represents the 'journal.issue' table
type JournalIssueTable struct {
	Table     string
	ID        string
	JournalID string
	Title     string
	Slug      string
	Status    string
	CreatedAt string
	UpdatedAt string
}

// JournalIssue is the schema definition for journal.issue
var JournalIssue = JournalIssueTable{
	Table:     "journal.issue",
	ID:        "id",
	JournalID: "journalid",
	Title:     "title",
	Slug:      "slug",
	Status:    "status",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t JournalIssueTable) Columns() []string {
	return []string{
		t.ID, t.JournalID, t.Title, t.Slug, t.Status, t.CreatedAt, t.UpdatedAt,
	}
}
