// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package schema

// JournalArticleTable represents the 'journal.article' table
type JournalArticleTable struct {
	Table          string
	ID             string
	JournalID      string
	AuthorID       string
	Status         string
	Title          string
	Abstract       string
	Keywords       string
	ScopeOK        string
	FormatOK       string
	ZGSOK          string
	AntiplagOK     string
	ScreeningNotes string
	FinalDecision  string
	FinalizedAt    string
	CreatedAt      string
	UpdatedAt      string
	DeletedAt      string
}

// JournalArticle is the schema definition for journal.article
var JournalArticle = JournalArticleTable{
	Table:          "journal.article",
	ID:             "id",
	JournalID:      "journalid",
	AuthorID:       "authorid",
	Status:         "status",
	Title:          "title",
	Abstract:       "abstract",
	Keywords:       "keywords",
	ScopeOK:        "scopeok",
	FormatOK:       "formatok",
	ZGSOK:          "zgsok",
	AntiplagOK:     "antiplagok",
	ScreeningNotes: "screeningnotes",
	FinalDecision:  "finaldecision",
	FinalizedAt:    "finalizedat",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
	DeletedAt:      "deletedat",
}

func (t JournalArticleTable) Columns() []string {
	return []string{
		t.ID, t.JournalID, t.AuthorID, t.Status, t.Title, t.Abstract, t.Keywords,
		t.ScopeOK, t.FormatOK, t.ZGSOK, t.AntiplagOK, t.ScreeningNotes,
		t.FinalDecision, t.FinalizedAt, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
