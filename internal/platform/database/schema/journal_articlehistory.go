// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package schema

// JournalArticleHistoryTable represents the 'journal.articlehistory' table.
// Append-only audit trail of status transitions.
type JournalArticleHistoryTable struct {
	Table      string
	ID         string
	ArticleID  string
	FromStatus string
	ToStatus   string
	ActorID    string
	Note       string
	CreatedAt  string
}

// JournalArticleHistory is the schema definition for journal.articlehistory
var JournalArticleHistory = JournalArticleHistoryTable{
	Table:      "journal.articlehistory",
	ID:         "id",
	ArticleID:  "articleid",
	FromStatus: "fromstatus",
	ToStatus:   "tostatus",
	ActorID:    "actorid",
	Note:       "note",
	CreatedAt:  "createdat",
}
