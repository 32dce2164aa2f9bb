// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package schema

// JournalCouncilVoteTable represents the 'journal.councilvote' table.
// One row per (member, article) pair; recasting updates the value in place
// but preserves CastAt, which is the insertion-order key for tie-breaking.
type JournalCouncilVoteTable struct {
	Table     string
	ID        string
	ArticleID string
	MemberID  string
	Value     string
	Comment   string
	CastAt    string
	UpdatedAt string
}

// JournalCouncilVote is the schema definition for journal.councilvote
var JournalCouncilVote = JournalCouncilVoteTable{
	Table:     "journal.councilvote",
	ID:        "id",
	ArticleID: "articleid",
	MemberID:  "memberid",
	Value:     "value",
	Comment:   "comment",
	CastAt:    "castat",
	UpdatedAt: "updatedat",
}
