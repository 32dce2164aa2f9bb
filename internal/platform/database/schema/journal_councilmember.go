// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package schema

// JournalCouncilMemberTable represents the 'journal.councilmember' table.
// Membership is journal-scoped, not article-scoped.
type JournalCouncilMemberTable struct {
	Table     string
	ID        string
	JournalID string
	UserID    string
	Name      string
	RoleLabel string
	CreatedAt string
}

// JournalCouncilMember is the schema definition for journal.councilmember
var JournalCouncilMember = JournalCouncilMemberTable{
	Table:     "journal.councilmember",
	ID:        "id",
	JournalID: "journalid",
	UserID:    "userid",
	Name:      "name",
	RoleLabel: "rolelabel",
	CreatedAt: "createdat",
}
