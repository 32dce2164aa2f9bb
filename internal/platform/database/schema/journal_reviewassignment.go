// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package schema

// JournalReviewAssignmentTable represents the 'journal.reviewassignment' table
type JournalReviewAssignmentTable struct {
	Table                string
	ID                   string
	ArticleID            string
	ReviewerID           string
	Status               string
	DueAt                string
	Score                string
	Decision             string
	CommentsPublic       string
	CommentsConfidential string
	InvitedAt            string
	SubmittedAt          string
	UpdatedAt            string
}

// JournalReviewAssignment is the schema definition for journal.reviewassignment
var JournalReviewAssignment = JournalReviewAssignmentTable{
	Table:                "journal.reviewassignment",
	ID:                   "id",
	ArticleID:            "articleid",
	ReviewerID:           "reviewerid",
	Status:               "status",
	DueAt:                "dueat",
	Score:                "score",
	Decision:             "decision",
	CommentsPublic:       "commentspublic",
	CommentsConfidential: "commentsconfidential",
	InvitedAt:            "invitedat",
	SubmittedAt:          "submittedat",
	UpdatedAt:            "updatedat",
}

func (t JournalReviewAssignmentTable) Columns() []string {
	return []string{
		t.ID, t.ArticleID, t.ReviewerID, t.Status, t.DueAt, t.Score, t.Decision,
		t.CommentsPublic, t.CommentsConfidential, t.InvitedAt, t.SubmittedAt, t.UpdatedAt,
	}
}
