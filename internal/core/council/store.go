// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package council

import (
	"context"
	"errors"
	"time"

	"github.com/peerline/peerline/internal/core/article"
)

// ErrArticleFinalized reports that a ballot write arrived after the
// article's decision was finalized. The service maps it to a conflict.
var ErrArticleFinalized = errors.New("article decision already finalized")

// Repository is the persistence contract for council membership and votes.
type Repository interface {
	// Membership
	AddMember(ctx context.Context, m *Member) error
	RemoveMember(ctx context.Context, journalID, memberID string) error
	ListMembers(ctx context.Context, journalID string) ([]*Member, error)
	CountMembers(ctx context.Context, journalID string) (int, error)

	// MemberByUser resolves a user's membership on a journal's council.
	// Returns dberr.ErrNotFound when the user is not on the roster.
	MemberByUser(ctx context.Context, journalID, userID string) (*Member, error)

	// ArticleRef returns the lifecycle facts the voting engine needs about
	// an article: its journal, current status, and stored decision if any.
	ArticleRef(ctx context.Context, articleID string) (*ArticleRef, error)

	// UpsertVote inserts or replaces the (member, article) vote. On
	// replace, value/comment/updated_at change and cast_at is preserved.
	// The write holds a share lock on the article row and fails with
	// ErrArticleFinalized once the decision is stamped, so no ballot can
	// land or change past the finalize snapshot.
	UpsertVote(ctx context.Context, v *Vote) error

	// ListVotes returns the article's votes ordered by first cast time.
	ListVotes(ctx context.Context, articleID string) ([]Vote, error)

	// Finalize runs decide inside a transaction that holds the article's
	// row lock, with the vote set read under that lock. If the article is
	// already finalized, decide is not called and the stored outcome is
	// returned with AlreadyFinalized set.
	Finalize(ctx context.Context, articleID, actorID string, decide DecideFunc) (*FinalizeResult, error)
}

// ArticleRef is the voting engine's view of an article.
type ArticleRef struct {
	ID            string
	JournalID     string
	Status        article.Status
	FinalDecision *article.Decision
}

// FinalizeSnapshot is the locked state handed to a [DecideFunc].
type FinalizeSnapshot struct {
	Status      article.Status
	JournalID   string
	MemberCount int
	Votes       []Vote
}

// DecideFunc resolves a finalization decision from the locked snapshot.
// Returning an error aborts the transaction with nothing written.
type DecideFunc func(snapshot FinalizeSnapshot) (article.Decision, error)

// FinalizeResult reports the outcome of a finalize call.
type FinalizeResult struct {
	Decision         article.Decision `json:"decision"`
	FinalizedAt      time.Time        `json:"finalized_at"`
	AlreadyFinalized bool             `json:"already_finalized"`
}

// TallyCache is the short-lived cache in front of the tally computation.
// A miss is never an error; the tally is simply recomputed.
type TallyCache interface {
	Get(ctx context.Context, articleID string) (*Tally, bool)
	Set(ctx context.Context, articleID string, tally Tally)
	Invalidate(ctx context.Context, articleID string)
}
