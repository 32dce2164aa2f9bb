// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package article

import (
	"context"
	"errors"
)

// ErrStaleStatus is returned by conditional status writes when the article's
// status no longer matches the state the transition was evaluated against
// (a concurrent actor won the race). The service re-reads and re-evaluates.
var ErrStaleStatus = errors.New("article status changed concurrently")

// Repository is the persistence contract for articles.
//
// All status-mutating methods are conditional on the expected current status
// and write the audit history row in the same transaction, so concurrent
// actors on the same article serialize on the status column and no reader
// ever observes a half-applied transition.
type Repository interface {
	Create(ctx context.Context, a *Article) error
	Get(ctx context.Context, id string) (*Article, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Article, int, error)

	// UpdateStatus moves the article from -> to, or returns [ErrStaleStatus].
	UpdateStatus(ctx context.Context, id string, from, to Status, actorID, note string) error

	// UpdateScreening persists the checklist together with the gate's
	// resulting status in a single conditional write.
	UpdateScreening(ctx context.Context, id string, from, to Status, checklist Screening, actorID string) error

	// UpdateDecision stamps the final decision and moves the article to the
	// status the decision implies. No-op protection is the caller's concern.
	UpdateDecision(ctx context.Context, id string, from Status, decision Decision, actorID string) error

	History(ctx context.Context, articleID string) ([]StatusChange, error)
}
