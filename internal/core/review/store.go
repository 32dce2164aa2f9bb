// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package review

import (
	"context"
	"errors"
)

// ErrStaleState is returned by conditional assignment writes when the row's
// status no longer matches what the operation expected.
var ErrStaleState = errors.New("assignment state changed concurrently")

// Repository is the persistence contract for reviewer assignments.
//
// State-changing methods are conditional on the expected current status, the
// same single-writer discipline the article store uses.
type Repository interface {
	Create(ctx context.Context, a *Assignment) error
	Get(ctx context.Context, id string) (*Assignment, error)
	ListByArticle(ctx context.Context, articleID string) ([]*Assignment, error)
	ListByReviewer(ctx context.Context, reviewerID string, limit, offset int) ([]*Assignment, int, error)

	// HasActive reports whether the reviewer holds a non-declined
	// assignment on the article.
	HasActive(ctx context.Context, articleID, reviewerID string) (bool, error)

	// CountSubmitted returns how many submitted reviews the article has.
	CountSubmitted(ctx context.Context, articleID string) (int, error)

	// UpdateResponse flips invited to in_review or declined, or returns
	// [ErrStaleState] if the assignment is no longer invited.
	UpdateResponse(ctx context.Context, id string, accepted bool) error

	// SubmitReview stores the review payload and stamps submitted_at, or
	// returns [ErrStaleState] if the assignment is not in_review.
	SubmitReview(ctx context.Context, id string, input ReviewInput) error
}

// ReviewInput is the payload stored when a review is submitted.
type ReviewInput struct {
	Decision             string
	Score                *int
	CommentsPublic       string
	CommentsConfidential string
}
