// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package review_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerline/peerline/internal/core/article"
	"github.com/peerline/peerline/internal/core/review"
	"github.com/peerline/peerline/internal/platform/apperr"
	"github.com/peerline/peerline/internal/platform/sec"
	"github.com/peerline/peerline/pkg/pointer"
)

// # Test Doubles

// fakeRepo is an in-memory assignment repository honoring the
// conditional-write contract.
type fakeRepo struct {
	assignments map[string]*review.Assignment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{assignments: make(map[string]*review.Assignment)}
}

func (r *fakeRepo) Create(_ context.Context, a *review.Assignment) error {
	now := time.Now()
	a.InvitedAt, a.UpdatedAt = now, now
	copied := *a
	r.assignments[a.ID] = &copied
	return nil
}

func (r *fakeRepo) Get(_ context.Context, id string) (*review.Assignment, error) {
	stored, ok := r.assignments[id]
	if !ok {
		return nil, apperr.NotFound("Assignment")
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeRepo) ListByArticle(_ context.Context, articleID string) ([]*review.Assignment, error) {
	var out []*review.Assignment
	for _, a := range r.assignments {
		if a.ArticleID == articleID {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByReviewer(_ context.Context, reviewerID string, _, _ int) ([]*review.Assignment, int, error) {
	var out []*review.Assignment
	for _, a := range r.assignments {
		if a.ReviewerID == reviewerID {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) HasActive(_ context.Context, articleID, reviewerID string) (bool, error) {
	for _, a := range r.assignments {
		if a.ArticleID == articleID && a.ReviewerID == reviewerID && a.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) CountSubmitted(_ context.Context, articleID string) (int, error) {
	count := 0
	for _, a := range r.assignments {
		if a.ArticleID == articleID && a.Status == review.StatusSubmitted {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) UpdateResponse(_ context.Context, id string, accepted bool) error {
	stored := r.assignments[id]
	if stored.Status != review.StatusInvited {
		return review.ErrStaleState
	}
	if accepted {
		stored.Status = review.StatusInReview
	} else {
		stored.Status = review.StatusDeclined
	}
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeRepo) SubmitReview(_ context.Context, id string, input review.ReviewInput) error {
	stored := r.assignments[id]
	if stored.Status != review.StatusInReview {
		return review.ErrStaleState
	}
	stored.Status = review.StatusSubmitted
	decision := article.Decision(input.Decision)
	stored.Decision = &decision
	stored.Score = input.Score
	stored.CommentsPublic = input.CommentsPublic
	stored.CommentsConfidential = input.CommentsConfidential
	stored.SubmittedAt = pointer.To(time.Now())
	stored.UpdatedAt = time.Now()
	return nil
}

// # Fixtures

const (
	reviewerID = "2b6ad544-21c1-7f10-9f0e-1a2b3c4d5e6f"
	articleID  = "art-1"
)

func newTestService(t *testing.T) (*review.Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return review.NewService(repo, logger), repo
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr, "expected an application error, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

// # Tests

/*
TestService_Assign verifies invitation creation, role gating, and the
duplicate-active rule.
*/
func TestService_Assign(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	secretary := sec.Principal{UserID: "u-sec", Roles: []sec.Role{sec.RoleSecretary}}

	// 1. Staff can invite
	assignment, err := service.Assign(ctx, secretary, articleID, review.AssignInput{ReviewerID: reviewerID})
	require.NoError(t, err)
	assert.Equal(t, review.StatusInvited, assignment.Status)
	assert.False(t, assignment.DueAt.IsZero(), "default deadline applied")

	// 2. A second invite for the same reviewer on the same article conflicts
	_, err = service.Assign(ctx, secretary, articleID, review.AssignInput{ReviewerID: reviewerID})
	assertCode(t, err, "DUPLICATE_ASSIGNMENT")

	// 3. The same reviewer on another article is fine
	_, err = service.Assign(ctx, secretary, "art-2", review.AssignInput{ReviewerID: reviewerID})
	assert.NoError(t, err)

	// 4. Reviewers cannot invite
	reviewer := sec.Principal{UserID: reviewerID, Roles: []sec.Role{sec.RoleReviewer}}
	_, err = service.Assign(ctx, reviewer, articleID, review.AssignInput{ReviewerID: reviewerID})
	assertCode(t, err, "FORBIDDEN")
}

/*
TestService_DeclineFreesSlot verifies that a declined assignment no longer
blocks a re-invite.
*/
func TestService_DeclineFreesSlot(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	secretary := sec.Principal{UserID: "u-sec", Roles: []sec.Role{sec.RoleSecretary}}
	reviewer := sec.Principal{UserID: reviewerID, Roles: []sec.Role{sec.RoleReviewer}}

	// 1. Invite and decline
	assignment, err := service.Assign(ctx, secretary, articleID, review.AssignInput{ReviewerID: reviewerID})
	require.NoError(t, err)
	declined, err := service.Respond(ctx, reviewer, assignment.ID, false)
	require.NoError(t, err)
	assert.Equal(t, review.StatusDeclined, declined.Status)

	// 2. The prior assignment is not active, so a fresh invite succeeds
	second, err := service.Assign(ctx, secretary, articleID, review.AssignInput{ReviewerID: reviewerID})
	require.NoError(t, err)
	assert.NotEqual(t, assignment.ID, second.ID)
}

/*
TestService_Respond verifies ownership and the invited-only rule.
*/
func TestService_Respond(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	secretary := sec.Principal{UserID: "u-sec", Roles: []sec.Role{sec.RoleSecretary}}
	reviewer := sec.Principal{UserID: reviewerID, Roles: []sec.Role{sec.RoleReviewer}}

	assignment, err := service.Assign(ctx, secretary, articleID, review.AssignInput{ReviewerID: reviewerID})
	require.NoError(t, err)

	// 1. Someone else's response is rejected
	stranger := sec.Principal{UserID: "u-other", Roles: []sec.Role{sec.RoleReviewer}}
	_, err = service.Respond(ctx, stranger, assignment.ID, true)
	assertCode(t, err, "FORBIDDEN")

	// 2. Accept moves to in_review
	accepted, err := service.Respond(ctx, reviewer, assignment.ID, true)
	require.NoError(t, err)
	assert.Equal(t, review.StatusInReview, accepted.Status)

	// 3. Responding twice is an invalid-state conflict
	_, err = service.Respond(ctx, reviewer, assignment.ID, false)
	assertCode(t, err, "INVALID_ASSIGNMENT_STATE")
}

/*
TestService_SubmitReview verifies the submission rules and payload validation.
*/
func TestService_SubmitReview(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	secretary := sec.Principal{UserID: "u-sec", Roles: []sec.Role{sec.RoleSecretary}}
	reviewer := sec.Principal{UserID: reviewerID, Roles: []sec.Role{sec.RoleReviewer}}

	assignment, err := service.Assign(ctx, secretary, articleID, review.AssignInput{ReviewerID: reviewerID})
	require.NoError(t, err)

	// 1. Cannot submit before accepting
	_, err = service.SubmitReview(ctx, reviewer, assignment.ID, review.SubmitInput{Decision: "accept"})
	assertCode(t, err, "INVALID_ASSIGNMENT_STATE")

	_, err = service.Respond(ctx, reviewer, assignment.ID, true)
	require.NoError(t, err)

	// 2. Unknown decision labels fail validation
	_, err = service.SubmitReview(ctx, reviewer, assignment.ID, review.SubmitInput{Decision: "publish"})
	assertCode(t, err, "VALIDATION_ERROR")

	// 3. Out-of-range scores fail validation
	_, err = service.SubmitReview(ctx, reviewer, assignment.ID, review.SubmitInput{
		Decision: "minor",
		Score:    pointer.To(9),
	})
	assertCode(t, err, "VALIDATION_ERROR")

	// 4. A valid submission lands with a timestamp
	submitted, err := service.SubmitReview(ctx, reviewer, assignment.ID, review.SubmitInput{
		Decision:       "minor",
		Score:          pointer.To(3),
		CommentsPublic: "tighten section 4",
	})
	require.NoError(t, err)
	assert.Equal(t, review.StatusSubmitted, submitted.Status)
	require.NotNil(t, submitted.Decision)
	assert.Equal(t, article.DecisionMinor, *submitted.Decision)
	assert.NotNil(t, submitted.SubmittedAt)

	// 5. Submission is terminal
	_, err = service.SubmitReview(ctx, reviewer, assignment.ID, review.SubmitInput{Decision: "accept"})
	assertCode(t, err, "INVALID_ASSIGNMENT_STATE")

	// 6. The article now counts as review-complete
	complete, err := service.HasSubmittedReview(ctx, articleID)
	require.NoError(t, err)
	assert.True(t, complete)
}

/*
TestAssignment_Deadlines verifies the advisory deadline computations.
*/
func TestAssignment_Deadlines(t *testing.T) {
	now := time.Now()
	assignment := review.Assignment{
		Status: review.StatusInReview,
		DueAt:  now.Add(72 * time.Hour),
	}

	assert.Equal(t, 3, assignment.DaysRemaining(now))
	assert.False(t, assignment.Overdue(now))

	// Past the deadline, still actionable, reported overdue
	late := now.Add(96 * time.Hour)
	assert.True(t, assignment.Overdue(late))
	assert.Equal(t, -1, assignment.DaysRemaining(late))

	// Submitted assignments are never overdue
	assignment.Status = review.StatusSubmitted
	assert.False(t, assignment.Overdue(late))
}
