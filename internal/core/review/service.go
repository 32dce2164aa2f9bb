// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package review

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/peerline/peerline/internal/core/article"
	"github.com/peerline/peerline/internal/platform/apperr"
	"github.com/peerline/peerline/internal/platform/constants"
	"github.com/peerline/peerline/internal/platform/metrics"
	"github.com/peerline/peerline/internal/platform/sec"
	"github.com/peerline/peerline/internal/platform/validate"
	"github.com/peerline/peerline/pkg/uuidv7"
)

// assignerRoles may create reviewer assignments.
var assignerRoles = []sec.Role{sec.RoleSecretary, sec.RoleManager, sec.RoleChiefEditor}

// staffRoles may read an article's full assignment list, confidential
// comments included.
var staffRoles = []sec.Role{sec.RoleSecretary, sec.RoleManager, sec.RoleChiefEditor, sec.RoleCouncil}

// Service orchestrates the assignment protocol.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs the review service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// AssignInput holds the data for a new reviewer invitation.
type AssignInput struct {
	ReviewerID string
	// DueAt defaults to the standard review window when zero.
	DueAt time.Time
}

// Assign invites a reviewer onto an article.
//
// At most one active (non-declined) assignment per reviewer per article is
// allowed; a declined invitation does not block a re-invite.
func (service *Service) Assign(ctx context.Context, principal sec.Principal, articleID string, input AssignInput) (*Assignment, error) {
	if !principal.HasAny(assignerRoles...) {
		return nil, apperr.Forbidden("Only editorial staff may assign reviewers")
	}

	validator := &validate.Validator{}
	validator.Required(FieldReviewerID, input.ReviewerID).UUID(FieldReviewerID, input.ReviewerID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	active, err := service.repo.HasActive(ctx, articleID, input.ReviewerID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, errDuplicateAssignment(input.ReviewerID)
	}

	dueAt := input.DueAt
	if dueAt.IsZero() {
		dueAt = time.Now().Add(constants.DefaultReviewWindow)
	}

	assignment := &Assignment{
		ID:         uuidv7.New(),
		ArticleID:  articleID,
		ReviewerID: input.ReviewerID,
		Status:     StatusInvited,
		DueAt:      dueAt,
	}

	if err := service.repo.Create(ctx, assignment); err != nil {
		return nil, err
	}

	metrics.ReviewAssignmentsTotal.Inc()
	service.logger.Info("reviewer_assigned",
		slog.String("assignment_id", assignment.ID),
		slog.String("article_id", articleID),
		slog.String("reviewer_id", input.ReviewerID),
	)
	return assignment, nil
}

// Respond records the reviewer's accept or decline of an invitation.
//
// Only the invited reviewer may respond, and only while the assignment is
// still in the invited state.
func (service *Service) Respond(ctx context.Context, principal sec.Principal, assignmentID string, accept bool) (*Assignment, error) {
	assignment, err := service.repo.Get(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if !principal.Has(sec.RoleAdmin) && principal.UserID != assignment.ReviewerID {
		return nil, apperr.Forbidden("Only the invited reviewer may respond")
	}
	if assignment.Status != StatusInvited {
		return nil, errInvalidState(assignment.Status, "respond to")
	}

	if err := service.repo.UpdateResponse(ctx, assignmentID, accept); err != nil {
		if errors.Is(err, ErrStaleState) {
			// Re-read for an accurate error against the fresh state.
			fresh, readErr := service.repo.Get(ctx, assignmentID)
			if readErr != nil {
				return nil, readErr
			}
			return nil, errInvalidState(fresh.Status, "respond to")
		}
		return nil, err
	}

	service.logger.Info("assignment_responded",
		slog.String("assignment_id", assignmentID),
		slog.Bool("accepted", accept),
	)
	return service.repo.Get(ctx, assignmentID)
}

// SubmitInput is the reviewer-facing review submission payload.
type SubmitInput struct {
	Decision             string
	Score                *int
	CommentsPublic       string
	CommentsConfidential string
}

// SubmitReview files the completed review.
//
// Legal only while the assignment is in_review; the decision must be a
// member of the closed decision enum and the score, when given, within
// bounds. Submission is terminal.
func (service *Service) SubmitReview(ctx context.Context, principal sec.Principal, assignmentID string, input SubmitInput) (*Assignment, error) {
	assignment, err := service.repo.Get(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if !principal.Has(sec.RoleAdmin) && principal.UserID != assignment.ReviewerID {
		return nil, apperr.Forbidden("Only the assigned reviewer may submit the review")
	}
	if assignment.Status != StatusInReview {
		return nil, errInvalidState(assignment.Status, "submit a review for")
	}

	validator := &validate.Validator{}
	validator.Required(FieldDecision, input.Decision).
		OneOf(FieldDecision, input.Decision, article.Decisions()...)
	if input.Score != nil {
		validator.Range(FieldScore, *input.Score, MinScore, MaxScore)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	err = service.repo.SubmitReview(ctx, assignmentID, ReviewInput{
		Decision:             input.Decision,
		Score:                input.Score,
		CommentsPublic:       input.CommentsPublic,
		CommentsConfidential: input.CommentsConfidential,
	})
	if err != nil {
		if errors.Is(err, ErrStaleState) {
			fresh, readErr := service.repo.Get(ctx, assignmentID)
			if readErr != nil {
				return nil, readErr
			}
			return nil, errInvalidState(fresh.Status, "submit a review for")
		}
		return nil, err
	}

	metrics.ReviewsSubmittedTotal.WithLabelValues(input.Decision).Inc()
	service.logger.Info("review_submitted",
		slog.String("assignment_id", assignmentID),
		slog.String("decision", input.Decision),
	)
	return service.repo.Get(ctx, assignmentID)
}

// ListByArticle returns all assignments on an article for editorial staff.
// Reviewers see only their own via [ListByReviewer].
func (service *Service) ListByArticle(ctx context.Context, principal sec.Principal, articleID string) ([]*Assignment, error) {
	if !principal.HasAny(staffRoles...) {
		return nil, apperr.Forbidden("Only editorial staff may list an article's assignments")
	}
	return service.repo.ListByArticle(ctx, articleID)
}

// ListByReviewer returns the caller's own assignments, paginated.
func (service *Service) ListByReviewer(ctx context.Context, principal sec.Principal, limit, offset int) ([]*Assignment, int, error) {
	return service.repo.ListByReviewer(ctx, principal.UserID, limit, offset)
}

// HasSubmittedReview reports whether the article has at least one submitted
// review. The lifecycle controller consumes this as its decision basis.
func (service *Service) HasSubmittedReview(ctx context.Context, articleID string) (bool, error) {
	count, err := service.repo.CountSubmitted(ctx, articleID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
