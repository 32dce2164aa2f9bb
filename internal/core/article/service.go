// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

/*
Package article implements the manuscript lifecycle: the article store, the
status state machine, and the screening gate.

# Architecture

The Service is the only writer of the status column. Every mutation flows
through the transition table in workflow.go: the caller's capability set is
checked first, then the guard, and only then is the conditional write issued.
Readiness signals from reviews and council votes arrive through the narrow
gate interfaces below, keeping this package free of dependencies on its
sibling domains.
*/
package article

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/peerline/peerline/internal/platform/apperr"
	"github.com/peerline/peerline/internal/platform/metrics"
	"github.com/peerline/peerline/internal/platform/sec"
	"github.com/peerline/peerline/internal/platform/validate"
	"github.com/peerline/peerline/pkg/uuidv7"
)

// # Gate Contracts

// FileGate answers file-presence questions for transition guards.
// A zero `since` means "any time".
type FileGate interface {
	HasFileSince(ctx context.Context, ownerKind, ownerID, fileType string, since time.Time) (bool, error)
}

// ReviewGate reports whether at least one submitted review exists, which is
// the basis for a chief editor's single-decider finalization.
type ReviewGate interface {
	HasSubmittedReview(ctx context.Context, articleID string) (bool, error)
}

// CouncilGate reports whether the editorial council has reached a strict
// majority for the article.
type CouncilGate interface {
	MajorityReached(ctx context.Context, articleID string) (bool, error)
}

// Owner kind labels used when querying the file registry.
const (
	ownerKindArticle = "article"

	fileTypeManuscript    = "manuscript"
	fileTypeProductionPDF = "production_pdf"
)

// Service orchestrates article lifecycle operations.
type Service struct {
	repo    Repository
	files   FileGate
	reviews ReviewGate
	council CouncilGate
	logger  *slog.Logger
}

// NewService constructs the article service with its collaborators.
func NewService(repo Repository, files FileGate, reviews ReviewGate, council CouncilGate, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		files:   files,
		reviews: reviews,
		council: council,
		logger:  logger,
	}
}

// # Creation & Reads

// CreateInput holds the data required to register a new manuscript.
type CreateInput struct {
	JournalID string
	Title     string
	Abstract  string
	Keywords  string
}

// Create registers a new manuscript in draft for the calling author.
func (service *Service) Create(ctx context.Context, principal sec.Principal, input CreateInput) (*Article, error) {
	if !principal.Has(sec.RoleAuthor) {
		return nil, apperr.Forbidden("Only authors can submit manuscripts")
	}

	validator := &validate.Validator{}
	validator.Required(FieldJournalID, input.JournalID).
		Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 300).
		MaxLen(FieldAbstract, input.Abstract, 5000).
		MaxLen(FieldKeywords, input.Keywords, 500)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	art := &Article{
		ID:        uuidv7.New(),
		JournalID: input.JournalID,
		AuthorID:  principal.UserID,
		Status:    StatusDraft,
		Title:     input.Title,
		Abstract:  input.Abstract,
		Keywords:  input.Keywords,
	}

	if err := service.repo.Create(ctx, art); err != nil {
		return nil, err
	}

	service.logger.Info("article_created",
		slog.String("article_id", art.ID),
		slog.String("journal_id", art.JournalID),
	)
	return art, nil
}

// Get returns a single article by id.
func (service *Service) Get(ctx context.Context, id string) (*Article, error) {
	return service.repo.Get(ctx, id)
}

// List returns a filtered, paginated article projection.
func (service *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Article, int, error) {
	if f.Status != "" {
		if _, ok := ParseStatus(string(f.Status)); !ok {
			return nil, 0, validate.RequiredError(FieldStatus, "Unknown status filter")
		}
	}
	return service.repo.List(ctx, f, limit, offset)
}

// History returns the append-only transition audit trail.
func (service *Service) History(ctx context.Context, articleID string) ([]StatusChange, error) {
	if _, err := service.repo.Get(ctx, articleID); err != nil {
		return nil, err
	}
	return service.repo.History(ctx, articleID)
}

// # Lifecycle Transitions

// TransitionRequest is the payload of a lifecycle move.
type TransitionRequest struct {
	// Target is the requested next status.
	Target Status

	// Checklist must accompany screening decisions and is ignored elsewhere.
	Checklist *Screening

	// Note is an optional free-text remark recorded in the audit trail.
	Note string
}

// Transition attempts one lifecycle move on behalf of the principal.
//
// Evaluation order is fixed: reachability, then role, then guard, then the
// conditional write. A failure at any step leaves the article untouched.
// If a concurrent actor moved the article first, the write fails cleanly and
// the request is re-evaluated against the fresh state, which yields
// ILLEGAL_TRANSITION unless the move happens to still be legal.
func (service *Service) Transition(ctx context.Context, principal sec.Principal, articleID string, req TransitionRequest) (*Article, error) {
	if _, ok := ParseStatus(string(req.Target)); !ok {
		return nil, validate.RequiredError(FieldTarget, "Unknown target status")
	}

	art, err := service.repo.Get(ctx, articleID)
	if err != nil {
		return nil, err
	}

	updated, err := service.applyTransition(ctx, principal, art, req)
	if errors.Is(err, ErrStaleStatus) {
		// Lost the race: re-read and re-evaluate once against the new state.
		art, readErr := service.repo.Get(ctx, articleID)
		if readErr != nil {
			return nil, readErr
		}
		updated, err = service.applyTransition(ctx, principal, art, req)
		if errors.Is(err, ErrStaleStatus) {
			return nil, errIllegalTransition(art.Status, req.Target)
		}
	}
	if err != nil {
		if ae := apperr.As(err); ae != nil {
			metrics.TransitionRejectionsTotal.WithLabelValues(ae.Code).Inc()
		}
		return nil, err
	}
	return updated, nil
}

// applyTransition runs one full check-and-write cycle against a snapshot.
func (service *Service) applyTransition(ctx context.Context, principal sec.Principal, art *Article, req TransitionRequest) (*Article, error) {
	from := art.Status

	transitionRule, legal := ruleFor(from, req.Target)
	if !legal {
		return nil, errIllegalTransition(from, req.Target)
	}

	if !principal.HasAny(transitionRule.roles...) {
		return nil, errTransitionForbidden(req.Target)
	}
	if transitionRule.authorOwned && !principal.Has(sec.RoleAdmin) && principal.UserID != art.AuthorID {
		return nil, apperr.Forbidden("Only the article's author may perform this step")
	}

	switch transitionRule.guard {

	case guardNone:
		if err := service.repo.UpdateStatus(ctx, art.ID, from, req.Target, principal.UserID, req.Note); err != nil {
			return nil, err
		}

	case guardManuscriptPresent:
		if art.Title == "" {
			return nil, apperr.GuardFailed("A title is required before submission")
		}
		present, err := service.files.HasFileSince(ctx, ownerKindArticle, art.ID, fileTypeManuscript, time.Time{})
		if err != nil {
			return nil, err
		}
		if !present {
			return nil, apperr.GuardFailed("A manuscript file must be attached before submission")
		}
		if err := service.repo.UpdateStatus(ctx, art.ID, from, req.Target, principal.UserID, req.Note); err != nil {
			return nil, err
		}

	case guardScreening:
		if req.Checklist == nil {
			return nil, validate.RequiredError(FieldScreening, "Screening checklist is required")
		}
		outcome := EvaluateGate(req.Target, *req.Checklist)
		if err := service.repo.UpdateScreening(ctx, art.ID, from, outcome.Next, *req.Checklist, principal.UserID); err != nil {
			return nil, err
		}
		if !outcome.Pass {
			service.logger.Info("article_screening_bounced", slog.String("article_id", art.ID))
		}
		// The gate may have redirected the move; record what actually happened.
		req.Target = outcome.Next

	case guardDecisionBasis:
		decision, ok := decisionForStatus(req.Target)
		if !ok {
			return nil, errIllegalTransition(from, req.Target)
		}
		basis, err := service.hasDecisionBasis(ctx, art.ID)
		if err != nil {
			return nil, err
		}
		if !basis {
			return nil, apperr.GuardFailed("A submitted review or a council majority is required before deciding")
		}
		if err := service.repo.UpdateDecision(ctx, art.ID, from, decision, principal.UserID); err != nil {
			return nil, err
		}
		metrics.FinalizationsTotal.WithLabelValues(string(decision)).Inc()

	case guardRevisedManuscript:
		// The revision request is the moment the article entered its current
		// status; only files uploaded after that count as a resubmission.
		revised, err := service.files.HasFileSince(ctx, ownerKindArticle, art.ID, fileTypeManuscript, art.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if !revised {
			return nil, apperr.GuardFailed("A revised manuscript must be uploaded before resubmission")
		}
		if err := service.repo.UpdateStatus(ctx, art.ID, from, req.Target, principal.UserID, req.Note); err != nil {
			return nil, err
		}

	case guardProductionFile:
		ready, err := service.files.HasFileSince(ctx, ownerKindArticle, art.ID, fileTypeProductionPDF, time.Time{})
		if err != nil {
			return nil, err
		}
		if !ready {
			return nil, apperr.GuardFailed("A production PDF must be attached before publication")
		}
		if err := service.repo.UpdateStatus(ctx, art.ID, from, req.Target, principal.UserID, req.Note); err != nil {
			return nil, err
		}
	}

	metrics.ArticleTransitionsTotal.WithLabelValues(string(from), string(req.Target)).Inc()
	service.logger.Info("article_transitioned",
		slog.String("article_id", art.ID),
		slog.String("from", string(from)),
		slog.String("to", string(req.Target)),
		slog.String("actor_id", principal.UserID),
	)

	return service.repo.Get(ctx, art.ID)
}

// hasDecisionBasis reports whether the article is decidable: at least one
// submitted review, or a council majority.
func (service *Service) hasDecisionBasis(ctx context.Context, articleID string) (bool, error) {
	reviewed, err := service.reviews.HasSubmittedReview(ctx, articleID)
	if err != nil {
		return false, err
	}
	if reviewed {
		return true, nil
	}
	return service.council.MajorityReached(ctx, articleID)
}

// decisionForStatus maps a decision-bearing target status back to its decision.
func decisionForStatus(target Status) (Decision, bool) {
	switch target {
	case StatusAccepted:
		return DecisionAccept, true
	case StatusRevisionMinor:
		return DecisionMinor, true
	case StatusRevisionMajor:
		return DecisionMajor, true
	case StatusRejected:
		return DecisionReject, true
	}
	return "", false
}
