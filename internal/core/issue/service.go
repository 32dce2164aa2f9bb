// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package issue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/peerline/peerline/internal/platform/apperr"
	"github.com/peerline/peerline/internal/platform/metrics"
	"github.com/peerline/peerline/internal/platform/sec"
	"github.com/peerline/peerline/internal/platform/validate"
	"github.com/peerline/peerline/pkg/slug"
	"github.com/peerline/peerline/pkg/uuidv7"
)

// creatorRoles may create issues.
var creatorRoles = []sec.Role{sec.RoleSecretary, sec.RoleManager, sec.RoleChiefEditor}

// producerRoles may move issues through production and publication.
var producerRoles = []sec.Role{sec.RoleProofreader, sec.RoleManager}

// FileGate answers the production-file guard. Satisfied by the attachment
// service.
type FileGate interface {
	HasFileSince(ctx context.Context, ownerKind, ownerID, fileType string, since time.Time) (bool, error)
}

const (
	ownerKindIssue        = "issue"
	fileTypeProductionPDF = "production_pdf"
)

// Service orchestrates the issue pipeline.
type Service struct {
	repo   Repository
	files  FileGate
	logger *slog.Logger
}

// NewService constructs the issue service.
func NewService(repo Repository, files FileGate, logger *slog.Logger) *Service {
	return &Service{repo: repo, files: files, logger: logger}
}

// CreateInput holds a new issue's data.
type CreateInput struct {
	JournalID string
	Title     string
}

// Create registers a new issue in draft.
func (service *Service) Create(ctx context.Context, principal sec.Principal, input CreateInput) (*Issue, error) {
	if !principal.HasAny(creatorRoles...) {
		return nil, apperr.Forbidden("Only editorial staff may create issues")
	}

	validator := &validate.Validator{}
	validator.Required(FieldJournalID, input.JournalID).
		Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 300)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	record := &Issue{
		ID:        uuidv7.New(),
		JournalID: input.JournalID,
		Title:     input.Title,
		Slug:      slug.From(input.Title),
		Status:    StatusDraft,
	}
	if err := service.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	service.logger.Info("issue_created",
		slog.String("issue_id", record.ID),
		slog.String("journal_id", record.JournalID),
	)
	return record, nil
}

// Get returns a single issue by id.
func (service *Service) Get(ctx context.Context, id string) (*Issue, error) {
	return service.repo.Get(ctx, id)
}

// List returns a journal's issues, paginated.
func (service *Service) List(ctx context.Context, journalID string, limit, offset int) ([]*Issue, int, error) {
	return service.repo.List(ctx, journalID, limit, offset)
}

// Transition attempts one pipeline move.
//
// The only legal chain is draft -> in_production -> published, and
// publication requires a production PDF on the issue.
func (service *Service) Transition(ctx context.Context, principal sec.Principal, issueID string, target Status) (*Issue, error) {
	if _, ok := ParseStatus(string(target)); !ok {
		return nil, validate.RequiredError(FieldTarget, "Unknown target status")
	}
	if !principal.HasAny(producerRoles...) {
		return nil, apperr.Forbidden("Only production staff may move issues")
	}

	record, err := service.repo.Get(ctx, issueID)
	if err != nil {
		return nil, err
	}

	next, ok := record.Status.next()
	if !ok || next != target {
		return nil, errIllegalTransition(record.Status, target)
	}

	if target == StatusPublished {
		ready, err := service.files.HasFileSince(ctx, ownerKindIssue, issueID, fileTypeProductionPDF, time.Time{})
		if err != nil {
			return nil, err
		}
		if !ready {
			return nil, apperr.GuardFailed("A production PDF must be attached before the issue can publish")
		}
	}

	if err := service.repo.UpdateStatus(ctx, issueID, record.Status, target); err != nil {
		if errors.Is(err, ErrStaleStatus) {
			fresh, readErr := service.repo.Get(ctx, issueID)
			if readErr != nil {
				return nil, readErr
			}
			return nil, errIllegalTransition(fresh.Status, target)
		}
		return nil, err
	}

	metrics.IssueTransitionsTotal.WithLabelValues(string(record.Status), string(target)).Inc()
	service.logger.Info("issue_transitioned",
		slog.String("issue_id", issueID),
		slog.String("from", string(record.Status)),
		slog.String("to", string(target)),
	)
	return service.repo.Get(ctx, issueID)
}

// ForceToProduction puts the issue in production, idempotently. An issue
// already in production or published is left untouched and returned as is.
func (service *Service) ForceToProduction(ctx context.Context, principal sec.Principal, issueID string) (*Issue, error) {
	if !principal.HasAny(producerRoles...) {
		return nil, apperr.Forbidden("Only production staff may move issues")
	}

	record, err := service.repo.Get(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if record.Status != StatusDraft {
		return record, nil
	}

	err = service.repo.UpdateStatus(ctx, issueID, StatusDraft, StatusInProduction)
	if err != nil && !errors.Is(err, ErrStaleStatus) {
		return nil, err
	}
	// A concurrent force just means someone else got there first, which is
	// the outcome we wanted anyway.

	metrics.IssueTransitionsTotal.WithLabelValues(string(StatusDraft), string(StatusInProduction)).Inc()
	return service.repo.Get(ctx, issueID)
}

// errIllegalTransition mirrors the article lifecycle's conflict shape.
func errIllegalTransition(from, to Status) *apperr.AppError {
	return apperr.New(
		"ILLEGAL_TRANSITION",
		http.StatusConflict,
		fmt.Sprintf("No transition from '%s' to '%s'", from, to),
	)
}
