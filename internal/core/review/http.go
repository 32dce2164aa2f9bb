// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package review

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/peerline/peerline/internal/platform/request"
	"github.com/peerline/peerline/internal/platform/respond"
	"github.com/peerline/peerline/internal/platform/validate"
	"github.com/peerline/peerline/pkg/pagination"
)

// Handler exposes assignment operations over HTTP.
type Handler struct {
	service *Service
}

// NewHandler builds the review HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterArticleRoutes mounts assignment routes nested under an article.
func (h *Handler) RegisterArticleRoutes(r chi.Router) {
	r.Post("/{articleID}/assignments", h.assign)
	r.Get("/{articleID}/assignments", h.listByArticle)
}

// RegisterRoutes mounts the assignment-scoped routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listMine)
	r.Post("/{assignmentID}/respond", h.respond)
	r.Post("/{assignmentID}/review", h.submitReview)
}

type assignRequest struct {
	ReviewerID string     `json:"reviewer_id"`
	DueAt      *time.Time `json:"due_at,omitempty"`
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	principal, err := requestutil.RequiredPrincipal(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var body assignRequest
	if err := requestutil.DecodeJSON(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}

	input := AssignInput{ReviewerID: body.ReviewerID}
	if body.DueAt != nil {
		input.DueAt = *body.DueAt
	}

	assignment, err := h.service.Assign(r.Context(), principal, requestutil.ID(r, "articleID"), input)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, assignment)
}

func (h *Handler) listByArticle(w http.ResponseWriter, r *http.Request) {
	principal, err := requestutil.RequiredPrincipal(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	assignments, err := h.service.ListByArticle(r.Context(), principal, requestutil.ID(r, "articleID"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, assignments)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	principal, err := requestutil.RequiredPrincipal(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	page := pagination.FromRequest(r)
	assignments, total, err := h.service.ListByReviewer(r.Context(), principal, page.Limit, page.Offset())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Paginated(w, assignments, pagination.NewMeta(page.Page, page.Limit, total))
}

type respondRequest struct {
	Accept *bool `json:"accept"`
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request) {
	principal, err := requestutil.RequiredPrincipal(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var body respondRequest
	if err := requestutil.DecodeJSON(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}
	if body.Accept == nil {
		respond.Error(w, r, validate.RequiredError("accept", "The accept field is required"))
		return
	}

	assignment, err := h.service.Respond(r.Context(), principal, requestutil.ID(r, "assignmentID"), *body.Accept)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, assignment)
}

type submitReviewRequest struct {
	Decision             string `json:"decision"`
	Score                *int   `json:"score,omitempty"`
	CommentsPublic       string `json:"comments_public,omitempty"`
	CommentsConfidential string `json:"comments_confidential,omitempty"`
}

func (h *Handler) submitReview(w http.ResponseWriter, r *http.Request) {
	principal, err := requestutil.RequiredPrincipal(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var body submitReviewRequest
	if err := requestutil.DecodeJSON(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}

	assignment, err := h.service.SubmitReview(r.Context(), principal, requestutil.ID(r, "assignmentID"), SubmitInput{
		Decision:             body.Decision,
		Score:                body.Score,
		CommentsPublic:       body.CommentsPublic,
		CommentsConfidential: body.CommentsConfidential,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, assignment)
}
