// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package issue

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/peerline/peerline/internal/platform/request"
	"github.com/peerline/peerline/internal/platform/respond"
	"github.com/peerline/peerline/pkg/pagination"
)

// Handler exposes issue operations over HTTP.
type Handler struct {
	service *Service
}

// NewHandler builds the issue HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts issue routes on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{issueID}", h.get)
	r.Post("/{issueID}/transition", h.transition)
	r.Post("/{issueID}/production", h.forceToProduction)
}

type createRequest struct {
	JournalID string `json:"journal_id"`
	Title     string `json:"title"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal, err := requestutil.RequiredPrincipal(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var body createRequest
	if err := requestutil.DecodeJSON(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}

	record, err := h.service.Create(r.Context(), principal, CreateInput{
		JournalID: body.JournalID,
		Title:     body.Title,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, record)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Get(r.Context(), requestutil.ID(r, "issueID"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, record)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromRequest(r)

	issues, total, err := h.service.List(r.Context(), r.URL.Query().Get("journal_id"), page.Limit, page.Offset())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Paginated(w, issues, pagination.NewMeta(page.Page, page.Limit, total))
}

type transitionRequest struct {
	Target string `json:"target"`
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request) {
	principal, err := requestutil.RequiredPrincipal(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var body transitionRequest
	if err := requestutil.DecodeJSON(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}

	record, err := h.service.Transition(r.Context(), principal, requestutil.ID(r, "issueID"), Status(body.Target))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, record)
}

func (h *Handler) forceToProduction(w http.ResponseWriter, r *http.Request) {
	principal, err := requestutil.RequiredPrincipal(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	record, err := h.service.ForceToProduction(r.Context(), principal, requestutil.ID(r, "issueID"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, record)
}
