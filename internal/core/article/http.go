// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package article

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/peerline/peerline/internal/platform/request"
	"github.com/peerline/peerline/internal/platform/respond"
	"github.com/peerline/peerline/pkg/pagination"
)

// Handler exposes article operations over HTTP.
type Handler struct {
	service *Service
}

// NewHandler builds the article HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts article routes on the given router. The router is
// expected to already carry authentication middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{articleID}", h.get)
	r.Get("/{articleID}/history", h.history)
	r.Post("/{articleID}/transition", h.transition)
}

type createRequest struct {
	JournalID string `json:"journal_id"`
	Title     string `json:"title"`
	Abstract  string `json:"abstract"`
	Keywords  string `json:"keywords"`
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

	art, err := h.service.Create(r.Context(), principal, CreateInput{
		JournalID: body.JournalID,
		Title:     body.Title,
		Abstract:  body.Abstract,
		Keywords:  body.Keywords,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, art)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	art, err := h.service.Get(r.Context(), requestutil.ID(r, "articleID"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, art)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromRequest(r)

	f := Filter{
		JournalID: r.URL.Query().Get("journal_id"),
		AuthorID:  r.URL.Query().Get("author_id"),
		Status:    Status(r.URL.Query().Get("status")),
	}

	articles, total, err := h.service.List(r.Context(), f, page.Limit, page.Offset())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Paginated(w, articles, pagination.NewMeta(page.Page, page.Limit, total))
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	changes, err := h.service.History(r.Context(), requestutil.ID(r, "articleID"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, changes)
}

type transitionRequest struct {
	Target    string     `json:"target"`
	Checklist *Screening `json:"screening,omitempty"`
	Note      string     `json:"note,omitempty"`
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

	art, err := h.service.Transition(r.Context(), principal, requestutil.ID(r, "articleID"), TransitionRequest{
		Target:    Status(body.Target),
		Checklist: body.Checklist,
		Note:      body.Note,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, art)
}
