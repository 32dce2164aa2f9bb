// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package attachment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/peerline/peerline/internal/platform/request"
	"github.com/peerline/peerline/internal/platform/respond"
)

// Handler exposes file registry operations over HTTP.
type Handler struct {
	service *Service
}

// NewHandler builds the attachment HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterArticleRoutes mounts file routes nested under an article.
func (h *Handler) RegisterArticleRoutes(r chi.Router) {
	r.Post("/{articleID}/files", h.attachTo(OwnerArticle, "articleID"))
	r.Get("/{articleID}/files", h.listOf(OwnerArticle, "articleID"))
}

// RegisterIssueRoutes mounts file routes nested under an issue.
func (h *Handler) RegisterIssueRoutes(r chi.Router) {
	r.Post("/{issueID}/files", h.attachTo(OwnerIssue, "issueID"))
	r.Get("/{issueID}/files", h.listOf(OwnerIssue, "issueID"))
}

// RegisterRoutes mounts the file-scoped routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Delete("/{fileID}", h.delete)
}

type attachRequest struct {
	FileType string `json:"file_type"`
	Locator  string `json:"locator"`
}

// attachTo builds an upload handler bound to one owner kind.
func (h *Handler) attachTo(kind OwnerKind, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := requestutil.RequiredPrincipal(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		var body attachRequest
		if err := requestutil.DecodeJSON(r, &body); err != nil {
			respond.Error(w, r, err)
			return
		}

		record, err := h.service.Attach(r.Context(), principal, kind, requestutil.ID(r, param), AttachInput{
			FileType: body.FileType,
			Locator:  body.Locator,
		})
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.Created(w, record)
	}
}

// listOf builds a listing handler bound to one owner kind.
func (h *Handler) listOf(kind OwnerKind, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := h.service.List(r.Context(), kind, requestutil.ID(r, param))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.OK(w, records)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	principal, err := requestutil.RequiredPrincipal(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), principal, requestutil.ID(r, "fileID")); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}
