// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package council

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/peerline/peerline/internal/core/article"
	requestutil "github.com/peerline/peerline/internal/platform/request"
	"github.com/peerline/peerline/internal/platform/respond"
)

// Handler exposes voting and roster operations over HTTP.
type Handler struct {
	service *Service
}

// NewHandler builds the council HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterArticleRoutes mounts voting routes nested under an article.
func (h *Handler) RegisterArticleRoutes(r chi.Router) {
	r.Post("/{articleID}/votes", h.castVote)
	r.Get("/{articleID}/votes", h.tally)
	r.Post("/{articleID}/finalize", h.finalize)
}

// RegisterJournalRoutes mounts roster routes nested under a journal.
func (h *Handler) RegisterJournalRoutes(r chi.Router) {
	r.Get("/{journalID}/council", h.listMembers)
	r.Post("/{journalID}/council", h.addMember)
	r.Delete("/{journalID}/council/{memberID}", h.removeMember)
}

type castVoteRequest struct {
	Value   string `json:"value"`
	Comment string `json:"comment,omitempty"`
}

func (h *Handler) castVote(w http.ResponseWriter, r *http.Request) {
	principal, err := requestutil.RequiredPrincipal(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var body castVoteRequest
	if err := requestutil.DecodeJSON(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}

	vote, err := h.service.CastVote(r.Context(), principal, requestutil.ID(r, "articleID"), CastInput{
		Value:   body.Value,
		Comment: body.Comment,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, vote)
}

func (h *Handler) tally(w http.ResponseWriter, r *http.Request) {
	principal, err := requestutil.RequiredPrincipal(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tally, err := h.service.Tally(r.Context(), principal, requestutil.ID(r, "articleID"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, tally)
}

type finalizeRequest struct {
	// Decision is the optional manual override. Absent means "use the
	// vote leader, provided majority is reached".
	Decision *string `json:"decision,omitempty"`
}

func (h *Handler) finalize(w http.ResponseWriter, r *http.Request) {
	principal, err := requestutil.RequiredPrincipal(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var body finalizeRequest
	if err := requestutil.DecodeJSON(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}

	var override *article.Decision
	if body.Decision != nil {
		decision := article.Decision(*body.Decision)
		override = &decision
	}

	result, err := h.service.Finalize(r.Context(), principal, requestutil.ID(r, "articleID"), override)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, result)
}

type addMemberRequest struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	RoleLabel string `json:"role_label,omitempty"`
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	principal, err := requestutil.RequiredPrincipal(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var body addMemberRequest
	if err := requestutil.DecodeJSON(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}

	member, err := h.service.AddMember(r.Context(), principal, requestutil.ID(r, "journalID"), MemberInput{
		UserID:    body.UserID,
		Name:      body.Name,
		RoleLabel: body.RoleLabel,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, member)
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	principal, err := requestutil.RequiredPrincipal(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	err = h.service.RemoveMember(r.Context(), principal, requestutil.ID(r, "journalID"), requestutil.ID(r, "memberID"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	principal, err := requestutil.RequiredPrincipal(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	members, err := h.service.ListMembers(r.Context(), principal, requestutil.ID(r, "journalID"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, members)
}
