// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package council

import (
	"context"
	"errors"
	"log/slog"

	"github.com/peerline/peerline/internal/core/article"
	"github.com/peerline/peerline/internal/platform/apperr"
	"github.com/peerline/peerline/internal/platform/dberr"
	"github.com/peerline/peerline/internal/platform/metrics"
	"github.com/peerline/peerline/internal/platform/sec"
	"github.com/peerline/peerline/internal/platform/validate"
	"github.com/peerline/peerline/pkg/uuidv7"
)

// rosterRoles may manage council membership.
var rosterRoles = []sec.Role{sec.RoleManager, sec.RoleChiefEditor}

// finalizerRoles may finalize a decision.
var finalizerRoles = []sec.Role{sec.RoleChiefEditor}

// tallyReaderRoles may read an article's tally.
var tallyReaderRoles = []sec.Role{
	sec.RoleCouncil, sec.RoleSecretary, sec.RoleManager, sec.RoleChiefEditor,
}

// Service orchestrates council voting and finalization.
type Service struct {
	repo   Repository
	cache  TallyCache
	logger *slog.Logger
}

// NewService constructs the council service.
func NewService(repo Repository, cache TallyCache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// # Voting

// CastInput is a member's vote payload.
type CastInput struct {
	Value   string
	Comment string
}

// CastVote records or replaces the caller's vote on an article.
//
// The caller must hold the council role AND sit on the roster of the
// article's journal. Voting on an already-finalized article is a conflict.
func (service *Service) CastVote(ctx context.Context, principal sec.Principal, articleID string, input CastInput) (*Vote, error) {
	if !principal.Has(sec.RoleCouncil) {
		return nil, apperr.Forbidden("Only council members may vote")
	}

	validator := &validate.Validator{}
	validator.Required(FieldValue, input.Value).
		OneOf(FieldValue, input.Value, article.Decisions()...)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	ref, err := service.repo.ArticleRef(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if ref.FinalDecision != nil {
		return nil, apperr.Conflict("The decision for this article is already finalized")
	}

	member, err := service.repo.MemberByUser(ctx, ref.JournalID, principal.UserID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.Forbidden("You are not on this journal's council roster")
		}
		return nil, err
	}

	vote := &Vote{
		ID:        uuidv7.New(),
		ArticleID: articleID,
		MemberID:  member.ID,
		Value:     article.Decision(input.Value),
		Comment:   input.Comment,
	}
	if err := service.repo.UpsertVote(ctx, vote); err != nil {
		// The store re-checks under the article row lock, so a finalize
		// that commits after the ArticleRef read above still wins.
		if errors.Is(err, ErrArticleFinalized) {
			return nil, apperr.Conflict("The decision for this article is already finalized")
		}
		return nil, err
	}

	// The cached tally is stale the moment a vote lands.
	service.cache.Invalidate(ctx, articleID)

	metrics.VotesCastTotal.WithLabelValues(input.Value).Inc()
	service.logger.Info("council_vote_cast",
		slog.String("article_id", articleID),
		slog.String("member_id", member.ID),
		slog.String("value", input.Value),
	)
	return vote, nil
}

// Tally returns the article's current voting state.
func (service *Service) Tally(ctx context.Context, principal sec.Principal, articleID string) (*Tally, error) {
	if !principal.HasAny(tallyReaderRoles...) {
		return nil, apperr.Forbidden("Only editorial staff and council members may read the tally")
	}

	if cached, ok := service.cache.Get(ctx, articleID); ok {
		return cached, nil
	}

	tally, err := service.computeTally(ctx, articleID)
	if err != nil {
		return nil, err
	}

	service.cache.Set(ctx, articleID, *tally)
	return tally, nil
}

// computeTally rebuilds the tally from the roster and vote set.
func (service *Service) computeTally(ctx context.Context, articleID string) (*Tally, error) {
	ref, err := service.repo.ArticleRef(ctx, articleID)
	if err != nil {
		return nil, err
	}
	memberCount, err := service.repo.CountMembers(ctx, ref.JournalID)
	if err != nil {
		return nil, err
	}
	votes, err := service.repo.ListVotes(ctx, articleID)
	if err != nil {
		return nil, err
	}

	tally := Compute(memberCount, votes)
	return &tally, nil
}

// MajorityReached reports whether the council carries a strict majority.
// The lifecycle controller consumes this as its decision basis.
func (service *Service) MajorityReached(ctx context.Context, articleID string) (bool, error) {
	tally, err := service.computeTally(ctx, articleID)
	if err != nil {
		return false, err
	}
	return tally.MajorityReached, nil
}

// # Finalization

// Finalize stamps the article's decision from the vote leader, or from an
// explicit override.
//
// Finalizing an already-finalized article is a no-op returning the stored
// decision; concurrent staff clicking finalize both get the same answer.
// Without an override, the tally must have reached majority.
func (service *Service) Finalize(ctx context.Context, principal sec.Principal, articleID string, override *article.Decision) (*FinalizeResult, error) {
	if !principal.HasAny(finalizerRoles...) {
		return nil, apperr.Forbidden("Only the chief editor may finalize a decision")
	}
	if override != nil {
		if _, ok := article.ParseDecision(string(*override)); !ok {
			return nil, validate.RequiredError(FieldDecision, "Unknown decision value")
		}
	}

	result, err := service.repo.Finalize(ctx, articleID, principal.UserID, func(snapshot FinalizeSnapshot) (article.Decision, error) {
		if snapshot.Status != article.StatusUnderReview {
			return "", apperr.Conflict("Only articles under review can be finalized")
		}
		if override != nil {
			return *override, nil
		}
		tally := Compute(snapshot.MemberCount, snapshot.Votes)
		if !tally.MajorityReached {
			return "", apperr.GuardFailed("The council has not reached a majority")
		}
		return tally.Leader, nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyFinalized {
		service.cache.Invalidate(ctx, articleID)
		metrics.FinalizationsTotal.WithLabelValues(string(result.Decision)).Inc()
		service.logger.Info("decision_finalized",
			slog.String("article_id", articleID),
			slog.String("decision", string(result.Decision)),
			slog.Bool("override", override != nil),
		)
	}
	return result, nil
}

// # Roster Management

// MemberInput holds the data for a new roster entry.
type MemberInput struct {
	UserID    string
	Name      string
	RoleLabel string
}

// AddMember puts a user on a journal's council roster.
func (service *Service) AddMember(ctx context.Context, principal sec.Principal, journalID string, input MemberInput) (*Member, error) {
	if !principal.HasAny(rosterRoles...) {
		return nil, apperr.Forbidden("Only managers may change the council roster")
	}

	validator := &validate.Validator{}
	validator.Required(FieldUserID, input.UserID).UUID(FieldUserID, input.UserID).
		Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	member := &Member{
		ID:        uuidv7.New(),
		JournalID: journalID,
		UserID:    input.UserID,
		Name:      input.Name,
		RoleLabel: input.RoleLabel,
	}
	if err := service.repo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	service.logger.Info("council_member_added",
		slog.String("journal_id", journalID),
		slog.String("member_id", member.ID),
	)
	return member, nil
}

// RemoveMember takes a member off the roster. Past votes are kept; quorum
// shrinks from the next tally on.
func (service *Service) RemoveMember(ctx context.Context, principal sec.Principal, journalID, memberID string) error {
	if !principal.HasAny(rosterRoles...) {
		return apperr.Forbidden("Only managers may change the council roster")
	}
	return service.repo.RemoveMember(ctx, journalID, memberID)
}

// ListMembers returns a journal's council roster.
func (service *Service) ListMembers(ctx context.Context, principal sec.Principal, journalID string) ([]*Member, error) {
	if !principal.HasAny(tallyReaderRoles...) {
		return nil, apperr.Forbidden("Only editorial staff and council members may read the roster")
	}
	return service.repo.ListMembers(ctx, journalID)
}
