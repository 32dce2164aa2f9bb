// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package council_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerline/peerline/internal/core/article"
	"github.com/peerline/peerline/internal/core/council"
	"github.com/peerline/peerline/internal/platform/apperr"
	"github.com/peerline/peerline/internal/platform/dberr"
	"github.com/peerline/peerline/internal/platform/sec"
)

// # Test Doubles

// fakeRepo is an in-memory council repository with upsert and finalize
// semantics matching the Postgres store.
type fakeRepo struct {
	members map[string]*council.Member        // by member id
	votes   map[string]*council.Vote          // by member id + article id
	refs    map[string]*council.ArticleRef    // by article id
	final   map[string]council.FinalizeResult // by article id

	// beforeUpsert, when set, runs at the top of UpsertVote. Tests use it
	// to finalize the article between the service's pre-check and the
	// ballot write.
	beforeUpsert func()

	clock time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		members: make(map[string]*council.Member),
		votes:   make(map[string]*council.Vote),
		refs:    make(map[string]*council.ArticleRef),
		final:   make(map[string]council.FinalizeResult),
		clock:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (r *fakeRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakeRepo) AddMember(_ context.Context, m *council.Member) error {
	m.CreatedAt = r.tick()
	copied := *m
	r.members[m.ID] = &copied
	return nil
}

func (r *fakeRepo) RemoveMember(_ context.Context, journalID, memberID string) error {
	stored, ok := r.members[memberID]
	if !ok || stored.JournalID != journalID {
		return dberr.ErrNotFound
	}
	delete(r.members, memberID)
	return nil
}

func (r *fakeRepo) ListMembers(_ context.Context, journalID string) ([]*council.Member, error) {
	var out []*council.Member
	for _, m := range r.members {
		if m.JournalID == journalID {
			copied := *m
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRepo) CountMembers(_ context.Context, journalID string) (int, error) {
	count := 0
	for _, m := range r.members {
		if m.JournalID == journalID {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) MemberByUser(_ context.Context, journalID, userID string) (*council.Member, error) {
	for _, m := range r.members {
		if m.JournalID == journalID && m.UserID == userID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (r *fakeRepo) ArticleRef(_ context.Context, articleID string) (*council.ArticleRef, error) {
	ref, ok := r.refs[articleID]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *ref
	return &copied, nil
}

func (r *fakeRepo) UpsertVote(_ context.Context, v *council.Vote) error {
	if r.beforeUpsert != nil {
		r.beforeUpsert()
	}

	// Like the Postgres store, the write re-checks the frozen-ballot rule
	// under the article row lock.
	if ref, ok := r.refs[v.ArticleID]; ok && ref.FinalDecision != nil {
		return council.ErrArticleFinalized
	}

	key := v.MemberID + "/" + v.ArticleID
	if existing, ok := r.votes[key]; ok {
		existing.Value = v.Value
		existing.Comment = v.Comment
		existing.UpdatedAt = r.tick()
		*v = *existing
		return nil
	}
	v.CastAt = r.tick()
	v.UpdatedAt = v.CastAt
	copied := *v
	r.votes[key] = &copied
	return nil
}

func (r *fakeRepo) ListVotes(_ context.Context, articleID string) ([]council.Vote, error) {
	var out []council.Vote
	for _, v := range r.votes {
		if v.ArticleID == articleID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CastAt.Before(out[j].CastAt) })
	return out, nil
}

func (r *fakeRepo) Finalize(ctx context.Context, articleID, _ string, decide council.DecideFunc) (*council.FinalizeResult, error) {
	if stored, ok := r.final[articleID]; ok {
		result := stored
		result.AlreadyFinalized = true
		return &result, nil
	}

	ref, ok := r.refs[articleID]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	memberCount, _ := r.CountMembers(ctx, ref.JournalID)
	votes, _ := r.ListVotes(ctx, articleID)

	decision, err := decide(council.FinalizeSnapshot{
		Status:      ref.Status,
		JournalID:   ref.JournalID,
		MemberCount: memberCount,
		Votes:       votes,
	})
	if err != nil {
		return nil, err
	}

	result := council.FinalizeResult{Decision: decision, FinalizedAt: r.tick()}
	r.final[articleID] = result
	ref.Status = decision.Status()
	ref.FinalDecision = &decision
	return &result, nil
}

// countingCache tracks invalidations to verify cache coherence.
type countingCache struct {
	stored      map[string]council.Tally
	invalidated int
	setCount    int
}

func newCountingCache() *countingCache {
	return &countingCache{stored: make(map[string]council.Tally)}
}

func (c *countingCache) Get(_ context.Context, articleID string) (*council.Tally, bool) {
	tally, ok := c.stored[articleID]
	if !ok {
		return nil, false
	}
	return &tally, true
}

func (c *countingCache) Set(_ context.Context, articleID string, tally council.Tally) {
	c.stored[articleID] = tally
	c.setCount++
}

func (c *countingCache) Invalidate(_ context.Context, articleID string) {
	delete(c.stored, articleID)
	c.invalidated++
}

// # Fixtures

const (
	journalID = "jrn-1"
	articleID = "art-1"
)

func newTestService(t *testing.T) (*council.Service, *fakeRepo, *countingCache) {
	t.Helper()
	repo := newFakeRepo()
	cache := newCountingCache()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return council.NewService(repo, cache, logger), repo, cache
}

// seedCouncil enrolls n members and returns their principals.
func seedCouncil(t *testing.T, service *council.Service, repo *fakeRepo, n int) []sec.Principal {
	t.Helper()
	manager := sec.Principal{UserID: "u-mgr", Roles: []sec.Role{sec.RoleManager}}
	principals := make([]sec.Principal, n)
	for i := 0; i < n; i++ {
		userID := "7b6ad544-21c1-7f10-9f0e-1a2b3c4d5e0" + string(rune('0'+i))
		_, err := service.AddMember(context.Background(), manager, journalID, council.MemberInput{
			UserID: userID,
			Name:   "Member " + string(rune('A'+i)),
		})
		require.NoError(t, err)
		principals[i] = sec.Principal{UserID: userID, Roles: []sec.Role{sec.RoleCouncil}}
	}
	repo.refs[articleID] = &council.ArticleRef{
		ID: articleID, JournalID: journalID, Status: article.StatusUnderReview,
	}
	return principals
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
TestService_CastVote verifies roster gating, recast semantics, and cache
invalidation.
*/
func TestService_CastVote(t *testing.T) {
	service, repo, cache := newTestService(t)
	ctx := context.Background()
	voters := seedCouncil(t, service, repo, 3)

	// 1. A council member on the roster can vote
	vote, err := service.CastVote(ctx, voters[0], articleID, council.CastInput{Value: "accept"})
	require.NoError(t, err)
	assert.Equal(t, article.DecisionAccept, vote.Value)
	assert.Equal(t, 1, cache.invalidated)

	// 2. Council role without roster membership is rejected
	outsider := sec.Principal{UserID: "u-outsider", Roles: []sec.Role{sec.RoleCouncil}}
	_, err = service.CastVote(ctx, outsider, articleID, council.CastInput{Value: "accept"})
	assertCode(t, err, "FORBIDDEN")

	// 3. Unknown vote values fail validation
	_, err = service.CastVote(ctx, voters[1], articleID, council.CastInput{Value: "maybe"})
	assertCode(t, err, "VALIDATION_ERROR")

	// 4. Recasting replaces the vote, keeping one row and the cast position
	first, err := service.CastVote(ctx, voters[0], articleID, council.CastInput{Value: "reject"})
	require.NoError(t, err)
	votes, err := repo.ListVotes(ctx, articleID)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, article.DecisionReject, votes[0].Value)
	assert.Equal(t, vote.CastAt, first.CastAt, "recast preserves cast_at")
}

/*
TestService_CastVote_LosesRaceToFinalize covers the window between the
service's finalized pre-check and the ballot write. The store re-checks
under the article row lock, so a recast landing after finalization is a
conflict and the stored ballot stays as the decision counted it.
*/
func TestService_CastVote_LosesRaceToFinalize(t *testing.T) {
	service, repo, cache := newTestService(t)
	ctx := context.Background()
	voters := seedCouncil(t, service, repo, 3)

	// 1. An earlier ballot is on record
	_, err := service.CastVote(ctx, voters[0], articleID, council.CastInput{Value: "accept"})
	require.NoError(t, err)
	invalidationsBefore := cache.invalidated

	// 2. Finalization commits after the pre-check but before the write
	decision := article.DecisionAccept
	repo.beforeUpsert = func() {
		repo.refs[articleID].FinalDecision = &decision
	}

	// 3. The recast is rejected as a conflict
	_, err = service.CastVote(ctx, voters[0], articleID, council.CastInput{Value: "reject"})
	assertCode(t, err, "CONFLICT")

	// 4. The counted ballot is untouched and the cached tally still stands
	votes, err := repo.ListVotes(ctx, articleID)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, article.DecisionAccept, votes[0].Value)
	assert.Equal(t, invalidationsBefore, cache.invalidated)
}

/*
TestService_Tally verifies the cached tally path.
*/
func TestService_Tally(t *testing.T) {
	service, repo, cache := newTestService(t)
	ctx := context.Background()
	voters := seedCouncil(t, service, repo, 5)
	chief := sec.Principal{UserID: "u-chief", Roles: []sec.Role{sec.RoleChiefEditor}}

	values := []string{"accept", "accept", "accept", "reject"}
	for i, value := range values {
		_, err := service.CastVote(ctx, voters[i], articleID, council.CastInput{Value: value})
		require.NoError(t, err)
	}

	// 1. First read computes and caches
	tally, err := service.Tally(ctx, chief, articleID)
	require.NoError(t, err)
	assert.Equal(t, 5, tally.TotalMembers)
	assert.Equal(t, 3, tally.Quorum)
	assert.Equal(t, 4, tally.TotalCast)
	assert.True(t, tally.MajorityReached)
	assert.Equal(t, 1, cache.setCount)

	// 2. Second read is served from cache
	again, err := service.Tally(ctx, chief, articleID)
	require.NoError(t, err)
	assert.Equal(t, tally.Leader, again.Leader)
	assert.Equal(t, 1, cache.setCount, "no recompute on cache hit")

	// 3. Authors cannot read the tally
	author := sec.Principal{UserID: "u-author", Roles: []sec.Role{sec.RoleAuthor}}
	_, err = service.Tally(ctx, author, articleID)
	assertCode(t, err, "FORBIDDEN")
}

/*
TestService_Finalize covers the leader path, the majority guard, the manual
override, and idempotence.
*/
func TestService_Finalize(t *testing.T) {
	ctx := context.Background()
	chief := sec.Principal{UserID: "u-chief", Roles: []sec.Role{sec.RoleChiefEditor}}

	// 1. Without majority, finalize without override is guarded
	service, repo, _ := newTestService(t)
	voters := seedCouncil(t, service, repo, 5)
	_, err := service.CastVote(ctx, voters[0], articleID, council.CastInput{Value: "accept"})
	require.NoError(t, err)
	_, err = service.Finalize(ctx, chief, articleID, nil)
	assertCode(t, err, "GUARD_FAILED")

	// 2. With majority, finalize adopts the leader
	for i, value := range []string{"accept", "reject", "accept"} {
		_, err := service.CastVote(ctx, voters[i+1], articleID, council.CastInput{Value: value})
		require.NoError(t, err)
	}
	result, err := service.Finalize(ctx, chief, articleID, nil)
	require.NoError(t, err)
	assert.Equal(t, article.DecisionAccept, result.Decision)
	assert.False(t, result.AlreadyFinalized)
	assert.Equal(t, article.StatusAccepted, repo.refs[articleID].Status)

	// 3. Finalizing again is a no-op returning the stored outcome
	second, err := service.Finalize(ctx, chief, articleID, nil)
	require.NoError(t, err)
	assert.True(t, second.AlreadyFinalized)
	assert.Equal(t, result.Decision, second.Decision)
	assert.Equal(t, result.FinalizedAt, second.FinalizedAt, "finalized_at unchanged")

	// 4. Voting after finalization is a conflict
	_, err = service.CastVote(ctx, voters[4], articleID, council.CastInput{Value: "reject"})
	assertCode(t, err, "CONFLICT")

	// 5. Manual override needs no majority
	service, repo, _ = newTestService(t)
	seedCouncil(t, service, repo, 5)
	override := article.DecisionReject
	result, err = service.Finalize(ctx, chief, articleID, &override)
	require.NoError(t, err)
	assert.Equal(t, article.DecisionReject, result.Decision)

	// 6. Only the chief editor may finalize
	service, repo, _ = newTestService(t)
	seedCouncil(t, service, repo, 5)
	secretary := sec.Principal{UserID: "u-sec", Roles: []sec.Role{sec.RoleSecretary}}
	_, err = service.Finalize(ctx, secretary, articleID, nil)
	assertCode(t, err, "FORBIDDEN")
}

/*
TestService_Roster verifies membership management permissions.
*/
func TestService_Roster(t *testing.T) {
	service, repo, _ := newTestService(t)
	ctx := context.Background()
	manager := sec.Principal{UserID: "u-mgr", Roles: []sec.Role{sec.RoleManager}}
	seedCouncil(t, service, repo, 2)

	members, err := service.ListMembers(ctx, manager, journalID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	// 1. Removing a member shrinks the next tally's quorum input
	err = service.RemoveMember(ctx, manager, journalID, members[0].ID)
	require.NoError(t, err)
	count, err := repo.CountMembers(ctx, journalID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// 2. Authors may not manage the roster
	author := sec.Principal{UserID: "u-author", Roles: []sec.Role{sec.RoleAuthor}}
	_, err = service.AddMember(ctx, author, journalID, council.MemberInput{UserID: members[1].UserID, Name: "X"})
	assertCode(t, err, "FORBIDDEN")
}
