// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package issue_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerline/peerline/internal/core/issue"
	"github.com/peerline/peerline/internal/platform/apperr"
	"github.com/peerline/peerline/internal/platform/dberr"
	"github.com/peerline/peerline/internal/platform/sec"
)

// fakeRepo is an in-memory issue repository with conditional writes.
type fakeRepo struct {
	issues map[string]*issue.Issue
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{issues: make(map[string]*issue.Issue)}
}

func (r *fakeRepo) Create(_ context.Context, i *issue.Issue) error {
	now := time.Now()
	i.CreatedAt, i.UpdatedAt = now, now
	copied := *i
	r.issues[i.ID] = &copied
	return nil
}

func (r *fakeRepo) Get(_ context.Context, id string) (*issue.Issue, error) {
	stored, ok := r.issues[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeRepo) List(_ context.Context, journalID string, _, _ int) ([]*issue.Issue, int, error) {
	var out []*issue.Issue
	for _, i := range r.issues {
		if journalID == "" || i.JournalID == journalID {
			copied := *i
			out = append(out, &copied)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id string, from, to issue.Status) error {
	stored := r.issues[id]
	if stored.Status != from {
		return issue.ErrStaleStatus
	}
	stored.Status = to
	stored.UpdatedAt = time.Now()
	return nil
}

// fakeGate answers the production-file guard from a fixed value.
type fakeGate struct {
	hasProduction bool
}

func (g *fakeGate) HasFileSince(_ context.Context, _, _, _ string, _ time.Time) (bool, error) {
	return g.hasProduction, nil
}

func newTestService(t *testing.T) (*issue.Service, *fakeRepo, *fakeGate) {
	t.Helper()
	repo := newFakeRepo()
	gate := &fakeGate{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return issue.NewService(repo, gate, logger), repo, gate
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, code, appErr.Code)
}

var (
	manager     = sec.Principal{UserID: "u-mgr", Roles: []sec.Role{sec.RoleManager}}
	proofreader = sec.Principal{UserID: "u-proof", Roles: []sec.Role{sec.RoleProofreader}}
)

/*
TestService_Create verifies issue registration and slug derivation.
*/
func TestService_Create(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	record, err := service.Create(ctx, manager, issue.CreateInput{
		JournalID: "jrn-1",
		Title:     "2026 Vol 12 No 3",
	})
	require.NoError(t, err)
	assert.Equal(t, issue.StatusDraft, record.Status)
	assert.Equal(t, "2026-vol-12-no-3", record.Slug)

	// Authors cannot create issues
	author := sec.Principal{UserID: "u-author", Roles: []sec.Role{sec.RoleAuthor}}
	_, err = service.Create(ctx, author, issue.CreateInput{JournalID: "jrn-1", Title: "x"})
	assertCode(t, err, "FORBIDDEN")
}

/*
TestService_PublishGate walks the production chain, covering the file guard
end to end: publish rejected with zero files, accepted after attaching one.
*/
func TestService_PublishGate(t *testing.T) {
	service, _, gate := newTestService(t)
	ctx := context.Background()

	record, err := service.Create(ctx, manager, issue.CreateInput{JournalID: "jrn-1", Title: "Vol 1"})
	require.NoError(t, err)

	// 1. Publish straight from draft is illegal
	_, err = service.Transition(ctx, proofreader, record.ID, issue.StatusPublished)
	assertCode(t, err, "ILLEGAL_TRANSITION")

	// 2. Into production
	moved, err := service.Transition(ctx, proofreader, record.ID, issue.StatusInProduction)
	require.NoError(t, err)
	assert.Equal(t, issue.StatusInProduction, moved.Status)

	// 3. Publish without a production PDF is guarded
	_, err = service.Transition(ctx, proofreader, record.ID, issue.StatusPublished)
	assertCode(t, err, "GUARD_FAILED")

	// 4. With the file attached, publish succeeds
	gate.hasProduction = true
	published, err := service.Transition(ctx, proofreader, record.ID, issue.StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, issue.StatusPublished, published.Status)

	// 5. Published is terminal
	_, err = service.Transition(ctx, proofreader, record.ID, issue.StatusInProduction)
	assertCode(t, err, "ILLEGAL_TRANSITION")
}

/*
TestService_ForceToProduction verifies the idempotent shortcut.
*/
func TestService_ForceToProduction(t *testing.T) {
	service, _, gate := newTestService(t)
	ctx := context.Background()

	record, err := service.Create(ctx, manager, issue.CreateInput{JournalID: "jrn-1", Title: "Vol 2"})
	require.NoError(t, err)

	// 1. From draft it moves
	forced, err := service.ForceToProduction(ctx, proofreader, record.ID)
	require.NoError(t, err)
	assert.Equal(t, issue.StatusInProduction, forced.Status)

	// 2. Calling again is a no-op, not an error
	again, err := service.ForceToProduction(ctx, proofreader, record.ID)
	require.NoError(t, err)
	assert.Equal(t, issue.StatusInProduction, again.Status)

	// 3. Even a published issue is left untouched
	gate.hasProduction = true
	_, err = service.Transition(ctx, proofreader, record.ID, issue.StatusPublished)
	require.NoError(t, err)
	final, err := service.ForceToProduction(ctx, proofreader, record.ID)
	require.NoError(t, err)
	assert.Equal(t, issue.StatusPublished, final.Status)

	// 4. Role gate applies
	author := sec.Principal{UserID: "u-author", Roles: []sec.Role{sec.RoleAuthor}}
	_, err = service.ForceToProduction(ctx, author, record.ID)
	assertCode(t, err, "FORBIDDEN")
}
