// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package attachment_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerline/peerline/internal/core/attachment"
	"github.com/peerline/peerline/internal/platform/apperr"
	"github.com/peerline/peerline/internal/platform/dberr"
	"github.com/peerline/peerline/internal/platform/sec"
)

// fakeRepo is an in-memory attachment repository.
type fakeRepo struct {
	records map[string]*attachment.Attachment
	clock   time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records: make(map[string]*attachment.Attachment),
		clock:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (r *fakeRepo) Create(_ context.Context, a *attachment.Attachment) error {
	r.clock = r.clock.Add(time.Minute)
	a.UploadedAt = r.clock
	copied := *a
	r.records[a.ID] = &copied
	return nil
}

func (r *fakeRepo) Get(_ context.Context, id string) (*attachment.Attachment, error) {
	stored, ok := r.records[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.records[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *fakeRepo) ListByOwner(_ context.Context, ownerKind attachment.OwnerKind, ownerID string) ([]*attachment.Attachment, error) {
	var out []*attachment.Attachment
	for _, a := range r.records {
		if a.OwnerKind == ownerKind && a.OwnerID == ownerID {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeRepo) ExistsSince(_ context.Context, ownerKind attachment.OwnerKind, ownerID string, fileType attachment.Type, since time.Time) (bool, error) {
	for _, a := range r.records {
		if a.OwnerKind == ownerKind && a.OwnerID == ownerID && a.FileType == fileType && a.UploadedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func newTestService(t *testing.T) (*attachment.Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return attachment.NewService(repo, logger), repo
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, code, appErr.Code)
}

/*
TestService_Attach verifies upload validation and the closed type enum.
*/
func TestService_Attach(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	author := sec.Principal{UserID: "u-author", Roles: []sec.Role{sec.RoleAuthor}}

	// 1. Valid upload
	record, err := service.Attach(ctx, author, attachment.OwnerArticle, "art-1", attachment.AttachInput{
		FileType: "manuscript",
		Locator:  "s3://journal-uploads/art-1/manuscript-v1.docx",
	})
	require.NoError(t, err)
	assert.Equal(t, attachment.TypeManuscript, record.FileType)
	assert.Equal(t, "u-author", record.UploadedBy)

	// 2. Unknown file types are rejected at the boundary
	_, err = service.Attach(ctx, author, attachment.OwnerArticle, "art-1", attachment.AttachInput{
		FileType: "screenshot",
		Locator:  "s3://x",
	})
	assertCode(t, err, "VALIDATION_ERROR")

	// 3. Reviewers may not upload
	reviewer := sec.Principal{UserID: "u-rev", Roles: []sec.Role{sec.RoleReviewer}}
	_, err = service.Attach(ctx, reviewer, attachment.OwnerArticle, "art-1", attachment.AttachInput{
		FileType: "manuscript",
		Locator:  "s3://x",
	})
	assertCode(t, err, "FORBIDDEN")
}

/*
TestService_Delete verifies the uploader-or-staff deletion rule.
*/
func TestService_Delete(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	author := sec.Principal{UserID: "u-author", Roles: []sec.Role{sec.RoleAuthor}}

	record, err := service.Attach(ctx, author, attachment.OwnerArticle, "art-1", attachment.AttachInput{
		FileType: "supplement",
		Locator:  "s3://journal-uploads/art-1/data.csv",
	})
	require.NoError(t, err)

	// 1. Another author cannot remove it
	other := sec.Principal{UserID: "u-other", Roles: []sec.Role{sec.RoleAuthor}}
	err = service.Delete(ctx, other, record.ID)
	assertCode(t, err, "FORBIDDEN")

	// 2. The secretary can
	secretary := sec.Principal{UserID: "u-sec", Roles: []sec.Role{sec.RoleSecretary}}
	require.NoError(t, service.Delete(ctx, secretary, record.ID))

	// 3. Deleting a missing record is not found
	err = service.Delete(ctx, secretary, record.ID)
	assertCode(t, err, "NOT_FOUND")
}

/*
TestService_HasFileSince verifies the guard query, including the cutoff
semantics the resubmission guard depends on.
*/
func TestService_HasFileSince(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	author := sec.Principal{UserID: "u-author", Roles: []sec.Role{sec.RoleAuthor}}

	record, err := service.Attach(ctx, author, attachment.OwnerArticle, "art-1", attachment.AttachInput{
		FileType: "manuscript",
		Locator:  "s3://journal-uploads/art-1/manuscript-v1.docx",
	})
	require.NoError(t, err)

	// 1. Zero cutoff means any upload counts
	present, err := service.HasFileSince(ctx, "article", "art-1", "manuscript", time.Time{})
	require.NoError(t, err)
	assert.True(t, present)

	// 2. A cutoff after the upload excludes it
	present, err = service.HasFileSince(ctx, "article", "art-1", "manuscript", record.UploadedAt)
	require.NoError(t, err)
	assert.False(t, present, "cutoff is strict")

	// 3. Type and owner are both part of the key
	present, err = service.HasFileSince(ctx, "article", "art-1", "production_pdf", time.Time{})
	require.NoError(t, err)
	assert.False(t, present)
	present, err = service.HasFileSince(ctx, "issue", "art-1", "manuscript", time.Time{})
	require.NoError(t, err)
	assert.False(t, present)

	// 4. Unknown labels report absent rather than erroring
	present, err = service.HasFileSince(ctx, "article", "art-1", "screenshot", time.Time{})
	require.NoError(t, err)
	assert.False(t, present)
}
