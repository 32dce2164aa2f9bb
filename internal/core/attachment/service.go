// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package attachment

import (
	"context"
	"log/slog"
	"time"

	"github.com/peerline/peerline/internal/platform/apperr"
	"github.com/peerline/peerline/internal/platform/sec"
	"github.com/peerline/peerline/internal/platform/validate"
	"github.com/peerline/peerline/pkg/uuidv7"
)

// uploaderRoles may register files. Authors upload manuscripts and
// responses; staff and proofreaders upload everything else.
var uploaderRoles = []sec.Role{
	sec.RoleAuthor, sec.RoleSecretary, sec.RoleManager,
	sec.RoleProofreader, sec.RoleChiefEditor,
}

// deleterRoles may remove file records.
var deleterRoles = []sec.Role{
	sec.RoleSecretary, sec.RoleManager, sec.RoleProofreader, sec.RoleChiefEditor,
}

// Service manages file metadata records.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs the attachment service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// AttachInput holds a new file record's data.
type AttachInput struct {
	FileType string
	Locator  string
}

// Attach registers a file against an owner entity.
func (service *Service) Attach(ctx context.Context, principal sec.Principal, ownerKind OwnerKind, ownerID string, input AttachInput) (*Attachment, error) {
	if !principal.HasAny(uploaderRoles...) {
		return nil, apperr.Forbidden("Your role may not upload files")
	}

	validator := &validate.Validator{}
	validator.Required(FieldFileType, input.FileType).
		OneOf(FieldFileType, input.FileType, Types()...).
		Required(FieldLocator, input.Locator).MaxLen(FieldLocator, input.Locator, 1000)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	record := &Attachment{
		ID:         uuidv7.New(),
		OwnerKind:  ownerKind,
		OwnerID:    ownerID,
		FileType:   Type(input.FileType),
		Locator:    input.Locator,
		UploadedBy: principal.UserID,
	}
	if err := service.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	service.logger.Info("file_attached",
		slog.String("attachment_id", record.ID),
		slog.String("owner_kind", string(ownerKind)),
		slog.String("owner_id", ownerID),
		slog.String("file_type", input.FileType),
	)
	return record, nil
}

// Delete removes a file record. The uploader may remove their own upload;
// staff may remove any.
func (service *Service) Delete(ctx context.Context, principal sec.Principal, id string) error {
	record, err := service.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if principal.UserID != record.UploadedBy && !principal.HasAny(deleterRoles...) {
		return apperr.Forbidden("You may only remove your own uploads")
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.Info("file_deleted",
		slog.String("attachment_id", id),
		slog.String("actor_id", principal.UserID),
	)
	return nil
}

// List returns an owner's file records, upload order.
func (service *Service) List(ctx context.Context, ownerKind OwnerKind, ownerID string) ([]*Attachment, error) {
	return service.repo.ListByOwner(ctx, ownerKind, ownerID)
}

// HasFileSince reports whether the owner carries a file of the given type
// uploaded after the cutoff. The lifecycle controllers consume this for
// their file-presence guards; unknown labels simply report absent.
func (service *Service) HasFileSince(ctx context.Context, ownerKind, ownerID, fileType string, since time.Time) (bool, error) {
	kind, ok := ParseOwnerKind(ownerKind)
	if !ok {
		return false, nil
	}
	parsedType, ok := ParseType(fileType)
	if !ok {
		return false, nil
	}
	return service.repo.ExistsSince(ctx, kind, ownerID, parsedType, since)
}
