// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package attachment

import (
	"context"
	"time"
)

// Repository is the persistence contract for file metadata.
type Repository interface {
	Create(ctx context.Context, a *Attachment) error
	Get(ctx context.Context, id string) (*Attachment, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerKind OwnerKind, ownerID string) ([]*Attachment, error)

	// ExistsSince reports whether the owner has at least one file of the
	// type uploaded strictly after the cutoff. A zero cutoff means any.
	ExistsSince(ctx context.Context, ownerKind OwnerKind, ownerID string, fileType Type, since time.Time) (bool, error)
}
