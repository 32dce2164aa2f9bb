// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package issue

import (
	"context"
	"errors"
)

// ErrStaleStatus is returned by conditional status writes when the issue
// moved concurrently.
var ErrStaleStatus = errors.New("issue status changed concurrently")

// Repository is the persistence contract for issues.
type Repository interface {
	Create(ctx context.Context, i *Issue) error
	Get(ctx context.Context, id string) (*Issue, error)
	List(ctx context.Context, journalID string, limit, offset int) ([]*Issue, int, error)

	// UpdateStatus moves the issue from -> to, or returns [ErrStaleStatus].
	UpdateStatus(ctx context.Context, id string, from, to Status) error
}
