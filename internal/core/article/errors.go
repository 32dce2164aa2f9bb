// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package article

import (
	"fmt"
	"net/http"

	"github.com/peerline/peerline/internal/platform/apperr"
)

// Typed lifecycle errors. Every rejected transition reports both a machine
// code and a human-readable reason, and leaves the article unchanged.

// errIllegalTransition reports that the target status is not reachable from
// the current status.
func errIllegalTransition(from, to Status) *apperr.AppError {
	return apperr.New(
		"ILLEGAL_TRANSITION",
		http.StatusConflict,
		fmt.Sprintf("No transition from '%s' to '%s'", from, to),
	)
}

// errTransitionForbidden reports that the caller's role set does not permit
// an otherwise legal transition.
func errTransitionForbidden(to Status) *apperr.AppError {
	return apperr.Forbidden(fmt.Sprintf("Your role does not permit moving the article to '%s'", to))
}
