// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package review

import (
	"fmt"
	"net/http"

	"github.com/peerline/peerline/internal/platform/apperr"
)

// errDuplicateAssignment reports that the reviewer already holds an active
// (non-declined) assignment for the article.
func errDuplicateAssignment(reviewerID string) *apperr.AppError {
	return apperr.New(
		"DUPLICATE_ASSIGNMENT",
		http.StatusConflict,
		fmt.Sprintf("Reviewer '%s' already has an active assignment for this article", reviewerID),
	)
}

// errInvalidState reports an operation against an assignment whose status
// does not permit it.
func errInvalidState(current Status, operation string) *apperr.AppError {
	return apperr.New(
		"INVALID_ASSIGNMENT_STATE",
		http.StatusConflict,
		fmt.Sprintf("Cannot %s an assignment in status '%s'", operation, current),
	)
}
