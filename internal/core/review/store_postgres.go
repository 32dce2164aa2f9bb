// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

/*
PostgreSQL implementation of the assignment repository.

The one-active-assignment invariant is enforced twice: a service-level
pre-check for a friendly error, and a partial unique index on
(articleid, reviewerid) WHERE status <> 'declined' as the authoritative
backstop under concurrency.
*/
package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peerline/peerline/internal/core/article"
	"github.com/peerline/peerline/internal/platform/database/schema"
	"github.com/peerline/peerline/internal/platform/dberr"
)

// assignmentRepository implements the [Repository] interface using pgx.
type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed assignment store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &assignmentRepository{pool: pool}
}

/*
Create inserts a new invitation row.

Description: The partial unique index turns a lost duplicate-check race into
a unique violation, which dberr maps to a conflict.
*/
func (repository *assignmentRepository) Create(ctx context.Context, a *Assignment) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s
	`,
		schema.JournalReviewAssignment.Table,
		schema.JournalReviewAssignment.ID,
		schema.JournalReviewAssignment.ArticleID,
		schema.JournalReviewAssignment.ReviewerID,
		schema.JournalReviewAssignment.Status,
		schema.JournalReviewAssignment.DueAt,
		schema.JournalReviewAssignment.InvitedAt,
		schema.JournalReviewAssignment.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		a.ID, a.ArticleID, a.ReviewerID, a.Status, a.DueAt,
	).Scan(&a.InvitedAt, &a.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "create assignment")
	}
	return nil
}

/*
Get retrieves a single assignment by id.
*/
func (repository *assignmentRepository) Get(ctx context.Context, id string) (*Assignment, error) {

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
	`,
		strings.Join(schema.JournalReviewAssignment.Columns(), ", "),
		schema.JournalReviewAssignment.Table,
		schema.JournalReviewAssignment.ID,
	)

	assignment, err := scanAssignment(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get assignment")
	}
	return assignment, nil
}

/*
ListByArticle returns every assignment on an article, invitation order.
*/
func (repository *assignmentRepository) ListByArticle(ctx context.Context, articleID string) ([]*Assignment, error) {

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		strings.Join(schema.JournalReviewAssignment.Columns(), ", "),
		schema.JournalReviewAssignment.Table,
		schema.JournalReviewAssignment.ArticleID,
		schema.JournalReviewAssignment.InvitedAt,
	)

	rows, err := repository.pool.Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list assignments by article: %w", err)
	}
	defer rows.Close()

	var assignments []*Assignment
	for rows.Next() {
		assignment, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan assignment: %w", err)
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}

/*
ListByReviewer returns one reviewer's assignments, newest invitation first,
with a windowed total count.
*/
func (repository *assignmentRepository) ListByReviewer(ctx context.Context, reviewerID string, limit, offset int) ([]*Assignment, int, error) {

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3
	`,
		strings.Join(schema.JournalReviewAssignment.Columns(), ", "),
		schema.JournalReviewAssignment.Table,
		schema.JournalReviewAssignment.ReviewerID,
		schema.JournalReviewAssignment.InvitedAt,
	)

	rows, err := repository.pool.Query(ctx, query, reviewerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list assignments by reviewer: %w", err)
	}
	defer rows.Close()

	var assignments []*Assignment
	var totalCount int
	for rows.Next() {
		assignment, count, err := scanAssignmentWithCount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan assignment: %w", err)
		}
		totalCount = count
		assignments = append(assignments, assignment)
	}
	return assignments, totalCount, nil
}

/*
HasActive reports whether the reviewer holds a non-declined assignment.
*/
func (repository *assignmentRepository) HasActive(ctx context.Context, articleID, reviewerID string) (bool, error) {

	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE %s = $1 AND %s = $2 AND %s <> $3
		)
	`,
		schema.JournalReviewAssignment.Table,
		schema.JournalReviewAssignment.ArticleID,
		schema.JournalReviewAssignment.ReviewerID,
		schema.JournalReviewAssignment.Status,
	)

	var exists bool
	err := repository.pool.QueryRow(ctx, query, articleID, reviewerID, StatusDeclined).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: failed to check active assignment: %w", err)
	}
	return exists, nil
}

/*
CountSubmitted returns the number of submitted reviews on an article.
*/
func (repository *assignmentRepository) CountSubmitted(ctx context.Context, articleID string) (int, error) {

	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		schema.JournalReviewAssignment.Table,
		schema.JournalReviewAssignment.ArticleID,
		schema.JournalReviewAssignment.Status,
	)

	var count int
	err := repository.pool.QueryRow(ctx, query, articleID, StatusSubmitted).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to count submitted reviews: %w", err)
	}
	return count, nil
}

/*
UpdateResponse conditionally flips an invited assignment to its response
status. Zero affected rows means the assignment was no longer invited.
*/
func (repository *assignmentRepository) UpdateResponse(ctx context.Context, id string, accepted bool) error {

	next := StatusDeclined
	if accepted {
		next = StatusInReview
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = NOW()
		WHERE %s = $2 AND %s = $3
	`,
		schema.JournalReviewAssignment.Table,
		schema.JournalReviewAssignment.Status, schema.JournalReviewAssignment.UpdatedAt,
		schema.JournalReviewAssignment.ID, schema.JournalReviewAssignment.Status,
	)

	result, err := repository.pool.Exec(ctx, query, next, id, StatusInvited)
	if err != nil {
		return fmt.Errorf("postgres: failed to record assignment response: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrStaleState
	}
	return nil
}

/*
SubmitReview conditionally stores the review payload against an in_review
assignment and stamps submitted_at.
*/
func (repository *assignmentRepository) SubmitReview(ctx context.Context, id string, input ReviewInput) error {

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW(), %s = NOW()
		WHERE %s = $6 AND %s = $7
	`,
		schema.JournalReviewAssignment.Table,
		schema.JournalReviewAssignment.Status,
		schema.JournalReviewAssignment.Decision,
		schema.JournalReviewAssignment.Score,
		schema.JournalReviewAssignment.CommentsPublic,
		schema.JournalReviewAssignment.CommentsConfidential,
		schema.JournalReviewAssignment.SubmittedAt,
		schema.JournalReviewAssignment.UpdatedAt,
		schema.JournalReviewAssignment.ID, schema.JournalReviewAssignment.Status,
	)

	result, err := repository.pool.Exec(ctx, query,
		StatusSubmitted, input.Decision, input.Score,
		input.CommentsPublic, input.CommentsConfidential,
		id, StatusInReview,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to submit review: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrStaleState
	}
	return nil
}

// # Row Scanning

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (*Assignment, error) {
	var assignment Assignment
	var decision *string

	err := row.Scan(
		&assignment.ID, &assignment.ArticleID, &assignment.ReviewerID, &assignment.Status,
		&assignment.DueAt, &assignment.Score, &decision,
		&assignment.CommentsPublic, &assignment.CommentsConfidential,
		&assignment.InvitedAt, &assignment.SubmittedAt, &assignment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if decision != nil {
		parsed := article.Decision(*decision)
		assignment.Decision = &parsed
	}
	return &assignment, nil
}

func scanAssignmentWithCount(row rowScanner) (*Assignment, int, error) {
	var assignment Assignment
	var decision *string
	var totalCount int

	err := row.Scan(
		&assignment.ID, &assignment.ArticleID, &assignment.ReviewerID, &assignment.Status,
		&assignment.DueAt, &assignment.Score, &decision,
		&assignment.CommentsPublic, &assignment.CommentsConfidential,
		&assignment.InvitedAt, &assignment.SubmittedAt, &assignment.UpdatedAt,
		&totalCount,
	)
	if err != nil {
		return nil, 0, err
	}

	if decision != nil {
		parsed := article.Decision(*decision)
		assignment.Decision = &parsed
	}
	return &assignment, totalCount, nil
}
