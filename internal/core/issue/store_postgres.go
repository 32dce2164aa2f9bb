// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package issue

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peerline/peerline/internal/platform/database/schema"
	"github.com/peerline/peerline/internal/platform/dberr"
)

// issueRepository implements the [Repository] interface using pgx.
type issueRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed issue store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &issueRepository{pool: pool}
}

/*
Create inserts a new issue in draft.
*/
func (repository *issueRepository) Create(ctx context.Context, i *Issue) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s
	`,
		schema.JournalIssue.Table,
		schema.JournalIssue.ID,
		schema.JournalIssue.JournalID,
		schema.JournalIssue.Title,
		schema.JournalIssue.Slug,
		schema.JournalIssue.Status,
		schema.JournalIssue.CreatedAt,
		schema.JournalIssue.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		i.ID, i.JournalID, i.Title, i.Slug, i.Status,
	).Scan(&i.CreatedAt, &i.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "create issue")
	}
	return nil
}

/*
Get retrieves a single issue by id.
*/
func (repository *issueRepository) Get(ctx context.Context, id string) (*Issue, error) {

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
	`,
		strings.Join(schema.JournalIssue.Columns(), ", "),
		schema.JournalIssue.Table,
		schema.JournalIssue.ID,
	)

	var record Issue
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&record.ID, &record.JournalID, &record.Title, &record.Slug,
		&record.Status, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get issue")
	}
	return &record, nil
}

/*
List retrieves a journal's issues, newest first, with a windowed count.
An empty journalID lists across journals.
*/
func (repository *issueRepository) List(ctx context.Context, journalID string, limit, offset int) ([]*Issue, int, error) {

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE 1=1
	`,
		strings.Join(schema.JournalIssue.Columns(), ", "),
		schema.JournalIssue.Table,
	))

	if journalID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.JournalIssue.JournalID, argID))
		args = append(args, journalID)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC", schema.JournalIssue.CreatedAt))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list issues: %w", err)
	}
	defer rows.Close()

	var issues []*Issue
	var totalCount int
	for rows.Next() {
		var record Issue
		err := rows.Scan(
			&record.ID, &record.JournalID, &record.Title, &record.Slug,
			&record.Status, &record.CreatedAt, &record.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan issue: %w", err)
		}
		issues = append(issues, &record)
	}
	return issues, totalCount, nil
}

/*
UpdateStatus moves the issue between statuses, conditionally on the
expected current status.
*/
func (repository *issueRepository) UpdateStatus(ctx context.Context, id string, from, to Status) error {

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = NOW()
		WHERE %s = $2 AND %s = $3
	`,
		schema.JournalIssue.Table,
		schema.JournalIssue.Status, schema.JournalIssue.UpdatedAt,
		schema.JournalIssue.ID, schema.JournalIssue.Status,
	)

	result, err := repository.pool.Exec(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("postgres: failed to update issue status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrStaleStatus
	}
	return nil
}
