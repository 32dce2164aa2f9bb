// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

/*
PostgreSQL implementation of the article repository.

It leans on Postgres to enforce the lifecycle's concurrency rules:
  - Conditional Writes: Every status mutation carries 'AND status = $from',
    so two actors racing on the same article serialize on the row and the
    loser sees zero affected rows.
  - Transactional Audit: The history record is inserted in the same
    transaction as the status change. A reader never observes a transition
    without its audit row.
  - Window Functions: List queries compute the total match count without a
    second COUNT round-trip.
*/
package article

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peerline/peerline/internal/platform/database/schema"
	"github.com/peerline/peerline/internal/platform/dberr"
	"github.com/peerline/peerline/pkg/uuidv7"
)

// # PostgreSQL Repository

// articleRepository implements the [Repository] interface using pgx.
type articleRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed article store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &articleRepository{pool: pool}
}

/*
Create inserts a new manuscript row in its initial status.

Parameters:
  - ctx: context.Context
  - a: *Article (ID and status already assigned by the service)

Returns:
  - error: Constraint violations mapped to application errors
*/
func (repository *articleRepository) Create(ctx context.Context, a *Article) error {

	// Parameterized insert against the relational definitions
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s
	`,
		schema.JournalArticle.Table,
		schema.JournalArticle.ID,
		schema.JournalArticle.JournalID,
		schema.JournalArticle.AuthorID,
		schema.JournalArticle.Status,
		schema.JournalArticle.Title,
		schema.JournalArticle.Abstract,
		schema.JournalArticle.Keywords,
		schema.JournalArticle.CreatedAt,
		schema.JournalArticle.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		a.ID,
		a.JournalID,
		a.AuthorID,
		a.Status,
		a.Title,
		a.Abstract,
		a.Keywords,
	).Scan(&a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "create article")
	}
	return nil
}

/*
Get retrieves a single article by its unique identifier.

Description: Soft-deleted rows are treated as absent.

Returns:
  - *Article: The hydrated manuscript
  - error: dberr.ErrNotFound on absent rows
*/
func (repository *articleRepository) Get(ctx context.Context, id string) (*Article, error) {

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`,
		strings.Join(schema.JournalArticle.Columns(), ", "),
		schema.JournalArticle.Table,
		schema.JournalArticle.ID,
		schema.JournalArticle.DeletedAt,
	)

	article, err := scanArticle(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get article")
	}
	return article, nil
}

/*
List retrieves a filtered page of articles.

Description: Filters are combined with AND; the total match count rides
along on every row via a window function.

Parameters:
  - ctx: context.Context
  - f: Filter (journal, author, status)
  - limit, offset: page bounds

Returns:
  - []*Article: Slice of manuscripts ordered by creation, newest first
  - int: Total matching rows across all pages
*/
func (repository *articleRepository) List(ctx context.Context, f Filter, limit, offset int) ([]*Article, int, error) {

	// Dynamic predicate construction
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s IS NULL
	`,
		strings.Join(schema.JournalArticle.Columns(), ", "),
		schema.JournalArticle.Table,
		schema.JournalArticle.DeletedAt,
	))

	if f.JournalID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.JournalArticle.JournalID, argID))
		args = append(args, f.JournalID)
		argID++
	}
	if f.AuthorID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.JournalArticle.AuthorID, argID))
		args = append(args, f.AuthorID)
		argID++
	}
	if f.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.JournalArticle.Status, argID))
		args = append(args, f.Status)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC", schema.JournalArticle.CreatedAt))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list articles: %w", err)
	}
	defer rows.Close()

	// Row iteration and entity hydration
	var articles []*Article
	var totalCount int

	for rows.Next() {
		article, count, err := scanArticleWithCount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan article: %w", err)
		}
		totalCount = count
		articles = append(articles, article)
	}

	return articles, totalCount, nil
}

/*
UpdateStatus moves an article between statuses, conditionally.

Description: The update only matches when the row still carries the expected
source status. Zero affected rows distinguishes two cases: the article moved
concurrently (ErrStaleStatus) or does not exist at all (checked with a
follow-up read by the service). The audit row commits atomically with the
status change.

Returns:
  - error: ErrStaleStatus when the conditional write missed
*/
func (repository *articleRepository) UpdateStatus(ctx context.Context, id string, from, to Status, actorID, note string) error {

	return repository.inTx(ctx, func(tx pgx.Tx) error {

		query := fmt.Sprintf(`
			UPDATE %s
			SET %s = $1, %s = NOW()
			WHERE %s = $2 AND %s = $3 AND %s IS NULL
		`,
			schema.JournalArticle.Table,
			schema.JournalArticle.Status, schema.JournalArticle.UpdatedAt,
			schema.JournalArticle.ID, schema.JournalArticle.Status, schema.JournalArticle.DeletedAt,
		)

		result, err := tx.Exec(ctx, query, to, id, from)
		if err != nil {
			return fmt.Errorf("postgres: failed to update article status: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrStaleStatus
		}

		return insertHistory(ctx, tx, id, from, to, actorID, note)
	})
}

/*
UpdateScreening persists the checklist flags together with the status the
gate resolved, in one conditional write.
*/
func (repository *articleRepository) UpdateScreening(ctx context.Context, id string, from, to Status, checklist Screening, actorID string) error {

	return repository.inTx(ctx, func(tx pgx.Tx) error {

		query := fmt.Sprintf(`
			UPDATE %s
			SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
			WHERE %s = $7 AND %s = $8 AND %s IS NULL
		`,
			schema.JournalArticle.Table,
			schema.JournalArticle.Status,
			schema.JournalArticle.ScopeOK, schema.JournalArticle.FormatOK,
			schema.JournalArticle.ZGSOK, schema.JournalArticle.AntiplagOK,
			schema.JournalArticle.ScreeningNotes,
			schema.JournalArticle.UpdatedAt,
			schema.JournalArticle.ID, schema.JournalArticle.Status, schema.JournalArticle.DeletedAt,
		)

		result, err := tx.Exec(ctx, query,
			to,
			checklist.ScopeOK, checklist.FormatOK, checklist.ZGSOK, checklist.AntiplagOK,
			checklist.Notes,
			id, from,
		)
		if err != nil {
			return fmt.Errorf("postgres: failed to update article screening: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrStaleStatus
		}

		return insertHistory(ctx, tx, id, from, to, actorID, checklist.Notes)
	})
}

/*
UpdateDecision stamps the editorial verdict and moves the article to the
status the decision implies.
*/
func (repository *articleRepository) UpdateDecision(ctx context.Context, id string, from Status, decision Decision, actorID string) error {

	to := decision.Status()

	return repository.inTx(ctx, func(tx pgx.Tx) error {

		query := fmt.Sprintf(`
			UPDATE %s
			SET %s = $1, %s = $2, %s = NOW(), %s = NOW()
			WHERE %s = $3 AND %s = $4 AND %s IS NULL
		`,
			schema.JournalArticle.Table,
			schema.JournalArticle.Status, schema.JournalArticle.FinalDecision,
			schema.JournalArticle.FinalizedAt, schema.JournalArticle.UpdatedAt,
			schema.JournalArticle.ID, schema.JournalArticle.Status, schema.JournalArticle.DeletedAt,
		)

		result, err := tx.Exec(ctx, query, to, decision, id, from)
		if err != nil {
			return fmt.Errorf("postgres: failed to record article decision: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrStaleStatus
		}

		return insertHistory(ctx, tx, id, from, to, actorID, string(decision))
	})
}

/*
History returns the article's full audit trail, oldest first.
*/
func (repository *articleRepository) History(ctx context.Context, articleID string) ([]StatusChange, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.JournalArticleHistory.ID, schema.JournalArticleHistory.ArticleID,
		schema.JournalArticleHistory.FromStatus, schema.JournalArticleHistory.ToStatus,
		schema.JournalArticleHistory.ActorID, schema.JournalArticleHistory.Note,
		schema.JournalArticleHistory.CreatedAt,
		schema.JournalArticleHistory.Table,
		schema.JournalArticleHistory.ArticleID,
		schema.JournalArticleHistory.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list article history: %w", err)
	}
	defer rows.Close()

	var changes []StatusChange
	for rows.Next() {
		var change StatusChange
		err := rows.Scan(
			&change.ID, &change.ArticleID,
			&change.From, &change.To,
			&change.ActorID, &change.Note,
			&change.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan history row: %w", err)
		}
		changes = append(changes, change)
	}

	return changes, nil
}

// # Transaction Plumbing

// inTx runs fn inside a transaction, committing on nil and rolling back on error.
func (repository *articleRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := repository.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// insertHistory appends one audit row inside the caller's transaction.
func insertHistory(ctx context.Context, tx pgx.Tx, articleID string, from, to Status, actorID, note string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		schema.JournalArticleHistory.Table,
		schema.JournalArticleHistory.ID, schema.JournalArticleHistory.ArticleID,
		schema.JournalArticleHistory.FromStatus, schema.JournalArticleHistory.ToStatus,
		schema.JournalArticleHistory.ActorID, schema.JournalArticleHistory.Note,
	)

	_, err := tx.Exec(ctx, query, uuidv7.New(), articleID, from, to, actorID, note)
	if err != nil {
		return fmt.Errorf("postgres: failed to insert history row: %w", err)
	}
	return nil
}

// # Row Scanning

// rowScanner abstracts pgx.Row and pgx.Rows for the shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanArticle hydrates one article from a row without a count column.
func scanArticle(row rowScanner) (*Article, error) {
	var article Article
	var finalDecision *string
	var finalizedAt, deletedAt *time.Time

	err := row.Scan(
		&article.ID, &article.JournalID, &article.AuthorID, &article.Status,
		&article.Title, &article.Abstract, &article.Keywords,
		&article.Screening.ScopeOK, &article.Screening.FormatOK,
		&article.Screening.ZGSOK, &article.Screening.AntiplagOK,
		&article.Screening.Notes,
		&finalDecision, &finalizedAt,
		&article.CreatedAt, &article.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if finalDecision != nil {
		decision := Decision(*finalDecision)
		article.FinalDecision = &decision
	}
	article.FinalizedAt = finalizedAt
	article.DeletedAt = deletedAt
	return &article, nil
}

// scanArticleWithCount hydrates one article plus the windowed total count.
func scanArticleWithCount(row rowScanner) (*Article, int, error) {
	var article Article
	var finalDecision *string
	var finalizedAt, deletedAt *time.Time
	var totalCount int

	err := row.Scan(
		&article.ID, &article.JournalID, &article.AuthorID, &article.Status,
		&article.Title, &article.Abstract, &article.Keywords,
		&article.Screening.ScopeOK, &article.Screening.FormatOK,
		&article.Screening.ZGSOK, &article.Screening.AntiplagOK,
		&article.Screening.Notes,
		&finalDecision, &finalizedAt,
		&article.CreatedAt, &article.UpdatedAt, &deletedAt,
		&totalCount,
	)
	if err != nil {
		return nil, 0, err
	}

	if finalDecision != nil {
		decision := Decision(*finalDecision)
		article.FinalDecision = &decision
	}
	article.FinalizedAt = finalizedAt
	article.DeletedAt = deletedAt
	return &article, totalCount, nil
}
