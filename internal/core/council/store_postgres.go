// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

/*
PostgreSQL implementation of the council repository.

Finalization is the one place where two aggregates must agree: the vote set
and the article's decision columns. It runs in a transaction that takes the
article's row lock first (SELECT ... FOR UPDATE), then reads the votes under
that lock. A vote arriving mid-finalize either waits on the lock or lands
after commit; it can never be half-counted.
*/
package council

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peerline/peerline/internal/core/article"
	"github.com/peerline/peerline/internal/platform/database/schema"
	"github.com/peerline/peerline/internal/platform/dberr"
	"github.com/peerline/peerline/pkg/uuidv7"
)

// councilRepository implements the [Repository] interface using pgx.
type councilRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed council store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &councilRepository{pool: pool}
}

// # Membership

/*
AddMember inserts a roster entry. The (journalid, userid) unique constraint
rejects double enrollment as a conflict.
*/
func (repository *councilRepository) AddMember(ctx context.Context, m *Member) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`,
		schema.JournalCouncilMember.Table,
		schema.JournalCouncilMember.ID,
		schema.JournalCouncilMember.JournalID,
		schema.JournalCouncilMember.UserID,
		schema.JournalCouncilMember.Name,
		schema.JournalCouncilMember.RoleLabel,
		schema.JournalCouncilMember.CreatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		m.ID, m.JournalID, m.UserID, m.Name, m.RoleLabel,
	).Scan(&m.CreatedAt)

	if err != nil {
		return dberr.Wrap(err, "add council member")
	}
	return nil
}

/*
RemoveMember deletes a roster entry. Votes already cast by the member stay.
*/
func (repository *councilRepository) RemoveMember(ctx context.Context, journalID, memberID string) error {

	query := fmt.Sprintf(`
		DELETE FROM %s WHERE %s = $1 AND %s = $2
	`,
		schema.JournalCouncilMember.Table,
		schema.JournalCouncilMember.ID,
		schema.JournalCouncilMember.JournalID,
	)

	result, err := repository.pool.Exec(ctx, query, memberID, journalID)
	if err != nil {
		return fmt.Errorf("postgres: failed to remove council member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

/*
ListMembers returns a journal's roster in enrollment order.
*/
func (repository *councilRepository) ListMembers(ctx context.Context, journalID string) ([]*Member, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.JournalCouncilMember.ID, schema.JournalCouncilMember.JournalID,
		schema.JournalCouncilMember.UserID, schema.JournalCouncilMember.Name,
		schema.JournalCouncilMember.RoleLabel, schema.JournalCouncilMember.CreatedAt,
		schema.JournalCouncilMember.Table,
		schema.JournalCouncilMember.JournalID,
		schema.JournalCouncilMember.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list council members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		var member Member
		err := rows.Scan(
			&member.ID, &member.JournalID, &member.UserID,
			&member.Name, &member.RoleLabel, &member.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan council member: %w", err)
		}
		members = append(members, &member)
	}
	return members, nil
}

/*
CountMembers returns the roster size, the quorum denominator.
*/
func (repository *councilRepository) CountMembers(ctx context.Context, journalID string) (int, error) {

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.JournalCouncilMember.Table, schema.JournalCouncilMember.JournalID)

	var count int
	if err := repository.pool.QueryRow(ctx, query, journalID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: failed to count council members: %w", err)
	}
	return count, nil
}

/*
MemberByUser resolves a user's roster entry on a journal.
*/
func (repository *councilRepository) MemberByUser(ctx context.Context, journalID, userID string) (*Member, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		schema.JournalCouncilMember.ID, schema.JournalCouncilMember.JournalID,
		schema.JournalCouncilMember.UserID, schema.JournalCouncilMember.Name,
		schema.JournalCouncilMember.RoleLabel, schema.JournalCouncilMember.CreatedAt,
		schema.JournalCouncilMember.Table,
		schema.JournalCouncilMember.JournalID,
		schema.JournalCouncilMember.UserID,
	)

	var member Member
	err := repository.pool.QueryRow(ctx, query, journalID, userID).Scan(
		&member.ID, &member.JournalID, &member.UserID,
		&member.Name, &member.RoleLabel, &member.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find council member")
	}
	return &member, nil
}

// # Article Facts

/*
ArticleRef reads the lifecycle facts the voting engine needs.
*/
func (repository *councilRepository) ArticleRef(ctx context.Context, articleID string) (*ArticleRef, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.JournalArticle.ID, schema.JournalArticle.JournalID,
		schema.JournalArticle.Status, schema.JournalArticle.FinalDecision,
		schema.JournalArticle.Table,
		schema.JournalArticle.ID, schema.JournalArticle.DeletedAt,
	)

	var ref ArticleRef
	var finalDecision *string
	err := repository.pool.QueryRow(ctx, query, articleID).Scan(
		&ref.ID, &ref.JournalID, &ref.Status, &finalDecision,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "read article for voting")
	}
	if finalDecision != nil {
		decision := article.Decision(*finalDecision)
		ref.FinalDecision = &decision
	}
	return &ref, nil
}

// # Voting

/*
UpsertVote inserts or replaces the (member, article) vote.

Description: The ON CONFLICT clause updates value, comment and updated_at
only. cast_at keeps its original value, preserving the member's position in
the tie-break order.

The write runs in a transaction that first takes FOR SHARE on the article
row. Finalize holds FOR UPDATE on the same row, so a ballot either commits
before the finalize snapshot is read or waits and then fails the
finaldecision check with [ErrArticleFinalized]. Without the lock, a recast
touches only the vote row and could slip between Finalize's snapshot and
its commit.
*/
func (repository *councilRepository) UpsertVote(ctx context.Context, v *Vote) error {

	tx, err := repository.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin vote transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// 1. Share-lock the article row and re-check the frozen-ballot rule
	lockQuery := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s IS NULL
		FOR SHARE
	`,
		schema.JournalArticle.FinalDecision,
		schema.JournalArticle.Table,
		schema.JournalArticle.ID, schema.JournalArticle.DeletedAt,
	)

	var finalDecision *string
	if err := tx.QueryRow(ctx, lockQuery, v.ArticleID).Scan(&finalDecision); err != nil {
		return dberr.Wrap(err, "lock article for voting")
	}
	if finalDecision != nil {
		return ErrArticleFinalized
	}

	// 2. Insert or replace the ballot under the lock
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%s, %s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = NOW()
		RETURNING %s, %s, %s
	`,
		schema.JournalCouncilVote.Table,
		schema.JournalCouncilVote.ID,
		schema.JournalCouncilVote.ArticleID,
		schema.JournalCouncilVote.MemberID,
		schema.JournalCouncilVote.Value,
		schema.JournalCouncilVote.Comment,
		schema.JournalCouncilVote.MemberID, schema.JournalCouncilVote.ArticleID,
		schema.JournalCouncilVote.Value, schema.JournalCouncilVote.Value,
		schema.JournalCouncilVote.Comment, schema.JournalCouncilVote.Comment,
		schema.JournalCouncilVote.UpdatedAt,
		schema.JournalCouncilVote.ID,
		schema.JournalCouncilVote.CastAt,
		schema.JournalCouncilVote.UpdatedAt,
	)

	err = tx.QueryRow(ctx, query,
		v.ID, v.ArticleID, v.MemberID, v.Value, v.Comment,
	).Scan(&v.ID, &v.CastAt, &v.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "cast vote")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: failed to commit vote: %w", err)
	}
	return nil
}

/*
ListVotes returns the article's votes in first-cast order.
*/
func (repository *councilRepository) ListVotes(ctx context.Context, articleID string) ([]Vote, error) {
	return listVotes(ctx, repository.pool, articleID)
}

// queryRunner abstracts the pool and an open transaction.
type queryRunner interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func listVotes(ctx context.Context, runner queryRunner, articleID string) ([]Vote, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.JournalCouncilVote.ID, schema.JournalCouncilVote.ArticleID,
		schema.JournalCouncilVote.MemberID, schema.JournalCouncilVote.Value,
		schema.JournalCouncilVote.Comment, schema.JournalCouncilVote.CastAt,
		schema.JournalCouncilVote.UpdatedAt,
		schema.JournalCouncilVote.Table,
		schema.JournalCouncilVote.ArticleID,
		schema.JournalCouncilVote.CastAt,
	)

	rows, err := runner.Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []Vote
	for rows.Next() {
		var vote Vote
		err := rows.Scan(
			&vote.ID, &vote.ArticleID, &vote.MemberID, &vote.Value,
			&vote.Comment, &vote.CastAt, &vote.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan vote: %w", err)
		}
		votes = append(votes, vote)
	}
	return votes, nil
}

// # Finalization

/*
Finalize stamps the article's decision under the article row lock.

Description: The snapshot (status, roster size, vote set) is read entirely
inside the transaction after acquiring the lock, so the decide callback sees
a frozen voting state. Already-finalized articles short-circuit without
calling decide.
*/
func (repository *councilRepository) Finalize(ctx context.Context, articleID, actorID string, decide DecideFunc) (*FinalizeResult, error) {

	tx, err := repository.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to begin finalize transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// 1. Lock the article row and read its decision state
	lockQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
		FOR UPDATE
	`,
		schema.JournalArticle.Status, schema.JournalArticle.JournalID,
		schema.JournalArticle.FinalDecision, schema.JournalArticle.FinalizedAt,
		schema.JournalArticle.Table,
		schema.JournalArticle.ID, schema.JournalArticle.DeletedAt,
	)

	var status article.Status
	var journalID string
	var storedDecision *string
	var finalizedAt *time.Time
	err = tx.QueryRow(ctx, lockQuery, articleID).Scan(&status, &journalID, &storedDecision, &finalizedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "lock article for finalize")
	}

	// 2. Idempotent short-circuit
	if storedDecision != nil {
		result := &FinalizeResult{
			Decision:         article.Decision(*storedDecision),
			AlreadyFinalized: true,
		}
		if finalizedAt != nil {
			result.FinalizedAt = *finalizedAt
		}
		return result, tx.Commit(ctx)
	}

	// 3. Read the frozen snapshot
	var memberCount int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.JournalCouncilMember.Table, schema.JournalCouncilMember.JournalID)
	if err := tx.QueryRow(ctx, countQuery, journalID).Scan(&memberCount); err != nil {
		return nil, fmt.Errorf("postgres: failed to count members for finalize: %w", err)
	}

	votes, err := listVotes(ctx, tx, articleID)
	if err != nil {
		return nil, err
	}

	// 4. Resolve the decision
	decision, err := decide(FinalizeSnapshot{
		Status:      status,
		JournalID:   journalID,
		MemberCount: memberCount,
		Votes:       votes,
	})
	if err != nil {
		return nil, err
	}

	// 5. Stamp decision, move status, append history
	next := decision.Status()
	updateQuery := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = NOW(), %s = NOW()
		WHERE %s = $3
		RETURNING %s
	`,
		schema.JournalArticle.Table,
		schema.JournalArticle.Status, schema.JournalArticle.FinalDecision,
		schema.JournalArticle.FinalizedAt, schema.JournalArticle.UpdatedAt,
		schema.JournalArticle.ID,
		schema.JournalArticle.FinalizedAt,
	)

	result := &FinalizeResult{Decision: decision}
	if err := tx.QueryRow(ctx, updateQuery, next, decision, articleID).Scan(&result.FinalizedAt); err != nil {
		return nil, fmt.Errorf("postgres: failed to stamp final decision: %w", err)
	}

	historyQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		schema.JournalArticleHistory.Table,
		schema.JournalArticleHistory.ID, schema.JournalArticleHistory.ArticleID,
		schema.JournalArticleHistory.FromStatus, schema.JournalArticleHistory.ToStatus,
		schema.JournalArticleHistory.ActorID, schema.JournalArticleHistory.Note,
	)
	_, err = tx.Exec(ctx, historyQuery, uuidv7.New(), articleID, status, next, actorID, string(decision))
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to insert finalize history: %w", err)
	}

	return result, tx.Commit(ctx)
}
