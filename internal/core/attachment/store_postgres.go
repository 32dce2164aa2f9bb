// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package attachment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peerline/peerline/internal/platform/database/schema"
	"github.com/peerline/peerline/internal/platform/dberr"
)

// attachmentRepository implements the [Repository] interface using pgx.
type attachmentRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed attachment store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &attachmentRepository{pool: pool}
}

/*
Create inserts one immutable file record.
*/
func (repository *attachmentRepository) Create(ctx context.Context, a *Attachment) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`,
		schema.JournalAttachment.Table,
		schema.JournalAttachment.ID,
		schema.JournalAttachment.OwnerKind,
		schema.JournalAttachment.OwnerID,
		schema.JournalAttachment.FileType,
		schema.JournalAttachment.Locator,
		schema.JournalAttachment.UploadedBy,
		schema.JournalAttachment.UploadedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		a.ID, a.OwnerKind, a.OwnerID, a.FileType, a.Locator, a.UploadedBy,
	).Scan(&a.UploadedAt)

	if err != nil {
		return dberr.Wrap(err, "create attachment")
	}
	return nil
}

/*
Get retrieves one file record by id.
*/
func (repository *attachmentRepository) Get(ctx context.Context, id string) (*Attachment, error) {

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
	`,
		strings.Join(schema.JournalAttachment.Columns(), ", "),
		schema.JournalAttachment.Table,
		schema.JournalAttachment.ID,
	)

	var record Attachment
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&record.ID, &record.OwnerKind, &record.OwnerID, &record.FileType,
		&record.Locator, &record.UploadedBy, &record.UploadedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get attachment")
	}
	return &record, nil
}

/*
Delete removes a file record permanently.
*/
func (repository *attachmentRepository) Delete(ctx context.Context, id string) error {

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.JournalAttachment.Table, schema.JournalAttachment.ID)

	result, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete attachment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

/*
ListByOwner returns an owner's file records in upload order.
*/
func (repository *attachmentRepository) ListByOwner(ctx context.Context, ownerKind OwnerKind, ownerID string) ([]*Attachment, error) {

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s = $2
		ORDER BY %s ASC
	`,
		strings.Join(schema.JournalAttachment.Columns(), ", "),
		schema.JournalAttachment.Table,
		schema.JournalAttachment.OwnerKind,
		schema.JournalAttachment.OwnerID,
		schema.JournalAttachment.UploadedAt,
	)

	rows, err := repository.pool.Query(ctx, query, ownerKind, ownerID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list attachments: %w", err)
	}
	defer rows.Close()

	var records []*Attachment
	for rows.Next() {
		var record Attachment
		err := rows.Scan(
			&record.ID, &record.OwnerKind, &record.OwnerID, &record.FileType,
			&record.Locator, &record.UploadedBy, &record.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan attachment: %w", err)
		}
		records = append(records, &record)
	}
	return records, nil
}

/*
ExistsSince answers the file-presence guard query.
*/
func (repository *attachmentRepository) ExistsSince(ctx context.Context, ownerKind OwnerKind, ownerID string, fileType Type, since time.Time) (bool, error) {

	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE %s = $1 AND %s = $2 AND %s = $3 AND %s > $4
		)
	`,
		schema.JournalAttachment.Table,
		schema.JournalAttachment.OwnerKind,
		schema.JournalAttachment.OwnerID,
		schema.JournalAttachment.FileType,
		schema.JournalAttachment.UploadedAt,
	)

	var exists bool
	err := repository.pool.QueryRow(ctx, query, ownerKind, ownerID, fileType, since).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: failed to check file presence: %w", err)
	}
	return exists, nil
}
