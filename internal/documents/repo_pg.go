package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"legaldocs-backend/internal/summarizer"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, owner_id, original_name, title, media_type, size_bytes, storage_key, status, summary, error_message, uploaded_at, processed_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    owner_id,
    original_name,
    title,
    media_type,
    size_bytes,
    storage_key,
    status,
    summary,
    error_message,
    uploaded_at,
    processed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULL, NULL, $9, NULL)`

	var title sql.NullString
	if doc.Title != "" {
		title = sql.NullString{String: doc.Title, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.OwnerID,
		doc.OriginalName,
		title,
		doc.MediaType,
		doc.SizeBytes,
		doc.StorageKey,
		string(doc.Status),
		doc.UploadedAt,
	)
	return err
}

// GetByID fetches a document regardless of owner. Orchestrator use only.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, documentID))
}

// GetByOwner fetches a document scoped to its owner.
func (r *PGRepo) GetByOwner(ctx context.Context, ownerID, documentID string) (Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE owner_id = $1 AND id = $2 LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, ownerID, documentID))
}

// ListCompleted lists an owner's completed documents, newest first.
func (r *PGRepo) ListCompleted(ctx context.Context, ownerID string, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE owner_id = $1 AND status = $2
ORDER BY uploaded_at DESC
LIMIT $3`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, string(StatusCompleted), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// MarkProcessing claims the uploaded -> processing transition atomically.
func (r *PGRepo) MarkProcessing(ctx context.Context, documentID string) error {
	const query = `
UPDATE documents
SET status = $1
WHERE id = $2 AND status = $3`

	res, err := r.DB.ExecContext(ctx, query, string(StatusProcessing), documentID, string(StatusUploaded))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Lost the claim. Distinguish missing from already-claimed for logging.
	var status string
	err = r.DB.QueryRowContext(ctx, `SELECT status FROM documents WHERE id = $1`, documentID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrNotClaimable
}

// Complete writes the processing -> completed transition.
func (r *PGRepo) Complete(ctx context.Context, documentID string, summary summarizer.Summary, processedAt time.Time) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	const query = `
UPDATE documents
SET status = $1, summary = $2, error_message = NULL, processed_at = $3
WHERE id = $4 AND status = $5`

	res, err := r.DB.ExecContext(ctx, query, string(StatusCompleted), payload, processedAt, documentID, string(StatusProcessing))
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Fail writes the processing -> failed transition.
func (r *PGRepo) Fail(ctx context.Context, documentID string, errorMessage string, processedAt time.Time) error {
	const query = `
UPDATE documents
SET status = $1, summary = NULL, error_message = $2, processed_at = $3
WHERE id = $4 AND status = $5`

	res, err := r.DB.ExecContext(ctx, query, string(StatusFailed), errorMessage, processedAt, documentID, string(StatusProcessing))
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes an owner's document, returning the removed record.
func (r *PGRepo) Delete(ctx context.Context, ownerID, documentID string) (Document, error) {
	query := `
DELETE FROM documents
WHERE owner_id = $1 AND id = $2
RETURNING ` + documentColumns
	return r.scanOne(r.DB.QueryRowContext(ctx, query, ownerID, documentID))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (Document, error) {
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var title sql.NullString
	var status string
	var summaryRaw []byte
	var errorMessage sql.NullString
	var processedAt sql.NullTime

	err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.OriginalName,
		&title,
		&doc.MediaType,
		&doc.SizeBytes,
		&doc.StorageKey,
		&status,
		&summaryRaw,
		&errorMessage,
		&doc.UploadedAt,
		&processedAt,
	)
	if err != nil {
		return Document{}, err
	}

	doc.Status = Status(status)
	if title.Valid {
		doc.Title = title.String
	}
	if len(summaryRaw) > 0 {
		var summary summarizer.Summary
		if err := json.Unmarshal(summaryRaw, &summary); err != nil {
			return Document{}, fmt.Errorf("unmarshal summary id=%s: %w", doc.ID, err)
		}
		doc.Summary = &summary
	}
	if errorMessage.Valid {
		doc.ErrorMessage = &errorMessage.String
	}
	if processedAt.Valid {
		doc.ProcessedAt = &processedAt.Time
	}
	return doc, nil
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotClaimable
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
