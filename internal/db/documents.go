package db

import (
	"context"

	"github.com/google/uuid"
)

type SaveDocumentParams struct {
	UserID         *int64
	Filename       string
	FileSize       int64
	CollectionName string
	ChunkCount     int32
	EmbeddingModel *string
}

func (q *Queries) SaveDocument(ctx context.Context, params SaveDocumentParams) (Document, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO documents (uuid, user_id, filename, file_size, collection_name, chunk_count, embedding_model)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING uuid, filename, file_size, collection_name, chunk_count, embedding_model, created_at
	`, uuid.NewString(), params.UserID, params.Filename, params.FileSize,
		params.CollectionName, params.ChunkCount, params.EmbeddingModel)

	var d Document
	err := row.Scan(&d.UUID, &d.Filename, &d.FileSize, &d.CollectionName, &d.ChunkCount, &d.EmbeddingModel, &d.CreatedAt)
	return d, err
}

// GetDocument returns a document's metadata by uuid.
func (q *Queries) GetDocument(ctx context.Context, docUUID string) (Document, error) {
	row := q.db.QueryRow(ctx, `
		SELECT uuid, filename, file_size, collection_name, chunk_count, embedding_model, created_at
		FROM documents
		WHERE uuid = $1
	`, docUUID)

	var d Document
	err := row.Scan(&d.UUID, &d.Filename, &d.FileSize, &d.CollectionName, &d.ChunkCount, &d.EmbeddingModel, &d.CreatedAt)
	return d, err
}

// DeleteDocument removes a document's metadata row. Returns false when no
// row matched.
func (q *Queries) DeleteDocument(ctx context.Context, docUUID string) (bool, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM documents WHERE uuid = $1`, docUUID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type ListDocumentsParams struct {
	CollectionName *string
	UserID         *int64
}

// ListDocuments returns document metadata, newest first, optionally
// filtered by collection and/or user.
func (q *Queries) ListDocuments(ctx context.Context, params ListDocumentsParams) ([]Document, error) {
	rows, err := q.db.Query(ctx, `
		SELECT uuid, filename, file_size, collection_name, chunk_count, embedding_model, created_at
		FROM documents
		WHERE ($1::text IS NULL OR collection_name = $1)
		  AND ($2::bigint IS NULL OR user_id = $2)
		ORDER BY created_at DESC
	`, params.CollectionName, params.UserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Document, 0)
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.UUID, &d.Filename, &d.FileSize, &d.CollectionName, &d.ChunkCount, &d.EmbeddingModel, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
