package pgx

import (
	"context"
	"errors"
	"time"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"

	"github.com/RangerAkash1/workflow-builder/backend/pkg/vector"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// Store implements vector.Store on PostgreSQL with the pgvector extension.
// Chunks live in the knowledge_chunks table, partitioned logically by
// collection name.
type Store struct {
	conn pgxIConn
	dim  int
}

// NewStoreParams configures a pgvector-backed Store. Dim is the width of
// the vector column; embeddings are padded or truncated to it before
// writes and queries.
type NewStoreParams struct {
	Conn pgxIConn
	Dim  int
}

// NewStore creates a Store over an existing pgx connection or pool.
func NewStore(params NewStoreParams) (*Store, error) {
	if params.Conn == nil {
		return nil, errors.New("pgx vector store requires a connection")
	}
	dim := params.Dim
	if dim <= 0 {
		dim = 1536
	}
	return &Store{conn: params.Conn, dim: dim}, nil
}

// Upsert writes chunks and their embeddings in a single transaction.
func (s *Store) Upsert(ctx context.Context, collection string, chunks []vector.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return errors.New("chunks and embeddings length mismatch")
	}
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i, chunk := range chunks {
		_, err := tx.Exec(ctx, `
			INSERT INTO knowledge_chunks (chunk_id, collection, content, embedding, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (chunk_id) DO UPDATE
			SET collection = EXCLUDED.collection,
			    content = EXCLUDED.content,
			    embedding = EXCLUDED.embedding
		`, chunk.ID, collection, chunk.Text, pgvector.NewVector(s.fit(embeddings[i])), time.Now().UTC())
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Query returns up to topK chunk texts closest to embedding by L2 distance.
// Ties resolve toward earlier-inserted rows. Unknown collections yield an
// empty result.
func (s *Store) Query(ctx context.Context, collection string, embedding []float32, topK int) ([]string, error) {
	if topK <= 0 {
		return []string{}, nil
	}

	rows, err := s.conn.Query(ctx, `
		SELECT content
		FROM knowledge_chunks
		WHERE collection = $1
		ORDER BY embedding <-> $2, id ASC
		LIMIT $3
	`, collection, pgvector.NewVector(s.fit(embedding)), topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0, topK)
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, err
		}
		out = append(out, content)
	}
	return out, rows.Err()
}

// Collections aggregates per-collection chunk counts and freshness.
func (s *Store) Collections(ctx context.Context) ([]vector.CollectionInfo, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT collection, COUNT(*), MAX(created_at)
		FROM knowledge_chunks
		GROUP BY collection
		ORDER BY collection
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vector.CollectionInfo, 0)
	for rows.Next() {
		var info vector.CollectionInfo
		if err := rows.Scan(&info.Name, &info.ChunkCount, &info.LastWrite); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *Store) fit(vec []float32) []float32 {
	if len(vec) == s.dim {
		return vec
	}
	if len(vec) > s.dim {
		return vec[:s.dim]
	}
	padded := make([]float32, s.dim)
	copy(padded, vec)
	return padded
}
