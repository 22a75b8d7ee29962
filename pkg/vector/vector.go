package vector

import (
	"context"
	"time"
)

// Chunk is one embedded text span stored in a collection.
type Chunk struct {
	ID   string
	Text string
}

// CollectionInfo is observable metadata about a named collection.
type CollectionInfo struct {
	Name       string    `json:"name"`
	ChunkCount int64     `json:"chunk_count"`
	LastWrite  time.Time `json:"last_write"`
}

// Store holds embedded chunks grouped into named collections and answers
// nearest-neighbor queries against them.
//
// Query must not fail for an unknown or empty collection; it returns an
// empty slice instead. Results are ordered closest first; ties break on
// insertion order.
type Store interface {
	Upsert(ctx context.Context, collection string, chunks []Chunk, embeddings [][]float32) error
	Query(ctx context.Context, collection string, embedding []float32, topK int) ([]string, error)
	Collections(ctx context.Context) ([]CollectionInfo, error)
}
