package memory

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/RangerAkash1/workflow-builder/backend/pkg/vector"
)

type record struct {
	seq       int64
	chunk     vector.Chunk
	embedding []float32
}

type collection struct {
	records   []record
	lastWrite time.Time
}

// Store is an in-memory vector.Store using brute-force cosine similarity.
// It backs tests and DB-less development runs.
type Store struct {
	mu          sync.RWMutex
	seq         int64
	collections map[string]*collection
	now         func() time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		collections: make(map[string]*collection),
		now:         time.Now,
	}
}

// Upsert appends chunks to the named collection, creating it on first write.
func (s *Store) Upsert(ctx context.Context, name string, chunks []vector.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return errors.New("chunks and embeddings length mismatch")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[name]
	if !ok {
		coll = &collection{}
		s.collections[name] = coll
	}
	for i := range chunks {
		s.seq++
		coll.records = append(coll.records, record{
			seq:       s.seq,
			chunk:     chunks[i],
			embedding: embeddings[i],
		})
	}
	coll.lastWrite = s.now()
	return nil
}

// Query returns up to topK chunk texts closest to embedding, best first.
// Equal scores keep insertion order. An unknown collection yields an empty
// result, never an error.
func (s *Store) Query(ctx context.Context, name string, embedding []float32, topK int) ([]string, error) {
	if topK <= 0 {
		return []string{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, ok := s.collections[name]
	if !ok || len(coll.records) == 0 {
		return []string{}, nil
	}

	type scored struct {
		seq   int64
		score float64
		text  string
	}
	ranked := make([]scored, 0, len(coll.records))
	for _, rec := range coll.records {
		ranked = append(ranked, scored{
			seq:   rec.seq,
			score: cosineSimilarity(embedding, rec.embedding),
			text:  rec.chunk.Text,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].seq < ranked[j].seq
	})

	if topK > len(ranked) {
		topK = len(ranked)
	}
	out := make([]string, 0, topK)
	for _, r := range ranked[:topK] {
		out = append(out, r.text)
	}
	return out, nil
}

// Collections lists collection metadata sorted by name.
func (s *Store) Collections(ctx context.Context) ([]vector.CollectionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]vector.CollectionInfo, 0, len(s.collections))
	for name, coll := range s.collections {
		out = append(out, vector.CollectionInfo{
			Name:       name,
			ChunkCount: int64(len(coll.records)),
			LastWrite:  coll.lastWrite,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
