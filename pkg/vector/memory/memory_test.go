package memory

import (
	"context"
	"testing"
	"time"

	"github.com/RangerAkash1/workflow-builder/backend/pkg/vector"
)

func TestQuery_UnknownCollection(t *testing.T) {
	store := NewStore()
	got, err := store.Query(context.Background(), "missing", []float32{1, 0}, 4)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestQuery_RanksBySimilarity(t *testing.T) {
	store := NewStore()
	err := store.Upsert(context.Background(), "docs", []vector.Chunk{
		{ID: "a", Text: "orthogonal"},
		{ID: "b", Text: "exact"},
		{ID: "c", Text: "close"},
	}, [][]float32{
		{0, 1},
		{1, 0},
		{0.9, 0.1},
	})
	if err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	got, err := store.Query(context.Background(), "docs", []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(got) != 2 || got[0] != "exact" || got[1] != "close" {
		t.Fatalf("expected [exact close], got %v", got)
	}
}

func TestQuery_TieBreaksOnInsertionOrder(t *testing.T) {
	store := NewStore()
	err := store.Upsert(context.Background(), "docs", []vector.Chunk{
		{ID: "first", Text: "first"},
		{ID: "second", Text: "second"},
	}, [][]float32{
		{1, 0},
		{1, 0},
	})
	if err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	got, err := store.Query(context.Background(), "docs", []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got[0] != "first" || got[1] != "second" {
		t.Fatalf("expected insertion order on ties, got %v", got)
	}
}

func TestQuery_TopKClamped(t *testing.T) {
	store := NewStore()
	err := store.Upsert(context.Background(), "docs", []vector.Chunk{
		{ID: "a", Text: "only"},
	}, [][]float32{{1, 0}})
	if err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	got, err := store.Query(context.Background(), "docs", []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}

	got, err = store.Query(context.Background(), "docs", []float32{1, 0}, 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result for topK 0, got %v", got)
	}
}

func TestUpsert_LengthMismatch(t *testing.T) {
	store := NewStore()
	err := store.Upsert(context.Background(), "docs", []vector.Chunk{{ID: "a"}}, nil)
	if err == nil {
		t.Fatal("expected error for mismatched lengths, got nil")
	}
}

func TestCollections(t *testing.T) {
	store := NewStore()
	stamp := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return stamp }

	ctx := context.Background()
	if err := store.Upsert(ctx, "beta", []vector.Chunk{{ID: "b1"}}, [][]float32{{1}}); err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}
	if err := store.Upsert(ctx, "alpha", []vector.Chunk{{ID: "a1"}, {ID: "a2"}}, [][]float32{{1}, {1}}); err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	got, err := store.Collections(ctx)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 collections, got %d", len(got))
	}
	if got[0].Name != "alpha" || got[0].ChunkCount != 2 {
		t.Fatalf("unexpected first collection: %+v", got[0])
	}
	if got[1].Name != "beta" || got[1].ChunkCount != 1 {
		t.Fatalf("unexpected second collection: %+v", got[1])
	}
	if !got[0].LastWrite.Equal(stamp) {
		t.Fatalf("expected last write %v, got %v", stamp, got[0].LastWrite)
	}
}
