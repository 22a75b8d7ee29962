package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func uploadContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestParseUploadParams_ReadsQueryOnPost(t *testing.T) {
	c := uploadContext(t, "/knowledge/upload?collection=docs&chunk_size=500&chunk_overlap=50&embedding_model=text-embedding-3-small")

	params, err := parseUploadParams(c)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if params.Collection != "docs" {
		t.Fatalf("expected collection docs, got %q", params.Collection)
	}
	if params.ChunkSize != 500 || params.ChunkOverlap != 50 {
		t.Fatalf("expected chunking 500/50, got %d/%d", params.ChunkSize, params.ChunkOverlap)
	}
	if params.EmbeddingModel != "text-embedding-3-small" {
		t.Fatalf("unexpected embedding model %q", params.EmbeddingModel)
	}
}

func TestParseUploadParams_Defaults(t *testing.T) {
	c := uploadContext(t, "/knowledge/upload")

	params, err := parseUploadParams(c)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if params.Collection != "default" {
		t.Fatalf("expected collection default, got %q", params.Collection)
	}
	if params.ChunkSize != 0 || params.ChunkOverlap != 0 || params.EmbeddingModel != "" {
		t.Fatalf("expected zero-value options, got %+v", params)
	}
}

func TestParseUploadParams_RejectsBadChunking(t *testing.T) {
	for _, target := range []string{
		"/knowledge/upload?chunk_size=abc",
		"/knowledge/upload?chunk_size=0",
		"/knowledge/upload?chunk_overlap=-1",
	} {
		if _, err := parseUploadParams(uploadContext(t, target)); err == nil {
			t.Fatalf("expected an error for %s", target)
		}
	}
}
