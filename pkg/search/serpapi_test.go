package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClient_NoKey(t *testing.T) {
	if client := NewClient(NewClientParams{}); client != nil {
		t.Fatal("expected nil client without an API key")
	}
}

func TestFetch_CapsSnippets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("engine"); got != "google" {
			t.Fatalf("expected google engine, got %q", got)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Fatalf("expected api key in query, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"organic_results": []map[string]string{
				{"title": "One", "snippet": "first snippet"},
				{"title": "Two", "snippet": "second snippet"},
				{"title": "Three", "snippet": "third snippet"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(NewClientParams{APIKey: "test-key", BaseURL: server.URL})
	got, err := client.Fetch(context.Background(), "golang")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 snippets, got %d", len(got))
	}
	if got[0] != "first snippet" || got[1] != "second snippet" {
		t.Fatalf("unexpected snippets: %v", got)
	}
}

func TestFetch_TitleFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"organic_results": []map[string]string{
				{"title": "Only a title"},
				{"title": "", "snippet": "   "},
			},
		})
	}))
	defer server.Close()

	client := NewClient(NewClientParams{APIKey: "test-key", BaseURL: server.URL})
	got, err := client.Fetch(context.Background(), "golang")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(got) != 1 || got[0] != "Only a title" {
		t.Fatalf("expected title fallback, got %v", got)
	}
}

func TestFetch_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid API key"})
	}))
	defer server.Close()

	client := NewClient(NewClientParams{APIKey: "bad-key", BaseURL: server.URL})
	if _, err := client.Fetch(context.Background(), "golang"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestFetch_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(NewClientParams{APIKey: "test-key", BaseURL: server.URL})
	if _, err := client.Fetch(context.Background(), "golang"); err == nil {
		t.Fatal("expected error for non-200 status, got nil")
	}
}
