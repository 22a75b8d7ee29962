package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/RangerAkash1/workflow-builder/backend/internal/workflow"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/ai"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/vector"
	vecmemory "github.com/RangerAkash1/workflow-builder/backend/pkg/vector/memory"
)

type fakeProvider struct {
	answer     string
	err        error
	delay      time.Duration
	lastPrompt string
}

func (p *fakeProvider) Complete(ctx context.Context, prompt string, history []ai.ChatMessage, opts ...ai.CompleteOption) (string, error) {
	p.lastPrompt = prompt
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if p.err != nil {
		return "", p.err
	}
	return p.answer, nil
}

type fakeEmbedder struct {
	err error
}

func (e *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string, model string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

type fakeFetcher struct {
	snippets []string
	err      error
}

func (f *fakeFetcher) Fetch(ctx context.Context, query string) ([]string, error) {
	return f.snippets, f.err
}

type memorySink struct {
	mu      sync.Mutex
	records []ExecutionRecord
}

func (s *memorySink) Record(ctx context.Context, rec ExecutionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *memorySink) last(t *testing.T) ExecutionRecord {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		t.Fatal("expected an execution record")
	}
	return s.records[len(s.records)-1]
}

func registryWith(id string, p ai.ChatCompletionProvider) *ai.Registry {
	registry := ai.NewRegistry()
	registry.Register(id, p)
	return registry
}

func llmOnlyDefinition(params string) workflow.Definition {
	return workflow.Definition{
		Nodes: []workflow.Node{
			{ID: "q", Type: workflow.KindUserQuery},
			{ID: "llm", Type: workflow.KindLLMEngine, Params: json.RawMessage(params)},
			{ID: "out", Type: workflow.KindOutput},
		},
		Edges: []workflow.Edge{
			{Source: "q", Target: "llm"},
			{Source: "llm", Target: "out"},
		},
	}
}

func ragDefinition(collection string) workflow.Definition {
	def := llmOnlyDefinition(`{"provider": "fake"}`)
	def.Nodes = append(def.Nodes, workflow.Node{
		ID:     "kb",
		Type:   workflow.KindKnowledgeBase,
		Params: json.RawMessage(`{"collection_name": "` + collection + `", "top_k": 2}`),
	})
	def.Edges = append(def.Edges, workflow.Edge{Source: "kb", Target: "llm"})
	return def
}

func seededStore(t *testing.T, collection string, texts ...string) vector.Store {
	t.Helper()
	store := vecmemory.NewStore()
	chunks := make([]vector.Chunk, len(texts))
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		chunks[i] = vector.Chunk{ID: text, Text: text}
		embeddings[i] = []float32{1, 0}
	}
	if err := store.Upsert(context.Background(), collection, chunks, embeddings); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return store
}

func TestRun_DirectAnswer(t *testing.T) {
	provider := &fakeProvider{answer: "hi there"}
	sink := &memorySink{}
	runner := &Runner{
		Providers: registryWith("fake", provider),
		Logs:      sink,
	}

	result, err := runner.Run(context.Background(), RunParams{
		Definition: llmOnlyDefinition(`{"provider": "fake"}`),
		Query:      "hello",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Response != "hi there" {
		t.Fatalf("unexpected response %q", result.Response)
	}
	if result.Provider != "fake" {
		t.Fatalf("unexpected provider %q", result.Provider)
	}
	if len(result.ContextChunks) != 0 || len(result.WebSnippets) != 0 {
		t.Fatal("no knowledge base or web search configured, expected empty extras")
	}

	rec := sink.last(t)
	if rec.Status != StatusSuccess {
		t.Fatalf("expected success record, got %q", rec.Status)
	}
	if rec.ContextUsed != 0 || rec.WebUsed {
		t.Fatalf("unexpected record extras: %+v", rec)
	}
}

func TestRun_WithRetrievalAndWeb(t *testing.T) {
	provider := &fakeProvider{answer: "grounded answer"}
	sink := &memorySink{}
	runner := &Runner{
		Providers: registryWith("fake", provider),
		Embedder:  &fakeEmbedder{},
		Store:     seededStore(t, "docs", "alpha fact", "beta fact"),
		Search:    &fakeFetcher{snippets: []string{"web one", "web two", "web three"}},
		Logs:      sink,
	}

	def := ragDefinition("docs")
	def.Nodes[1].Params = json.RawMessage(`{"provider": "fake", "web_search": true}`)

	result, err := runner.Run(context.Background(), RunParams{Definition: def, Query: "tell me"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(result.ContextChunks) != 2 {
		t.Fatalf("expected 2 context chunks, got %d", len(result.ContextChunks))
	}
	if len(result.WebSnippets) != 2 {
		t.Fatalf("expected snippets capped at 2, got %d", len(result.WebSnippets))
	}
	if !strings.Contains(provider.lastPrompt, "Context:") {
		t.Fatal("prompt should carry the retrieved context")
	}
	if !strings.Contains(provider.lastPrompt, "Web search hints:") {
		t.Fatal("prompt should carry the web snippets")
	}

	rec := sink.last(t)
	if rec.Status != StatusSuccess || rec.ContextUsed != 2 || !rec.WebUsed {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestRun_RetrievalFailsSoft(t *testing.T) {
	provider := &fakeProvider{answer: "still answers"}
	sink := &memorySink{}
	runner := &Runner{
		Providers: registryWith("fake", provider),
		Embedder:  &fakeEmbedder{err: errors.New("embed backend down")},
		Store:     vecmemory.NewStore(),
		Logs:      sink,
	}

	result, err := runner.Run(context.Background(), RunParams{
		Definition: ragDefinition("docs"),
		Query:      "tell me",
	})
	if err != nil {
		t.Fatalf("retrieval failure must not fail the run, got %v", err)
	}
	if len(result.ContextChunks) != 0 {
		t.Fatalf("expected empty context, got %v", result.ContextChunks)
	}
	if strings.Contains(provider.lastPrompt, "Context:") {
		t.Fatal("prompt must omit the context section when retrieval fails")
	}
	if rec := sink.last(t); rec.Status != StatusSuccess {
		t.Fatalf("expected success record, got %q", rec.Status)
	}
}

func TestRun_WebSearchFailsSoft(t *testing.T) {
	provider := &fakeProvider{answer: "still answers"}
	runner := &Runner{
		Providers: registryWith("fake", provider),
		Search:    &fakeFetcher{err: errors.New("search down")},
		Logs:      &memorySink{},
	}

	result, err := runner.Run(context.Background(), RunParams{
		Definition: llmOnlyDefinition(`{"provider": "fake", "web_search": true}`),
		Query:      "tell me",
	})
	if err != nil {
		t.Fatalf("web search failure must not fail the run, got %v", err)
	}
	if len(result.WebSnippets) != 0 {
		t.Fatalf("expected no snippets, got %v", result.WebSnippets)
	}
}

func TestRun_ProviderFailureIsHard(t *testing.T) {
	provider := &fakeProvider{err: errors.New("model overloaded")}
	sink := &memorySink{}
	runner := &Runner{
		Providers: registryWith("fake", provider),
		Logs:      sink,
	}

	_, err := runner.Run(context.Background(), RunParams{
		Definition: llmOnlyDefinition(`{"provider": "fake"}`),
		Query:      "hello",
	})
	var invErr *InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected InvocationError, got %v", err)
	}
	if invErr.Provider != "fake" {
		t.Fatalf("unexpected provider in error: %q", invErr.Provider)
	}

	rec := sink.last(t)
	if rec.Status != StatusError {
		t.Fatalf("expected error record, got %q", rec.Status)
	}
	if !strings.Contains(rec.ErrorMessage, "model overloaded") {
		t.Fatalf("expected provider error in record, got %q", rec.ErrorMessage)
	}
}

func TestRun_UnknownProvider(t *testing.T) {
	runner := &Runner{
		Providers: registryWith("fake", &fakeProvider{answer: "x"}),
		Logs:      &memorySink{},
	}

	_, err := runner.Run(context.Background(), RunParams{
		Definition: llmOnlyDefinition(`{"provider": "nope"}`),
		Query:      "hello",
	})
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestRun_DefaultsToFirstProvider(t *testing.T) {
	provider := &fakeProvider{answer: "default answer"}
	runner := &Runner{
		Providers: registryWith("fake", provider),
		Logs:      &memorySink{},
	}

	result, err := runner.Run(context.Background(), RunParams{
		Definition: llmOnlyDefinition(`{}`),
		Query:      "hello",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Provider != "fake" {
		t.Fatalf("expected default provider fake, got %q", result.Provider)
	}
}

func TestRun_EmbedderRequiredForKnowledgeBase(t *testing.T) {
	sink := &memorySink{}
	runner := &Runner{
		Providers: registryWith("fake", &fakeProvider{answer: "x"}),
		Store:     vecmemory.NewStore(),
		Logs:      sink,
	}

	_, err := runner.Run(context.Background(), RunParams{
		Definition: ragDefinition("docs"),
		Query:      "hello",
	})
	if !errors.Is(err, ErrEmbeddingUnavailable) {
		t.Fatalf("expected ErrEmbeddingUnavailable, got %v", err)
	}
	if rec := sink.last(t); rec.Status != StatusError {
		t.Fatalf("expected error record, got %q", rec.Status)
	}
}

func TestRun_TopologyErrorIsLogged(t *testing.T) {
	sink := &memorySink{}
	runner := &Runner{
		Providers: registryWith("fake", &fakeProvider{answer: "x"}),
		Logs:      sink,
	}

	_, err := runner.Run(context.Background(), RunParams{
		Definition: workflow.Definition{
			Nodes: []workflow.Node{{ID: "q", Type: workflow.KindUserQuery}},
		},
		Query: "hello",
	})
	var topoErr *workflow.TopologyError
	if !errors.As(err, &topoErr) {
		t.Fatalf("expected TopologyError, got %v", err)
	}
	if rec := sink.last(t); rec.Status != StatusError {
		t.Fatalf("topology failures must still be recorded, got %q", rec.Status)
	}
}

func TestRun_TimeoutClassified(t *testing.T) {
	provider := &fakeProvider{answer: "late", delay: 200 * time.Millisecond}
	sink := &memorySink{}
	runner := &Runner{
		Providers: registryWith("fake", provider),
		Logs:      sink,
		Timeout:   20 * time.Millisecond,
	}

	_, err := runner.Run(context.Background(), RunParams{
		Definition: llmOnlyDefinition(`{"provider": "fake"}`),
		Query:      "hello",
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if rec := sink.last(t); rec.Status != StatusTimeout {
		t.Fatalf("expected timeout record, got %q", rec.Status)
	}
}
