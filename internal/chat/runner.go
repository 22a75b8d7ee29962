package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RangerAkash1/workflow-builder/backend/internal/workflow"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/ai"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/logger"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/vector"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusTimeout = "timeout"
)

const (
	defaultTimeout          = 30 * time.Second
	defaultMaxContextChunks = 3
	defaultMaxWebSnippets   = 2
)

var (
	// ErrEmbeddingUnavailable means a knowledge_base node was requested but
	// no embedding backend is configured.
	ErrEmbeddingUnavailable = errors.New("no embedding backend configured")
	// ErrProviderUnavailable means the requested LLM provider is not registered.
	ErrProviderUnavailable = errors.New("llm provider not configured")
)

// InvocationError wraps a failure from the LLM provider itself.
type InvocationError struct {
	Provider string
	Err      error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// SnippetFetcher supplies short web search snippets for a query.
type SnippetFetcher interface {
	Fetch(ctx context.Context, query string) ([]string, error)
}

// ExecutionSink records one execution outcome. Every run produces exactly
// one record, whatever the outcome.
type ExecutionSink interface {
	Record(ctx context.Context, rec ExecutionRecord) error
}

// ExecutionRecord is the audit entry for a single chat run.
type ExecutionRecord struct {
	UserID       *int64
	WorkflowUUID *string
	WorkflowName *string
	Status       string
	Query        string
	Response     string
	Provider     string
	DurationMs   int64
	ErrorMessage string
	ContextUsed  int
	WebUsed      bool
}

// RunParams describe one chat execution request.
type RunParams struct {
	Definition workflow.Definition
	Query      string
	History    []ai.ChatMessage

	UserID       *int64
	WorkflowUUID *string
	WorkflowName *string
}

// RunResult is the outcome of a successful chat execution.
type RunResult struct {
	Response      string
	Provider      string
	ContextChunks []string
	WebSnippets   []string
	DurationMs    int64
}

// Runner executes a validated workflow end to end: embed the query,
// retrieve context, fetch web snippets, assemble the prompt, and invoke
// the LLM. Retrieval and web search fail soft; the LLM call fails hard.
type Runner struct {
	Providers *ai.Registry
	Embedder  ai.Embedder
	Store     vector.Store
	Search    SnippetFetcher
	Logs      ExecutionSink

	Timeout          time.Duration
	MaxContextChunks int
	MaxWebSnippets   int
}

// Run executes the workflow definition for one user query. Every call is
// recorded through the execution sink, including validation failures.
func (r *Runner) Run(ctx context.Context, params RunParams) (*RunResult, error) {
	start := time.Now()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := r.run(ctx, params)
	elapsed := time.Since(start).Milliseconds()

	rec := ExecutionRecord{
		UserID:       params.UserID,
		WorkflowUUID: params.WorkflowUUID,
		WorkflowName: params.WorkflowName,
		Status:       StatusSuccess,
		Query:        params.Query,
		DurationMs:   elapsed,
	}
	if err != nil {
		rec.Status = StatusError
		if errors.Is(err, context.DeadlineExceeded) {
			rec.Status = StatusTimeout
		}
		rec.ErrorMessage = err.Error()
		var invErr *InvocationError
		if errors.As(err, &invErr) {
			rec.Provider = invErr.Provider
		}
	} else {
		result.DurationMs = elapsed
		rec.Response = result.Response
		rec.Provider = result.Provider
		rec.ContextUsed = len(result.ContextChunks)
		rec.WebUsed = len(result.WebSnippets) > 0
	}

	if r.Logs != nil {
		// Recording uses a fresh context so a timed-out run still gets logged.
		logCtx, logCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer logCancel()
		if logErr := r.Logs.Record(logCtx, rec); logErr != nil {
			logger.Error("Failed to record execution log", "err", logErr)
		}
	}

	return result, err
}

func (r *Runner) run(ctx context.Context, params RunParams) (*RunResult, error) {
	byKind, err := workflow.ValidateTopology(params.Definition)
	if err != nil {
		return nil, err
	}

	llmNode := byKind[workflow.KindLLMEngine]
	llmParams, err := llmNode.LLMEngineParams()
	if err != nil {
		return nil, err
	}

	kbNode, hasKB := byKind[workflow.KindKnowledgeBase]
	var kbParams workflow.KnowledgeBaseParams
	if hasKB {
		kbParams, err = kbNode.KnowledgeBaseParams()
		if err != nil {
			return nil, err
		}
		if r.Embedder == nil {
			return nil, ErrEmbeddingUnavailable
		}
	}

	providerID := llmParams.Provider
	if providerID == "" {
		providerID = r.Providers.DefaultID()
	}
	provider, ok := r.Providers.Provider(providerID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderUnavailable, llmParams.Provider)
	}

	var (
		chunks   []string
		snippets []string
	)
	group, groupCtx := errgroup.WithContext(ctx)
	if hasKB && r.Store != nil {
		group.Go(func() error {
			chunks = r.retrieve(groupCtx, params.Query, kbParams)
			return nil
		})
	}
	if llmParams.WebSearch && r.Search != nil {
		group.Go(func() error {
			snippets = r.fetchSnippets(groupCtx, params.Query)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prompt := BuildPrompt(llmParams.Prompt, chunks, snippets, params.History, params.Query)

	answer, err := provider.Complete(ctx, prompt, nil, ai.WithModel(llmParams.Model))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &InvocationError{Provider: providerID, Err: err}
	}

	return &RunResult{
		Response:      answer,
		Provider:      providerID,
		ContextChunks: chunks,
		WebSnippets:   snippets,
	}, nil
}

// retrieve embeds the query and fetches nearest chunks. Failures degrade
// to an empty context rather than failing the run.
func (r *Runner) retrieve(ctx context.Context, query string, params workflow.KnowledgeBaseParams) []string {
	embeddings, err := r.Embedder.EmbedTexts(ctx, []string{query}, params.EmbeddingModel)
	if err != nil || len(embeddings) == 0 {
		logger.Warn("Query embedding failed, continuing without context", "err", err)
		return nil
	}

	topK := params.TopK
	maxChunks := r.MaxContextChunks
	if maxChunks <= 0 {
		maxChunks = defaultMaxContextChunks
	}
	if topK <= 0 || topK > maxChunks {
		topK = maxChunks
	}

	chunks, err := r.Store.Query(ctx, params.Collection, embeddings[0], topK)
	if err != nil {
		logger.Warn("Vector retrieval failed, continuing without context", "err", err)
		return nil
	}
	return chunks
}

// fetchSnippets pulls web hints for the query. Failures degrade to none.
func (r *Runner) fetchSnippets(ctx context.Context, query string) []string {
	snippets, err := r.Search.Fetch(ctx, query)
	if err != nil {
		logger.Warn("Web search failed, continuing without snippets", "err", err)
		return nil
	}
	maxSnippets := r.MaxWebSnippets
	if maxSnippets <= 0 {
		maxSnippets = defaultMaxWebSnippets
	}
	if len(snippets) > maxSnippets {
		snippets = snippets[:maxSnippets]
	}
	return snippets
}
