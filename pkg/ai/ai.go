package ai

import (
	"context"
	"sync"
)

// ChatMessage is a single turn of a chat conversation.
//
// Role must be one of:
//   - "user"      → a user-provided message
//   - "assistant" → a message from the AI assistant
type ChatMessage struct {
	Role    string `json:"role"`
	Message string `json:"content"`
}

// CompleteOptions holds configuration for a completion request.
type CompleteOptions struct {
	Model        string  // model identifier override; empty uses the provider default
	SystemPrompt string  // system instruction prepended to the request
	Temperature  float64 // sampling temperature
}

// CompleteOption is a functional option for configuring a completion request.
type CompleteOption func(*CompleteOptions)

// WithModel overrides the model used for the completion.
func WithModel(model string) CompleteOption {
	return func(o *CompleteOptions) {
		if model != "" {
			o.Model = model
		}
	}
}

// WithSystemPrompt sets the system instruction for the completion.
func WithSystemPrompt(prompt string) CompleteOption {
	return func(o *CompleteOptions) {
		o.SystemPrompt = prompt
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temp float64) CompleteOption {
	return func(o *CompleteOptions) {
		o.Temperature = temp
	}
}

// ChatCompletionProvider generates an answer for an assembled prompt.
// History carries prior turns; the prompt itself is sent as the final
// user message.
type ChatCompletionProvider interface {
	Complete(ctx context.Context, prompt string, history []ChatMessage, opts ...CompleteOption) (string, error)
}

// Embedder converts texts into fixed-dimension vectors, one per input,
// preserving order. model may override the configured default; empty uses it.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string, model string) ([][]float32, error)
}

// Registry maps provider identifiers ("openai", "gemini") to configured
// chat-completion providers. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]ChatCompletionProvider
	order     []string
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]ChatCompletionProvider)}
}

// Register adds a provider under the given identifier.
func (r *Registry) Register(id string, provider ChatCompletionProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[id]; !exists {
		r.order = append(r.order, id)
	}
	r.providers[id] = provider
}

// Provider returns the provider registered under id.
func (r *Registry) Provider(id string) (ChatCompletionProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[id]
	return provider, ok
}

// DefaultID returns the identifier of the first registered provider,
// or "" when none are configured.
func (r *Registry) DefaultID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return ""
	}
	return r.order[0]
}
