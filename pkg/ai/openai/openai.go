package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"

	"github.com/RangerAkash1/workflow-builder/backend/pkg/ai"
)

const (
	defaultChatModel      = "gpt-4o-mini"
	defaultEmbeddingModel = "text-embedding-3-small"
)

// Client talks to the OpenAI API for chat completions and embeddings.
// It implements both ai.ChatCompletionProvider and ai.Embedder.
//
// A Client should be created with NewClient.
type Client struct {
	chatModel      string
	embeddingModel string
	embeddingDim   int

	reqLock *semaphore.Weighted

	api *openai.Client
}

// NewClientParams configures a Client.
//
// ChatModel and EmbeddingModel default to gpt-4o-mini and
// text-embedding-3-small. EmbeddingDim is the dimension vectors are
// normalized to; BaseURL overrides the API endpoint (useful for
// OpenAI-compatible gateways).
type NewClientParams struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	EmbeddingDim   int

	MaxConcurrentRequests int64
}

// NewClient creates a Client, or nil when no API key is configured.
func NewClient(params NewClientParams) *Client {
	if params.APIKey == "" {
		return nil
	}

	options := []option.RequestOption{option.WithAPIKey(params.APIKey)}
	if params.BaseURL != "" {
		options = append(options, option.WithBaseURL(params.BaseURL))
	}
	apiClient := openai.NewClient(options...)

	chatModel := params.ChatModel
	if chatModel == "" {
		chatModel = defaultChatModel
	}
	embeddingModel := params.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = defaultEmbeddingModel
	}
	maxConcurrent := params.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}

	return &Client{
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
		embeddingDim:   params.EmbeddingDim,
		reqLock:        semaphore.NewWeighted(maxConcurrent),
		api:            &apiClient,
	}
}

// Complete sends the prompt, preceded by the system instruction and prior
// turns, to the chat completions API and returns the generated text.
func (c *Client) Complete(
	ctx context.Context,
	prompt string,
	history []ai.ChatMessage,
	opts ...ai.CompleteOption,
) (string, error) {
	options := ai.CompleteOptions{
		Model:       c.chatModel,
		Temperature: 0.2,
	}
	for _, o := range opts {
		o(&options)
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	if options.SystemPrompt != "" {
		msgs = append(msgs, openai.SystemMessage(options.SystemPrompt))
	}
	for _, message := range history {
		switch message.Role {
		case "user":
			msgs = append(msgs, openai.UserMessage(message.Message))
		case "assistant":
			msgs = append(msgs, openai.AssistantMessage(message.Message))
		}
	}
	msgs = append(msgs, openai.UserMessage(prompt))

	body := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(options.Model),
		Messages:    msgs,
		Temperature: openai.Float(options.Temperature),
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.reqLock.Release(1)

	response, err := c.api.Chat.Completions.New(ctx, body)
	if err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response from model %s", options.Model)
	}
	return response.Choices[0].Message.Content, nil
}

// EmbedTexts embeds all texts in one batch request. The result has one
// vector per input, in input order. Blank inputs get a zero vector without
// being sent to the API.
func (c *Client) EmbedTexts(ctx context.Context, texts []string, model string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if model == "" {
		model = c.embeddingModel
	}

	idxMap, nonBlank, out := normalizeInputs(texts, c.embeddingDim)
	if len(nonBlank) == 0 {
		return out, nil
	}

	body := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: nonBlank},
		Model: model,
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.reqLock.Release(1)

	response, err := c.api.Embeddings.New(ctx, body)
	if err != nil {
		return nil, err
	}
	if len(response.Data) != len(nonBlank) {
		return nil, fmt.Errorf("embedding response size mismatch: got %d want %d", len(response.Data), len(nonBlank))
	}

	for _, embedding := range response.Data {
		dataIdx := int(embedding.Index)
		if dataIdx < 0 || dataIdx >= len(nonBlank) {
			return nil, fmt.Errorf("embedding index out of range: %d", embedding.Index)
		}
		vec := make([]float32, 0, len(embedding.Embedding))
		for _, v := range embedding.Embedding {
			vec = append(vec, float32(v))
		}
		out[idxMap[dataIdx]] = fitDimension(vec, c.embeddingDim)
	}
	for i := range out {
		if out[i] == nil {
			return nil, fmt.Errorf("missing embedding for input %d", i)
		}
	}
	return out, nil
}
