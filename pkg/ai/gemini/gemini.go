package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RangerAkash1/workflow-builder/backend/pkg/ai"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"
)

// Client calls the Gemini generateContent REST API. It implements
// ai.ChatCompletionProvider.
type Client struct {
	apiKey  string
	baseURL string
	model   string

	httpClient *http.Client
}

// NewClientParams configures a Gemini Client.
type NewClientParams struct {
	APIKey  string
	BaseURL string // override for tests and proxies
	Model   string
}

// NewClient creates a Client, or nil when no API key is configured.
func NewClient(params NewClientParams) *Client {
	if params.APIKey == "" {
		return nil
	}
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := params.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:     params.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents          []generateContent `json:"contents"`
	SystemInstruction *generateContent  `json:"systemInstruction,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the prompt and prior turns to generateContent and returns
// the first candidate's text.
func (c *Client) Complete(
	ctx context.Context,
	prompt string,
	history []ai.ChatMessage,
	opts ...ai.CompleteOption,
) (string, error) {
	options := ai.CompleteOptions{Model: c.model}
	for _, o := range opts {
		o(&options)
	}

	contents := make([]generateContent, 0, len(history)+1)
	for _, message := range history {
		role := "user"
		if message.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, generateContent{
			Role:  role,
			Parts: []generatePart{{Text: message.Message}},
		})
	}
	contents = append(contents, generateContent{
		Role:  "user",
		Parts: []generatePart{{Text: prompt}},
	})

	reqBody := generateRequest{Contents: contents}
	if options.SystemPrompt != "" {
		reqBody.SystemInstruction = &generateContent{
			Parts: []generatePart{{Text: options.SystemPrompt}},
		}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf(
		"%s/models/%s:generateContent?key=%s",
		c.baseURL,
		url.PathEscape(options.Model),
		url.QueryEscape(c.apiKey),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("gemini returned malformed response (status %d)", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		if decoded.Error != nil {
			return "", fmt.Errorf("gemini error %d: %s", decoded.Error.Code, decoded.Error.Message)
		}
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var builder strings.Builder
	for _, part := range decoded.Candidates[0].Content.Parts {
		builder.WriteString(part.Text)
	}
	return builder.String(), nil
}
