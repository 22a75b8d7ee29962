package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://serpapi.com"
	defaultMaxSnippets = 2
)

// Client fetches short web search snippets from SerpAPI's Google engine.
type Client struct {
	apiKey      string
	baseURL     string
	maxSnippets int
	httpClient  *http.Client
}

// NewClientParams configures a search Client. BaseURL is overridable for
// tests; MaxSnippets caps how many snippets Fetch returns.
type NewClientParams struct {
	APIKey      string
	BaseURL     string
	MaxSnippets int
}

// NewClient creates a Client, or nil when no API key is configured so
// callers can treat web search as absent.
func NewClient(params NewClientParams) *Client {
	if params.APIKey == "" {
		return nil
	}

	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	maxSnippets := params.MaxSnippets
	if maxSnippets <= 0 {
		maxSnippets = defaultMaxSnippets
	}

	return &Client{
		apiKey:      params.APIKey,
		baseURL:     baseURL,
		maxSnippets: maxSnippets,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

type searchResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

// Fetch runs a Google search and returns up to maxSnippets result snippets,
// falling back to the result title when a snippet is missing.
func (c *Client) Fetch(ctx context.Context, query string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/search.json?%s", c.baseURL, url.Values{
		"engine":  {"google"},
		"q":       {query},
		"api_key": {c.apiKey},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed with status %d", res.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Error != "" {
		return nil, fmt.Errorf("search request failed: %s", body.Error)
	}

	snippets := make([]string, 0, c.maxSnippets)
	for _, result := range body.OrganicResults {
		text := strings.TrimSpace(result.Snippet)
		if text == "" {
			text = strings.TrimSpace(result.Title)
		}
		if text == "" {
			continue
		}
		snippets = append(snippets, text)
		if len(snippets) >= c.maxSnippets {
			break
		}
	}
	return snippets, nil
}
