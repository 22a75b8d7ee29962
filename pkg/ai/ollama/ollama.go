package ollama

import (
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

const defaultEmbeddingModel = "nomic-embed-text"

// Client embeds texts with a locally-hosted Ollama model. It is the
// fallback ai.Embedder used when no hosted embedding API is configured.
type Client struct {
	embeddingModel string
	embeddingDim   int

	reqLock *semaphore.Weighted

	api *api.Client
}

// NewClientParams configures an Ollama Client. BaseURL empty means the
// local default (http://127.0.0.1:11434).
type NewClientParams struct {
	BaseURL        string
	EmbeddingModel string
	EmbeddingDim   int

	MaxConcurrentRequests int64
}

// NewClient creates a Client pointed at the given Ollama server.
func NewClient(params NewClientParams) (*Client, error) {
	var (
		u   *url.URL
		err error
	)
	if params.BaseURL != "" {
		u, err = url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
	} else {
		u = &url.URL{Scheme: "http", Host: "127.0.0.1:11434"}
	}

	model := params.EmbeddingModel
	if model == "" {
		model = defaultEmbeddingModel
	}
	maxConcurrent := params.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	return &Client{
		embeddingModel: model,
		embeddingDim:   params.EmbeddingDim,
		reqLock:        semaphore.NewWeighted(maxConcurrent),
		api:            api.NewClient(u, http.DefaultClient),
	}, nil
}
