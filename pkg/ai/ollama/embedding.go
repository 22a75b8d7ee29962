package ollama

import (
	"context"
	"strings"

	"github.com/ollama/ollama/api"
)

// EmbedTexts embeds all texts in one batch request against the local model.
// Blank inputs get a zero vector. model may override the configured default.
func (c *Client) EmbedTexts(ctx context.Context, texts []string, model string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if model == "" {
		model = c.embeddingModel
	}

	out := make([][]float32, len(texts))
	idxMap := make([]int, 0, len(texts))
	nonBlank := make([]string, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			out[i] = make([]float32, max(c.embeddingDim, 0))
			continue
		}
		idxMap = append(idxMap, i)
		nonBlank = append(nonBlank, text)
	}
	if len(nonBlank) == 0 {
		return out, nil
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.reqLock.Release(1)

	res, err := c.api.Embed(ctx, &api.EmbedRequest{
		Model: model,
		Input: nonBlank,
	})
	if err != nil {
		return nil, err
	}

	for i, embedding := range res.Embeddings {
		if i >= len(idxMap) {
			break
		}
		vec := make([]float32, len(embedding))
		copy(vec, embedding)
		out[idxMap[i]] = fit(vec, c.embeddingDim)
	}
	for i := range out {
		if out[i] == nil {
			out[i] = make([]float32, max(c.embeddingDim, 0))
		}
	}
	return out, nil
}

func fit(vec []float32, dim int) []float32 {
	if dim <= 0 || len(vec) == dim {
		return vec
	}
	if len(vec) > dim {
		return vec[:dim]
	}
	padded := make([]float32, dim)
	copy(padded, vec)
	return padded
}
