package ingest

import "strings"

const (
	// DefaultChunkSize is the sliding-window width in characters.
	DefaultChunkSize = 800
	// DefaultChunkOverlap is how many characters consecutive windows share.
	DefaultChunkOverlap = 80
)

// ChunkText splits text into overlapping character windows. Newlines are
// flattened to spaces first so chunk boundaries ignore line breaks. Blank
// windows are dropped.
func ChunkText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
		if overlap >= size {
			overlap = size / 10
		}
	}

	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	step := size - overlap

	chunks := make([]string, 0, (len(runes)/step)+1)
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
