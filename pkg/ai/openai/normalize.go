package openai

import "strings"

// normalizeInputs splits inputs into blank and non-blank texts. Blank inputs
// get a zero vector immediately; idxMap maps positions in the non-blank
// slice back to positions in out.
func normalizeInputs(texts []string, dim int) (idxMap []int, nonBlank []string, out [][]float32) {
	idxMap = make([]int, 0, len(texts))
	nonBlank = make([]string, 0, len(texts))
	out = make([][]float32, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			out[i] = make([]float32, max(dim, 0))
			continue
		}
		idxMap = append(idxMap, i)
		nonBlank = append(nonBlank, text)
	}
	return idxMap, nonBlank, out
}

// fitDimension pads or truncates vec to dim. dim <= 0 leaves vec unchanged.
func fitDimension(vec []float32, dim int) []float32 {
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
