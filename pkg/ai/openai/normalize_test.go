package openai

import "testing"

func TestNormalizeInputs(t *testing.T) {
	idxMap, nonBlank, out := normalizeInputs([]string{"hello", "  ", "", "world"}, 3)
	if len(nonBlank) != 2 {
		t.Fatalf("expected 2 non-blank inputs, got %d", len(nonBlank))
	}
	if nonBlank[0] != "hello" || nonBlank[1] != "world" {
		t.Fatalf("unexpected non-blank inputs: %v", nonBlank)
	}
	if idxMap[0] != 0 || idxMap[1] != 3 {
		t.Fatalf("unexpected index map: %v", idxMap)
	}
	if len(out) != 4 {
		t.Fatalf("expected 4 output slots, got %d", len(out))
	}
	for _, i := range []int{1, 2} {
		if len(out[i]) != 3 {
			t.Fatalf("expected zero vector of dim 3 at %d, got %v", i, out[i])
		}
	}
}

func TestFitDimension(t *testing.T) {
	vec := []float32{1, 2, 3}
	if got := fitDimension(vec, 0); len(got) != 3 {
		t.Fatalf("dim 0 should leave vector unchanged, got %v", got)
	}
	if got := fitDimension(vec, 2); len(got) != 2 || got[1] != 2 {
		t.Fatalf("expected truncation to [1 2], got %v", got)
	}
	got := fitDimension(vec, 5)
	if len(got) != 5 || got[2] != 3 || got[4] != 0 {
		t.Fatalf("expected zero-padded vector, got %v", got)
	}
}
