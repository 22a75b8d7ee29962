package workflow

import (
	"encoding/json"
	"errors"
	"testing"
)

func nodes(kinds ...Kind) []Node {
	out := make([]Node, 0, len(kinds))
	for i, kind := range kinds {
		out = append(out, Node{ID: string(rune('a' + i)), Type: kind})
	}
	return out
}

func TestValidateTopology_MinimalValid(t *testing.T) {
	def := Definition{
		Nodes: []Node{
			{ID: "q", Type: KindUserQuery},
			{ID: "llm", Type: KindLLMEngine},
			{ID: "out", Type: KindOutput},
		},
		Edges: []Edge{
			{Source: "q", Target: "llm"},
			{Source: "llm", Target: "out"},
		},
	}
	byKind, err := ValidateTopology(def)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if byKind[KindLLMEngine].ID != "llm" {
		t.Fatalf("expected llm node in lookup, got %+v", byKind[KindLLMEngine])
	}
	if _, ok := byKind[KindKnowledgeBase]; ok {
		t.Fatal("did not expect a knowledge_base entry")
	}
}

func TestValidateTopology_WithKnowledgeBase(t *testing.T) {
	def := Definition{
		Nodes: nodes(KindUserQuery, KindKnowledgeBase, KindLLMEngine, KindOutput),
	}
	byKind, err := ValidateTopology(def)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, ok := byKind[KindKnowledgeBase]; !ok {
		t.Fatal("expected knowledge_base entry in lookup")
	}
}

func TestValidateTopology_Invalid(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
	}{
		{"no nodes", Definition{}},
		{"no llm engine", Definition{Nodes: nodes(KindUserQuery, KindOutput)}},
		{"two llm engines", Definition{Nodes: nodes(KindLLMEngine, KindLLMEngine)}},
		{"two knowledge bases", Definition{Nodes: nodes(KindKnowledgeBase, KindKnowledgeBase, KindLLMEngine)}},
		{"edge to unknown node", Definition{
			Nodes: []Node{{ID: "llm", Type: KindLLMEngine}},
			Edges: []Edge{{Source: "llm", Target: "ghost"}},
		}},
		{"duplicate node id", Definition{
			Nodes: []Node{{ID: "x", Type: KindUserQuery}, {ID: "x", Type: KindLLMEngine}},
		}},
		{"node without id", Definition{
			Nodes: []Node{{Type: KindLLMEngine}},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateTopology(tc.def)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var topoErr *TopologyError
			if !errors.As(err, &topoErr) {
				t.Fatalf("expected TopologyError, got %T: %v", err, err)
			}
		})
	}
}

func TestKnowledgeBaseParams_Defaults(t *testing.T) {
	node := Node{ID: "kb", Type: KindKnowledgeBase}
	params, err := node.KnowledgeBaseParams()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if params.Collection != "default" {
		t.Fatalf("expected default collection, got %q", params.Collection)
	}
	if params.TopK != 4 {
		t.Fatalf("expected top_k 4, got %d", params.TopK)
	}
}

func TestKnowledgeBaseParams_Decode(t *testing.T) {
	node := Node{
		ID:     "kb",
		Type:   KindKnowledgeBase,
		Params: json.RawMessage(`{"collection_name":"docs","top_k":7,"embedding_model":"text-embedding-3-small"}`),
	}
	params, err := node.KnowledgeBaseParams()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if params.Collection != "docs" || params.TopK != 7 || params.EmbeddingModel != "text-embedding-3-small" {
		t.Fatalf("unexpected params: %+v", params)
	}
}

func TestKnowledgeBaseParams_NegativeTopK(t *testing.T) {
	node := Node{ID: "kb", Type: KindKnowledgeBase, Params: json.RawMessage(`{"top_k":-3}`)}
	params, err := node.KnowledgeBaseParams()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if params.TopK != 4 {
		t.Fatalf("expected top_k clamped to default, got %d", params.TopK)
	}
}

func TestLLMEngineParams_Decode(t *testing.T) {
	node := Node{
		ID:     "llm",
		Type:   KindLLMEngine,
		Params: json.RawMessage(`{"provider":"gemini","model":"gemini-2.5-flash","prompt":"Be terse.","web_search":true}`),
	}
	params, err := node.LLMEngineParams()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if params.Provider != "gemini" || !params.WebSearch || params.Prompt != "Be terse." {
		t.Fatalf("unexpected params: %+v", params)
	}
}

func TestLLMEngineParams_Malformed(t *testing.T) {
	node := Node{ID: "llm", Type: KindLLMEngine, Params: json.RawMessage(`{"provider":42}`)}
	if _, err := node.LLMEngineParams(); err == nil {
		t.Fatal("expected decode error, got nil")
	}
}
