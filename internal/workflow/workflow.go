package workflow

import (
	"encoding/json"
	"fmt"
)

// Kind identifies what a node does when the workflow runs.
type Kind string

const (
	KindUserQuery     Kind = "user_query"
	KindKnowledgeBase Kind = "knowledge_base"
	KindLLMEngine     Kind = "llm_engine"
	KindOutput        Kind = "output"
)

// Position is canvas placement only; it has no effect on execution.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one element of a workflow graph. Params carries the raw,
// kind-specific parameter object as submitted by the canvas; it is decoded
// into a typed record via KnowledgeBaseParams or LLMEngineParams.
type Node struct {
	ID       string          `json:"id" validate:"required"`
	Type     Kind            `json:"type" validate:"required"`
	Params   json.RawMessage `json:"params,omitempty"`
	Position *Position       `json:"position,omitempty"`
}

// Edge connects two nodes by id. Beyond topology validation the edges carry
// no behavioral weight; execution reads node kinds and params directly.
type Edge struct {
	ID     string `json:"id,omitempty"`
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// Definition is the node/edge structure a workflow executes against.
type Definition struct {
	Nodes []Node `json:"nodes" validate:"required"`
	Edges []Edge `json:"edges"`
}

// KnowledgeBaseParams are the decoded parameters of a knowledge_base node.
type KnowledgeBaseParams struct {
	Collection     string `json:"collection_name"`
	TopK           int    `json:"top_k"`
	ChunkSize      int    `json:"chunk_size"`
	ChunkOverlap   int    `json:"chunk_overlap"`
	EmbeddingModel string `json:"embedding_model"`
}

// LLMEngineParams are the decoded parameters of an llm_engine node.
type LLMEngineParams struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	WebSearch bool   `json:"web_search"`
}

// KnowledgeBaseParams decodes the node's raw params into a typed record,
// applying the collection and top_k defaults.
func (n Node) KnowledgeBaseParams() (KnowledgeBaseParams, error) {
	params := KnowledgeBaseParams{}
	if len(n.Params) > 0 {
		if err := json.Unmarshal(n.Params, &params); err != nil {
			return KnowledgeBaseParams{}, fmt.Errorf("invalid knowledge_base params for node %q: %w", n.ID, err)
		}
	}
	if params.Collection == "" {
		params.Collection = "default"
	}
	if params.TopK <= 0 {
		params.TopK = 4
	}
	return params, nil
}

// LLMEngineParams decodes the node's raw params into a typed record.
func (n Node) LLMEngineParams() (LLMEngineParams, error) {
	params := LLMEngineParams{}
	if len(n.Params) > 0 {
		if err := json.Unmarshal(n.Params, &params); err != nil {
			return LLMEngineParams{}, fmt.Errorf("invalid llm_engine params for node %q: %w", n.ID, err)
		}
	}
	return params, nil
}
