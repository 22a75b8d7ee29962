package workflow

import "fmt"

// TopologyError reports a workflow graph that cannot be executed.
type TopologyError struct {
	Reason string
}

func (e *TopologyError) Error() string {
	return "invalid topology: " + e.Reason
}

// ValidateTopology checks that a definition can be executed and returns a
// lookup from node kind to the node of that kind. Rules:
//   - at least one node
//   - node ids are unique
//   - every edge references existing node ids
//   - exactly one llm_engine node
//   - at most one knowledge_base node
//
// It is a pure function; no side effects.
func ValidateTopology(def Definition) (map[Kind]Node, error) {
	if len(def.Nodes) == 0 {
		return nil, &TopologyError{Reason: "workflow must have at least one node"}
	}

	nodeIDs := make(map[string]bool, len(def.Nodes))
	for _, node := range def.Nodes {
		if node.ID == "" {
			return nil, &TopologyError{Reason: "node is missing an id"}
		}
		if nodeIDs[node.ID] {
			return nil, &TopologyError{Reason: fmt.Sprintf("duplicate node id %q", node.ID)}
		}
		nodeIDs[node.ID] = true
	}

	for _, edge := range def.Edges {
		if !nodeIDs[edge.Source] || !nodeIDs[edge.Target] {
			return nil, &TopologyError{Reason: "edges reference unknown nodes"}
		}
	}

	byKind := make(map[Kind]Node)
	llmCount := 0
	kbCount := 0
	for _, node := range def.Nodes {
		switch node.Type {
		case KindLLMEngine:
			llmCount++
		case KindKnowledgeBase:
			kbCount++
		}
		if _, seen := byKind[node.Type]; !seen {
			byKind[node.Type] = node
		}
	}

	if llmCount == 0 {
		return nil, &TopologyError{Reason: "workflow needs an llm_engine node"}
	}
	if llmCount > 1 {
		return nil, &TopologyError{Reason: "only one llm_engine node is allowed"}
	}
	if kbCount > 1 {
		return nil, &TopologyError{Reason: "only one knowledge_base node is allowed"}
	}

	return byKind, nil
}
