package chat

import (
	"fmt"
	"strings"

	"github.com/RangerAkash1/workflow-builder/backend/pkg/ai"
)

const answerDirective = "Answer concisely. If unsure, say you are unsure."

// maxHistoryTurns bounds how many past exchanges the prompt carries.
const maxHistoryTurns = 5

// BuildPrompt assembles the final LLM prompt. Sections appear in a fixed
// order and empty sections are omitted entirely, so the same inputs always
// produce the same prompt.
func BuildPrompt(instruction string, chunks, snippets []string, history []ai.ChatMessage, query string) string {
	sections := make([]string, 0, 6)

	if s := strings.TrimSpace(instruction); s != "" {
		sections = append(sections, s)
	}
	if len(chunks) > 0 {
		sections = append(sections, "Context:\n"+strings.Join(chunks, "\n---\n"))
	}
	if len(snippets) > 0 {
		sections = append(sections, "Web search hints:\n"+strings.Join(snippets, "\n"))
	}
	if turns := RecentTurns(history, maxHistoryTurns); len(turns) > 0 {
		lines := make([]string, 0, len(turns))
		for _, msg := range turns {
			lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, msg.Message))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	sections = append(sections, "Question: "+query)
	sections = append(sections, answerDirective)

	return strings.Join(sections, "\n\n")
}

// RecentTurns keeps the tail of a conversation, at most maxTurns exchanges
// (two messages per exchange).
func RecentTurns(history []ai.ChatMessage, maxTurns int) []ai.ChatMessage {
	if maxTurns <= 0 {
		return nil
	}
	keep := maxTurns * 2
	if len(history) <= keep {
		return history
	}
	return history[len(history)-keep:]
}
