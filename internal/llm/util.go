// Package llm - util.go provides shared utilities for completion post-processing.
package llm

import (
	"strings"
	"unicode/utf8"
)

// StripMarkdownFence removes a code fence wrapping the whole completion.
// Models sometimes wrap Markdown answers in ```markdown ... ``` even when told not to.
func StripMarkdownFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Skip a language identifier on the opening line
	if idx := strings.Index(text, "\n"); idx >= 0 {
		firstLine := text[:idx]
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// PromptPreview flattens a prompt onto one line and cuts it to limit runes, adding "..." when cut.
func PromptPreview(prompt string, limit int) string {
	head := strings.ReplaceAll(strings.TrimSpace(prompt), "\n", " ")
	if utf8.RuneCountInString(head) <= limit {
		return head
	}
	runes := []rune(head)
	return string(runes[:limit]) + "..."
}
