package llm

import (
	"regexp"
	"strings"
)

var (
	// Patterns for extracting code from markdown code blocks
	codeBlockJS    = regexp.MustCompile("(?s)```(?:javascript|js)\\s*(.+?)```")
	codeBlockPlain = regexp.MustCompile("(?s)```\\s*(.+?)```")
)

// ExtractCode extracts the script from markdown code fences if present.
// Returns the original text when no fences are found: some models reply
// with bare code.
func ExtractCode(text string) string {
	if match := codeBlockJS.FindStringSubmatch(text); len(match) >= 2 {
		return strings.TrimSpace(match[1])
	}
	if match := codeBlockPlain.FindStringSubmatch(text); len(match) >= 2 {
		return strings.TrimSpace(match[1])
	}
	return strings.TrimSpace(text)
}
