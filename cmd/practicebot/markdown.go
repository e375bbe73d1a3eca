package main

import (
	"github.com/charmbracelet/glamour"
)

// renderMarkdown pretty-prints markdown for the terminal, falling back to
// the raw text when no renderer is available (piped output, dumb terminals).
func renderMarkdown(content string) string {
	if !isTTY() {
		return content
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}
