package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	markdownRenderer     *glamour.TermRenderer
	markdownRendererOnce sync.Once
)

// renderMarkdown renders a task body to styled terminal output. On any
// renderer failure the raw content is returned unchanged.
func renderMarkdown(content string, width int) string {
	if content == "" {
		return ""
	}

	markdownRendererOnce.Do(func() {
		markdownRenderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
			glamour.WithEmoji(),
		)
	})
	if markdownRenderer == nil {
		return content
	}

	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	// Trim trailing newlines that glamour adds
	return strings.TrimRight(rendered, "\n")
}
