package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Terminal renders markdown with ANSI styling.
type Terminal struct {
	glamour *glamour.TermRenderer
}

// NewTerminal creates a renderer wrapping at width using a glamour standard
// style ("dark", "light", "notty", ...).
func NewTerminal(style string, width int) (*Terminal, error) {
	gr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Terminal{glamour: gr}, nil
}

// Render returns the styled content, or content unchanged if rendering fails.
func (t *Terminal) Render(content string) string {
	rendered, err := t.glamour.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}
