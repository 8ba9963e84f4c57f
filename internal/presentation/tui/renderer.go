// Package tui renders CLI output for humans: markdown when stdout is a
// terminal, plain text when it is a pipe.
package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// NewRenderer returns a markdown renderer for the given output file.
// Piped output and monochrome terminals get the raw markdown back, so the
// listing stays grep-able.
func NewRenderer(out *os.File) func(string) string {
	if !term.IsTerminal(int(out.Fd())) || termenv.ColorProfile() == termenv.Ascii {
		return func(markdown string) string { return markdown }
	}

	width := 100
	if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 && w < width {
		width = w
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return func(markdown string) string { return markdown }
	}
	return func(markdown string) string {
		rendered, err := r.Render(markdown)
		if err != nil {
			return markdown
		}
		return rendered
	}
}
