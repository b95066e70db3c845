package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
)

// DefaultWrap is the word-wrap width used for rendered Markdown.
const DefaultWrap = 80

// Markdown renders md for the terminal. When rendering fails, or output is
// not a terminal, md is returned unchanged.
func Markdown(md string, width int) string {
	if !IsTerminal(os.Stdout) {
		return md
	}
	if width <= 0 {
		width = DefaultWrap
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// IsTerminal reports whether f is attached to a character device.
func IsTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
