package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown for the terminal,
// wrapping at wrap columns.
func NewRenderer(wrap int) (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil, err
	}

	return r.Render, nil
}
