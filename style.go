package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

var (
	keywordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#89F0CB"}).
			Bold(true)

	paragraphStyle = lipgloss.NewStyle().
			Margin(1, 0, 0, 0)
)

// keyword renders a string we want to emphasize in help output.
func keyword(s string) string {
	return keywordStyle.Render(s)
}

// paragraph wraps and indents help text.
func paragraph(s string) string {
	return paragraphStyle.Render(indent.String(wordwrap.String(s, 78), 2))
}
