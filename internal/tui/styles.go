package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/buddytype/internal/theme"
)

type styles struct {
	correct     lipgloss.Style
	incorrect   lipgloss.Style
	extra       lipgloss.Style
	missed      lipgloss.Style
	pending     lipgloss.Style
	currentWord lipgloss.Style
	cursor      lipgloss.Style
	footer      lipgloss.Style
	err         lipgloss.Style
	label       lipgloss.Style
	value       lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	fg := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	return styles{
		correct:     fg(p.Correct),
		incorrect:   fg(p.Incorrect),
		extra:       fg(p.Extra),
		missed:      fg(p.Incorrect).Underline(true),
		pending:     fg(p.TextDim),
		currentWord: fg(p.Text),
		cursor:      fg(p.Cursor).Underline(true),
		footer:      fg(p.Stats),
		err:         fg(p.Incorrect),
		label:       fg(p.TextDim),
		value:       fg(p.Accent).Bold(true),
	}
}
