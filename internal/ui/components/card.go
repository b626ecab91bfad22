package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/horoscope/internal/ui/theme"
)

// ContentWidth returns the inner width shared by stacked cards so their
// borders line up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	return max(20, min(w, 72))
}

// Card wraps content in a rounded-border card of content width cw.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 1).
		Render(content)
}

// Overlay centers a modal box over the whole content area.
func Overlay(content string, width, height int) string {
	box := theme.Overlay.Width(min(width-4, 56)).Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
