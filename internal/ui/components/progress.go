package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/horoscope/internal/ui/theme"
)

// Score bands used to tint a ScoreBar.
const (
	StrongScore = 75
	WeakScore   = 45
)

// ScoreBar renders one 0-100 compatibility score as a labelled bar.
type ScoreBar struct {
	Label string
	Score int
	Width int
}

// NewScoreBar creates a bar for score, clamped to [0,100].
func NewScoreBar(label string, score, width int) ScoreBar {
	return ScoreBar{Label: label, Score: max(0, min(score, 100)), Width: width}
}

// Color is the fill colour for the bar's score band.
func (b ScoreBar) Color() color.Color {
	switch {
	case b.Score >= StrongScore:
		return theme.Success
	case b.Score < WeakScore:
		return theme.Error
	default:
		return theme.Accent
	}
}

func (b ScoreBar) View() string {
	label := ""
	if b.Label != "" {
		label = lipgloss.NewStyle().Foreground(theme.Text).Render(b.Label) + "  "
	}
	pct := fmt.Sprintf("  %3d%%", b.Score)

	barWidth := max(b.Width-lipgloss.Width(label)-len(pct), 4)
	filled := (barWidth*b.Score + 50) / 100

	fill := theme.ScoreTrack.Background(b.Color())
	return label +
		fill.Render(strings.Repeat(" ", filled)) +
		theme.ScoreTrack.Render(strings.Repeat(" ", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(pct)
}
