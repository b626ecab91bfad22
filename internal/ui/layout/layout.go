package layout

import (
	"fmt"
	"math"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/horoscope/internal/ui/theme"
)

const (
	MinWidth  = 64
	MinHeight = 22
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"The sky is too narrow here\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

const synodicMonth = 29.530588853

// Reference new moon, 2000-01-06 18:14 UTC.
var newMoon = time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)

var moonGlyphs = [8]string{"🌑", "🌒", "🌓", "🌔", "🌕", "🌖", "🌗", "🌘"}

// MoonPhase returns the phase of the moon at t as a fraction of the
// synodic month in [0,1), 0 being new moon.
func MoonPhase(t time.Time) float64 {
	days := t.Sub(newMoon).Hours() / 24
	p := math.Mod(days, synodicMonth) / synodicMonth
	if p < 0 {
		p++
	}
	return p
}

// MoonGlyph returns the emoji for the moon phase at t.
func MoonGlyph(t time.Time) string {
	i := int(math.Round(MoonPhase(t)*8)) % 8
	return moonGlyphs[i]
}

// Header is the content of the top bar.
type Header struct {
	Title  string
	Status string
	// Moon is drawn before the status; empty hides it.
	Moon string
}

// Render draws the header box at the given width: app name on the left,
// title centred, moon and status on the right.
func (h Header) Render(width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Render("  ✶ Horoscope")

	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(h.Title)

	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(strings.TrimSpace(h.Moon + "  " + h.Status))

	innerWidth := max(width-4, 0) // border + padding
	leftGap := max((innerWidth-lipgloss.Width(center))/2-lipgloss.Width(left), 1)
	rightGap := max(innerWidth-lipgloss.Width(left)-leftGap-lipgloss.Width(center)-lipgloss.Width(right), 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
	return box(width).Render(content)
}

// RenderFooter renders the footer with key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		parts = append(parts, part)
	}
	return box(width).Render("  " + strings.Join(parts, "   "))
}

func box(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderFrame stacks header, content and footer, clipping the content to
// the height left between them.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	styledContent := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return header + "\n" + styledContent + "\n" + footer
}
