package welcome

import (
	"math/rand/v2"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/horoscope/internal/ui/theme"
)

var starGlyphs = []string{"·", "✦", "✧", "⋆"}

type star struct {
	x, y  int
	phase int
}

// starfield is a fixed scatter of stars that twinkle as ticks advance.
type starfield struct {
	stars []star
}

// newStarfield scatters n stars on a unit grid scaled at render time. The
// seed is fixed so the sky is the same on every launch.
func newStarfield(n int) starfield {
	r := rand.New(rand.NewPCG(7, 12))
	sf := starfield{stars: make([]star, n)}
	for i := range sf.stars {
		sf.stars[i] = star{x: r.IntN(1000), y: r.IntN(1000), phase: r.IntN(len(starGlyphs))}
	}
	return sf
}

// render draws the sky into a width x height block with fg centered on
// top. Rows that carry foreground text show only that text.
func (sf starfield) render(width, height, tick int, fg string) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	grid := make([][]string, height)
	for y := range grid {
		grid[y] = make([]string, width)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}

	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	bright := lipgloss.NewStyle().Foreground(theme.Accent)
	for _, s := range sf.stars {
		x, y := s.x*width/1000, s.y*height/1000
		glyph := starGlyphs[(s.phase+tick)%len(starGlyphs)]
		if (s.phase+tick)%3 == 0 {
			grid[y][x] = bright.Render(glyph)
		} else {
			grid[y][x] = dim.Render(glyph)
		}
	}

	fgLines := strings.Split(fg, "\n")
	top := (height - len(fgLines)) / 2
	var b strings.Builder
	for y := range grid {
		if i := y - top; i >= 0 && i < len(fgLines) && strings.TrimSpace(fgLines[i]) != "" {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, fgLines[i]))
		} else {
			b.WriteString(strings.Join(grid[y], ""))
		}
		if y < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
