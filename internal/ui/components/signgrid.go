package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/horoscope/internal/ui/theme"
	"github.com/abhisek/horoscope/internal/zodiac"
)

// SignGridColumns is the number of signs per grid row.
const SignGridColumns = 4

// SignGrid is a cursor over the twelve signs laid out in rows. It only
// moves the cursor; choosing a sign is left to the owning screen.
type SignGrid struct {
	Signs  []zodiac.Sign
	Cursor int
	// Marked signs are drawn highlighted, e.g. the current selection.
	Marked map[zodiac.Sign]bool
}

// NewSignGrid creates a grid over zodiac.All().
func NewSignGrid() SignGrid {
	return SignGrid{Signs: zodiac.All(), Marked: map[zodiac.Sign]bool{}}
}

// Current is the sign under the cursor.
func (g SignGrid) Current() zodiac.Sign {
	if g.Cursor < 0 || g.Cursor >= len(g.Signs) {
		return 0
	}
	return g.Signs[g.Cursor]
}

// AtTop reports whether the cursor is on the first row.
func (g SignGrid) AtTop() bool {
	return g.Cursor < SignGridColumns
}

// Update moves the cursor with the arrow keys or hjkl.
func (g SignGrid) Update(msg tea.Msg) (SignGrid, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return g, nil
	}

	switch kmsg.String() {
	case "left", "h":
		if g.Cursor%SignGridColumns > 0 {
			g.Cursor--
		}
	case "right", "l":
		if g.Cursor%SignGridColumns < SignGridColumns-1 && g.Cursor+1 < len(g.Signs) {
			g.Cursor++
		}
	case "up", "k":
		if g.Cursor-SignGridColumns >= 0 {
			g.Cursor -= SignGridColumns
		}
	case "down", "j":
		if g.Cursor+SignGridColumns < len(g.Signs) {
			g.Cursor += SignGridColumns
		}
	}
	return g, nil
}

// View renders the grid. focused controls whether the cursor is drawn.
func (g SignGrid) View(focused bool) string {
	cell := lipgloss.NewStyle().Width(15).Align(lipgloss.Center)

	var rows []string
	for start := 0; start < len(g.Signs); start += SignGridColumns {
		end := min(start+SignGridColumns, len(g.Signs))
		cells := make([]string, 0, SignGridColumns)
		for i := start; i < end; i++ {
			s := g.Signs[i]
			label := s.Symbol() + " " + s.String()
			style := theme.Unselected
			switch {
			case focused && i == g.Cursor:
				style = theme.Selected
				label = "▸" + label
			case g.Marked[s]:
				style = theme.Picked
			}
			cells = append(cells, cell.Render(style.Render(label)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n\n")
}
