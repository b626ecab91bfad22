package astrologers

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/horoscope/internal/config"
	"github.com/abhisek/horoscope/internal/i18n"
	"github.com/abhisek/horoscope/internal/router"
	"github.com/abhisek/horoscope/internal/screen"
	"github.com/abhisek/horoscope/internal/screens/question"
	"github.com/abhisek/horoscope/internal/ui/components"
	"github.com/abhisek/horoscope/internal/ui/layout"
	"github.com/abhisek/horoscope/internal/ui/theme"
)

// Deps configures the roster and the question screens it opens.
type Deps struct {
	Roster   []config.Astrologer
	Question question.Deps
}

// Screen lists the astrologers a question can be sent to.
type Screen struct {
	menu  components.Menu
	empty bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the roster screen.
func New(deps Deps) *Screen {
	items := make([]components.MenuItem, 0, len(deps.Roster))
	for _, a := range deps.Roster {
		items = append(items, components.MenuItem{
			Label: a.Name,
			Hint:  question.SchoolLine(a),
			Action: func() tea.Cmd {
				q := question.New(a, deps.Question)
				return func() tea.Msg { return router.PushScreenMsg{Screen: q} }
			},
		})
	}
	return &Screen{menu: components.NewMenu(items), empty: len(items) == 0}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return i18n.T("Astrologers")
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Ask"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	if s.empty {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No astrologers configured."))
	}
	cw := components.ContentWidth(width)
	content := strings.Join([]string{
		theme.Title.Width(cw).Render(i18n.T("Ask an astrologer")),
		components.Card(s.menu.View(), cw),
	}, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
