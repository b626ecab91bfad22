package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/horoscope/internal/i18n"
	"github.com/abhisek/horoscope/internal/router"
	"github.com/abhisek/horoscope/internal/screen"
	"github.com/abhisek/horoscope/internal/screens/astrologers"
	"github.com/abhisek/horoscope/internal/screens/compatibility"
	"github.com/abhisek/horoscope/internal/screens/history"
	"github.com/abhisek/horoscope/internal/store"
	"github.com/abhisek/horoscope/internal/ui/components"
	"github.com/abhisek/horoscope/internal/ui/layout"
	"github.com/abhisek/horoscope/internal/ui/theme"
)

// Deps is everything the screens reachable from home need.
type Deps struct {
	Astrologers   astrologers.Deps
	Compatibility compatibility.Deps

	// History is nil when the app runs without a database.
	History history.Source
}

// HomeScreen is the main menu.
type HomeScreen struct {
	menu    components.Menu
	history history.Source

	// last is the most recent submission, nil until loaded or when there
	// is none.
	last *store.SubmissionEventRecord
}

type lastSubmissionMsg struct {
	event *store.SubmissionEventRecord
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			s := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}

	items := []components.MenuItem{
		{
			Label:  i18n.T("Ask an astrologer"),
			Action: push(func() screen.Screen { return astrologers.New(deps.Astrologers) }),
		},
		{
			Label:  i18n.T("Check compatibility"),
			Action: push(func() screen.Screen { return compatibility.New(deps.Compatibility) }),
		},
		{
			Label:    i18n.T("History"),
			Disabled: deps.History == nil,
			Action:   push(func() screen.Screen { return history.New(deps.History) }),
		},
		{
			Label:  i18n.T("Quit"),
			Action: func() tea.Cmd { return tea.Quit },
		},
	}

	return &HomeScreen{menu: components.NewMenu(items), history: deps.History}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadLast()
}

// Resume reloads the last submission, which may have changed on the
// screens above.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadLast()
}

func (h *HomeScreen) loadLast() tea.Cmd {
	src := h.history
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		events, err := src.QuerySubmissionEvents(context.Background(), store.QueryOpts{Limit: 1})
		if err != nil || len(events) == 0 {
			return lastSubmissionMsg{}
		}
		return lastSubmissionMsg{event: &events[0]}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(lastSubmissionMsg); ok {
		h.last = msg.event
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	title := theme.Title.Width(cw).Render("✶ ☾ ✶")
	sub := theme.Subtitle.Width(cw).Render(i18n.T("Astrology"))

	sections := []string{title, sub, components.Card(h.menu.View(), cw)}
	if h.last != nil {
		key := "Last question sent"
		if h.last.Outcome != "accepted" {
			key = "Last question not sent"
		}
		line := i18n.T(key, map[string]string{
			"name": h.last.Astrologer,
			"when": h.last.Timestamp.Local().Format("Jan 02 15:04"),
		})
		sections = append(sections, theme.Hint.Width(cw).Render(line))
	}
	content := strings.Join(sections, "\n\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
