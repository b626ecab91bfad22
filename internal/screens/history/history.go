package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/horoscope/internal/i18n"
	"github.com/abhisek/horoscope/internal/screen"
	"github.com/abhisek/horoscope/internal/store"
	"github.com/abhisek/horoscope/internal/ui/layout"
	"github.com/abhisek/horoscope/internal/ui/theme"
)

// Limit is how many past submissions the screen loads.
const Limit = 50

// Source is the part of store.EventRepo the screen reads.
type Source interface {
	QuerySubmissionEvents(ctx context.Context, opts store.QueryOpts) ([]store.SubmissionEventRecord, error)
}

type historyLoadedMsg struct {
	Events []store.SubmissionEventRecord
	Err    error
}

// HistoryScreen lists past question submissions, newest first.
type HistoryScreen struct {
	source   Source
	events   []store.SubmissionEventRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(source Source) *HistoryScreen {
	return &HistoryScreen{
		source:   source,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	src := s.source
	return func() tea.Msg {
		events, err := src.QuerySubmissionEvents(context.Background(), store.QueryOpts{Limit: Limit})
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return i18n.T("History")
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  " + i18n.T("No submissions yet"))
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, ev := range s.events {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-12s  %s", prefix,
			ev.Timestamp.Local().Format("Jan 02 15:04"), ev.Astrologer, outcomeLabel(ev.Outcome))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, d := range details(ev) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render("    "+d)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func outcomeLabel(outcome string) string {
	switch outcome {
	case "accepted":
		return theme.Good.Render("✓ sent")
	case "not-accepted":
		return theme.Bad.Render("✗ not sent")
	default:
		return outcome
	}
}

func details(ev store.SubmissionEventRecord) []string {
	out := []string{
		fmt.Sprintf("ad: %s", ev.AdResult),
		fmt.Sprintf("took: %dms", ev.LatencyMs),
	}
	if ev.AdError != "" {
		out = append(out, "ad error: "+ev.AdError)
	}
	if ev.ErrorMessage != "" {
		out = append(out, "error: "+ev.ErrorMessage)
	}
	return out
}
