// Package compatibility is the sign-matching screen: pick two signs from
// the grid and read how they match.
package compatibility

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/horoscope/internal/compat"
	"github.com/abhisek/horoscope/internal/i18n"
	"github.com/abhisek/horoscope/internal/screen"
	"github.com/abhisek/horoscope/internal/selection"
	"github.com/abhisek/horoscope/internal/ui/components"
	"github.com/abhisek/horoscope/internal/ui/layout"
	"github.com/abhisek/horoscope/internal/ui/theme"
	"github.com/abhisek/horoscope/internal/zodiac"
)

// Deps configures the screen.
type Deps struct {
	Matcher *compat.Matcher
	Policy  selection.Policy
}

// result is a computed match for the current pair.
type result struct {
	first, second zodiac.Sign
	matches       []compat.Match
	narrative     compat.Narrative
}

type area int

const (
	areaGrid area = iota
	areaSlots
)

// Screen holds the sign grid, the two selection slots above it and, once
// both are filled, the match result.
type Screen struct {
	matcher *compat.Matcher
	picked  *selection.Accumulator

	grid components.SignGrid
	area area
	slot int

	result *result
	notice string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the screen. A nil matcher is allowed; the result area then
// reports that compatibility is unavailable.
func New(deps Deps) *Screen {
	return &Screen{
		matcher: deps.Matcher,
		picked:  selection.New(deps.Policy),
		grid:    components.NewSignGrid(),
	}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return i18n.T("Compatibility")
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.area == areaSlots {
		return []layout.KeyHint{
			{Key: "←→", Description: "Slot"},
			{Key: "Enter", Description: "Start over"},
			{Key: "↓", Description: "Signs"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "Move"},
		{Key: "Enter", Description: "Pick"},
		{Key: "c", Description: "Clear"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	if s.area == areaSlots {
		switch kmsg.String() {
		case "left", "h":
			s.slot = 0
		case "right", "l":
			s.slot = 1
		case "down", "j", "tab":
			s.area = areaGrid
		case "enter", "space":
			s.clear()
			s.area = areaGrid
		}
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if s.grid.AtTop() {
			s.area = areaSlots
			return s, nil
		}
	case "tab":
		s.area = areaSlots
		return s, nil
	case "c", "backspace":
		s.clear()
		return s, nil
	case "enter", "space":
		s.pick(s.grid.Current())
		return s, nil
	}

	var cmd tea.Cmd
	s.grid, cmd = s.grid.Update(msg)
	return s, cmd
}

func (s *Screen) pick(sign zodiac.Sign) {
	s.notice = ""
	if err := s.picked.Add(sign); err != nil {
		switch {
		case errors.Is(err, selection.ErrFull):
			s.notice = i18n.T("Selection full")
		case errors.Is(err, selection.ErrDuplicate):
			s.notice = i18n.T("Already picked", map[string]string{"sign": sign.String()})
		default:
			s.notice = err.Error()
		}
		return
	}
	s.grid.Marked[sign] = true
	s.refresh()
}

func (s *Screen) clear() {
	s.picked.Clear()
	s.grid.Marked = map[zodiac.Sign]bool{}
	s.result = nil
	s.notice = ""
}

// refresh asks the matcher about a complete selection. The matcher is only
// ever queried with exactly two signs.
func (s *Screen) refresh() {
	s.result = nil
	a, b, ok := s.picked.Pair()
	if !ok {
		return
	}
	if s.matcher == nil {
		s.notice = i18n.T("Compatibility unavailable")
		return
	}
	matches, err := s.matcher.ScoreFor(a, b)
	if err != nil {
		s.notice = err.Error()
		return
	}
	narrative, err := s.matcher.NarrativeFor(a, b)
	if err != nil {
		s.notice = err.Error()
		return
	}
	s.result = &result{first: a, second: b, matches: matches, narrative: narrative}
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	sections := []string{s.viewSlots(cw)}
	if s.result != nil {
		sections = append(sections, components.Card(s.viewResult(cw-4), cw))
	} else {
		sections = append(sections,
			theme.Hint.Render(i18n.T("Pick two signs")),
			s.grid.View(s.area == areaGrid))
	}
	if s.notice != "" {
		sections = append(sections, theme.Bad.Width(cw).Render(s.notice))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}

func (s *Screen) viewSlots(cw int) string {
	labels := []string{i18n.T("Your sign"), i18n.T("Partner sign")}
	slotWidth := (cw - 2) / 2
	cells := make([]string, len(labels))
	for i, label := range labels {
		value := "—"
		if sign, ok := s.slotSign(i); ok {
			value = sign.Symbol() + " " + sign.String()
		}
		style := theme.Unselected
		if s.area == areaSlots && s.slot == i {
			style = theme.Selected
		}
		body := theme.Hint.Render(label) + "\n" + style.Render(value)
		cells[i] = components.Card(body, slotWidth)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells[0], "  ", cells[1])
}

func (s *Screen) slotSign(i int) (zodiac.Sign, bool) {
	if i == 0 {
		return s.picked.First()
	}
	return s.picked.Second()
}

func (s *Screen) viewResult(w int) string {
	r := s.result
	title := fmt.Sprintf("%s %s  ×  %s %s",
		r.first.Symbol(), r.first, r.second.Symbol(), r.second)

	bars := make([]string, 0, len(r.matches)+1)
	for _, m := range r.matches {
		label := fmt.Sprintf("%s %-13s", m.Category.Icon(), i18n.T(m.Category.Label()))
		bars = append(bars, components.NewScoreBar(label, m.Score, w).View())
	}
	overall := compat.Overall(r.matches)
	bars = append(bars, "", theme.Subtitle.Render(i18n.T("Overall", map[string]string{"score": fmt.Sprint(overall)})))

	parts := []string{
		theme.Heading.Render(title),
		theme.Body.Width(w).Render(r.narrative.Summary),
		theme.Heading.Render(i18n.T("Relationship")),
		theme.Body.Width(w).Render(r.narrative.Relationship),
		strings.Join(bars, "\n"),
	}
	return strings.Join(parts, "\n\n")
}
