package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/horoscope/internal/router"
	"github.com/abhisek/horoscope/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "home" }
func (s *stubScreen) Title() string                           { return "Home" }

func newTestWelcome() (*WelcomeScreen, *int) {
	callCount := 0
	factory := func() screen.Screen {
		callCount++
		return &stubScreen{}
	}
	return New(factory), &callCount
}

func sendTicks(w *WelcomeScreen, n int) tea.Cmd {
	var cmd tea.Cmd
	for i := 0; i < n; i++ {
		_, cmd = w.Update(tickMsg(time.Now()))
	}
	return cmd
}

func ticksFor(d time.Duration) int {
	return int(d / tickInterval)
}

func TestPhases(t *testing.T) {
	w, _ := newTestWelcome()

	view := w.View(80, 24)
	if strings.Contains(view, "Ask the stars") {
		t.Error("tagline should not be visible at start")
	}

	sendTicks(w, ticksFor(bannerAt))
	view = w.View(80, 24)
	if !strings.Contains(view, "Ask the stars") {
		t.Error("tagline should be visible once the banner phase starts")
	}
	if strings.Contains(view, "press any key") {
		t.Error("hint should not be visible before the hint phase")
	}

	sendTicks(w, ticksFor(hintAt-bannerAt))
	if !strings.Contains(w.View(80, 24), "press any key") {
		t.Error("hint should be visible after the hint phase")
	}
}

func TestViewFillsArea(t *testing.T) {
	w, _ := newTestWelcome()
	sendTicks(w, ticksFor(totalDur))

	view := w.View(70, 20)
	if got := lipgloss.Height(view); got != 20 {
		t.Errorf("expected 20 lines, got %d", got)
	}
	if got := lipgloss.Width(view); got > 70 {
		t.Errorf("expected width at most 70, got %d", got)
	}
}

func TestElapsedCapped(t *testing.T) {
	w, callCount := newTestWelcome()

	sendTicks(w, ticksFor(totalDur)+10)
	if w.elapsed != totalDur {
		t.Errorf("expected elapsed capped at %v, got %v", totalDur, w.elapsed)
	}
	if *callCount != 0 {
		t.Errorf("factory should not be called without keypress, got %d", *callCount)
	}
}

func TestKeypressEmitsReplace(t *testing.T) {
	w, callCount := newTestWelcome()
	sendTicks(w, 2)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' ', Text: " "})
	if cmd == nil {
		t.Fatal("keypress should trigger transition")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen == nil {
		t.Error("replace screen should not be nil")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called once, got %d", *callCount)
	}
}

func TestFactoryCalledOnce(t *testing.T) {
	w, callCount := newTestWelcome()

	w.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	_, cmd := w.Update(tea.KeyPressMsg{Code: 'b', Text: "b"})
	if cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called exactly once, got %d", *callCount)
	}
}

func TestTicksStopAfterTransition(t *testing.T) {
	w, _ := newTestWelcome()
	w.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})

	if cmd := sendTicks(w, 1); cmd != nil {
		t.Error("no further ticks expected after transition")
	}
}

func TestStarfieldIsStable(t *testing.T) {
	a := newStarfield(10).render(40, 10, 0, "")
	b := newStarfield(10).render(40, 10, 0, "")
	if a != b {
		t.Error("starfield should be deterministic")
	}
	if a == newStarfield(10).render(40, 10, 1, "") {
		t.Error("stars should twinkle between ticks")
	}
}

func TestTitleEmpty(t *testing.T) {
	w, _ := newTestWelcome()
	if w.Title() != "" {
		t.Errorf("expected empty title, got %q", w.Title())
	}
}
