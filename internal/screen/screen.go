package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/horoscope/internal/ui/layout"
)

// Screen is one page of the app. The router owns the stack of screens and
// forwards messages to the top one.
type Screen interface {
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area only; the app draws header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens that want their own footer.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Modal is implemented by screens that sometimes need every key, Esc
// included, e.g. while an overlay is open.
type Modal interface {
	Modal() bool
}

// Resumer is implemented by screens that refresh when the screen above
// them is popped.
type Resumer interface {
	Resume() tea.Cmd
}
