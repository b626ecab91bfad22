package components

import (
	"fmt"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/horoscope/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a label and remembers whether the
// user has ever edited it.
type TextInput struct {
	Model   textinput.Model
	Label   string
	Counter bool
	touched bool
}

// NewTextInput creates a blurred input. limit of 0 means unlimited.
func NewTextInput(label, placeholder string, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if limit > 0 {
		ti.CharLimit = limit
	}
	return TextInput{Model: ti, Label: label}
}

// Focus gives the input the cursor.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes the cursor.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has the cursor.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// SetWidth sets the visible width of the field.
func (t *TextInput) SetWidth(w int) {
	t.Model.SetWidth(w)
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	before := t.Model.Value()
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	if t.Model.Value() != before {
		t.touched = true
	}
	return t, cmd
}

// View renders the label above the input.
func (t TextInput) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if t.Model.Focused() {
		labelStyle = labelStyle.Foreground(theme.Primary).Bold(true)
	}
	label := labelStyle.Render(t.Label)
	if t.Counter && t.Model.CharLimit > 0 {
		label += theme.Hint.Render(fmt.Sprintf("  %d/%d", len([]rune(t.Model.Value())), t.Model.CharLimit))
	}
	return label + "\n" + t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Touched reports whether the value was ever changed by input. An input
// that was typed into and then cleared is still touched.
func (t TextInput) Touched() bool {
	return t.touched
}
