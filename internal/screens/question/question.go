package question

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/horoscope/internal/ads"
	"github.com/abhisek/horoscope/internal/config"
	"github.com/abhisek/horoscope/internal/i18n"
	"github.com/abhisek/horoscope/internal/router"
	"github.com/abhisek/horoscope/internal/screen"
	"github.com/abhisek/horoscope/internal/submission"
	"github.com/abhisek/horoscope/internal/ui/components"
	"github.com/abhisek/horoscope/internal/ui/layout"
	"github.com/abhisek/horoscope/internal/ui/theme"
)

// Deps wires the question screen to the submission workflow.
type Deps struct {
	// NewWorkflow builds the workflow for one question screen. Each screen
	// owns its workflow, so an accepted question stays accepted only there.
	NewWorkflow func() *submission.Workflow

	// Presenter delivers interstitials to the overlay. Nil when ads are
	// disabled.
	Presenter *ads.ChannelPresenter
}

type submittedMsg struct {
	outcome submission.Outcome
}

type adShownMsg struct {
	showing ads.Showing
}

type focus int

const (
	focusQuestion focus = iota
	focusEmail
	focusProceed
	focusCount
)

// Screen composes a question for one astrologer and runs the ad-gated
// submission.
type Screen struct {
	astrologer config.Astrologer
	workflow   *submission.Workflow
	presenter  *ads.ChannelPresenter

	// draft keeps its ID across retries so the server can deduplicate.
	draft submission.Draft

	question components.TextInput
	email    components.TextInput
	proceed  components.Button
	spinner  spinner.Model
	focus    focus

	sending  bool
	showing  *ads.Showing
	status   string
	statusOK bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Modal = (*Screen)(nil)

// New creates a question screen addressed to a.
func New(a config.Astrologer, deps Deps) *Screen {
	s := &Screen{
		astrologer: a,
		presenter:  deps.Presenter,
		draft:      submission.NewDraft(a.Name),
		question:   components.NewTextInput(i18n.T("Your question"), "", submission.MaxMessageLength),
		email:      components.NewTextInput(i18n.T("Your email"), "", 0),
		spinner:    spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent))),
	}
	if deps.NewWorkflow != nil {
		s.workflow = deps.NewWorkflow()
	}
	s.question.Counter = true
	s.proceed = components.NewButton(i18n.T("Proceed"), s.submit)
	s.proceed.Disabled = s.workflow == nil
	return s
}

func (s *Screen) Init() tea.Cmd {
	return s.setFocus(focusQuestion)
}

func (s *Screen) Title() string {
	return s.astrologer.Name
}

// Modal is true while a question is being sent or an interstitial is on
// screen. The screen stays on the stack until the workflow returns, so a
// pending ad always has a listener to show and dismiss it.
func (s *Screen) Modal() bool {
	return s.busy() || s.showing != nil
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.showing != nil {
		return []layout.KeyHint{{Key: "any key", Description: "Close ad"}}
	}
	if s.sent() {
		return []layout.KeyHint{
			{Key: "h", Description: "Home"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Proceed"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		s.sending = false
		switch msg.outcome {
		case submission.OutcomeAccepted:
			s.status = i18n.T("Question sent", map[string]string{"name": s.astrologer.Name})
			s.statusOK = true
		case submission.OutcomeNotAccepted:
			s.status = i18n.T("Question not sent")
			s.statusOK = false
		}
		s.proceed.Disabled = s.workflow.Completed()
		return s, nil

	case adShownMsg:
		s.showing = &msg.showing
		return s, nil

	case spinner.TickMsg:
		if !s.busy() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		if s.showing != nil {
			s.showing.Dismiss()
			s.showing = nil
			return s, nil
		}
		return s.handleKey(msg)
	}

	return s.forward(msg)
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, nil
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % focusCount)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + focusCount - 1) % focusCount)
	case "enter":
		if s.focus != focusProceed {
			return s, s.setFocus(s.focus + 1)
		}
	case "h":
		if s.sent() && s.focus == focusProceed {
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s.forward(msg)
}

// sent reports whether this visit's question was accepted.
func (s *Screen) sent() bool {
	return s.workflow != nil && s.workflow.Completed()
}

// forward hands msg to whichever control has focus.
func (s *Screen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.focus {
	case focusQuestion:
		s.question, cmd = s.question.Update(msg)
	case focusEmail:
		s.email, cmd = s.email.Update(msg)
	case focusProceed:
		s.proceed, cmd = s.proceed.Update(msg)
	}
	return s, cmd
}

func (s *Screen) setFocus(f focus) tea.Cmd {
	s.focus = f
	s.question.Blur()
	s.email.Blur()
	s.proceed.Focused = f == focusProceed
	switch f {
	case focusQuestion:
		return s.question.Focus()
	case focusEmail:
		return s.email.Focus()
	}
	return nil
}

// buildDraft copies the screen's draft and fills in the fields the user
// has edited. Untouched fields stay absent.
func (s *Screen) buildDraft() submission.Draft {
	d := s.draft
	if s.question.Touched() {
		d.SetMessage(s.question.Value())
	}
	if s.email.Touched() {
		d.SetEmail(s.email.Value())
	}
	return d
}

func (s *Screen) busy() bool {
	return s.sending || (s.workflow != nil && s.workflow.Busy())
}

// submit starts the workflow. The ad listener runs alongside it and ends
// when the workflow returns.
func (s *Screen) submit() tea.Cmd {
	if s.workflow == nil || s.busy() || s.workflow.Completed() {
		return nil
	}
	s.sending = true
	s.status = ""

	ctx, cancel := context.WithCancel(context.Background())
	return tea.Batch(
		s.spinner.Tick,
		s.run(ctx, cancel, s.buildDraft()),
		s.awaitAd(ctx),
	)
}

func (s *Screen) run(ctx context.Context, cancel context.CancelFunc, d submission.Draft) tea.Cmd {
	wf := s.workflow
	return func() tea.Msg {
		defer cancel()
		return submittedMsg{outcome: wf.Start(ctx, d)}
	}
}

func (s *Screen) awaitAd(ctx context.Context) tea.Cmd {
	if s.presenter == nil {
		return nil
	}
	next := s.presenter.Next()
	return func() tea.Msg {
		select {
		case showing := <-next:
			return adShownMsg{showing: showing}
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *Screen) View(width, height int) string {
	if s.showing != nil {
		return components.Overlay(renderAd(s.showing.Creative), width, height)
	}

	cw := components.ContentWidth(width)
	s.question.SetWidth(cw - 6)
	s.email.SetWidth(cw - 6)

	header := theme.Heading.Render(s.astrologer.Name)
	if school := SchoolLine(s.astrologer); school != "" {
		header += "\n" + theme.Hint.Render(school)
	}

	action := s.proceed.View()
	if s.busy() {
		action += "  " + s.spinner.View() + " " + theme.Hint.Render(i18n.T("Sending"))
	}

	sections := []string{
		header,
		components.Card(s.question.View(), cw),
		components.Card(s.email.View(), cw),
		theme.Hint.Render(i18n.T("You'll need to see an ad before you can send the question")),
		action,
	}
	if s.status != "" {
		style := theme.Bad
		if s.statusOK {
			style = theme.Good
		}
		sections = append(sections, style.Width(cw).Render(s.status))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}

// SchoolLine renders an astrologer's school, e.g. "Western Astrology".
func SchoolLine(a config.Astrologer) string {
	if a.School == "" {
		return ""
	}
	return i18n.T(a.School, map[string]string{"word": i18n.T("Astrology")})
}

func renderAd(c ads.Creative) string {
	parts := []string{theme.Hint.Render(i18n.T("Advertisement"))}
	if c.Headline != "" {
		parts = append(parts, theme.Heading.Render(c.Headline))
	}
	if c.Body != "" {
		parts = append(parts, theme.Body.Render(c.Body))
	}
	if c.CallToAction != "" {
		cta := theme.ButtonActive.Render(c.CallToAction)
		if c.ClickURL != "" {
			cta += "\n" + theme.Hint.Render(c.ClickURL)
		}
		parts = append(parts, cta)
	}
	parts = append(parts, theme.Hint.Render(i18n.T("Press any key to close")))
	return strings.Join(parts, "\n\n")
}
