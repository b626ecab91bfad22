package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/horoscope/internal/ads"
	"github.com/abhisek/horoscope/internal/compat"
	"github.com/abhisek/horoscope/internal/config"
	"github.com/abhisek/horoscope/internal/router"
	"github.com/abhisek/horoscope/internal/screen"
	"github.com/abhisek/horoscope/internal/screens/astrologers"
	"github.com/abhisek/horoscope/internal/screens/compatibility"
	"github.com/abhisek/horoscope/internal/screens/home"
	"github.com/abhisek/horoscope/internal/screens/question"
	"github.com/abhisek/horoscope/internal/screens/welcome"
	"github.com/abhisek/horoscope/internal/store"
	"github.com/abhisek/horoscope/internal/submission"
	"github.com/abhisek/horoscope/internal/ui/layout"
)

// Options holds the dependencies for the TUI.
type Options struct {
	Config  config.Config
	Matcher *compat.Matcher

	// Ads serves the interstitial shown before a question is sent. When it
	// is an *ads.Client, Presenter must be the presenter it was built with.
	Ads       submission.AdProvider
	Presenter *ads.ChannelPresenter

	Transport submission.Transport

	// EventRepo is optional; without it submissions are not recorded and
	// history is unavailable.
	EventRepo store.EventRepo

	Logger *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	status string
	width  int
	height int
}

// newAppModel creates an AppModel that opens on the welcome splash.
func newAppModel(opts Options) AppModel {
	deps := homeDeps(opts)
	splash := welcome.New(func() screen.Screen { return home.New(deps) })

	status := ""
	if _, off := opts.Ads.(ads.Disabled); off || opts.Ads == nil {
		status = "ads off"
	}
	return AppModel{
		router: router.New(splash),
		status: status,
	}
}

func homeDeps(opts Options) home.Deps {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	adProvider := opts.Ads
	if adProvider == nil {
		adProvider = ads.Disabled{}
	}

	cfg := opts.Config
	wfConfig := submission.Config{
		Endpoint: submission.Endpoint{
			Method: cfg.API.Method,
			URL:    cfg.API.URL,
			Params: cfg.API.Values(),
		},
		AdUnitID:  cfg.Ads.QuestionUnit,
		AdTimeout: cfg.Ads.Timeout,
	}
	wfOpts := []submission.Option{submission.WithLogger(logger.Named("submission"))}
	if opts.EventRepo != nil {
		wfOpts = append(wfOpts, submission.WithRecorder(opts.EventRepo))
	}

	var newWorkflow func() *submission.Workflow
	if opts.Transport != nil {
		newWorkflow = func() *submission.Workflow {
			return submission.New(adProvider, opts.Transport, wfConfig, wfOpts...)
		}
	}

	deps := home.Deps{
		Astrologers: astrologers.Deps{
			Roster: cfg.Astrologers,
			Question: question.Deps{
				NewWorkflow: newWorkflow,
				Presenter:   opts.Presenter,
			},
		},
		Compatibility: compatibility.Deps{
			Matcher: opts.Matcher,
			Policy:  cfg.Selection.Policy(),
		},
	}
	if opts.EventRepo != nil {
		deps.History = opts.EventRepo
	}
	return deps
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if modal, ok := m.router.Active().(screen.Modal); ok && modal.Modal() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.Header{
		Title:  title,
		Status: m.status,
		Moon:   layout.MoonGlyph(time.Now()),
	}.Render(m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Any key", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
