package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/horoscope/internal/ads"
	"github.com/abhisek/horoscope/internal/config"
	"github.com/abhisek/horoscope/internal/router"
	"github.com/abhisek/horoscope/internal/screen"
	"github.com/abhisek/horoscope/internal/submission"
)

type modalStub struct {
	modal bool
	keys  []string
}

func (s *modalStub) Init() tea.Cmd        { return nil }
func (s *modalStub) View(int, int) string { return "stub" }
func (s *modalStub) Title() string        { return "Stub" }
func (s *modalStub) Modal() bool          { return s.modal }

func (s *modalStub) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		s.keys = append(s.keys, k.String())
	}
	return s, nil
}

var esc = tea.KeyPressMsg{Code: tea.KeyEsc}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	require.True(t, ok)
	return am, cmd
}

func pastSplash(t *testing.T, opts Options) AppModel {
	t.Helper()
	m := newAppModel(opts)
	require.NotNil(t, m.Init())

	m, cmd := update(t, m, tea.KeyPressMsg{Code: 'x', Text: "x"})
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, router.ReplaceScreenMsg{}, msg)
	m, _ = update(t, m, msg)
	require.Equal(t, "Home", m.router.Active().Title())
	return m
}

func TestSplashLeadsHome(t *testing.T) {
	m := pastSplash(t, Options{Config: config.Default()})
	assert.Equal(t, 1, m.router.Depth())
	assert.Equal(t, "ads off", m.status)
}

func TestEscPopsUnlessModal(t *testing.T) {
	m := pastSplash(t, Options{Config: config.Default()})
	stub := &modalStub{modal: true}
	m, _ = update(t, m, router.PushScreenMsg{Screen: stub})

	m, cmd := update(t, m, esc)
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"esc"}, stub.keys, "modal screen receives esc")
	assert.Equal(t, 2, m.router.Depth())

	stub.modal = false
	m, cmd = update(t, m, esc)
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
	m, _ = update(t, m, cmd())
	assert.Equal(t, 1, m.router.Depth())

	_, cmd = update(t, m, esc)
	assert.Nil(t, cmd, "esc on home does nothing")
}

func TestFooterUsesScreenHints(t *testing.T) {
	m := pastSplash(t, Options{Config: config.Default()})
	hints := m.footerHints(m.router.Active())
	require.NotEmpty(t, hints)
	assert.Equal(t, "Ctrl+C", hints[len(hints)-1].Key)
	assert.Equal(t, "↑↓", hints[0].Key)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.NotPanics(t, func() { m.View() })
}

func TestHomeDepsWiring(t *testing.T) {
	cfg := config.Default()
	deps := homeDeps(Options{Config: cfg})
	assert.Nil(t, deps.Astrologers.Question.NewWorkflow, "no transport, no workflow")
	assert.Nil(t, deps.History)
	assert.Equal(t, cfg.Astrologers, deps.Astrologers.Roster)
	assert.Equal(t, cfg.Selection.Policy(), deps.Compatibility.Policy)

	var sent []submission.Request
	transport := submission.TransportFunc(func(_ context.Context, req submission.Request) (*submission.Response, error) {
		sent = append(sent, req)
		return &submission.Response{StatusCode: 200, Body: []byte("true")}, nil
	})
	deps = homeDeps(Options{Config: cfg, Ads: ads.Disabled{}, Transport: transport})
	require.NotNil(t, deps.Astrologers.Question.NewWorkflow)

	wf := deps.Astrologers.Question.NewWorkflow()
	outcome := wf.Start(context.Background(), submission.NewDraft("Maria"))
	assert.Equal(t, submission.OutcomeAccepted, outcome)
	require.Len(t, sent, 1)
	assert.Equal(t, cfg.API.URL, sent[0].URL)
	assert.Equal(t, cfg.API.Method, sent[0].Method)
}
