package question

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/abhisek/horoscope/internal/ads"
	"github.com/abhisek/horoscope/internal/config"
	"github.com/abhisek/horoscope/internal/router"
	"github.com/abhisek/horoscope/internal/submission"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var maria = config.Astrologer{Name: "Maria", School: "Western %{word}"}

// presentingAds shows one creative through a presenter; a nil presenter
// makes every call fail.
type presentingAds struct {
	presenter ads.Presenter
}

func (a presentingAds) Configure(context.Context, string) error {
	if a.presenter == nil {
		return errors.New("no fill")
	}
	return nil
}

func (a presentingAds) RequestInventory(context.Context) error { return nil }

func (a presentingAds) Display(ctx context.Context) error {
	return a.presenter.Present(ctx, ads.Creative{Headline: "Moon Tea", Body: "Brewed at midnight.", CallToAction: "Shop"})
}

type recordingTransport struct {
	mu       sync.Mutex
	bodies   [][]byte
	response *submission.Response
}

func (t *recordingTransport) Submit(_ context.Context, req submission.Request) (*submission.Response, error) {
	raw, err := json.Marshal(req.Body)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bodies = append(t.bodies, raw)
	return t.response, nil
}

func (t *recordingTransport) calls() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([][]byte(nil), t.bodies...)
}

func newScreen(t *testing.T, transport submission.Transport, presenter *ads.ChannelPresenter) *Screen {
	t.Helper()
	var provider presentingAds
	if presenter != nil {
		provider.presenter = presenter
	}
	deps := Deps{
		NewWorkflow: func() *submission.Workflow {
			return submission.New(provider, transport, submission.Config{
				Endpoint:  submission.Endpoint{Method: "POST", URL: "https://api.example.test/v1/questions"},
				AdUnitID:  "question-interstitial",
				AdTimeout: 5 * time.Second,
			})
		},
		Presenter: presenter,
	}
	s := New(maria, deps)
	s.Init()
	return s
}

func typeText(s *Screen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func press(s *Screen, code rune) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

// runAll executes cmd, expanding batches, and streams every non-nil
// message it produces.
func runAll(cmd tea.Cmd) <-chan tea.Msg {
	out := make(chan tea.Msg, 8)
	var wg sync.WaitGroup
	var exec func(tea.Cmd)
	exec = func(c tea.Cmd) {
		defer wg.Done()
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, sub := range batch {
				if sub != nil {
					wg.Add(1)
					go exec(sub)
				}
			}
			return
		}
		if msg != nil {
			out <- msg
		}
	}
	wg.Add(1)
	go exec(cmd)
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// deliver feeds messages to the screen until one of type T arrives.
func deliver[T tea.Msg](t *testing.T, s *Screen, msgs <-chan tea.Msg) T {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case msg, ok := <-msgs:
			require.True(t, ok, "commands finished without the expected message")
			if _, isTick := msg.(spinner.TickMsg); isTick {
				continue
			}
			s.Update(msg)
			if m, ok := msg.(T); ok {
				return m
			}
		case <-timeout:
			t.Fatal("timed out waiting for message")
		}
	}
}

func drain(msgs <-chan tea.Msg) {
	for range msgs {
	}
}

func TestTabCyclesFocus(t *testing.T) {
	s := newScreen(t, &recordingTransport{}, nil)
	assert.Equal(t, focusQuestion, s.focus)
	assert.True(t, s.question.Focused())

	press(s, tea.KeyTab)
	assert.Equal(t, focusEmail, s.focus)
	assert.True(t, s.email.Focused())
	assert.False(t, s.question.Focused())

	press(s, tea.KeyTab)
	assert.Equal(t, focusProceed, s.focus)
	assert.True(t, s.proceed.Focused)

	press(s, tea.KeyTab)
	assert.Equal(t, focusQuestion, s.focus)
}

func TestQuestionLimitedTo250(t *testing.T) {
	s := newScreen(t, &recordingTransport{}, nil)
	long := make([]rune, 300)
	for i := range long {
		long[i] = 'x'
	}
	typeText(s, string(long))
	assert.Len(t, []rune(s.question.Value()), submission.MaxMessageLength)
}

func TestUntouchedFieldsAreAbsent(t *testing.T) {
	s := newScreen(t, &recordingTransport{}, nil)
	d := s.buildDraft()
	assert.Nil(t, d.Message)
	assert.Nil(t, d.Email)
	assert.Equal(t, "Maria", d.Astrologer)
}

func TestSubmitWithoutAdsIsAccepted(t *testing.T) {
	transport := &recordingTransport{response: &submission.Response{StatusCode: 200, Body: []byte(`{"ok":true}`)}}
	s := newScreen(t, transport, nil)

	typeText(s, "When will I find love?")
	press(s, tea.KeyEnter)
	typeText(s, "a@b.com")
	press(s, tea.KeyEnter)
	require.Equal(t, focusProceed, s.focus)

	cmd := press(s, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.True(t, s.busy())
	assert.Contains(t, s.View(100, 40), "Sending")

	msgs := runAll(cmd)
	got := deliver[submittedMsg](t, s, msgs)
	drain(msgs)

	assert.Equal(t, submission.OutcomeAccepted, got.outcome)
	assert.False(t, s.busy())
	assert.True(t, s.proceed.Disabled)
	assert.Contains(t, s.View(100, 40), "Maria will answer by email")

	calls := transport.calls()
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"message":"When will I find love?","email":"a@b.com","astrologer":"Maria"}`, string(calls[0]))

	assert.Nil(t, press(s, tea.KeyEnter), "accepted question cannot be sent again")

	assert.Equal(t, "h", s.KeyHints()[0].Key)
	_, cmd = s.Update(tea.KeyPressMsg{Code: 'h', Text: "h"})
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopToRootMsg{}, cmd())
}

func TestRejectedAllowsRetryWithSameDraftID(t *testing.T) {
	transport := &recordingTransport{response: &submission.Response{StatusCode: 200, Body: []byte(`false`)}}
	s := newScreen(t, transport, nil)
	s.setFocus(focusProceed)

	msgs := runAll(press(s, tea.KeyEnter))
	got := deliver[submittedMsg](t, s, msgs)
	drain(msgs)

	assert.Equal(t, submission.OutcomeNotAccepted, got.outcome)
	assert.False(t, s.proceed.Disabled)
	assert.Contains(t, s.View(100, 40), "could not send your question")

	id := s.buildDraft().ID
	msgs = runAll(press(s, tea.KeyEnter))
	deliver[submittedMsg](t, s, msgs)
	drain(msgs)

	assert.Len(t, transport.calls(), 2)
	assert.Equal(t, id, s.buildDraft().ID)
	assert.JSONEq(t, `{"message":null,"email":null,"astrologer":"Maria"}`, string(transport.calls()[1]))
}

func TestInterstitialOverlay(t *testing.T) {
	presenter := ads.NewChannelPresenter()
	transport := &recordingTransport{response: &submission.Response{StatusCode: 201, Body: []byte(`{"id":7}`)}}
	s := newScreen(t, transport, presenter)
	s.setFocus(focusProceed)

	msgs := runAll(press(s, tea.KeyEnter))
	deliver[adShownMsg](t, s, msgs)

	require.True(t, s.Modal())
	view := s.View(100, 40)
	assert.Contains(t, view, "Moon Tea")
	assert.Contains(t, view, "Press any key to close")
	assert.Empty(t, transport.calls(), "submission waits for the ad")

	s.Update(tea.KeyPressMsg{Code: tea.KeyEsc})
	assert.Nil(t, s.showing)

	got := deliver[submittedMsg](t, s, msgs)
	drain(msgs)
	assert.Equal(t, submission.OutcomeAccepted, got.outcome)
	assert.Len(t, transport.calls(), 1)
	assert.False(t, s.Modal())
}

func TestModalWhileSending(t *testing.T) {
	presenter := ads.NewChannelPresenter()
	transport := &recordingTransport{response: &submission.Response{StatusCode: 200, Body: []byte(`true`)}}
	s := newScreen(t, transport, presenter)
	s.setFocus(focusProceed)
	assert.False(t, s.Modal())

	msgs := runAll(press(s, tea.KeyEnter))
	assert.True(t, s.Modal(), "back navigation is held while the ad is pending")

	// Esc before the ad arrives must not drop the listener.
	assert.Nil(t, press(s, tea.KeyEsc))
	deliver[adShownMsg](t, s, msgs)
	assert.True(t, s.Modal())

	s.Update(tea.KeyPressMsg{Code: tea.KeyEsc})
	got := deliver[submittedMsg](t, s, msgs)
	drain(msgs)
	assert.Equal(t, submission.OutcomeAccepted, got.outcome)
	assert.False(t, s.Modal())
}

func TestNoWorkflowDisablesProceed(t *testing.T) {
	s := New(maria, Deps{})
	s.setFocus(focusProceed)
	assert.True(t, s.proceed.Disabled)
	assert.Nil(t, press(s, tea.KeyEnter))
	assert.Contains(t, s.View(100, 40), "Western Astrology")
}
