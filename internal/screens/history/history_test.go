package history

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/horoscope/internal/store"
)

type fakeSource struct {
	events []store.SubmissionEventRecord
	err    error
	opts   store.QueryOpts
}

func (f *fakeSource) QuerySubmissionEvents(_ context.Context, opts store.QueryOpts) ([]store.SubmissionEventRecord, error) {
	f.opts = opts
	return f.events, f.err
}

func record(seq int64, name, outcome, errMsg string) store.SubmissionEventRecord {
	return store.SubmissionEventRecord{
		Sequence:  seq,
		Timestamp: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		SubmissionEventData: store.SubmissionEventData{
			DraftID:      "d",
			Astrologer:   name,
			AdResult:     "unavailable",
			AdError:      "no fill",
			Outcome:      outcome,
			ErrorMessage: errMsg,
			LatencyMs:    42,
		},
	}
}

func load(t *testing.T, src *fakeSource) *HistoryScreen {
	t.Helper()
	s := New(src)
	msg := s.Init()()
	s.Update(msg)
	return s
}

func TestLoadsRecentEvents(t *testing.T) {
	src := &fakeSource{events: []store.SubmissionEventRecord{
		record(2, "Lucia", "not-accepted", "submission rejected"),
		record(1, "Maria", "accepted", ""),
	}}
	s := load(t, src)

	assert.Equal(t, Limit, src.opts.Limit)
	view := s.View(100, 30)
	assert.Contains(t, view, "Lucia")
	assert.Contains(t, view, "not sent")
	assert.Contains(t, view, "Maria")
	assert.NotContains(t, view, "submission rejected")
}

func TestEnterExpandsDetails(t *testing.T) {
	src := &fakeSource{events: []store.SubmissionEventRecord{
		record(2, "Lucia", "not-accepted", "submission rejected"),
		record(1, "Maria", "accepted", ""),
	}}
	s := load(t, src)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view := s.View(100, 30)
	assert.Contains(t, view, "error: submission rejected")
	assert.Contains(t, view, "ad error: no fill")

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, s.selected, "cursor stops at the last row")
}

func TestEmptyAndError(t *testing.T) {
	s := load(t, &fakeSource{})
	assert.Contains(t, s.View(80, 20), "No questions sent yet.")

	s = load(t, &fakeSource{err: errors.New("disk full")})
	assert.Contains(t, s.View(80, 20), "disk full")
}

func TestLoadingBeforeResult(t *testing.T) {
	s := New(&fakeSource{})
	require.NotNil(t, s.Init())
	assert.Contains(t, s.View(80, 20), "Loading history")
}
