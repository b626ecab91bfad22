package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/horoscope/internal/store"
)

func fastRetry(p Provider, attempts int) (*RetryProvider, *[]time.Duration) {
	var waits []time.Duration
	r := WithRetry(p, RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 10 * time.Millisecond,
		MaxWait:     50 * time.Millisecond,
		Multiplier:  2,
	}).(*RetryProvider)
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}},
		MockResponse{Content: json.RawMessage(narrativeJSON)},
	)
	r, waits := fastRetry(mock, 3)

	resp, err := r.Generate(context.Background(), Prompt("", "x", narrativeTestSchema()))
	require.NoError(t, err)
	assert.JSONEq(t, narrativeJSON, string(resp.Content))
	assert.Equal(t, 3, mock.CallCount())
	assert.Len(t, *waits, 2)
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	unavailable := MockResponse{Err: &ErrProviderUnavailable{}}
	mock := NewMockProvider(unavailable, unavailable, unavailable, unavailable)
	r, _ := fastRetry(mock, 3)

	_, err := r.Generate(context.Background(), Prompt("", "x", nil))
	var un *ErrProviderUnavailable
	assert.ErrorAs(t, err, &un)
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	bad := MockResponse{Content: json.RawMessage(`{"summary":"only"}`)}
	mock := NewMockProvider(bad, bad, bad)
	r, _ := fastRetry(mock, 5)

	_, err := r.Generate(context.Background(), Prompt("", "x", narrativeTestSchema()))
	var inv *ErrInvalidResponse
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_MaxTokensNotRetried(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrMaxTokensExceeded{}})
	r, _ := fastRetry(mock, 3)

	_, err := r.Generate(context.Background(), Prompt("", "x", nil))
	var maxTok *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &maxTok)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_RespectsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 7 * time.Second}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	r, waits := fastRetry(mock, 2)

	_, err := r.Generate(context.Background(), Prompt("", "x", nil))
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{7 * time.Second}, *waits)
}

func TestRetry_BackoffCappedWithJitter(t *testing.T) {
	r, _ := fastRetry(NewMockProvider(), 10)
	for attempt := 0; attempt < 6; attempt++ {
		d := r.backoff(attempt, errors.New("x"))
		assert.LessOrEqual(t, d, 60*time.Millisecond, "attempt %d", attempt)
		assert.GreaterOrEqual(t, d, 8*time.Millisecond, "attempt %d", attempt)
	}
}

func TestRetry_StopsOnCancelledContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}})
	r, _ := fastRetry(mock, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Generate(ctx, Prompt("", "x", nil))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, mock.CallCount())
}

func TestWithRetry_ClampsAttempts(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}})
	r := WithRetry(mock, RetryConfig{})

	_, err := r.Generate(context.Background(), Prompt("", "x", nil))
	assert.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (f *fakeRecorder) AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, data)
	return f.err
}

func TestLogging_RecordsSuccess(t *testing.T) {
	rec := &fakeRecorder{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(narrativeJSON),
		Usage:   Usage{InputTokens: 12, OutputTokens: 8, TotalTokens: 20},
	})
	p := WithLogging(mock, "mock", rec, nil)

	ctx := WithPurpose(context.Background(), "narrative")
	_, err := p.Generate(ctx, Prompt("Be kind.", "Aries and Leo", narrativeTestSchema()))
	require.NoError(t, err)

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, "mock", ev.Provider)
	assert.Equal(t, "mock", ev.Model)
	assert.Equal(t, "narrative", ev.Purpose)
	assert.True(t, ev.Success)
	assert.Equal(t, 12, ev.InputTokens)
	assert.Equal(t, 8, ev.OutputTokens)
	assert.Contains(t, ev.RequestBody, "[system]\nBe kind.")
	assert.Contains(t, ev.RequestBody, "[user]\nAries and Leo")
	assert.Contains(t, ev.RequestBody, "[schema: test-narrative]")
	assert.JSONEq(t, narrativeJSON, ev.ResponseBody)
}

func TestLogging_RecordsInvalidContent(t *testing.T) {
	rec := &fakeRecorder{}
	core, logs := observer.New(zap.WarnLevel)
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`not json`)})
	p := WithLogging(mock, "mock", rec, zap.New(core))

	_, err := p.Generate(context.Background(), Prompt("", "x", narrativeTestSchema()))
	require.Error(t, err)

	require.Len(t, rec.events, 1)
	assert.False(t, rec.events[0].Success)
	assert.Equal(t, "unknown", rec.events[0].Purpose)
	assert.Equal(t, "not json", rec.events[0].ResponseBody)
	assert.NotEmpty(t, rec.events[0].ErrorMessage)
	assert.Equal(t, 1, logs.FilterMessage("llm request failed").Len())
}

func TestLogging_RecorderFailureIsNotFatal(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	core, logs := observer.New(zap.WarnLevel)
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", rec, zap.New(core))

	_, err := p.Generate(context.Background(), Prompt("", "x", nil))
	assert.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("failed to record llm event").Len())
}

func TestRetryOverLogging_RecordsEveryAttempt(t *testing.T) {
	rec := &fakeRecorder{}
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	r, _ := fastRetry(WithLogging(mock, "mock", rec, nil), 3)

	_, err := r.Generate(context.Background(), Prompt("", "x", nil))
	require.NoError(t, err)
	require.Len(t, rec.events, 2)
	assert.False(t, rec.events[0].Success)
	assert.True(t, rec.events[1].Success)
}

func TestPurpose(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
	assert.Equal(t, "unknown", PurposeFrom(WithPurpose(context.Background(), "")))
	assert.Equal(t, "narrative", PurposeFrom(WithPurpose(context.Background(), "narrative")))
}
