package submission

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/horoscope/internal/store"
)

// Endpoint is where accepted drafts are delivered.
type Endpoint struct {
	Method string
	URL    string
	Params url.Values
}

// Config configures a Workflow.
type Config struct {
	Endpoint Endpoint

	// AdUnitID is passed to AdProvider.Configure.
	AdUnitID string

	// AdTimeout bounds the whole ad phase. Zero means no limit.
	AdTimeout time.Duration
}

// Recorder receives one event per completed run. store.EventRepo satisfies it.
type Recorder interface {
	AppendSubmissionEvent(ctx context.Context, data store.SubmissionEventData) error
}

// Option customises a Workflow.
type Option func(*Workflow)

// WithLogger sets the logger used for absorbed ad failures and outcomes.
func WithLogger(l *zap.Logger) Option {
	return func(w *Workflow) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithRecorder persists every run. Recorder failures are logged only.
func WithRecorder(r Recorder) Option {
	return func(w *Workflow) { w.recorder = r }
}

// WithBusyObserver is called with true before the ad phase and with false
// once the submission phase has concluded.
func WithBusyObserver(fn func(busy bool)) Option {
	return func(w *Workflow) { w.onBusy = fn }
}

// Workflow shows an interstitial ad and then submits a question draft.
//
// The ad is always attempted before the submission, ad failures never block
// the submission, and once a draft is accepted the workflow is Completed
// and every later Start is a no-op. A rejected or failed submission returns
// the workflow to Idle so the user can try again.
type Workflow struct {
	ads       AdProvider
	transport Transport
	cfg       Config
	logger    *zap.Logger
	recorder  Recorder
	onBusy    func(bool)

	mu    sync.Mutex
	state State
	busy  atomic.Bool
}

// New creates an idle Workflow.
func New(ads AdProvider, transport Transport, cfg Config, opts ...Option) *Workflow {
	w := &Workflow{
		ads:       ads,
		transport: transport,
		cfg:       cfg,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the current lifecycle state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Busy reports whether a run is between its ad phase and the end of its
// submission phase.
func (w *Workflow) Busy() bool {
	return w.busy.Load()
}

// Completed reports whether a draft has been accepted.
func (w *Workflow) Completed() bool {
	return w.State() == StateCompleted
}

// Start runs the ad phase and then submits draft. It returns
// OutcomeIgnored without side effects when a run is already in flight or a
// draft was already accepted.
//
// The submission phase runs detached from ctx cancellation: once Start
// begins it finishes with either Completed or Idle.
func (w *Workflow) Start(ctx context.Context, draft Draft) Outcome {
	if !w.begin() {
		w.logger.Debug("submission start ignored", zap.String("state", w.State().String()))
		return OutcomeIgnored
	}

	payload := draft.clone()
	started := time.Now()
	w.setBusy(true)

	adResult, adErr := w.bestEffort(ctx, w.runAdPhase)

	w.advance(StateAwaitingAd, StateSubmitting)
	subErr := w.submit(context.WithoutCancel(ctx), payload)

	outcome := OutcomeAccepted
	if subErr != nil {
		outcome = OutcomeNotAccepted
		w.advance(StateSubmitting, StateIdle)
	} else {
		w.advance(StateSubmitting, StateCompleted)
	}
	w.setBusy(false)

	latency := time.Since(started)
	fields := []zap.Field{
		zap.String("draft_id", payload.ID),
		zap.String("astrologer", payload.Astrologer),
		zap.Stringer("ad", adResult),
		zap.Stringer("outcome", outcome),
		zap.Duration("latency", latency),
	}
	if subErr != nil {
		w.logger.Warn("submission not accepted", append(fields, zap.Error(subErr))...)
	} else {
		w.logger.Info("submission accepted", fields...)
	}

	w.record(ctx, payload, adResult, adErr, outcome, subErr, latency)
	return outcome
}

// begin claims the workflow for a run: Idle → AwaitingAd.
func (w *Workflow) begin() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateIdle {
		return false
	}
	w.state = StateAwaitingAd
	return true
}

func (w *Workflow) advance(from, to State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != from {
		// Only Start moves the state, and it holds the run exclusively.
		panic(fmt.Sprintf("submission: transition %s → %s from %s", from, to, w.state))
	}
	w.state = to
}

func (w *Workflow) setBusy(b bool) {
	w.busy.Store(b)
	if w.onBusy != nil {
		w.onBusy(b)
	}
}

// bestEffort runs the ad phase and reduces its result to an AdResult. It
// has no failure path of its own: errors and panics from the provider are
// wrapped in ErrAdUnavailable, logged, and handed back for recording only.
// Control always continues to the submission phase.
func (w *Workflow) bestEffort(ctx context.Context, phase func(context.Context) error) (result AdResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: ad provider panic: %v", ErrAdUnavailable, r)
		}
		if err != nil {
			result = AdUnavailable
			w.logger.Info("ad phase failed, continuing to submission", zap.Error(err))
		}
	}()

	if err := phase(ctx); err != nil {
		return AdUnavailable, fmt.Errorf("%w: %w", ErrAdUnavailable, err)
	}
	return AdShown, nil
}

// runAdPhase configures the ad unit, requests inventory and displays the ad.
func (w *Workflow) runAdPhase(ctx context.Context) error {
	if w.ads == nil {
		return errors.New("no ad provider")
	}
	if w.cfg.AdTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.AdTimeout)
		defer cancel()
	}

	if err := w.ads.Configure(ctx, w.cfg.AdUnitID); err != nil {
		return fmt.Errorf("configure: %w", err)
	}
	if err := w.ads.RequestInventory(ctx); err != nil {
		return fmt.Errorf("request inventory: %w", err)
	}
	if err := w.ads.Display(ctx); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// submit delivers the draft once. A nil error means the response counted
// as acceptance. A panicking transport is reported as ErrTransport so the
// run still ends in Idle.
func (w *Workflow) submit(ctx context.Context, draft Draft) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: transport panic: %v", ErrTransport, r)
		}
	}()

	resp, err := w.transport.Submit(ctx, Request{
		Method:         w.cfg.Endpoint.Method,
		URL:            w.cfg.Endpoint.URL,
		Params:         w.cfg.Endpoint.Params,
		Body:           draft,
		IdempotencyKey: draft.ID,
	})
	if err != nil {
		if errors.Is(err, ErrTransport) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if !resp.Accepted() {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		return fmt.Errorf("%w (status %d)", ErrSubmissionRejected, status)
	}
	return nil
}

func (w *Workflow) record(ctx context.Context, d Draft, ad AdResult, adErr error, outcome Outcome, subErr error, latency time.Duration) {
	if w.recorder == nil {
		return
	}
	data := store.SubmissionEventData{
		DraftID:    d.ID,
		Astrologer: d.Astrologer,
		AdResult:   ad.String(),
		Outcome:    outcome.String(),
		LatencyMs:  latency.Milliseconds(),
	}
	if adErr != nil {
		data.AdError = adErr.Error()
	}
	if subErr != nil {
		data.ErrorMessage = subErr.Error()
	}
	if err := w.recorder.AppendSubmissionEvent(context.WithoutCancel(ctx), data); err != nil {
		w.logger.Warn("failed to record submission event", zap.Error(err))
	}
}
