package ads

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Showing is a creative on screen. The UI calls Dismiss when the user
// closes it.
type Showing struct {
	Creative Creative

	done chan struct{}
	once *sync.Once
}

// Dismiss closes the ad. It is safe to call more than once.
func (s Showing) Dismiss() {
	s.once.Do(func() { close(s.done) })
}

// ChannelPresenter hands creatives to a UI loop over a channel and blocks
// until the UI dismisses them or ctx ends.
type ChannelPresenter struct {
	ch chan Showing
}

// NewChannelPresenter creates a presenter with an unbuffered channel.
func NewChannelPresenter() *ChannelPresenter {
	return &ChannelPresenter{ch: make(chan Showing)}
}

// Next is received from by the UI.
func (p *ChannelPresenter) Next() <-chan Showing {
	return p.ch
}

// Present implements Presenter.
func (p *ChannelPresenter) Present(ctx context.Context, c Creative) error {
	s := Showing{Creative: c, done: make(chan struct{}), once: &sync.Once{}}
	select {
	case p.ch <- s:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WriterPresenter prints creatives as text, for the non-interactive
// commands. Hold keeps the ad "on screen" before returning.
type WriterPresenter struct {
	W    io.Writer
	Hold time.Duration
}

// Present implements Presenter.
func (p WriterPresenter) Present(ctx context.Context, c Creative) error {
	var b strings.Builder
	b.WriteString("── Advertisement ──\n")
	if c.Headline != "" {
		b.WriteString(c.Headline + "\n")
	}
	if c.Body != "" {
		b.WriteString(c.Body + "\n")
	}
	if c.CallToAction != "" {
		fmt.Fprintf(&b, "[%s] %s\n", c.CallToAction, c.ClickURL)
	}
	if _, err := io.WriteString(p.W, b.String()); err != nil {
		return err
	}
	if p.Hold <= 0 {
		return nil
	}
	t := time.NewTimer(p.Hold)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
