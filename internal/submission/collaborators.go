package submission

import (
	"bytes"
	"context"
	"errors"
	"net/url"
)

var (
	// ErrAdUnavailable covers every ad-phase failure. It is logged and
	// recorded, never returned to the caller of Start.
	ErrAdUnavailable = errors.New("ad unavailable")

	// ErrSubmissionRejected means the transport answered with a falsy
	// response.
	ErrSubmissionRejected = errors.New("submission rejected")

	// ErrTransport wraps network or transport failures.
	ErrTransport = errors.New("transport error")
)

// AdProvider is the interstitial ad contract. The three calls run in order
// and any of them may fail.
type AdProvider interface {
	Configure(ctx context.Context, unitID string) error
	RequestInventory(ctx context.Context) error
	Display(ctx context.Context) error
}

// Request is a single transport call.
type Request struct {
	Method string
	URL    string
	Params url.Values
	Body   any

	// IdempotencyKey lets the receiving service drop duplicate deliveries.
	IdempotencyKey string
}

// Response is whatever the transport got back.
type Response struct {
	// StatusCode is the HTTP status, or 0 for transports without one.
	StatusCode int
	Body       []byte
}

// Accepted reports whether the response counts as acceptance: it exists,
// carries a success status (or none), and its body is not empty or one of
// the falsy JSON literals.
func (r *Response) Accepted() bool {
	if r == nil {
		return false
	}
	if r.StatusCode != 0 && (r.StatusCode < 200 || r.StatusCode > 299) {
		return false
	}
	body := bytes.TrimSpace(r.Body)
	switch string(body) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}

// Transport delivers a request and returns the raw response.
type Transport interface {
	Submit(ctx context.Context, req Request) (*Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req Request) (*Response, error)

func (f TransportFunc) Submit(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
