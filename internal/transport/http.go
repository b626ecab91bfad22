// Package transport delivers question drafts to the astrology API over HTTP.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/horoscope/internal/submission"
)

// DefaultMaxBody caps how much of a response body is kept.
const DefaultMaxBody = 64 << 10

// Client is a submission.Transport backed by net/http.
type Client struct {
	http      *http.Client
	userAgent string
	apiKey    string
	maxBody   int64
	logger    *zap.Logger
}

var _ submission.Transport = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithAPIKey sends "Authorization: Bearer <key>" on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithMaxBody caps the response body kept in Response.Body.
func WithMaxBody(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client with a timeout on each request.
func New(timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: "horoscope/1.0",
		maxBody:   DefaultMaxBody,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit sends req and returns whatever came back. Non-2xx statuses are
// returned as a Response, not an error, so the caller decides acceptance.
// Failures to reach the server wrap submission.ErrTransport.
func (c *Client) Submit(ctx context.Context, req submission.Request) (*submission.Response, error) {
	httpReq, err := c.build(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", submission.ErrTransport, err)
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("submit request failed",
			zap.String("method", httpReq.Method),
			zap.String("url", httpReq.URL.Redacted()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: do request: %w", submission.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", submission.ErrTransport, err)
	}

	c.logger.Debug("submit request done",
		zap.String("method", httpReq.Method),
		zap.String("url", httpReq.URL.Redacted()),
		zap.Int("status", resp.StatusCode),
		zap.Int("body_bytes", len(body)),
		zap.Duration("latency", time.Since(started)))

	return &submission.Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *Client) build(ctx context.Context, req submission.Request) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodPost
	}

	target, err := withParams(req.URL, req.Params)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if req.Body != nil && method != http.MethodGet && method != http.MethodHead {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}
	return httpReq, nil
}

// withParams merges params into the query string of raw.
func withParams(raw string, params url.Values) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q must be absolute", raw)
	}
	if len(params) == 0 {
		return u.String(), nil
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
