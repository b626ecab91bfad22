// Package ads serves interstitial ads from an HTTP ad server and hands
// them to a Presenter for display.
package ads

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/horoscope/internal/submission"
)

var (
	// ErrNoFill means the ad server had no inventory for the unit.
	ErrNoFill = errors.New("no ad inventory")

	// ErrNotConfigured means RequestInventory ran before Configure.
	ErrNotConfigured = errors.New("ad unit not configured")

	// ErrNotLoaded means Display ran without loaded inventory.
	ErrNotLoaded = errors.New("no ad loaded")

	// ErrDisabled is returned by Disabled for every call.
	ErrDisabled = errors.New("ads disabled")
)

var unitIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_\-/]{0,127}$`)

// Presenter shows a creative to the user and returns once it is dismissed.
type Presenter interface {
	Present(ctx context.Context, c Creative) error
}

// Client implements submission.AdProvider against an HTTP ad server:
//
//	GET {base}/v1/units/{unit}/interstitial
//
// 200 carries an HTML creative; 204 means no fill.
type Client struct {
	base      string
	http      *http.Client
	presenter Presenter
	logger    *zap.Logger

	mu       sync.Mutex
	unit     string
	creative *Creative
}

var _ submission.AdProvider = (*Client)(nil)

// NewClient creates a client for the ad server at baseURL.
func NewClient(baseURL string, presenter Presenter, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:      strings.TrimRight(baseURL, "/"),
		http:      httpClient,
		presenter: presenter,
		logger:    logger,
	}
}

// Configure selects the ad unit and drops any loaded creative.
func (c *Client) Configure(_ context.Context, unitID string) error {
	if !unitIDPattern.MatchString(unitID) {
		return fmt.Errorf("invalid ad unit id %q", unitID)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unit = unitID
	c.creative = nil
	return nil
}

// RequestInventory loads one creative for the configured unit.
func (c *Client) RequestInventory(ctx context.Context) error {
	c.mu.Lock()
	unit := c.unit
	c.mu.Unlock()
	if unit == "" {
		return ErrNotConfigured
	}

	target := fmt.Sprintf("%s/v1/units/%s/interstitial", c.base, url.PathEscape(unit))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", "horoscope/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request inventory: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent:
		return ErrNoFill
	default:
		return fmt.Errorf("ad server returned %s", resp.Status)
	}

	creative, err := ParseCreative(resp.Body)
	if err != nil {
		return err
	}
	if creative.Empty() {
		return ErrNoFill
	}

	c.logger.Debug("ad inventory loaded",
		zap.String("unit", unit),
		zap.String("headline", creative.Headline))

	c.mu.Lock()
	c.creative = &creative
	c.mu.Unlock()
	return nil
}

// Display presents the loaded creative and consumes it.
func (c *Client) Display(ctx context.Context) error {
	c.mu.Lock()
	creative := c.creative
	c.creative = nil
	c.mu.Unlock()

	if creative == nil {
		return ErrNotLoaded
	}
	if c.presenter == nil {
		return errors.New("no presenter")
	}
	if err := c.presenter.Present(ctx, *creative); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

// Disabled is the provider used when no ad server is configured. Every call
// fails, which the submission workflow absorbs.
type Disabled struct{}

var _ submission.AdProvider = Disabled{}

func (Disabled) Configure(context.Context, string) error { return ErrDisabled }
func (Disabled) RequestInventory(context.Context) error { return ErrDisabled }
func (Disabled) Display(context.Context) error { return ErrDisabled }
