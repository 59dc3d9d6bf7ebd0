package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to the embedded web view host over its local HTTP bridge.
// The host exposes a single capability endpoint that forwards the query to
// the browser engine's EME implementation.
type Client struct {
	base string
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client (for tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New creates a bridge client for the given base URL.
func New(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type checkRequest struct {
	KeySystem     string         `json:"keySystem"`
	Configuration map[string]any `json:"configuration,omitempty"`
}

// CheckDRMSupport posts a capability query to the host bridge and returns the
// raw response map. Transport and decode failures surface as errors; the
// caller decides how to fold them into a capability result.
func (c *Client) CheckDRMSupport(ctx context.Context, keySystem string, config map[string]any) (map[string]any, error) {
	body, err := json.Marshal(checkRequest{KeySystem: keySystem, Configuration: config})
	if err != nil {
		return nil, fmt.Errorf("bridge: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/bridge/drm/check", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("bridge: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bridge: unexpected status %d", res.StatusCode)
	}

	var out map[string]any
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("bridge: decode response: %w", err)
	}
	return out, nil
}
