package emissary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Status is the result of a reachability probe, reported on /health and
// /api/info. The todo store never depends on it.
type Status struct {
	Enabled   bool   `json:"enabled"`
	URL       string `json:"url,omitempty"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

// Client probes the external chaos-emissary service. Settings can be swapped
// at runtime by the settings watcher; concurrent probes are collapsed into
// one outbound request.
type Client struct {
	mu      sync.RWMutex
	url     string
	enabled bool

	http *http.Client
	sf   singleflight.Group
}

// New returns a Client. An empty url leaves the client disabled until
// Apply enables it.
func New(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	url = strings.TrimSpace(url)
	return &Client{
		url:     url,
		enabled: url != "",
		http:    &http.Client{Timeout: timeout},
	}
}

// Apply swaps the emissary settings. Safe to call while probes are in flight.
func (c *Client) Apply(url string, enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.url = strings.TrimSpace(url)
	c.enabled = enabled && c.url != ""
}

// URL returns the currently configured emissary URL, empty when unset.
func (c *Client) URL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.url
}

// Probe reports whether the emissary answers at its configured URL.
// Concurrent callers share a single outbound request.
func (c *Client) Probe(ctx context.Context) Status {
	c.mu.RLock()
	url, enabled := c.url, c.enabled
	c.mu.RUnlock()

	if !enabled {
		return Status{Enabled: false}
	}

	v, err, _ := c.sf.Do(url, func() (interface{}, error) {
		return c.ping(ctx, url)
	})
	st := Status{Enabled: true, URL: url}
	if err != nil {
		st.Error = err.Error()
		return st
	}
	st.Reachable = v.(bool)
	return st
}

func (c *Client) ping(ctx context.Context, url string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("emissary request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("emissary unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<10))

	// Any HTTP answer counts as reachable; the emissary injects faults on
	// purpose, so error statuses are expected during experiments.
	return true, nil
}
