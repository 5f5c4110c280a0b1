// Package fetch downloads the SatNOGS ground-station list and CelesTrak TLE
// sets and persists them as JSON.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"launchtrack/internal/logging"
	"launchtrack/internal/metrics"
)

// Default endpoints and output files.
const (
	StationsURL  = "https://network.satnogs.org/api/stations/"
	TLEURL       = "https://celestrak.org/NORAD/elements/gp.php?GROUP=STARLINK&FORMAT=TLE"
	StationsFile = "satnogs_ground_stations.json"
	TLEFile      = "starlink_tles.json"
)

const userAgent = "launchtrack/1.0"

// ErrStatus is returned for unexpected HTTP status codes.
var ErrStatus = errors.New("unexpected http status")

// Client performs the dataset requests.
type Client struct {
	http    *http.Client
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(cl *Client) { cl.http = c } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(cl *Client) { cl.logger = l } }

// WithMetrics records fetched records and failures on r.
func WithMetrics(r *metrics.Recorder) Option { return func(cl *Client) { cl.metrics = r } }

// NewClient returns a Client. A zero timeout means no timeout.
func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{http: &http.Client{Timeout: timeout}}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = logging.Component(c.logger, "fetch")
	return c
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	return resp, nil
}

// SaveJSON writes v as a JSON array indented by indent spaces.
func SaveJSON(path string, v any, indent int) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", spaces(indent))
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
