package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// ErrIncompleteTLE is returned when the line count is not a multiple of three.
var ErrIncompleteTLE = errors.New("incomplete TLE record")

// TLE is a named two-line element set.
type TLE struct {
	SatelliteName string `json:"satelliteName"`
	Line1         string `json:"tleLine1"`
	Line2         string `json:"tleLine2"`
}

// FetchTLEs downloads a three-line TLE listing. A non-200 status is logged
// as a warning and yields no records and no error.
func (c *Client) FetchTLEs(ctx context.Context, url string) ([]TLE, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		c.metrics.ObserveFetchFailure("tles")
		return nil, err
	}
	defer drain(resp)
	if resp.StatusCode != http.StatusOK {
		c.metrics.ObserveFetchFailure("tles")
		c.logger.Warn("failed to retrieve TLE data", "url", url, "status", resp.StatusCode)
		return nil, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ObserveFetchFailure("tles")
		return nil, fmt.Errorf("read TLE body: %w", err)
	}
	tles, err := ParseTLEs(string(body))
	if err != nil {
		c.metrics.ObserveFetchFailure("tles")
		return nil, err
	}
	c.logger.Info("fetched TLEs", "count", len(tles))
	c.metrics.ObserveFetch("tles", len(tles))
	return tles, nil
}

// ParseTLEs groups trimmed lines into name/line1/line2 triples. Blank input
// yields no records.
func ParseTLEs(text string) ([]TLE, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	if len(lines)%3 != 0 {
		return nil, fmt.Errorf("%w: %d lines", ErrIncompleteTLE, len(lines))
	}
	out := make([]TLE, 0, len(lines)/3)
	for i := 0; i < len(lines); i += 3 {
		out = append(out, TLE{SatelliteName: lines[i], Line1: lines[i+1], Line2: lines[i+2]})
	}
	return out, nil
}

// SaveTLEs writes tles with four-space indentation. Nothing is written for
// an empty set; the return reports whether a file was written.
func SaveTLEs(path string, tles []TLE) (bool, error) {
	if len(tles) == 0 {
		return false, nil
	}
	return true, SaveJSON(path, tles, 4)
}

// LoadTLEs reads a file written by SaveTLEs.
func LoadTLEs(path string) ([]TLE, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tles []TLE
	if err := json.Unmarshal(data, &tles); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return tles, nil
}
