package fetch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iancoleman/orderedmap"
)

// Station is one ground-station record with its keys in source order.
type Station = *orderedmap.OrderedMap

// FetchStations downloads the station list and keeps the records that carry
// both coordinates. Any non-2xx status is an error.
func (c *Client) FetchStations(ctx context.Context, url string) ([]Station, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		c.metrics.ObserveFetchFailure("stations")
		return nil, err
	}
	defer drain(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.ObserveFetchFailure("stations")
		return nil, fmt.Errorf("%w: %s returned %d", ErrStatus, url, resp.StatusCode)
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		c.metrics.ObserveFetchFailure("stations")
		return nil, fmt.Errorf("decode stations: %w", err)
	}
	stations, err := FilterStations(raw)
	if err != nil {
		c.metrics.ObserveFetchFailure("stations")
		return nil, err
	}
	c.logger.Info("fetched ground stations", "received", len(raw), "kept", len(stations))
	c.metrics.ObserveFetch("stations", len(stations))
	return stations, nil
}

// FilterStations decodes each record, drops those without lat or lng, and
// renames lng to lon.
func FilterStations(raw []json.RawMessage) ([]Station, error) {
	out := make([]Station, 0, len(raw))
	for i, r := range raw {
		om := orderedmap.New()
		om.SetEscapeHTML(false)
		if err := json.Unmarshal(r, om); err != nil {
			return nil, fmt.Errorf("station %d: %w", i, err)
		}
		if !present(om, "lat") || !present(om, "lng") {
			continue
		}
		lng, _ := om.Get("lng")
		om.Delete("lng")
		om.Set("lon", lng)
		out = append(out, om)
	}
	return out, nil
}

func present(om *orderedmap.OrderedMap, key string) bool {
	v, ok := om.Get(key)
	return ok && v != nil
}

// SaveStations writes stations with two-space indentation.
func SaveStations(path string, stations []Station) error {
	return SaveJSON(path, stations, 2)
}
