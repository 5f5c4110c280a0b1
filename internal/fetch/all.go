package fetch

import (
	"context"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Result summarises a FetchAll run.
type Result struct {
	Stations     int
	TLEs         int
	StationsPath string
	TLEPath      string // empty when nothing was written
}

// FetchAll runs both fetchers concurrently and saves their output into dir.
func (c *Client) FetchAll(ctx context.Context, dir, stationsURL, tleURL string) (*Result, error) {
	res := &Result{}
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		stations, err := c.FetchStations(ctx, stationsURL)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, StationsFile)
		if err := SaveStations(path, stations); err != nil {
			return err
		}
		res.Stations, res.StationsPath = len(stations), path
		return nil
	})
	eg.Go(func() error {
		tles, err := c.FetchTLEs(ctx, tleURL)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, TLEFile)
		wrote, err := SaveTLEs(path, tles)
		if err != nil {
			return err
		}
		res.TLEs = len(tles)
		if wrote {
			res.TLEPath = path
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
