package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"launchtrack/internal/config"
	"launchtrack/internal/fetch"
	"launchtrack/internal/logging"
)

var (
	fetchOutputDir   string
	fetchStationsURL string
	fetchTLEURL      string
	fetchTimeout     time.Duration
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download ground-station and orbital-element datasets",
}

var fetchStationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "Fetch SatNOGS ground stations with valid coordinates",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := fetchClient(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Fetching SatNOGS ground stations...")
		stations, err := client.FetchStations(cmd.Context(), stationsURL())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Fetched %s stations with valid coordinates.\n", humanize.Comma(int64(len(stations))))
		path := filepath.Join(fetchOutputDir, fetch.StationsFile)
		if err := fetch.SaveStations(path, stations); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved data to %s\n", path)
		return nil
	},
}

var fetchTLEsCmd = &cobra.Command{
	Use:   "tles",
	Short: "Fetch the CelesTrak Starlink TLE set",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := fetchClient(cmd)
		if err != nil {
			return err
		}
		tles, err := client.FetchTLEs(cmd.Context(), tleURL())
		if err != nil {
			return err
		}
		path := filepath.Join(fetchOutputDir, fetch.TLEFile)
		wrote, err := fetch.SaveTLEs(path, tles)
		if err != nil {
			return err
		}
		if !wrote {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error fetching TLE data")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "TLE data saved to %s\n", path)
		return nil
	},
}

var fetchAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Fetch both datasets concurrently",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := fetchClient(cmd)
		if err != nil {
			return err
		}
		res, err := client.FetchAll(cmd.Context(), fetchOutputDir, stationsURL(), tleURL())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Saved %s stations to %s\n", humanize.Comma(int64(res.Stations)), res.StationsPath)
		if res.TLEPath == "" {
			fmt.Fprintln(out, "No TLE data saved")
		} else {
			fmt.Fprintf(out, "Saved %s TLE records to %s\n", humanize.Comma(int64(res.TLEs)), res.TLEPath)
		}
		return nil
	},
}

func fetchClient(cmd *cobra.Command) (*fetch.Client, error) {
	if err := os.MkdirAll(fetchOutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return fetch.NewClient(fetchTimeout,
		fetch.WithLogger(logging.FromContext(cmd.Context())),
		fetch.WithMetrics(recorder),
	), nil
}

func stationsURL() string {
	if fetchStationsURL != "" {
		return fetchStationsURL
	}
	return config.String(config.EnvStationsURL, fetch.StationsURL)
}

func tleURL() string {
	if fetchTLEURL != "" {
		return fetchTLEURL
	}
	return config.String(config.EnvTLEURL, fetch.TLEURL)
}

func init() {
	pf := fetchCmd.PersistentFlags()
	pf.StringVarP(&fetchOutputDir, "output-dir", "o", ".", "Directory for the saved JSON files")
	pf.StringVar(&fetchStationsURL, "stations-url", "", "Ground-station API URL; SATNOGS_STATIONS_URL")
	pf.StringVar(&fetchTLEURL, "tle-url", "", "TLE text URL; CELESTRAK_TLE_URL")
	pf.DurationVar(&fetchTimeout, "timeout", 0, "HTTP timeout (0 waits indefinitely)")

	fetchCmd.AddCommand(fetchStationsCmd, fetchTLEsCmd, fetchAllCmd)
}
