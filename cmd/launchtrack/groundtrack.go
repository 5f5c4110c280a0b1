package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"launchtrack/internal/fetch"
	"launchtrack/internal/logging"
	"launchtrack/internal/orbit"
)

var (
	gtTLEFile   string
	gtNames     []string
	gtLimit     int
	gtMinutes   int
	gtStep      time.Duration
	gtStartTime string
	gtOutputDir string
)

var groundtrackCmd = &cobra.Command{
	Use:   "groundtrack",
	Short: "Write SGP4 ground tracks for saved TLE records as KMZ",
	Long: "groundtrack propagates the selected records of a TLE JSON file (as written by " +
		"fetch tles) and writes one <Satellite>_GroundTrack.kmz per satellite.",
	RunE: func(cmd *cobra.Command, args []string) error {
		tles, err := fetch.LoadTLEs(gtTLEFile)
		if err != nil {
			return err
		}
		selected := orbit.Select(tles, gtNames, gtLimit)
		if len(selected) == 0 {
			return fmt.Errorf("no TLE records in %s match %v", gtTLEFile, gtNames)
		}
		opts := orbit.Options{Window: time.Duration(gtMinutes) * time.Minute, Step: gtStep}
		if gtStartTime != "" {
			opts.Start, err = time.Parse(time.RFC3339, gtStartTime)
			if err != nil {
				return fmt.Errorf("invalid --start-time: %w", err)
			}
		}
		if err := os.MkdirAll(gtOutputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		written, err := orbit.WriteTracks(gtOutputDir, selected, opts)
		logger := logging.FromContext(cmd.Context())
		for _, w := range written {
			recorder.ObserveTrajectory("groundtrack", w.Points, w.SizeBytes)
			logger.Info("wrote ground track", "satellite", w.Satellite, "path", w.Path, "size", humanize.Bytes(uint64(w.SizeBytes)))
			fmt.Fprintf(cmd.OutOrStdout(), "Generated KMZ file: %s\n", filepath.ToSlash(w.Path))
		}
		return err
	},
}

func init() {
	f := groundtrackCmd.Flags()
	f.StringVar(&gtTLEFile, "tles", fetch.TLEFile, "TLE JSON file written by fetch tles")
	f.StringSliceVar(&gtNames, "name", nil, "Only satellites whose name contains one of these (case-insensitive)")
	f.IntVar(&gtLimit, "limit", 5, "Maximum number of satellites (0 for all)")
	f.IntVar(&gtMinutes, "minutes", 90, "Propagation window in minutes")
	f.DurationVar(&gtStep, "step", time.Minute, "Propagation step")
	f.StringVar(&gtStartTime, "start-time", "", "Window start in RFC3339 (default now)")
	f.StringVarP(&gtOutputDir, "output-dir", "o", "groundtracks", "Output directory")
}
