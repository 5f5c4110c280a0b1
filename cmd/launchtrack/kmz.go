package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"launchtrack/internal/kmz"
	"launchtrack/internal/logging"
	"launchtrack/internal/sink"
	"launchtrack/internal/trajectory"
)

var (
	kmzOutput     string
	kmzName       string
	kmzStart      []float64
	kmzEnd        []float64
	kmzPoints     int
	kmzDuration   time.Duration
	kmzStartTime  string
	kmzStartLabel string
	kmzEndLabel   string
	kmzPrintOnly  bool
	kmzLogFile    string
)

var kmzCmd = &cobra.Command{
	Use:   "kmz",
	Short: "Generate a single straight-line trajectory KMZ",
	Long:  "kmz interpolates a trajectory between two lon,lat,alt endpoints and writes it as a KMZ archive.",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := pointFlag("start", kmzStart)
		if err != nil {
			return err
		}
		end, err := pointFlag("end", kmzEnd)
		if err != nil {
			return err
		}
		t0 := time.Now().UTC()
		if kmzStartTime != "" {
			if t0, err = time.Parse(time.RFC3339, kmzStartTime); err != nil {
				return fmt.Errorf("invalid --start-time: %w", err)
			}
		}

		traj, err := trajectory.New(trajectory.Options{
			Name:          kmzName,
			Start:         start,
			End:           end,
			Count:         kmzPoints,
			TotalDuration: kmzDuration,
			StartTime:     t0,
			StartLabel:    kmzStartLabel,
			EndLabel:      kmzEndLabel,
		})
		if err != nil {
			return err
		}
		size, err := kmz.WriteFile(kmzOutput, traj)
		if err != nil {
			return err
		}
		recorder.ObserveTrajectory("single", len(traj.Waypoints), size)

		writer, cleanup, err := newWriter(kmzPrintOnly, kmzLogFile)
		if err != nil {
			return err
		}
		defer cleanup()
		if writer != nil {
			if err := sink.WriteAll(writer, sink.Rows(uuid.NewString(), traj)); err != nil {
				return err
			}
		}

		logging.FromContext(cmd.Context()).Info("generated KMZ file",
			slog.String("file", kmzOutput),
			slog.Int("points", len(traj.Waypoints)),
			slog.String("size", humanize.Bytes(uint64(size))))
		out := reportWriter(cmd, kmzPrintOnly)
		fmt.Fprintf(out, "Generated KMZ file: %s\n", kmzOutput)
		fmt.Fprintf(out, "You can open '%s' in Google Earth Pro to view the trajectory.\n", kmzOutput)
		return nil
	},
}

func pointFlag(name string, v []float64) (trajectory.Point, error) {
	if len(v) != 3 {
		return trajectory.Point{}, fmt.Errorf("--%s needs lon,lat,alt, got %d values", name, len(v))
	}
	return trajectory.Point{Lon: v[0], Lat: v[1], Alt: v[2]}, nil
}

func init() {
	kmzCmd.Flags().StringVarP(&kmzOutput, "output", "o", "cape_canaveral_to_indian_ocean.kmz", "Output KMZ path")
	kmzCmd.Flags().StringVar(&kmzName, "name", "Cape Canaveral to Indian Ocean Flight Path", "Trajectory name")
	kmzCmd.Flags().Float64SliceVar(&kmzStart, "start", []float64{-80.60, 28.40, 10000}, "Start point lon,lat,alt (meters)")
	kmzCmd.Flags().Float64SliceVar(&kmzEnd, "end", []float64{80.00, -10.00, 11000}, "End point lon,lat,alt (meters)")
	kmzCmd.Flags().IntVar(&kmzPoints, "points", 100, "Number of interpolated points")
	kmzCmd.Flags().DurationVar(&kmzDuration, "duration", 15*time.Hour, "Total trajectory duration")
	kmzCmd.Flags().StringVar(&kmzStartTime, "start-time", "", "Start time (RFC3339, default now)")
	kmzCmd.Flags().StringVar(&kmzStartLabel, "start-label", "Cape Canaveral (Start)", "Start placemark name")
	kmzCmd.Flags().StringVar(&kmzEndLabel, "end-label", "Indian Ocean (End)", "End placemark name")
	kmzCmd.Flags().BoolVar(&kmzPrintOnly, "print", false, "Print waypoints as JSON to STDOUT")
	kmzCmd.Flags().StringVar(&kmzLogFile, "log-file", "", "Export waypoints to a JSONL file")
}
