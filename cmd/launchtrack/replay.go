package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"launchtrack/internal/logging"
	"launchtrack/internal/sink"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a waypoint log file",
	Long:  "replay feeds waypoint rows from a JSONL log back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		writer, err := baseWriter(replayPrintOnly)
		if err != nil {
			return err
		}
		n, err := sink.ReplayLogFile(replayInput, writer, replaySpeed)
		logging.FromContext(cmd.Context()).Info("replay finished", "input", replayInput, "rows", n)
		return err
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to waypoint log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 0, "Playback speed multiplier; 1 replays in real time, 0 writes rows without delay")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print", false, "Print waypoints to STDOUT instead of writing to DB")
	replayCmd.MarkFlagRequired("input")
}
