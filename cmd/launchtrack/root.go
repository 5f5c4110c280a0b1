package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"launchtrack/internal/config"
	"launchtrack/internal/logging"
	"launchtrack/internal/metrics"
)

var (
	logLevel    string
	logFormat   string
	logFile     string
	metricsFile string

	recorder *metrics.Recorder
)

var rootCmd = &cobra.Command{
	Use:   "launchtrack",
	Short: "Launch trajectory and orbital dataset toolkit",
	Long: "launchtrack generates sample KMZ flight trajectories, dispersed launch tracks and " +
		"satellite ground tracks, and fetches SatNOGS ground stations and CelesTrak TLEs.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv()
		cfg := logging.FromEnv()
		if cmd.Flags().Changed("log-level") || cfg.Level == "" {
			cfg.Level = logLevel
		}
		if cmd.Flags().Changed("log-format") || cfg.Format == "" {
			cfg.Format = logFormat
		}
		cfg.File = logFile
		logger := logging.New(cfg)
		slog.SetDefault(logger)
		cmd.SetContext(logging.NewContext(cmd.Context(), logger))

		rec, err := metrics.New(nil)
		if err != nil {
			return err
		}
		recorder = rec
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if metricsFile == "" {
			return nil
		}
		if err := recorder.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error); LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text or json); LOG_FORMAT")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-output", "", "Also write logs to this size-rotated file")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus textfile metrics here on success")

	rootCmd.AddCommand(kmzCmd)
	rootCmd.AddCommand(disperseCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(groundtrackCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
}
