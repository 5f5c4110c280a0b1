package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"launchtrack/internal/admin"
	"launchtrack/internal/logging"
)

var (
	serveDir  string
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a preview page for a trajectory output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return admin.NewServer(serveDir, recorder, logging.FromContext(ctx)).Start(ctx, serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveDir, "dir", defaultOutputDir, "Directory with generated KMZ files")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
}
