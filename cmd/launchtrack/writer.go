package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"launchtrack/internal/config"
	"launchtrack/internal/sink"
)

// newWriter assembles the waypoint sinks selected by flags and env vars and
// returns a cleanup function closing them. The writer is nil when no sink is
// selected.
func newWriter(printOnly bool, logFile string) (sink.WaypointWriter, func(), error) {
	cleanup := func() {}
	var ws []sink.WaypointWriter

	if printOnly {
		ws = append(ws, sink.NewJSONStdoutWriter())
	} else if os.Getenv(config.EnvGreptimeHost) != "" {
		gw, err := newGreptimeWriter()
		if err != nil {
			return nil, nil, err
		}
		ws = append(ws, gw)
	}
	if logFile != "" {
		fw, err := sink.NewFileWriter(logFile)
		if err != nil {
			return nil, nil, err
		}
		ws = append(ws, fw)
		cleanup = func() { fw.Close() }
	}

	switch len(ws) {
	case 0:
		return nil, cleanup, nil
	case 1:
		return ws[0], cleanup, nil
	}
	return sink.NewMultiWriter(ws...), cleanup, nil
}

// baseWriter chooses STDOUT or GreptimeDB, falling back to STDOUT when no
// endpoint is configured.
func baseWriter(printOnly bool) (sink.WaypointWriter, error) {
	if printOnly || os.Getenv(config.EnvGreptimeHost) == "" {
		return sink.NewJSONStdoutWriter(), nil
	}
	return newGreptimeWriter()
}

func newGreptimeWriter() (*sink.GreptimeDBWriter, error) {
	return sink.NewGreptimeDBWriter(
		os.Getenv(config.EnvGreptimeHost),
		config.String(config.EnvGreptimeDB, "public"),
		os.Getenv(config.EnvGreptimeTbl),
	)
}

// reportWriter is where human-readable results go. With --print, STDOUT
// carries only JSONL waypoint rows.
func reportWriter(cmd *cobra.Command, printOnly bool) io.Writer {
	if printOnly {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}
