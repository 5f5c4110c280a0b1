package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"launchtrack/internal/dispersion"
	"launchtrack/internal/sink"
)

func TestNewWriterPrintOnly(t *testing.T) {
	w, cleanup, err := newWriter(true, "")
	if err != nil {
		t.Fatalf("newWriter returned error: %v", err)
	}
	cleanup()
	if _, ok := w.(*sink.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sink.JSONStdoutWriter, got %T", w)
	}
}

func TestNewWriterNone(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	w, cleanup, err := newWriter(false, "")
	if err != nil {
		t.Fatalf("newWriter returned error: %v", err)
	}
	cleanup()
	if w != nil {
		t.Fatalf("expected no writer, got %T", w)
	}
}

func TestBaseWriterGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	w, err := baseWriter(false)
	if err != nil {
		t.Fatalf("baseWriter returned error: %v", err)
	}
	if _, ok := w.(*sink.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sink.JSONStdoutWriter, got %T", w)
	}
}

func TestNewWriterLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waypoints.log")
	w, cleanup, err := newWriter(true, path)
	if err != nil {
		t.Fatalf("newWriter returned error: %v", err)
	}
	defer cleanup()
	if _, ok := w.(*sink.MultiWriter); !ok {
		t.Fatalf("expected *sink.MultiWriter, got %T", w)
	}
	row := sink.WaypointRow{RunID: "r1", Trajectory: "t1", Lon: 1, Lat: 2, Alt: 3, Timestamp: time.Now()}
	if err := w.Write(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected log file to be non-empty")
	}
}

func TestNewWriterLogFileOnly(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	w, cleanup, err := newWriter(false, filepath.Join(t.TempDir(), "waypoints.log"))
	if err != nil {
		t.Fatalf("newWriter returned error: %v", err)
	}
	defer cleanup()
	if _, ok := w.(*sink.FileWriter); !ok {
		t.Fatalf("expected *sink.FileWriter, got %T", w)
	}
}

func TestPointFlag(t *testing.T) {
	p, err := pointFlag("start", []float64{-80.6, 28.4, 10000})
	if err != nil {
		t.Fatalf("pointFlag: %v", err)
	}
	if p.Lon != -80.6 || p.Lat != 28.4 || p.Alt != 10000 {
		t.Fatalf("unexpected point %+v", p)
	}
	if _, err := pointFlag("end", []float64{1, 2}); err == nil {
		t.Fatal("expected error for two values")
	}
}

func TestSelectProfiles(t *testing.T) {
	all := dispersion.BuiltIn()
	got, err := selectProfiles(all, []string{all[1].Name})
	if err != nil {
		t.Fatalf("selectProfiles: %v", err)
	}
	if len(got) != 1 || got[0].Name != all[1].Name {
		t.Fatalf("unexpected selection %+v", got)
	}
	if _, err := selectProfiles(all, []string{"Nowhere"}); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestManifestDir(t *testing.T) {
	dir := t.TempDir()
	if got := manifestDir(dir); got != dir {
		t.Errorf("manifestDir(%q) = %q", dir, got)
	}
	file := filepath.Join(dir, "manifest.json")
	if got := manifestDir(file); got != dir {
		t.Errorf("manifestDir(%q) = %q", file, got)
	}
}

func TestReplaySpeedDefault(t *testing.T) {
	f := replayCmd.Flags().Lookup("speed")
	if f == nil || f.DefValue != "0" {
		t.Fatalf("expected replay --speed to default to 0, got %+v", f)
	}
}
