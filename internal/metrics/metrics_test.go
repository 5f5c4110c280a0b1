package metrics

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounters(t *testing.T) {
	r, err := New(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.ObserveTrajectory("nominal", 100, 2048)
	r.ObserveTrajectory("dispersion", 100, 1024)
	r.ObserveFetch("stations", 3)
	r.ObserveFetchFailure("tles")

	if got := testutil.ToFloat64(r.Trajectories.WithLabelValues("nominal")); got != 1 {
		t.Fatalf("nominal trajectories = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.Waypoints); got != 200 {
		t.Fatalf("waypoints = %v, want 200", got)
	}
	if got := testutil.ToFloat64(r.ArchiveBytes); got != 3072 {
		t.Fatalf("archive bytes = %v, want 3072", got)
	}
	if got := testutil.ToFloat64(r.FetchedRecord.WithLabelValues("stations")); got != 3 {
		t.Fatalf("fetched stations = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.FetchFailures.WithLabelValues("tles")); got != 1 {
		t.Fatalf("tle failures = %v, want 1", got)
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.ObserveTrajectory("nominal", 1, 1)
	r.ObserveFetch("stations", 1)
	r.ObserveFetchFailure("stations")
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "m.prom")); err != nil {
		t.Fatalf("WriteTextfile on nil recorder: %v", err)
	}
}

func TestDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := New(reg); err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := New(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestWriteTextfileAndHandler(t *testing.T) {
	r, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.ObserveTrajectory("single", 10, 100)

	path := filepath.Join(t.TempDir(), "launchtrack.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `launchtrack_trajectories_total{kind="single"} 1`) {
		t.Fatalf("textfile missing counter: %s", data)
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "launchtrack_waypoints_total 10") {
		t.Fatalf("handler missing waypoint counter: %s", rec.Body.String())
	}
}
