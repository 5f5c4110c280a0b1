// Package metrics bundles the Prometheus counters recorded by generation and
// fetch runs.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the run counters. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	gatherer prometheus.Gatherer

	Trajectories  *prometheus.CounterVec
	Waypoints     prometheus.Counter
	ArchiveBytes  prometheus.Counter
	FetchedRecord *prometheus.CounterVec
	FetchFailures *prometheus.CounterVec
}

// New registers the counters against reg, defaulting to a fresh registry
// when nil.
func New(reg *prometheus.Registry) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	r := &Recorder{
		gatherer: reg,
		Trajectories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "launchtrack_trajectories_total",
			Help: "Trajectory archives written, labeled by kind (nominal, dispersion, groundtrack, single).",
		}, []string{"kind"}),
		Waypoints: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "launchtrack_waypoints_total",
			Help: "Waypoints interpolated across all written trajectories.",
		}),
		ArchiveBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "launchtrack_archive_bytes_total",
			Help: "Bytes written to KMZ archives.",
		}),
		FetchedRecord: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "launchtrack_fetched_records_total",
			Help: "Records kept by the dataset fetchers, labeled by dataset.",
		}, []string{"dataset"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "launchtrack_fetch_failures_total",
			Help: "Failed or non-OK fetches, labeled by dataset.",
		}, []string{"dataset"}),
	}
	for _, c := range []prometheus.Collector{r.Trajectories, r.Waypoints, r.ArchiveBytes, r.FetchedRecord, r.FetchFailures} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return r, nil
}

// ObserveTrajectory records one written archive.
func (r *Recorder) ObserveTrajectory(kind string, waypoints int, bytes int64) {
	if r == nil {
		return
	}
	r.Trajectories.WithLabelValues(kind).Inc()
	r.Waypoints.Add(float64(waypoints))
	r.ArchiveBytes.Add(float64(bytes))
}

// ObserveFetch records the records kept by a fetcher.
func (r *Recorder) ObserveFetch(dataset string, records int) {
	if r == nil {
		return
	}
	r.FetchedRecord.WithLabelValues(dataset).Add(float64(records))
}

// ObserveFetchFailure records a failed fetch.
func (r *Recorder) ObserveFetchFailure(dataset string) {
	if r == nil {
		return
	}
	r.FetchFailures.WithLabelValues(dataset).Inc()
}

// WriteTextfile writes the current values in the node-exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.gatherer)
}

// Handler exposes the registry over HTTP.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
