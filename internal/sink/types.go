// Waypoint rows and the writers that export them
package sink

import (
	"time"

	"launchtrack/internal/trajectory"
)

// WaypointRow represents one exported waypoint.
type WaypointRow struct {
	RunID      string    `json:"run_id"`     // TAG
	Trajectory string    `json:"trajectory"` // TAG
	Index      int       `json:"index"`      // FIELD
	Lon        float64   `json:"lon"`        // FIELD
	Lat        float64   `json:"lat"`        // FIELD
	Alt        float64   `json:"alt"`        // FIELD
	Timestamp  time.Time `json:"ts"`         // TIME INDEX
}

// DefaultWaypointTable is the GreptimeDB table used when none is configured.
const DefaultWaypointTable = "trajectory_waypoints"

// WaypointWriter is an interface to support different output writers.
type WaypointWriter interface {
	Write(WaypointRow) error
}

// Optional: writers can also support batch mode
type batchWriter interface {
	WriteBatch([]WaypointRow) error
}

// Rows converts the waypoints of t into export rows.
func Rows(runID string, t *trajectory.Trajectory) []WaypointRow {
	rows := make([]WaypointRow, len(t.Waypoints))
	for i, w := range t.Waypoints {
		rows[i] = WaypointRow{
			RunID:      runID,
			Trajectory: t.Name,
			Index:      w.Index,
			Lon:        w.Lon,
			Lat:        w.Lat,
			Alt:        w.Alt,
			Timestamp:  w.Time,
		}
	}
	return rows
}

// WriteAll sends rows to w, using batch mode when supported.
func WriteAll(w WaypointWriter, rows []WaypointRow) error {
	if bw, ok := w.(batchWriter); ok {
		return bw.WriteBatch(rows)
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}
