package sink

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// ReplayLog replays waypoint rows from r to writer. A speed >0 paces the rows
// by their timestamps divided by speed. If speed <= 0, no artificial delay is
// inserted. It returns the number of rows replayed.
func ReplayLog(r io.Reader, writer WaypointWriter, speed float64) (int, error) {
	dec := json.NewDecoder(r)
	var prev time.Time
	n := 0
	for {
		var row WaypointRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return n, nil
			}
			return n, err
		}
		if !prev.IsZero() && speed > 0 {
			diff := row.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := writer.Write(row); err != nil {
			return n, err
		}
		n++
		prev = row.Timestamp
	}
}

// ReplayLogFile opens a file and replays its waypoint rows.
func ReplayLogFile(path string, writer WaypointWriter, speed float64) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return ReplayLog(f, writer, speed)
}
