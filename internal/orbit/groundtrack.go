// Package orbit propagates two-line element sets with SGP4 and turns the
// sub-satellite points into trajectories.
package orbit

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"launchtrack/internal/fetch"
	"launchtrack/internal/kmz"
	"launchtrack/internal/trajectory"
)

// ErrInvalidTLE is returned for element lines that fail the format checks.
var ErrInvalidTLE = errors.New("invalid TLE")

const tleLineLen = 69

// Options controls the propagation window.
type Options struct {
	Start  time.Time
	Window time.Duration
	Step   time.Duration
}

func (o Options) withDefaults() Options {
	if o.Start.IsZero() {
		o.Start = time.Now().UTC()
	}
	if o.Window <= 0 {
		o.Window = 90 * time.Minute
	}
	if o.Step <= 0 {
		o.Step = time.Minute
	}
	return o
}

// Validate checks line prefixes, length and the modulo-10 checksums.
func Validate(tle fetch.TLE) error {
	for i, line := range []string{tle.Line1, tle.Line2} {
		prefix := fmt.Sprintf("%d ", i+1)
		if len(line) != tleLineLen || !strings.HasPrefix(line, prefix) {
			return fmt.Errorf("%w: %s line %d malformed", ErrInvalidTLE, tle.SatelliteName, i+1)
		}
		if checksum(line[:tleLineLen-1]) != int(line[tleLineLen-1]-'0') {
			return fmt.Errorf("%w: %s line %d checksum mismatch", ErrInvalidTLE, tle.SatelliteName, i+1)
		}
	}
	return nil
}

func checksum(s string) int {
	sum := 0
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}

// Track propagates tle over the window and returns the ground track with
// altitudes in meters.
func Track(tle fetch.TLE, opts Options) (*trajectory.Trajectory, error) {
	if err := Validate(tle); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	sat := satellite.TLEToSat(tle.Line1, tle.Line2, satellite.GravityWGS72)

	count := int(opts.Window/opts.Step) + 1
	wps := make([]trajectory.Waypoint, count)
	for i := 0; i < count; i++ {
		at := opts.Start.Add(time.Duration(i) * opts.Step).UTC()
		wps[i] = trajectory.Waypoint{
			Point: SubPoint(sat, at),
			Index: i,
			Time:  at,
		}
	}

	style := trajectory.Style{LineColor: trajectory.ColorYellow, LineWidth: 2, AltitudeMode: trajectory.AltitudeAbsolute}
	return &trajectory.Trajectory{
		Name:      tle.SatelliteName,
		Style:     style,
		Waypoints: wps,
		Markers:   trajectory.Markers(wps),
		Start: trajectory.Endpoint{
			Name:        tle.SatelliteName + " (Start)",
			Description: trajectory.Describe(wps[0]),
			Point:       wps[0].Point,
			Icon:        trajectory.IconStart,
		},
		End: trajectory.Endpoint{
			Name:        tle.SatelliteName + " (End)",
			Description: trajectory.Describe(wps[count-1]),
			Point:       wps[count-1].Point,
			Icon:        trajectory.IconEnd,
		},
	}, nil
}

// SubPoint returns the geodetic sub-satellite point at t.
func SubPoint(sat satellite.Satellite, t time.Time) trajectory.Point {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	posECI, _ := satellite.Propagate(sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	altKm, _, ll := satellite.ECIToLLA(posECI, gmst)

	const kmToM = 1000.0
	return trajectory.Point{
		Lon: normalizeLon(ll.Longitude * 180 / math.Pi),
		Lat: ll.Latitude * 180 / math.Pi,
		Alt: altKm * kmToM,
	}
}

func normalizeLon(deg float64) float64 {
	deg = math.Mod(deg+180, 360)
	if deg < 0 {
		deg += 360
	}
	return deg - 180
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileName returns the archive name for a satellite ground track.
func FileName(satName string) string {
	base := strings.Trim(unsafeName.ReplaceAllString(satName, "_"), "_")
	if base == "" {
		base = "satellite"
	}
	return base + "_GroundTrack.kmz"
}

// Select returns the records whose name contains any of names
// (case-insensitive), capped at limit when limit > 0. No names selects all.
func Select(tles []fetch.TLE, names []string, limit int) []fetch.TLE {
	var out []fetch.TLE
	for _, t := range tles {
		if limit > 0 && len(out) >= limit {
			break
		}
		if len(names) == 0 || matches(t.SatelliteName, names) {
			out = append(out, t)
		}
	}
	return out
}

func matches(name string, names []string) bool {
	name = strings.ToUpper(name)
	for _, n := range names {
		if strings.Contains(name, strings.ToUpper(n)) {
			return true
		}
	}
	return false
}

// Written describes one ground track archive.
type Written struct {
	Satellite string
	Path      string
	Points    int
	SizeBytes int64
}

// WriteTracks writes one KMZ per record into dir.
func WriteTracks(dir string, tles []fetch.TLE, opts Options) ([]Written, error) {
	var out []Written
	for _, tle := range tles {
		traj, err := Track(tle, opts)
		if err != nil {
			return out, err
		}
		path := filepath.Join(dir, FileName(tle.SatelliteName))
		size, err := kmz.WriteFile(path, traj)
		if err != nil {
			return out, fmt.Errorf("write %s: %w", path, err)
		}
		out = append(out, Written{Satellite: tle.SatelliteName, Path: path, Points: len(traj.Waypoints), SizeBytes: size})
	}
	return out, nil
}
