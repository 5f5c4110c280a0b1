package trajectory

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPointCount is returned when fewer than one point is requested.
var ErrInvalidPointCount = errors.New("point count must be at least 1")

// markerDivisions is the number of evenly spaced markers along a path,
// not counting the final waypoint.
const markerDivisions = 5

// Options describes a straight-line trajectory between two endpoints.
type Options struct {
	Name          string
	Start         Point
	End           Point
	Count         int
	TotalDuration time.Duration
	StartTime     time.Time
	StartLabel    string
	EndLabel      string
	Style         Style
}

// Factor returns the interpolation factor of index i for count points.
// A single point has factor 0.
func Factor(i, count int) float64 {
	if count <= 1 {
		return 0
	}
	return float64(i) / float64(count-1)
}

// Lerp linearly interpolates each axis independently.
func Lerp(start, end Point, f float64) Point {
	return Point{
		Lon: start.Lon + (end.Lon-start.Lon)*f,
		Lat: start.Lat + (end.Lat-start.Lat)*f,
		Alt: start.Alt + (end.Alt-start.Alt)*f,
	}
}

// Interpolate returns count waypoints from start to end. Timestamps advance
// from startTime to startTime+totalDuration.
func Interpolate(start, end Point, count int, totalDuration time.Duration, startTime time.Time) ([]Waypoint, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPointCount, count)
	}
	wps := make([]Waypoint, count)
	for i := 0; i < count; i++ {
		f := Factor(i, count)
		wps[i] = Waypoint{
			Point: Lerp(start, end, f),
			Index: i,
			Time:  startTime.Add(time.Duration(float64(totalDuration) * f)),
		}
	}
	return wps, nil
}

// IsMarker reports whether index i of count gets a labelled placemark.
func IsMarker(i, count int) bool {
	if i == 0 || i == count-1 {
		return true
	}
	stride := count / markerDivisions
	if stride == 0 {
		return true
	}
	return i%stride == 0
}

// Markers builds the labelled placemarks for a waypoint sequence.
func Markers(wps []Waypoint) []Marker {
	var out []Marker
	for _, w := range wps {
		if !IsMarker(w.Index, len(wps)) {
			continue
		}
		out = append(out, Marker{
			Name:        fmt.Sprintf("Point %d", w.Index+1),
			Description: Describe(w),
			Waypoint:    w,
		})
	}
	return out
}

// Describe formats the time, altitude and position of a waypoint.
func Describe(w Waypoint) string {
	return fmt.Sprintf("Time: %s UTC\nAltitude: %.0fm\nLat: %.4f, Lon: %.4f",
		w.Time.UTC().Format(time.DateTime), w.Alt, w.Lat, w.Lon)
}

// New interpolates a full trajectory with markers and endpoint placemarks.
func New(opts Options) (*Trajectory, error) {
	wps, err := Interpolate(opts.Start, opts.End, opts.Count, opts.TotalDuration, opts.StartTime)
	if err != nil {
		return nil, err
	}
	style := opts.Style
	if style.LineWidth == 0 {
		style = DefaultStyle()
	}
	startLabel := opts.StartLabel
	if startLabel == "" {
		startLabel = "Start"
	}
	endLabel := opts.EndLabel
	if endLabel == "" {
		endLabel = "End"
	}
	return &Trajectory{
		Name:      opts.Name,
		Style:     style,
		Waypoints: wps,
		Markers:   Markers(wps),
		Start: Endpoint{
			Name:        startLabel,
			Description: fmt.Sprintf("Starting point of the flight.\nAltitude: %.0fm", opts.Start.Alt),
			Point:       opts.Start,
			Icon:        IconStart,
		},
		End: Endpoint{
			Name:        endLabel,
			Description: fmt.Sprintf("Ending point of the flight.\nAltitude: %.0fm", opts.End.Alt),
			Point:       opts.End,
			Icon:        IconEnd,
		},
	}, nil
}
