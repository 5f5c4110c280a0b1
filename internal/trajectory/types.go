// Trajectory model shared by the KMZ, dispersion and ground track generators
package trajectory

import (
	"image/color"
	"time"
)

// Point holds longitude, latitude (degrees) and altitude (meters).
type Point struct {
	Lon float64 `json:"lon" yaml:"lon"`
	Lat float64 `json:"lat" yaml:"lat"`
	Alt float64 `json:"alt" yaml:"alt"`
}

// Waypoint is one interpolated sample along a trajectory.
type Waypoint struct {
	Point
	Index int       `json:"index"`
	Time  time.Time `json:"ts"`
}

// Marker is a labelled placemark emitted at selected waypoints.
type Marker struct {
	Name        string
	Description string
	Waypoint    Waypoint
}

// Endpoint labels one end of a trajectory.
type Endpoint struct {
	Name        string
	Description string
	Point       Point
	Icon        string
}

// Altitude reference modes.
const (
	AltitudeAbsolute         = "absolute"
	AltitudeRelativeToGround = "relativeToGround"
	AltitudeClampToGround    = "clampToGround"
)

// Style controls how the path is rendered. An empty AltitudeMode means
// AltitudeAbsolute.
type Style struct {
	LineColor    color.RGBA
	LineWidth    float64
	Extrude      bool
	Tessellate   bool
	AltitudeMode string
}

// Altitude returns the altitude reference mode, defaulting to absolute.
func (s Style) Altitude() string {
	if s.AltitudeMode == "" {
		return AltitudeAbsolute
	}
	return s.AltitudeMode
}

// Trajectory is an ordered path plus its labels and styling.
type Trajectory struct {
	Name      string
	Style     Style
	Waypoints []Waypoint
	Markers   []Marker
	Start     Endpoint
	End       Endpoint
}

// Icons used for the endpoint placemarks.
const (
	IconStart = "red-diamond"
	IconEnd   = "blu-diamond"
)

// Line colors.
var (
	ColorBlue   = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	ColorOrange = color.RGBA{R: 255, G: 140, B: 0, A: 200}
	ColorYellow = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// DefaultStyle is the styling used for nominal tracks.
func DefaultStyle() Style {
	return Style{LineColor: ColorBlue, LineWidth: 4, Extrude: true, Tessellate: true, AltitudeMode: AltitudeAbsolute}
}

// Points returns the coordinates of all waypoints in order.
func (t *Trajectory) Points() []Point {
	pts := make([]Point, len(t.Waypoints))
	for i, w := range t.Waypoints {
		pts[i] = w.Point
	}
	return pts
}
