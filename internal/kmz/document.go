// Package kmz renders trajectories as KML documents and packs them into KMZ archives.
package kmz

import (
	"io"

	"github.com/twpayne/go-kml"
	"github.com/twpayne/go-kml/icon"

	"launchtrack/internal/trajectory"
)

// Document builds the KML element tree for a trajectory.
func Document(t *trajectory.Trajectory) kml.Element {
	mode := kml.AltitudeModeEnum(t.Style.Altitude())
	children := []kml.Element{
		kml.Name(t.Name),
		pathPlacemark(t, mode),
	}
	for _, m := range t.Markers {
		children = append(children, markerPlacemark(m, mode))
	}
	children = append(children, endpointPlacemark(t.Start, mode), endpointPlacemark(t.End, mode))
	return kml.KML(kml.Document(children...))
}

// Encode writes the KML document for t to w.
func Encode(w io.Writer, t *trajectory.Trajectory) error {
	return Document(t).WriteIndent(w, "", "  ")
}

func pathPlacemark(t *trajectory.Trajectory, mode kml.AltitudeModeEnum) kml.Element {
	coords := make([]kml.Coordinate, len(t.Waypoints))
	for i, w := range t.Waypoints {
		coords[i] = coordinate(w.Point)
	}
	return kml.Placemark(
		kml.Name(t.Name),
		kml.Style(
			kml.LineStyle(
				kml.Color(t.Style.LineColor),
				kml.Width(t.Style.LineWidth),
			),
		),
		kml.LineString(
			kml.Extrude(t.Style.Extrude),
			kml.Tessellate(t.Style.Tessellate),
			kml.AltitudeMode(mode),
			kml.Coordinates(coords...),
		),
	)
}

func markerPlacemark(m trajectory.Marker, mode kml.AltitudeModeEnum) kml.Element {
	return kml.Placemark(
		kml.Name(m.Name),
		kml.Description(m.Description),
		kml.TimeStamp(kml.When(m.Waypoint.Time.UTC())),
		kml.Point(
			kml.AltitudeMode(mode),
			kml.Coordinates(coordinate(m.Waypoint.Point)),
		),
	)
}

func endpointPlacemark(e trajectory.Endpoint, mode kml.AltitudeModeEnum) kml.Element {
	return kml.Placemark(
		kml.Name(e.Name),
		kml.Description(e.Description),
		kml.Style(
			kml.IconStyle(
				kml.Icon(kml.Href(icon.PaddleHref(e.Icon))),
			),
		),
		kml.Point(
			kml.AltitudeMode(mode),
			kml.Coordinates(coordinate(e.Point)),
		),
	)
}

func coordinate(p trajectory.Point) kml.Coordinate {
	return kml.Coordinate{Lon: p.Lon, Lat: p.Lat, Alt: p.Alt}
}
