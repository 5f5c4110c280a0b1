// Package dispersion generates nominal and randomly dispersed trajectories
// for named flight profiles.
package dispersion

import (
	"sort"
	"strings"
	"time"

	"launchtrack/internal/config"
	"launchtrack/internal/trajectory"
)

// DefaultDuration is the ascent time used when a profile sets none.
const DefaultDuration = 540 * time.Second

// Profile is a named pair of launch and endpoint positions.
type Profile struct {
	Name        string
	Description string
	Start       trajectory.Point
	End         trajectory.Point
	Duration    time.Duration
}

// Label returns the display form of the profile name.
func (p Profile) Label() string { return Label(p.Name) }

// Label converts an underscore separated name into words.
func Label(name string) string { return strings.ReplaceAll(name, "_", " ") }

var builtIn = map[string]Profile{
	"F9_Track_Cape_Canaveral_East_GTO": {
		Name:        "F9_Track_Cape_Canaveral_East_GTO",
		Description: "Due-east ascent from SLC-40 toward a geostationary transfer orbit.",
		Start:       trajectory.Point{Lon: -80.577, Lat: 28.561, Alt: 0},
		End:         trajectory.Point{Lon: -45.0, Lat: 22.0, Alt: 180000},
		Duration:    DefaultDuration,
	},
	"F9_Track_Cape_Canaveral_NorthEast_ISS": {
		Name:        "F9_Track_Cape_Canaveral_NorthEast_ISS",
		Description: "Northeast ascent from LC-39A along the US coast toward the ISS plane.",
		Start:       trajectory.Point{Lon: -80.604, Lat: 28.608, Alt: 0},
		End:         trajectory.Point{Lon: -55.0, Lat: 45.0, Alt: 210000},
		Duration:    DefaultDuration,
	},
	"F9_Track_Vandenberg_Polar_SSO": {
		Name:        "F9_Track_Vandenberg_Polar_SSO",
		Description: "Southbound ascent from SLC-4E over the Pacific into a sun-synchronous orbit.",
		Start:       trajectory.Point{Lon: -120.611, Lat: 34.632, Alt: 0},
		End:         trajectory.Point{Lon: -123.5, Lat: 5.0, Alt: 500000},
		Duration:    DefaultDuration,
	},
}

// BuiltIn returns the predefined profiles sorted by name.
func BuiltIn() []Profile {
	out := make([]Profile, 0, len(builtIn))
	for _, p := range builtIn {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns a built-in profile by name.
func Lookup(name string) (Profile, bool) {
	p, ok := builtIn[name]
	return p, ok
}

// FromConfig converts configured profiles, applying DefaultDuration where
// none is set.
func FromConfig(cfg *config.DispersionConfig) []Profile {
	if cfg == nil {
		return nil
	}
	out := make([]Profile, 0, len(cfg.Profiles))
	for _, p := range cfg.Profiles {
		d := DefaultDuration
		if p.DurationS > 0 {
			d = time.Duration(p.DurationS * float64(time.Second))
		}
		out = append(out, Profile{
			Name:        p.Name,
			Description: p.Description,
			Start:       p.Start,
			End:         p.End,
			Duration:    d,
		})
	}
	return out
}
