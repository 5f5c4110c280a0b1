package dispersion

import (
	"fmt"
	"math/rand"

	"launchtrack/internal/trajectory"
)

// Kinds of generated trajectories.
const (
	KindNominal    = "nominal"
	KindDispersion = "dispersion"
)

// FileName returns the archive name for a profile variant. Variant 0 is the
// nominal track; dispersions are numbered from 1.
func FileName(profile string, variant int) string {
	if variant == 0 {
		return profile + "_Nominal.kmz"
	}
	return fmt.Sprintf("%s_Dispersion_%d.kmz", profile, variant)
}

// Disperse offsets the longitude and latitude of end by independent uniform
// draws in [-radius, radius] degrees. Altitude is kept.
func Disperse(rng *rand.Rand, end trajectory.Point, radius float64) trajectory.Point {
	return trajectory.Point{
		Lon: end.Lon + uniform(rng, radius),
		Lat: end.Lat + uniform(rng, radius),
		Alt: end.Alt,
	}
}

func uniform(rng *rand.Rand, radius float64) float64 {
	return (rng.Float64()*2 - 1) * radius
}
