// YAML profile config loader with CUE validation integration
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"launchtrack/internal/trajectory"
)

//go:embed schema/profiles.cue
var defaultSchema []byte

// DefaultSchema returns the embedded CUE schema for profile files.
func DefaultSchema() []byte { return defaultSchema }

// Profile is a named launch-to-endpoint pair
type Profile struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Start       trajectory.Point `yaml:"start"`
	End         trajectory.Point `yaml:"end"`
	DurationS   float64          `yaml:"duration_s"`
}

// DispersionConfig is the root configuration for profiles and generation
// parameters. Nil parameters were not set in the file.
type DispersionConfig struct {
	Profiles              []Profile `yaml:"profiles"`
	DispersionsPerProfile *int      `yaml:"dispersions_per_profile"`
	DispersionRadiusDeg   *float64  `yaml:"dispersion_radius_deg"`
	PointsPerTrack        *int      `yaml:"points_per_track"`
	OutputDir             string    `yaml:"output_dir"`
}

// Load loads a YAML profile file and validates it against a CUE schema. An
// empty schemaPath uses the embedded schema.
func Load(configPath, schemaPath string) (*DispersionConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	schema := defaultSchema
	if schemaPath != "" {
		if schema, err = os.ReadFile(schemaPath); err != nil {
			return nil, fmt.Errorf("cannot read CUE schema: %w", err)
		}
	}
	return Parse(configPath, data, schema)
}

// Parse validates data against schema and decodes it.
func Parse(name string, data, schema []byte) (*DispersionConfig, error) {
	if err := Validate(name, data, schema); err != nil {
		return nil, err
	}
	var cfg DispersionConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal YAML config: %w", err)
	}
	return &cfg, nil
}
