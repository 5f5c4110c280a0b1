package dispersion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"launchtrack/internal/trajectory"
)

// ManifestName is the file written next to the generated archives.
const ManifestName = "manifest.json"

// Params records the generation parameters of a run.
type Params struct {
	DispersionsPerProfile int     `json:"dispersions_per_profile"`
	RadiusDeg             float64 `json:"radius_deg"`
	PointsPerTrack        int     `json:"points_per_track"`
	Seed                  *int64  `json:"seed,omitempty"`
}

// Entry describes one generated archive.
type Entry struct {
	Profile   string           `json:"profile"`
	Kind      string           `json:"kind"`
	Variant   int              `json:"variant"`
	FileName  string           `json:"file_name"`
	Start     trajectory.Point `json:"start"`
	End       trajectory.Point `json:"end"`
	Points    int              `json:"points"`
	SizeBytes int64            `json:"size_bytes"`
}

// Manifest indexes the archives produced by one run.
type Manifest struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Params      Params    `json:"params"`
	Entries     []Entry   `json:"entries"`
}

// TotalBytes sums the archive sizes.
func (m *Manifest) TotalBytes() int64 {
	var n int64
	for _, e := range m.Entries {
		n += e.SizeBytes
	}
	return n
}

// WriteManifest writes m as indented JSON into dir.
func WriteManifest(dir string, m *Manifest) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// ReadManifest loads a manifest file. A directory path reads the manifest
// inside it.
func ReadManifest(path string) (*Manifest, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, ManifestName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}
