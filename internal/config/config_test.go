package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validProfiles = `
dispersions_per_profile: 2
dispersion_radius_deg: 0.25
points_per_track: 50
profiles:
  - name: Test_Profile
    description: test
    start: {lon: -80.6, lat: 28.4, alt: 0}
    end: {lon: -45, lat: 22, alt: 180000}
    duration_s: 540
`

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validProfiles), "")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if len(cfg.Profiles) != 1 || cfg.Profiles[0].Name != "Test_Profile" {
		t.Fatalf("unexpected profiles: %+v", cfg.Profiles)
	}
	p := cfg.Profiles[0]
	if p.End.Alt != 180000 || p.Start.Lon != -80.6 || p.DurationS != 540 {
		t.Errorf("unexpected profile data: %+v", p)
	}
	if cfg.DispersionsPerProfile == nil || *cfg.DispersionsPerProfile != 2 ||
		cfg.DispersionRadiusDeg == nil || *cfg.DispersionRadiusDeg != 0.25 ||
		cfg.PointsPerTrack == nil || *cfg.PointsPerTrack != 50 {
		t.Errorf("unexpected parameters: %+v", cfg)
	}
}

func TestLoadConfig_ExplicitZero(t *testing.T) {
	body := strings.Replace(validProfiles, "dispersions_per_profile: 2", "dispersions_per_profile: 0", 1)
	body = strings.Replace(body, "dispersion_radius_deg: 0.25", "dispersion_radius_deg: 0", 1)
	body = strings.Replace(body, "points_per_track: 50\n", "", 1)
	cfg, err := Load(writeTemp(t, body), "")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.DispersionsPerProfile == nil || *cfg.DispersionsPerProfile != 0 {
		t.Errorf("dispersions_per_profile = %v, want explicit 0", cfg.DispersionsPerProfile)
	}
	if cfg.DispersionRadiusDeg == nil || *cfg.DispersionRadiusDeg != 0 {
		t.Errorf("dispersion_radius_deg = %v, want explicit 0", cfg.DispersionRadiusDeg)
	}
	if cfg.PointsPerTrack != nil {
		t.Errorf("points_per_track = %d, want unset", *cfg.PointsPerTrack)
	}
}

func TestLoadConfig_RepoSample(t *testing.T) {
	cfg, err := Load("../../config/profiles.yaml", "")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if len(cfg.Profiles) != 3 {
		t.Errorf("expected 3 profiles, got %d", len(cfg.Profiles))
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"latitude out of range": strings.Replace(validProfiles, "lat: 22", "lat: 120", 1),
		"negative altitude":     strings.Replace(validProfiles, "alt: 180000", "alt: -5", 1),
		"bad name":              strings.Replace(validProfiles, "Test_Profile", "bad name!", 1),
		"no profiles":           "points_per_track: 10\nprofiles: []\n",
		"unknown profile key":   strings.Replace(validProfiles, "duration_s: 540", "duration_s: 540\n    speed: 3", 1),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeTemp(t, body), ""); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadConfig_MissingSchema(t *testing.T) {
	if _, err := Load(writeTemp(t, validProfiles), filepath.Join(t.TempDir(), "missing.cue")); err == nil {
		t.Fatalf("expected error for missing schema")
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv(EnvDispersions, "7")
	t.Setenv(EnvRadiusDeg, "not-a-number")
	t.Setenv(EnvOutputDir, "")
	if got := Int(EnvDispersions, 4); got != 7 {
		t.Errorf("Int = %d, want 7", got)
	}
	if got := Float(EnvRadiusDeg, 0.5); got != 0.5 {
		t.Errorf("Float = %v, want default 0.5", got)
	}
	if got := String(EnvOutputDir, "out"); got != "out" {
		t.Errorf("String = %q, want out", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("LAUNCHTRACK_POINTS=25\n"), 0644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv(EnvPoints, "")
	os.Unsetenv(EnvPoints)
	LoadEnv(path)
	if got := Int(EnvPoints, 100); got != 25 {
		t.Errorf("Int after LoadEnv = %d, want 25", got)
	}
}
