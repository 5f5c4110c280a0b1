package dispersion

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"launchtrack/internal/config"
	"launchtrack/internal/kmz"
	"launchtrack/internal/sink"
	"launchtrack/internal/trajectory"
)

type collectWriter struct{ rows []sink.WaypointRow }

func (c *collectWriter) Write(r sink.WaypointRow) error {
	c.rows = append(c.rows, r)
	return nil
}

func TestFileName(t *testing.T) {
	cases := []struct {
		variant int
		want    string
	}{
		{0, "F9_Track_Vandenberg_Polar_SSO_Nominal.kmz"},
		{1, "F9_Track_Vandenberg_Polar_SSO_Dispersion_1.kmz"},
		{4, "F9_Track_Vandenberg_Polar_SSO_Dispersion_4.kmz"},
	}
	for _, tc := range cases {
		if got := FileName("F9_Track_Vandenberg_Polar_SSO", tc.variant); got != tc.want {
			t.Errorf("FileName(%d) = %s, want %s", tc.variant, got, tc.want)
		}
	}
}

func TestDisperseBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	end := trajectory.Point{Lon: -45, Lat: 22, Alt: 180000}
	for i := 0; i < 1000; i++ {
		p := Disperse(rng, end, 0.5)
		if math.Abs(p.Lon-end.Lon) > 0.5 || math.Abs(p.Lat-end.Lat) > 0.5 {
			t.Fatalf("draw %d outside radius: %+v", i, p)
		}
		if p.Alt != end.Alt {
			t.Fatalf("draw %d changed altitude: %v", i, p.Alt)
		}
	}
}

func TestDisperseZeroRadius(t *testing.T) {
	end := trajectory.Point{Lon: 1, Lat: 2, Alt: 3}
	if got := Disperse(rand.New(rand.NewSource(7)), end, 0); got != end {
		t.Fatalf("zero radius moved endpoint: %+v", got)
	}
}

func TestBuiltIn(t *testing.T) {
	ps := BuiltIn()
	if len(ps) != 3 {
		t.Fatalf("expected 3 built-in profiles, got %d", len(ps))
	}
	for i := 1; i < len(ps); i++ {
		if ps[i-1].Name >= ps[i].Name {
			t.Fatalf("profiles not sorted: %s, %s", ps[i-1].Name, ps[i].Name)
		}
	}
	p, ok := Lookup("F9_Track_Cape_Canaveral_East_GTO")
	if !ok || p.Label() != "F9 Track Cape Canaveral East GTO" {
		t.Fatalf("unexpected lookup: %+v %v", p, ok)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := &config.DispersionConfig{Profiles: []config.Profile{
		{Name: "A", DurationS: 60},
		{Name: "B"},
	}}
	ps := FromConfig(cfg)
	if len(ps) != 2 || ps[0].Duration != time.Minute || ps[1].Duration != DefaultDuration {
		t.Fatalf("unexpected profiles: %+v", ps)
	}
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	cw := &collectWriter{}
	var events []Event
	g := NewGenerator(WithSeed(42), WithWriter(cw), WithProgress(func(e Event) { events = append(events, e) }))

	profiles := BuiltIn()[:2]
	m, err := g.Generate(context.Background(), profiles, Options{
		DispersionsPerProfile: 2,
		RadiusDeg:             0.5,
		PointsPerTrack:        20,
		OutputDir:             dir,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(m.Entries) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(m.Entries))
	}
	if len(events) != 6 || events[5].Done != 6 || events[5].Total != 6 {
		t.Fatalf("unexpected progress events: %+v", events)
	}
	if len(cw.rows) != 6*20 || cw.rows[0].RunID != g.RunID() {
		t.Fatalf("unexpected sink rows: %d", len(cw.rows))
	}

	for _, e := range m.Entries {
		path := filepath.Join(dir, e.FileName)
		s, err := kmz.Inspect(path)
		if err != nil {
			t.Fatalf("Inspect %s: %v", e.FileName, err)
		}
		if s.PathPoints != 20 || s.Members != 1 {
			t.Errorf("%s: unexpected summary %+v", e.FileName, s)
		}
		p, _ := Lookup(e.Profile)
		if e.Kind == KindNominal && e.End != p.End {
			t.Errorf("%s: nominal end moved", e.FileName)
		}
		if e.Kind == KindDispersion && (math.Abs(e.End.Lon-p.End.Lon) > 0.5 || e.End.Alt != p.End.Alt) {
			t.Errorf("%s: dispersion out of bounds: %+v", e.FileName, e.End)
		}
	}

	got, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if got.RunID != m.RunID || len(got.Entries) != len(m.Entries) || got.Params.Seed == nil || *got.Params.Seed != 42 {
		t.Fatalf("manifest mismatch: %+v", got)
	}
}

func TestGenerateSeededReproducible(t *testing.T) {
	run := func() []trajectory.Point {
		m, err := NewGenerator(WithSeed(7)).Generate(context.Background(), BuiltIn()[:1], Options{
			DispersionsPerProfile: 3,
			RadiusDeg:             1,
			PointsPerTrack:        5,
			OutputDir:             t.TempDir(),
		})
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		var ends []trajectory.Point
		for _, e := range m.Entries {
			ends = append(ends, e.End)
		}
		return ends
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seeded runs differ at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateExistingDir(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(WithSeed(1))
	for i := 0; i < 2; i++ {
		if _, err := g.Generate(context.Background(), BuiltIn()[:1], Options{PointsPerTrack: 3, OutputDir: dir}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "F9_Track_Cape_Canaveral_East_GTO_Nominal.kmz")); err != nil {
		t.Fatalf("nominal archive missing: %v", err)
	}
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGenerator().Generate(ctx, BuiltIn(), Options{PointsPerTrack: 10, OutputDir: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGenerateInvalidPoints(t *testing.T) {
	for _, points := range []int{0, -1} {
		dir := t.TempDir()
		_, err := NewGenerator().Generate(context.Background(), BuiltIn(), Options{PointsPerTrack: points, OutputDir: dir})
		if !errors.Is(err, trajectory.ErrInvalidPointCount) {
			t.Fatalf("points=%d: expected ErrInvalidPointCount, got %v", points, err)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Fatalf("points=%d: expected no files, got %d", points, len(entries))
		}
	}
}
