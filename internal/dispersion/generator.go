package dispersion

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"launchtrack/internal/kmz"
	"launchtrack/internal/logging"
	"launchtrack/internal/metrics"
	"launchtrack/internal/sink"
	"launchtrack/internal/trajectory"
)

// Defaults for the generation parameters. Callers resolve them; Generate
// uses Options as given.
const (
	DefaultDispersions = 4
	DefaultRadiusDeg   = 0.5
	DefaultPoints      = 100
)

// Options are the per-run generation parameters.
type Options struct {
	DispersionsPerProfile int
	RadiusDeg             float64
	PointsPerTrack        int
	OutputDir             string
	StartTime             time.Time
}

func (o Options) withDefaults() Options {
	if o.DispersionsPerProfile < 0 {
		o.DispersionsPerProfile = 0
	}
	if o.RadiusDeg < 0 {
		o.RadiusDeg = 0
	}
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if o.StartTime.IsZero() {
		o.StartTime = time.Now().UTC()
	}
	return o
}

// Event reports one written archive.
type Event struct {
	Done  int
	Total int
	Entry Entry
}

// Generator writes nominal and dispersed archives for a set of profiles.
type Generator struct {
	rand     *rand.Rand
	seed     *int64
	writer   sink.WaypointWriter
	metrics  *metrics.Recorder
	logger   *slog.Logger
	progress func(Event)
	runID    string
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes dispersion draws reproducible.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rand = rand.New(rand.NewSource(seed))
		g.seed = &seed
	}
}

// WithWriter hands every waypoint to w.
func WithWriter(w sink.WaypointWriter) Option { return func(g *Generator) { g.writer = w } }

// WithMetrics records written archives on r.
func WithMetrics(r *metrics.Recorder) Option { return func(g *Generator) { g.metrics = r } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(g *Generator) { g.logger = l } }

// WithProgress registers a callback invoked after each archive.
func WithProgress(fn func(Event)) Option { return func(g *Generator) { g.progress = fn } }

// NewGenerator creates a Generator. Without WithSeed draws are
// seeded from the clock.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{}
	for _, o := range opts {
		o(g)
	}
	if g.rand == nil {
		g.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	g.runID = uuid.New().String()
	g.logger = logging.Component(g.logger, "dispersion").With("run_id", g.runID)
	return g
}

// RunID returns the identifier stamped on the manifest and sink rows.
func (g *Generator) RunID() string { return g.runID }

// Generate writes one nominal and opts.DispersionsPerProfile dispersed
// archives per profile into opts.OutputDir, then writes the manifest.
func (g *Generator) Generate(ctx context.Context, profiles []Profile, opts Options) (*Manifest, error) {
	opts = opts.withDefaults()
	if opts.PointsPerTrack < 1 {
		return nil, fmt.Errorf("%w: got %d", trajectory.ErrInvalidPointCount, opts.PointsPerTrack)
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	m := &Manifest{
		RunID:       g.runID,
		GeneratedAt: time.Now().UTC(),
		Params: Params{
			DispersionsPerProfile: opts.DispersionsPerProfile,
			RadiusDeg:             opts.RadiusDeg,
			PointsPerTrack:        opts.PointsPerTrack,
			Seed:                  g.seed,
		},
	}
	total := len(profiles) * (opts.DispersionsPerProfile + 1)

	for _, p := range profiles {
		for variant := 0; variant <= opts.DispersionsPerProfile; variant++ {
			if err := ctx.Err(); err != nil {
				return m, err
			}
			end := p.End
			kind := KindNominal
			if variant > 0 {
				end = Disperse(g.rand, p.End, opts.RadiusDeg)
				kind = KindDispersion
			}
			entry, err := g.writeVariant(p, variant, kind, end, opts)
			if err != nil {
				return m, err
			}
			m.Entries = append(m.Entries, entry)
			if g.progress != nil {
				g.progress(Event{Done: len(m.Entries), Total: total, Entry: entry})
			}
		}
	}

	path, err := WriteManifest(opts.OutputDir, m)
	if err != nil {
		return m, err
	}
	g.logger.Info("dispersion run complete",
		"files", len(m.Entries),
		"size", humanize.Bytes(uint64(m.TotalBytes())),
		"manifest", path)
	return m, nil
}

func (g *Generator) writeVariant(p Profile, variant int, kind string, end trajectory.Point, opts Options) (Entry, error) {
	name := FileName(p.Name, variant)
	style := trajectory.DefaultStyle()
	if kind == KindDispersion {
		style.LineColor = trajectory.ColorOrange
		style.LineWidth = 2
	}
	duration := p.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}
	traj, err := trajectory.New(trajectory.Options{
		Name:          trimExt(name),
		Start:         p.Start,
		End:           end,
		Count:         opts.PointsPerTrack,
		TotalDuration: duration,
		StartTime:     opts.StartTime,
		StartLabel:    p.Label() + " (Start)",
		EndLabel:      p.Label() + " (End)",
		Style:         style,
	})
	if err != nil {
		return Entry{}, err
	}

	size, err := kmz.WriteFile(filepath.Join(opts.OutputDir, name), traj)
	if err != nil {
		return Entry{}, fmt.Errorf("write %s: %w", name, err)
	}
	if g.writer != nil {
		if err := sink.WriteAll(g.writer, sink.Rows(g.runID, traj)); err != nil {
			return Entry{}, fmt.Errorf("sink %s: %w", name, err)
		}
	}
	g.metrics.ObserveTrajectory(kind, len(traj.Waypoints), size)
	g.logger.Debug("wrote trajectory", "file", name, "kind", kind, "size", humanize.Bytes(uint64(size)))

	return Entry{
		Profile:   p.Name,
		Kind:      kind,
		Variant:   variant,
		FileName:  name,
		Start:     p.Start,
		End:       end,
		Points:    len(traj.Waypoints),
		SizeBytes: size,
	}, nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
