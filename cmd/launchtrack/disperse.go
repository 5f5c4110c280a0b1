package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"launchtrack/internal/config"
	"launchtrack/internal/dispersion"
	"launchtrack/internal/heatmap"
	"launchtrack/internal/logging"
	"launchtrack/internal/progress"
	"launchtrack/internal/trajectory"
	"launchtrack/internal/webindex"
)

const defaultOutputDir = "trajectories"

var (
	dispConfigPath string
	dispSchemaPath string
	dispOutputDir  string
	dispCount      int
	dispRadius     float64
	dispPoints     int
	dispSeed       int64
	dispProfiles   []string
	dispWebIndex   bool
	dispHeatmap    bool
	dispNoProgress bool
	dispPrintOnly  bool
	dispLogFile    string
)

var disperseCmd = &cobra.Command{
	Use:   "disperse",
	Short: "Generate nominal and dispersed trajectories per flight profile",
	Long: "disperse writes <Profile>_Nominal.kmz and <Profile>_Dispersion_<n>.kmz for each profile, " +
		"offsetting the dispersed end points uniformly within the given radius, plus a manifest.json.",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, opts, err := dispersionInputs(cmd)
		if err != nil {
			return err
		}
		logger := logging.FromContext(cmd.Context())

		writer, cleanup, err := newWriter(dispPrintOnly, dispLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		genOpts := []dispersion.Option{
			dispersion.WithLogger(logger),
			dispersion.WithMetrics(recorder),
		}
		if writer != nil {
			genOpts = append(genOpts, dispersion.WithWriter(writer))
		}
		if cmd.Flags().Changed("seed") {
			genOpts = append(genOpts, dispersion.WithSeed(dispSeed))
		}
		var reporter *progress.Reporter
		if !dispNoProgress && !dispPrintOnly && progress.Interactive(os.Stderr) {
			total := len(profiles) * (opts.DispersionsPerProfile + 1)
			reporter = progress.NewReporter(os.Stderr, total, cancel)
			genOpts = append(genOpts, dispersion.WithProgress(reporter.Update))
		}

		gen := dispersion.NewGenerator(genOpts...)
		logger.Info("starting dispersion run", "run_id", gen.RunID(), "profiles", len(profiles), "output_dir", opts.OutputDir)
		m, err := gen.Generate(ctx, profiles, opts)
		if reporter != nil {
			reporter.Close()
		}
		if err != nil {
			return err
		}

		if dispWebIndex {
			path, err := webindex.Write(opts.OutputDir, webindex.FromManifest(m))
			if err != nil {
				return err
			}
			logger.Info("wrote web index", "path", path)
		}
		if dispHeatmap {
			paths, err := heatmap.WriteProfiles(opts.OutputDir, m, heatmap.Config{})
			if err != nil {
				return err
			}
			logger.Info("wrote heatmaps", "count", len(paths))
		}
		fmt.Fprint(reportWriter(cmd, dispPrintOnly), progress.Summary(m))
		return nil
	},
}

// dispersionInputs resolves profiles and options from defaults, the config
// file, env vars and flags, in increasing precedence.
func dispersionInputs(cmd *cobra.Command) ([]dispersion.Profile, dispersion.Options, error) {
	opts := dispersion.Options{
		DispersionsPerProfile: dispersion.DefaultDispersions,
		RadiusDeg:             dispersion.DefaultRadiusDeg,
		PointsPerTrack:        dispersion.DefaultPoints,
		OutputDir:             defaultOutputDir,
	}
	profiles := dispersion.BuiltIn()

	if dispConfigPath != "" {
		cfg, err := config.Load(dispConfigPath, dispSchemaPath)
		if err != nil {
			return nil, opts, err
		}
		profiles = dispersion.FromConfig(cfg)
		if cfg.DispersionsPerProfile != nil {
			opts.DispersionsPerProfile = *cfg.DispersionsPerProfile
		}
		if cfg.DispersionRadiusDeg != nil {
			opts.RadiusDeg = *cfg.DispersionRadiusDeg
		}
		if cfg.PointsPerTrack != nil {
			opts.PointsPerTrack = *cfg.PointsPerTrack
		}
		if cfg.OutputDir != "" {
			opts.OutputDir = cfg.OutputDir
		}
	}

	opts.DispersionsPerProfile = config.Int(config.EnvDispersions, opts.DispersionsPerProfile)
	opts.RadiusDeg = config.Float(config.EnvRadiusDeg, opts.RadiusDeg)
	opts.PointsPerTrack = config.Int(config.EnvPoints, opts.PointsPerTrack)
	opts.OutputDir = config.String(config.EnvOutputDir, opts.OutputDir)

	flags := cmd.Flags()
	if flags.Changed("count") {
		opts.DispersionsPerProfile = dispCount
	}
	if flags.Changed("radius") {
		opts.RadiusDeg = dispRadius
	}
	if flags.Changed("points") {
		opts.PointsPerTrack = dispPoints
	}
	if flags.Changed("output-dir") {
		opts.OutputDir = dispOutputDir
	}
	if opts.PointsPerTrack < 1 {
		return nil, opts, fmt.Errorf("%w: got %d", trajectory.ErrInvalidPointCount, opts.PointsPerTrack)
	}

	if len(dispProfiles) > 0 {
		selected, err := selectProfiles(profiles, dispProfiles)
		if err != nil {
			return nil, opts, err
		}
		profiles = selected
	}
	return profiles, opts, nil
}

func selectProfiles(all []dispersion.Profile, names []string) ([]dispersion.Profile, error) {
	byName := make(map[string]dispersion.Profile, len(all))
	for _, p := range all {
		byName[p.Name] = p
	}
	out := make([]dispersion.Profile, 0, len(names))
	for _, n := range names {
		p, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("unknown profile %q", n)
		}
		out = append(out, p)
	}
	return out, nil
}

func init() {
	registerDisperseFlags(disperseCmd)
}

func registerDisperseFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&dispConfigPath, "config", "", "Profile configuration YAML (default built-in profiles)")
	f.StringVar(&dispSchemaPath, "schema", "", "CUE schema for --config (default embedded schema)")
	f.StringVarP(&dispOutputDir, "output-dir", "o", defaultOutputDir, "Output directory; LAUNCHTRACK_OUTPUT_DIR")
	f.IntVarP(&dispCount, "count", "n", dispersion.DefaultDispersions, "Dispersions per profile; LAUNCHTRACK_DISPERSIONS")
	f.Float64Var(&dispRadius, "radius", dispersion.DefaultRadiusDeg, "Dispersion radius in degrees; LAUNCHTRACK_RADIUS_DEG")
	f.IntVar(&dispPoints, "points", dispersion.DefaultPoints, "Points per track; LAUNCHTRACK_POINTS")
	f.Int64Var(&dispSeed, "seed", 0, "Seed for reproducible dispersions (default random)")
	f.StringSliceVar(&dispProfiles, "profile", nil, "Only generate the named profiles")
	f.BoolVar(&dispWebIndex, "web-index", false, "Also write index.js listing the generated files")
	f.BoolVar(&dispHeatmap, "heatmap", false, "Also render a heatmap PNG per profile")
	f.BoolVar(&dispNoProgress, "no-progress", false, "Disable the interactive progress bar")
	f.BoolVar(&dispPrintOnly, "print", false, "Print waypoints as JSON to STDOUT")
	f.StringVar(&dispLogFile, "log-file", "", "Export waypoints to a JSONL file")
}
