package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"launchtrack/internal/dispersion"
	"launchtrack/internal/heatmap"
)

var (
	hmManifest  string
	hmOutputDir string
	hmWidth     int
	hmHeight    int
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Render end point density heatmaps from a dispersion manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := dispersion.ReadManifest(hmManifest)
		if err != nil {
			return err
		}
		dir := hmOutputDir
		if dir == "" {
			dir = manifestDir(hmManifest)
		}
		paths, err := heatmap.WriteProfiles(dir, m, heatmap.Config{Width: hmWidth, Height: hmHeight})
		for _, p := range paths {
			fmt.Fprintf(cmd.OutOrStdout(), "Generated heatmap: %s\n", p)
		}
		return err
	},
}

// manifestDir returns path itself when it is a directory, else its parent.
func manifestDir(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return filepath.Dir(path)
}

func init() {
	f := heatmapCmd.Flags()
	f.StringVar(&hmManifest, "manifest", defaultOutputDir, "manifest.json or the directory holding it")
	f.StringVarP(&hmOutputDir, "output-dir", "o", "", "Output directory (default the manifest's)")
	f.IntVar(&hmWidth, "width", 512, "Plot width in pixels")
	f.IntVar(&hmHeight, "height", 512, "Plot height in pixels")
}
