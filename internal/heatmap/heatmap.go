// Package heatmap renders the density of dispersed trajectory end points as
// an annotated PNG.
package heatmap

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"launchtrack/internal/dispersion"
	"launchtrack/internal/trajectory"
)

const (
	hueStart = 236.0
	hueEnd   = 0.0

	dpi      = 72.0
	fontSize = 12.0

	defaultSize      = 512
	defaultTopBorder = 40
	defaultLeft      = 80
	defaultBottom    = 60
	defaultRight     = 40

	// minimum half-extent of the plotted area in degrees
	minPadDeg = 0.25
	// densities below this fraction of the peak stay background
	floor = 0.02
)

// Config controls the rendered image.
type Config struct {
	Width  int // plot area in pixels
	Height int
	Title  string
	Info   string // optional bottom line
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = defaultSize
	}
	if c.Height <= 0 {
		c.Height = defaultSize
	}
	return c
}

// Bounds is a lon/lat box in degrees.
type Bounds struct {
	MinLon, MaxLon, MinLat, MaxLat float64
}

// BoundsOf returns the padded box containing pts.
func BoundsOf(pts []trajectory.Point) Bounds {
	b := Bounds{MinLon: math.Inf(1), MaxLon: math.Inf(-1), MinLat: math.Inf(1), MaxLat: math.Inf(-1)}
	for _, p := range pts {
		b.MinLon = math.Min(b.MinLon, p.Lon)
		b.MaxLon = math.Max(b.MaxLon, p.Lon)
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
	}
	padLon := math.Max((b.MaxLon-b.MinLon)*0.25, minPadDeg)
	padLat := math.Max((b.MaxLat-b.MinLat)*0.25, minPadDeg)
	b.MinLon -= padLon
	b.MaxLon += padLon
	b.MinLat -= padLat
	b.MaxLat += padLat
	return b
}

// Render draws a density map of pts with title and axis annotations.
func Render(pts []trajectory.Point, cfg Config) (*image.RGBA, error) {
	if len(pts) == 0 {
		return nil, fmt.Errorf("heatmap: no points")
	}
	cfg = cfg.withDefaults()
	fullW := cfg.Width + defaultLeft + defaultRight
	fullH := cfg.Height + defaultTopBorder + defaultBottom
	img := image.NewRGBA(image.Rect(0, 0, fullW, fullH))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	area := image.Rect(defaultLeft, defaultTopBorder, defaultLeft+cfg.Width, defaultTopBorder+cfg.Height)
	b := BoundsOf(pts)
	density := Density(pts, b, cfg.Width, cfg.Height)

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			if v := density[y*cfg.Width+x]; v >= floor {
				img.Set(area.Min.X+x, area.Min.Y+y, rampColor(v))
			}
		}
	}
	drawFrame(img, area)

	if err := annotate(img, area, b, cfg, len(pts)); err != nil {
		return nil, fmt.Errorf("drawing annotations: %w", err)
	}
	return img, nil
}

// Density returns a row-major grid of Gaussian kernel sums normalised to a
// peak of 1. Row 0 is the northern edge.
func Density(pts []trajectory.Point, b Bounds, w, h int) []float64 {
	grid := make([]float64, w*h)
	sigma := float64(max(w, h)) / 20
	twoSigma2 := 2 * sigma * sigma
	reach := int(math.Ceil(3 * sigma))

	peak := 0.0
	for _, p := range pts {
		px := (p.Lon - b.MinLon) / (b.MaxLon - b.MinLon) * float64(w-1)
		py := (b.MaxLat - p.Lat) / (b.MaxLat - b.MinLat) * float64(h-1)
		x0, y0 := int(math.Round(px)), int(math.Round(py))
		for y := max(0, y0-reach); y <= min(h-1, y0+reach); y++ {
			for x := max(0, x0-reach); x <= min(w-1, x0+reach); x++ {
				dx, dy := float64(x)-px, float64(y)-py
				v := grid[y*w+x] + math.Exp(-(dx*dx+dy*dy)/twoSigma2)
				grid[y*w+x] = v
				peak = math.Max(peak, v)
			}
		}
	}
	if peak > 0 {
		for i := range grid {
			grid[i] /= peak
		}
	}
	return grid
}

// rampColor maps v in [0,1] from blue (cold) to red (hot).
func rampColor(v float64) color.Color {
	hue := hueStart - v*(hueStart-hueEnd)
	hue = math.Min(math.Max(hue, hueEnd), hueStart)
	return colorful.Hsv(hue, 1, 0.90)
}

func drawFrame(img *image.RGBA, area image.Rectangle) {
	for x := area.Min.X - 1; x <= area.Max.X; x++ {
		img.Set(x, area.Min.Y-1, color.Black)
		img.Set(x, area.Max.Y, color.Black)
	}
	for y := area.Min.Y - 1; y <= area.Max.Y; y++ {
		img.Set(area.Min.X-1, y, color.Black)
		img.Set(area.Max.X, y, color.Black)
	}
}

func annotate(img *image.RGBA, area image.Rectangle, b Bounds, cfg Config, n int) error {
	f, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parsing font: %w", err)
	}
	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(f)
	ctx.SetFontSize(fontSize)
	ctx.SetHinting(font.HintingFull)
	ctx.SetSrc(image.Black)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)

	labels := []struct {
		text string
		x, y int
	}{
		{cfg.Title, area.Min.X, area.Min.Y - 14},
		{fmt.Sprintf("%.2f°", b.MaxLat), 8, area.Min.Y + 12},
		{fmt.Sprintf("%.2f°", b.MinLat), 8, area.Max.Y},
		{fmt.Sprintf("%.2f°", b.MinLon), area.Min.X, area.Max.Y + 18},
		{fmt.Sprintf("%.2f°", b.MaxLon), area.Max.X - 50, area.Max.Y + 18},
		{infoLine(cfg, n), area.Min.X, area.Max.Y + 44},
	}
	for _, l := range labels {
		if l.text == "" {
			continue
		}
		if _, err := ctx.DrawString(l.text, freetype.Pt(l.x, l.y)); err != nil {
			return err
		}
	}
	return nil
}

func infoLine(cfg Config, n int) string {
	line := humanize.Comma(int64(n)) + " end points"
	if cfg.Info != "" {
		line += " | " + cfg.Info
	}
	return line
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

// FileName returns the image name for a profile.
func FileName(profile string) string { return profile + "_Heatmap.png" }

// WriteProfiles renders one heatmap per profile in m into dir and returns
// the written paths sorted by profile.
func WriteProfiles(dir string, m *dispersion.Manifest, cfg Config) ([]string, error) {
	byProfile := map[string][]trajectory.Point{}
	sizes := map[string]int64{}
	for _, e := range m.Entries {
		byProfile[e.Profile] = append(byProfile[e.Profile], e.End)
		sizes[e.Profile] += e.SizeBytes
	}
	names := make([]string, 0, len(byProfile))
	for name := range byProfile {
		names = append(names, name)
	}
	sort.Strings(names)

	var paths []string
	for _, name := range names {
		c := cfg
		c.Title = dispersion.Label(name)
		c.Info = fmt.Sprintf("radius %.2f° | %s of KMZ", m.Params.RadiusDeg, humanize.Bytes(uint64(sizes[name])))
		img, err := Render(byProfile[name], c)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, FileName(name))
		if err := WritePNG(path, img); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
