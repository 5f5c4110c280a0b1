// Package admin serves a browsable preview of a trajectory output directory.
package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"launchtrack/internal/dispersion"
	"launchtrack/internal/kmz"
	"launchtrack/internal/logging"
	"launchtrack/internal/metrics"
	"launchtrack/internal/webindex"
)

//go:embed templates/index.html
var content embed.FS

// Track is one archive listed by the server.
type Track struct {
	FileName   string `json:"file_name"`
	Label      string `json:"label"`
	Kind       string `json:"kind,omitempty"`
	Points     int    `json:"points"`
	Placemarks int    `json:"placemarks"`
	SizeBytes  int64  `json:"size_bytes"`
	Size       string `json:"-"`
}

type Server struct {
	Dir     string
	metrics *metrics.Recorder
	logger  *slog.Logger
	tpl     *template.Template
}

func NewServer(dir string, rec *metrics.Recorder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{Dir: dir, metrics: rec, logger: logging.Component(logger, "admin"), tpl: tpl}
}

// Handler returns the routes on a dedicated mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/manifest.json", s.handleManifest)
	mux.HandleFunc("/index.js", s.handleWebIndex)
	mux.HandleFunc("/api/tracks", s.handleTracks)
	mux.Handle("/files/", http.StripPrefix("/files/", http.FileServer(http.Dir(s.Dir))))
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

// Start serves until ctx is canceled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.logger.Info("serving trajectories", "addr", addr, "dir", s.Dir)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Tracks lists the archives in the directory. Kinds come from the manifest
// when one is present.
func (s *Server) Tracks() ([]Track, *dispersion.Manifest, error) {
	m, err := dispersion.ReadManifest(s.Dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, nil, err
	}
	kinds := map[string]string{}
	if m != nil {
		for _, e := range m.Entries {
			kinds[e.FileName] = e.Kind
		}
	}
	items, err := webindex.Scan(s.Dir)
	if err != nil {
		return nil, m, err
	}
	tracks := make([]Track, 0, len(items))
	for _, it := range items {
		t := Track{FileName: it.FileName, Label: it.Label, Kind: kinds[it.FileName]}
		path := filepath.Join(s.Dir, it.FileName)
		if sum, err := kmz.Inspect(path); err == nil {
			t.Points, t.Placemarks = sum.PathPoints, sum.Placemarks
		} else {
			s.logger.Warn("unreadable archive", "file", it.FileName, "err", err)
		}
		if info, err := os.Stat(path); err == nil {
			t.SizeBytes = info.Size()
			t.Size = humanize.Bytes(uint64(info.Size()))
		}
		tracks = append(tracks, t)
	}
	return tracks, m, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	tracks, m, err := s.Tracks()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data := struct {
		Dir         string
		RunID       string
		GeneratedAt string
		Tracks      []Track
	}{Dir: s.Dir, Tracks: tracks}
	if m != nil {
		data.RunID = m.RunID
		data.GeneratedAt = m.GeneratedAt.Format(time.RFC3339)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.Execute(w, data); err != nil {
		s.logger.Error("render index", "err", err)
	}
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	m, err := dispersion.ReadManifest(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m)
}

func (s *Server) handleWebIndex(w http.ResponseWriter, r *http.Request) {
	items, err := webindex.Scan(s.Dir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	webindex.Render(w, items)
}

func (s *Server) handleTracks(w http.ResponseWriter, r *http.Request) {
	tracks, _, err := s.Tracks()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tracks)
}
