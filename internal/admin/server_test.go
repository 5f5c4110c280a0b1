package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"launchtrack/internal/dispersion"
)

func generate(t *testing.T) (string, *dispersion.Manifest) {
	t.Helper()
	dir := t.TempDir()
	m, err := dispersion.NewGenerator(dispersion.WithSeed(3)).Generate(context.Background(), dispersion.BuiltIn()[:1], dispersion.Options{
		DispersionsPerProfile: 1,
		PointsPerTrack:        10,
		OutputDir:             dir,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return dir, m
}

func TestHandleIndex(t *testing.T) {
	dir, m := generate(t)
	srv := NewServer(dir, nil, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status OK, got %v", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{m.RunID, "F9 Track Cape Canaveral East GTO Nominal", "/files/F9_Track_Cape_Canaveral_East_GTO_Dispersion_1.kmz"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestHandleUnknownPath(t *testing.T) {
	srv := NewServer(t.TempDir(), nil, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %v", w.Code)
	}
}

func TestHandleManifest(t *testing.T) {
	dir, m := generate(t)
	srv := NewServer(dir, nil, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/manifest.json", nil))
	var got dispersion.Manifest
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if got.RunID != m.RunID || len(got.Entries) != 2 {
		t.Fatalf("unexpected manifest: %+v", got)
	}

	empty := NewServer(t.TempDir(), nil, nil)
	w = httptest.NewRecorder()
	empty.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/manifest.json", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 without manifest, got %v", w.Code)
	}
}

func TestHandleTracks(t *testing.T) {
	dir, _ := generate(t)
	srv := NewServer(dir, nil, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tracks", nil))
	var tracks []Track
	if err := json.NewDecoder(w.Body).Decode(&tracks); err != nil {
		t.Fatalf("decode tracks: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	for _, tr := range tracks {
		if tr.Points != 10 || tr.SizeBytes == 0 || tr.Kind == "" {
			t.Errorf("unexpected track: %+v", tr)
		}
	}
}

func TestServeFiles(t *testing.T) {
	dir, _ := generate(t)
	srv := NewServer(dir, nil, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/F9_Track_Cape_Canaveral_East_GTO_Nominal.kmz", nil))
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("unexpected file response: %v, %d bytes", w.Code, w.Body.Len())
	}

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/index.js", nil))
	if !strings.Contains(w.Body.String(), "F9_Track_Cape_Canaveral_East_GTO_Nominal.kmz") {
		t.Fatalf("index.js missing archive:\n%s", w.Body.String())
	}
}
