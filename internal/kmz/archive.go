package kmz

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"launchtrack/internal/trajectory"
)

// Summary describes the contents of a KMZ archive.
type Summary struct {
	Members    int
	Member     string
	Name       string
	Placemarks int
	PathPoints int
}

// WriteFile writes t as a KMZ archive at path. The KML document is first
// written next to the archive and removed once packed. It returns the size
// of the archive in bytes.
func WriteFile(path string, t *trajectory.Trajectory) (int64, error) {
	kmlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".kml"
	if err := writeKML(kmlPath, func(w io.Writer) error { return Encode(w, t) }); err != nil {
		return 0, err
	}
	defer os.Remove(kmlPath)

	if err := pack(path, kmlPath); err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// writeKML writes the document produced by encode to path. The file is
// removed when encoding or closing fails.
func writeKML(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create kml: %w", err)
	}
	if err := encode(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode kml: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func pack(kmzPath, kmlPath string) error {
	src, err := os.Open(kmlPath)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(kmzPath)
	if err != nil {
		return fmt.Errorf("create kmz: %w", err)
	}
	zw := zip.NewWriter(out)
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     filepath.Base(kmlPath),
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err == nil {
		_, err = io.Copy(w, src)
	}
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("pack kmz: %w", err)
	}
	return nil
}

type kmlFile struct {
	Document struct {
		Name       string `xml:"name"`
		Placemarks []struct {
			Name       string `xml:"name"`
			LineString *struct {
				Coordinates string `xml:"coordinates"`
			} `xml:"LineString"`
		} `xml:"Placemark"`
	} `xml:"Document"`
}

// Inspect opens a KMZ archive and parses its first KML member.
func Inspect(path string) (*Summary, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open kmz: %w", err)
	}
	defer zr.Close()

	s := &Summary{Members: len(zr.File)}
	if len(zr.File) == 0 {
		return s, nil
	}
	member := zr.File[0]
	s.Member = member.Name
	rc, err := member.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var doc kmlFile
	if err := xml.NewDecoder(rc).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse kml: %w", err)
	}
	s.Name = doc.Document.Name
	s.Placemarks = len(doc.Document.Placemarks)
	for _, p := range doc.Document.Placemarks {
		if p.LineString != nil {
			s.PathPoints = len(strings.Fields(p.LineString.Coordinates))
			break
		}
	}
	return s, nil
}
