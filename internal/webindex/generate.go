// Package webindex renders the JavaScript module that lists generated
// trajectory archives for the web front-end.
package webindex

import (
	"embed"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"launchtrack/internal/dispersion"
)

// FileName is the generated module name.
const FileName = "index.js"

//go:embed templates/index.js.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.js.tmpl"))

// Item is one listed trajectory.
type Item struct {
	Name     string
	FileName string
	Label    string
}

// NewItem builds an item from an archive file name.
func NewItem(fileName string) Item {
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return Item{Name: name, FileName: fileName, Label: dispersion.Label(name)}
}

// FromManifest lists the archives recorded in m.
func FromManifest(m *dispersion.Manifest) []Item {
	items := make([]Item, 0, len(m.Entries))
	for _, e := range m.Entries {
		items = append(items, NewItem(e.FileName))
	}
	return items
}

// Scan lists the .kmz files in dir.
func Scan(dir string) ([]Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var items []Item
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".kmz") {
			continue
		}
		items = append(items, NewItem(e.Name()))
	}
	return items, nil
}

// Render writes the module for items sorted by name.
func Render(w io.Writer, items []Item) error {
	sorted := append([]Item(nil), items...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return indexTemplate.Execute(w, sorted)
}

// Write renders the module into dir and returns its path.
func Write(dir string, items []Item) (string, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Render(f, items); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
