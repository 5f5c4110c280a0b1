package progress

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	"launchtrack/internal/dispersion"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	nameStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Summary formats the per-profile totals of a manifest.
func Summary(m *dispersion.Manifest) string {
	type row struct {
		files int
		bytes int64
	}
	rows := map[string]*row{}
	for _, e := range m.Entries {
		r, ok := rows[e.Profile]
		if !ok {
			r = &row{}
			rows[e.Profile] = r
		}
		r.files++
		r.bytes += e.SizeBytes
	}
	names := make([]string, 0, len(rows))
	width := 0
	for name := range rows {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("run %s", m.RunID)) + "\n")
	for _, name := range names {
		r := rows[name]
		fmt.Fprintf(&b, "  %s  %s\n",
			nameStyle.Render(fmt.Sprintf("%-*s", width, name)),
			dimStyle.Render(fmt.Sprintf("%d files, %s", r.files, humanize.Bytes(uint64(r.bytes)))))
	}
	fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf("total %d files, %s", len(m.Entries), humanize.Bytes(uint64(m.TotalBytes())))))
	return b.String()
}

// Profiles formats profile names with their descriptions wrapped to width.
func Profiles(profiles []dispersion.Profile, width int) string {
	const indent = "    "
	wrap := max(20, width-len(indent))
	var b strings.Builder
	for _, p := range profiles {
		b.WriteString(nameStyle.Render(p.Name) + "\n")
		fmt.Fprintf(&b, "%s%s\n", indent, dimStyle.Render(fmt.Sprintf("start %.3f, %.3f  end %.3f, %.3f, %.0fm  %s",
			p.Start.Lon, p.Start.Lat, p.End.Lon, p.End.Lat, p.End.Alt, p.Duration)))
		if p.Description != "" {
			for _, line := range strings.Split(wordwrap.String(p.Description, wrap), "\n") {
				b.WriteString(indent + line + "\n")
			}
		}
	}
	return b.String()
}
