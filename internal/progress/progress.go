// Package progress renders generation progress in the terminal and formats
// run summaries.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"launchtrack/internal/dispersion"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// eventMsg carries one written archive.
type eventMsg struct{ dispersion.Event }

// doneMsg stops the program.
type doneMsg struct{}

const barPadding = 2

// Reporter forwards generation events to a bubbletea progress bar.
type Reporter struct {
	program teaProgram
	done    chan struct{}
}

// NewReporter starts a progress program writing to out. onInterrupt is
// called when the user presses ctrl+c or q.
func NewReporter(out io.Writer, total int, onInterrupt func()) *Reporter {
	r := &Reporter{done: make(chan struct{})}
	p := tea.NewProgram(newModel(total, onInterrupt), tea.WithOutput(out))
	r.program = p
	go func() {
		_, _ = p.Run()
		close(r.done)
	}()
	return r
}

// Update reports one written archive. It matches dispersion.WithProgress.
func (r *Reporter) Update(e dispersion.Event) {
	r.program.Send(eventMsg{e})
}

// Close stops the program and waits for it to restore the terminal.
func (r *Reporter) Close() error {
	if r.program != nil {
		r.program.Send(doneMsg{})
	}
	if r.done != nil {
		<-r.done
	}
	return nil
}

// Interactive reports whether f is attached to a terminal.
func Interactive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Width returns the terminal width of f, or fallback when unknown.
func Width(f *os.File, fallback int) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return fallback
}

type model struct {
	bar         progress.Model
	total       int
	done        int
	last        string
	finished    bool
	onInterrupt func()
}

var (
	fileStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	countStyle = lipgloss.NewStyle().Bold(true)
)

func newModel(total int, onInterrupt func()) model {
	return model{
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		total:       total,
		onInterrupt: onInterrupt,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = max(10, msg.Width-barPadding*2-12)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.onInterrupt != nil {
				m.onInterrupt()
			}
			m.finished = true
			return m, tea.Quit
		}
	case eventMsg:
		m.done = msg.Done
		if msg.Total > 0 {
			m.total = msg.Total
		}
		m.last = msg.Entry.FileName
	case doneMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

func (m model) View() string {
	pad := fmt.Sprintf("%*s", barPadding, "")
	view := pad + m.bar.ViewAs(m.percent()) + " " + countStyle.Render(fmt.Sprintf("%d/%d", m.done, m.total)) + "\n"
	if m.last != "" {
		view += pad + fileStyle.Render(m.last) + "\n"
	}
	if m.finished {
		view += "\n"
	}
	return view
}
