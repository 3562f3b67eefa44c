// Package tui draws the now-playing toast in the terminal with BubbleTea.
//
// The render loop runs in its own goroutine and pushes frames into the
// program through Surface; the model only keeps the latest frame.
package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/nowplaying/internal/render"
)

// Styles
var (
	panelStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("255"))

	titleStyle = panelStyle.
			Foreground(lipgloss.Color("11")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

type frameMsg render.Frame

type clearMsg struct{}

// Options configures the terminal toast.
type Options struct {
	PanelWidth     int     // Panel width in layout units
	ColumnsPerUnit float64 // Terminal columns per layout unit
}

// Model is the BubbleTea model of the toast.
type Model struct {
	keys KeyMap
	help help.Model

	panelCols      int
	columnsPerUnit float64

	frame    render.Frame
	shown    bool
	showHelp bool
}

// New creates the toast model.
func New(opts Options) Model {
	cpu := opts.ColumnsPerUnit
	if cpu <= 0 {
		cpu = 0.1
	}

	return Model{
		keys:           DefaultKeyMap(),
		help:           help.New(),
		panelCols:      int(math.Round(float64(opts.PanelWidth) * cpu)),
		columnsPerUnit: cpu,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		}
		return m, nil

	case frameMsg:
		m.frame = render.Frame(msg)
		m.shown = true
		return m, nil

	case clearMsg:
		m.shown = false
		return m, nil
	}

	return m, nil
}

// View renders the toast at its current offset.
func (m Model) View() string {
	var b strings.Builder

	if m.shown {
		b.WriteString(m.renderPanel())
	}

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	}

	return b.String()
}

// renderPanel draws the visible part of the panel and its two labels.
func (m Model) renderPanel() string {
	x := m.cols(m.frame.PanelX)

	// Only the part of the panel right of the screen edge is visible.
	left := max(x, 0)
	visible := m.panelCols - (left - x)
	if visible <= 0 {
		return ""
	}

	titleRow := m.rows(m.frame.TitleY)
	nameRow := m.rows(m.frame.NameY)
	height := max(titleRow, nameRow) + 2

	titleCol := m.cols(m.frame.TitleX) - left
	nameCol := m.cols(m.frame.NameX) - left

	margin := strings.Repeat(" ", left)
	lines := make([]string, height)
	for row := range lines {
		var line string
		switch row {
		case titleRow:
			line = renderLabel(m.frame.Title, titleCol, visible, titleStyle)
		case nameRow:
			line = renderLabel(m.frame.Name, nameCol, visible, panelStyle)
		default:
			line = panelStyle.Render(strings.Repeat(" ", visible))
		}
		lines[row] = margin + line
	}

	return strings.Join(lines, "\n")
}

// cols converts a horizontal layout value to terminal columns.
func (m Model) cols(v float64) int {
	return int(math.Round(v * m.columnsPerUnit))
}

// rows converts a vertical layout value to terminal rows. Terminal cells
// are about twice as tall as they are wide.
func (m Model) rows(v float64) int {
	return int(math.Round(v * m.columnsPerUnit / 2))
}

// renderLabel renders one panel row of the given width with text starting
// at col. Text left of the row (negative col) or past its end is cut off.
func renderLabel(text string, col, width int, style lipgloss.Style) string {
	before, label, after := place(text, col, width)
	return panelStyle.Render(before) + style.Render(label) + panelStyle.Render(after)
}

// place splits a row of width cells into padding, visible text, and
// padding, with text starting at col.
func place(text string, col, width int) (string, string, string) {
	runes := []rune(text)

	if col < 0 {
		if -col >= len(runes) {
			runes = nil
		} else {
			runes = runes[-col:]
		}
		col = 0
	}
	if col >= width {
		return strings.Repeat(" ", width), "", ""
	}
	if col+len(runes) > width {
		runes = runes[:width-col]
	}

	return strings.Repeat(" ", col), string(runes), strings.Repeat(" ", width-col-len(runes))
}
