package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/nowplaying/internal/render"
)

// Surface forwards render loop frames to a running BubbleTea program.
type Surface struct {
	program *tea.Program
}

// NewProgram creates the toast program and the surface that feeds it.
func NewProgram(opts Options, programOpts ...tea.ProgramOption) (*tea.Program, *Surface) {
	p := tea.NewProgram(New(opts), programOpts...)
	return p, &Surface{program: p}
}

// Draw sends the frame to the program.
func (s *Surface) Draw(f render.Frame) error {
	s.program.Send(frameMsg(f))
	return nil
}

// Clear hides the toast.
func (s *Surface) Clear() error {
	s.program.Send(clearMsg{})
	return nil
}
