package render

import (
	"github.com/jmylchreest/nowplaying/internal/popup"
)

// Default layout values, in surface units.
const (
	DefaultTextOffsetX = 20
	DefaultTitleY      = 15
	DefaultNameY       = 50
	DefaultTitle       = "Play Now"
)

// Frame is everything a surface needs to draw one frame of the popup.
type Frame struct {
	PanelX float64
	TitleX float64
	TitleY float64
	NameX  float64
	NameY  float64
	Title  string
	Name   string
	Stage  popup.Stage
}

// Layout places the popup's labels relative to the panel.
type Layout struct {
	TextOffsetX float64 // Horizontal offset of both labels from the panel
	TitleY      float64
	NameY       float64
	Title       string
}

// DefaultLayout returns the standard layout.
func DefaultLayout() Layout {
	return Layout{
		TextOffsetX: DefaultTextOffsetX,
		TitleY:      DefaultTitleY,
		NameY:       DefaultNameY,
		Title:       DefaultTitle,
	}
}

// Frame builds a frame for a panel at x showing name.
func (l Layout) Frame(x float64, name string, stage popup.Stage) Frame {
	return Frame{
		PanelX: x,
		TitleX: x + l.TextOffsetX,
		TitleY: l.TitleY,
		NameX:  x + l.TextOffsetX,
		NameY:  l.NameY,
		Title:  l.Title,
		Name:   name,
		Stage:  stage,
	}
}
