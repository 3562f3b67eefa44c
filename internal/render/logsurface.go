package render

import (
	"log/slog"
)

// LogSurface is a headless surface that logs what would be drawn.
// Only stage and track changes are logged, not every frame.
type LogSurface struct {
	logger *slog.Logger
	last   Frame
	shown  bool
}

// NewLogSurface creates a log-backed surface.
func NewLogSurface(logger *slog.Logger) *LogSurface {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSurface{logger: logger}
}

// Draw logs the frame if its stage or track differs from the last one.
func (s *LogSurface) Draw(f Frame) error {
	if s.shown && f.Stage == s.last.Stage && f.Name == s.last.Name {
		s.last = f
		return nil
	}

	s.logger.Info("popup", "stage", f.Stage, "title", f.Title, "name", f.Name, "x", f.PanelX)
	s.last = f
	s.shown = true
	return nil
}

// Clear logs that the popup was hidden.
func (s *LogSurface) Clear() error {
	if s.shown {
		s.logger.Info("popup hidden", "name", s.last.Name)
		s.shown = false
	}
	return nil
}
