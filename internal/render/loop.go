package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmylchreest/nowplaying/internal/announce"
	"github.com/jmylchreest/nowplaying/internal/popup"
)

// DefaultFPS is the default frame rate of the render loop.
const DefaultFPS = 60

// Surface draws popup frames.
type Surface interface {
	Draw(f Frame) error
	Clear() error
}

// IdleMode selects what the loop does while there is nothing to show.
type IdleMode int

const (
	// IdleBlock waits on the queue until the next track is announced.
	IdleBlock IdleMode = iota
	// IdlePoll keeps polling every frame and draws blank frames.
	IdlePoll
)

// String returns the configuration name of the mode.
func (m IdleMode) String() string {
	switch m {
	case IdleBlock:
		return "block"
	case IdlePoll:
		return "poll"
	default:
		return fmt.Sprintf("idle(%d)", int(m))
	}
}

// ParseIdleMode parses "block" or "poll". An empty string selects IdleBlock.
func ParseIdleMode(s string) (IdleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "block":
		return IdleBlock, nil
	case "poll":
		return IdlePoll, nil
	default:
		return IdleBlock, fmt.Errorf("invalid idle mode %q, must be block or poll", s)
	}
}

// Options configures a Loop.
type Options struct {
	Layout Layout
	Idle   IdleMode
	FPS    int
	Logger *slog.Logger
}

// Loop is the consumer side of the announcement queue. It is the only
// user of its Popup.
type Loop struct {
	popup    *popup.Popup
	rx       *announce.Receiver
	surface  Surface
	layout   Layout
	idle     IdleMode
	interval time.Duration
	logger   *slog.Logger
	hooks    []func(announce.Announcement)

	// State
	name      string
	active    bool // A track has been announced
	drawn     bool // The surface currently shows the popup
	lastStage popup.Stage
}

// NewLoop creates a render loop.
func NewLoop(p *popup.Popup, rx *announce.Receiver, surface Surface, opts Options) *Loop {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}

	layout := opts.Layout
	if layout == (Layout{}) {
		layout = DefaultLayout()
	}

	return &Loop{
		popup:     p,
		rx:        rx,
		surface:   surface,
		layout:    layout,
		idle:      opts.Idle,
		interval:  time.Second / time.Duration(fps),
		logger:    logger,
		lastStage: popup.StageFinished,
	}
}

// OnAnnounce registers a hook called from the loop goroutine for every
// announcement received, after the popup has been reset.
func (l *Loop) OnAnnounce(fn func(announce.Announcement)) {
	l.hooks = append(l.hooks, fn)
}

// Name returns the track name currently shown.
func (l *Loop) Name() string {
	return l.name
}

// Idle reports whether there is nothing to draw.
func (l *Loop) Idle() bool {
	return !l.active || l.popup.Finished()
}

// Run renders frames until ctx is done or the playback side goes away.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Debug("render loop started", "interval", l.interval, "idle", l.idle)

	for {
		if err := l.Step(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Step renders a single frame: poll the queue, then draw.
func (l *Loop) Step(ctx context.Context) error {
	if l.Idle() && l.idle == IdleBlock {
		if l.drawn {
			if err := l.surface.Clear(); err != nil {
				return fmt.Errorf("failed to clear surface: %w", err)
			}
			l.drawn = false
		}

		a, err := l.rx.Recv(ctx)
		if err != nil {
			return l.queueError(err)
		}
		l.accept(a)
	} else {
		a, ok, err := l.rx.TryRecv()
		if err != nil {
			return l.queueError(err)
		}
		if ok {
			l.accept(a)
		}
	}

	if l.Idle() {
		if l.idle == IdlePoll || l.drawn {
			if err := l.surface.Clear(); err != nil {
				return fmt.Errorf("failed to clear surface: %w", err)
			}
			l.drawn = false
		}
		l.noteStage(popup.StageFinished)
		return nil
	}

	x, stage := l.popup.Sample()
	l.noteStage(stage)

	if err := l.surface.Draw(l.layout.Frame(x, l.name, stage)); err != nil {
		return fmt.Errorf("failed to draw frame: %w", err)
	}
	l.drawn = true
	return nil
}

// accept shows a newly announced track, restarting the popup cycle.
func (l *Loop) accept(a announce.Announcement) {
	l.logger.Info("track announced", "name", a.Name, "id", a.ID)

	l.name = a.Name
	l.active = true
	l.popup.Reset()

	for _, hook := range l.hooks {
		hook(a)
	}
}

// noteStage logs stage transitions.
func (l *Loop) noteStage(stage popup.Stage) {
	if stage == l.lastStage {
		return
	}
	l.logger.Debug("popup stage", "from", l.lastStage, "to", stage, "name", l.name)
	l.lastStage = stage
}

// queueError turns a receive error into the loop's exit error.
func (l *Loop) queueError(err error) error {
	if errors.Is(err, announce.ErrSenderGone) {
		return fmt.Errorf("playback stopped, no more tracks will be announced: %w", err)
	}
	return err
}
