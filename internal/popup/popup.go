package popup

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmylchreest/nowplaying/internal/easing"
)

// ErrInvalidOptions is returned by New when the popup cannot be animated
// with the given durations.
var ErrInvalidOptions = errors.New("invalid popup options")

// Stage is the animation stage a popup is in.
type Stage int

const (
	StageEntering Stage = iota
	StageHolding
	StageExiting
	StageFinished
)

// String returns the stage name used in logs.
func (s Stage) String() string {
	switch s {
	case StageEntering:
		return "entering"
	case StageHolding:
		return "holding"
	case StageExiting:
		return "exiting"
	case StageFinished:
		return "finished"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Options configures a Popup.
type Options struct {
	SlideDuration time.Duration // One slide transition, entry or exit
	HoldDuration  time.Duration // Time fully visible between the slides

	OffScreen float64 // Resting hidden position, e.g. -panelWidth
	OnScreen  float64 // Fully shown position

	Curve easing.Curve     // nil selects easing.ExpoIn
	Clock func() time.Time // nil selects time.Now
}

// stage is the tagged state of the animation. Only the entering and
// exiting variants carry an interpolation segment.
type stage interface {
	kind() Stage
}

type entering struct{ seg easing.Segment }

type holding struct{}

type exiting struct {
	seg    easing.Segment
	origin float64 // Cycle time, in seconds, at which the exit segment reads zero
}

type finished struct{}

func (entering) kind() Stage { return StageEntering }
func (holding) kind() Stage  { return StageHolding }
func (exiting) kind() Stage  { return StageExiting }
func (finished) kind() Stage { return StageFinished }

// Popup computes the horizontal offset of the now-playing panel from the
// wall-clock time elapsed since the last Reset. A slow frame moves the
// panel further along its curve; it never stretches the cycle.
//
// A Popup is owned by the render loop and is not safe for concurrent use.
type Popup struct {
	offScreen float64
	onScreen  float64
	slide     float64 // seconds
	hold      float64 // seconds

	// Both segments are validated at construction so Calc cannot fail.
	entry easing.Segment
	exit  easing.Segment

	now    func() time.Time
	anchor time.Time
	stage  stage
}

// New creates a popup anchored at the current time, in the entering stage.
func New(opts Options) (*Popup, error) {
	if opts.SlideDuration <= 0 {
		return nil, fmt.Errorf("%w: slide duration must be positive, got %s", ErrInvalidOptions, opts.SlideDuration)
	}
	if opts.HoldDuration < 0 {
		return nil, fmt.Errorf("%w: hold duration must not be negative, got %s", ErrInvalidOptions, opts.HoldDuration)
	}

	slide := opts.SlideDuration.Seconds()
	entry, err := easing.NewSegmentWithCurve(opts.OffScreen, opts.OnScreen-opts.OffScreen, slide, opts.Curve)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	exit, err := easing.NewSegmentWithCurve(opts.OnScreen, opts.OffScreen-opts.OnScreen, slide, opts.Curve)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	p := &Popup{
		offScreen: opts.OffScreen,
		onScreen:  opts.OnScreen,
		slide:     slide,
		hold:      opts.HoldDuration.Seconds(),
		entry:     entry,
		exit:      exit,
		now:       now,
	}
	p.Reset()
	return p, nil
}

// Reset starts a fresh cycle from now, abandoning any cycle in progress.
func (p *Popup) Reset() {
	p.anchor = p.now()
	p.stage = entering{seg: p.entry}
}

// Calc returns the panel position for the current time.
func (p *Popup) Calc() float64 {
	x, _ := p.Sample()
	return x
}

// Sample returns the panel position and the stage it belongs to, both
// taken from a single reading of the clock.
func (p *Popup) Sample() (float64, Stage) {
	elapsed := p.elapsed()
	stage := stageAt(elapsed, p.slide, p.hold)

	switch stage {
	case StageEntering:
		st, ok := p.stage.(entering)
		if !ok {
			st = entering{seg: p.entry}
			p.stage = st
		}
		return st.seg.At(elapsed).CalcIn(), stage

	case StageHolding:
		p.stage = holding{}
		return p.onScreen, stage

	case StageExiting:
		st, ok := p.stage.(exiting)
		if !ok {
			// First observation of the exit: build the segment once, with
			// its local clock zeroed at the scheduled end of the hold.
			st = exiting{seg: p.exit, origin: p.slide + p.hold}
			p.stage = st
		}
		return st.seg.At(elapsed - st.origin).CalcIn(), stage

	default:
		p.stage = finished{}
		return p.offScreen, stage
	}
}

// Finished reports whether the full slide-hold-slide cycle has elapsed.
func (p *Popup) Finished() bool {
	return p.elapsed() >= p.total()
}

// Stage returns the stage for the current time without advancing the
// popup's recorded stage.
func (p *Popup) Stage() Stage {
	return stageAt(p.elapsed(), p.slide, p.hold)
}

// Elapsed returns the time since the last Reset.
func (p *Popup) Elapsed() time.Duration {
	return p.now().Sub(p.anchor)
}

// Total returns the length of one full cycle.
func (p *Popup) Total() time.Duration {
	return time.Duration(p.total() * float64(time.Second))
}

func (p *Popup) elapsed() float64 {
	e := p.now().Sub(p.anchor).Seconds()
	if e < 0 {
		return 0
	}
	return e
}

func (p *Popup) total() float64 {
	return 2*p.slide + p.hold
}

// stageAt maps cycle time to a stage. Each stage's interval is closed at
// the start and open at the end.
func stageAt(elapsed, slide, hold float64) Stage {
	switch {
	case elapsed < slide:
		return StageEntering
	case elapsed < slide+hold:
		return StageHolding
	case elapsed < 2*slide+hold:
		return StageExiting
	default:
		return StageFinished
	}
}
