// Package easing provides the interpolation curves used to slide the
// now-playing popup on and off screen.
package easing

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidDuration is returned when a segment is built with a duration
// that is not a positive, finite number of seconds.
var ErrInvalidDuration = errors.New("segment duration must be positive")

// Curve maps normalized progress in the open interval (0, 1) to an eased
// fraction of the segment's delta. Boundaries are handled by Segment.
type Curve func(progress float64) float64

// ExpoIn is the exponential ease-in curve 2^(10*(p-1)).
// Near-stationary at the start, it accelerates hard toward the end.
func ExpoIn(progress float64) float64 {
	return math.Pow(2, 10*(progress-1))
}

// CubicIn is the cubic ease-in curve p³.
func CubicIn(progress float64) float64 {
	return progress * progress * progress
}

// Curve names accepted by ParseCurve.
const (
	CurveExpoIn  = "expo-in"
	CurveCubicIn = "cubic-in"
)

// ParseCurve returns the curve registered under name.
// An empty name selects ExpoIn.
func ParseCurve(name string) (Curve, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CurveExpoIn, "expo":
		return ExpoIn, nil
	case CurveCubicIn, "cubic":
		return CubicIn, nil
	default:
		return nil, fmt.Errorf("unknown easing curve %q, must be one of: %s, %s", name, CurveExpoIn, CurveCubicIn)
	}
}

// Segment is one monotonic interpolation leg.
// All values are in seconds except Start and Delta, which are positions.
type Segment struct {
	Elapsed  float64 // Time since the segment started, supplied by the caller
	Start    float64 // Value at Elapsed == 0
	Delta    float64 // Signed distance from Start to the target
	Duration float64 // Seconds for Elapsed to reach the full Delta

	curve Curve
}

// NewSegment creates a segment using the ExpoIn curve.
func NewSegment(start, delta, duration float64) (Segment, error) {
	return NewSegmentWithCurve(start, delta, duration, ExpoIn)
}

// NewSegmentWithCurve creates a segment using the given curve.
// A nil curve selects ExpoIn.
func NewSegmentWithCurve(start, delta, duration float64, curve Curve) (Segment, error) {
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return Segment{}, fmt.Errorf("%w, got %v", ErrInvalidDuration, duration)
	}
	return Segment{
		Start:    start,
		Delta:    delta,
		Duration: duration,
		curve:    curve,
	}, nil
}

// At returns a copy of the segment positioned at the given elapsed time.
func (s Segment) At(elapsed float64) Segment {
	s.Elapsed = elapsed
	return s
}

// Target returns the value the segment arrives at.
func (s Segment) Target() float64 {
	return s.Start + s.Delta
}

// CalcIn returns the eased value at the segment's current elapsed time.
// Both ends are exact: Start at zero, Start+Delta from Duration onwards.
func (s Segment) CalcIn() float64 {
	if s.Elapsed <= 0 {
		return s.Start
	}
	if s.Elapsed >= s.Duration {
		return s.Start + s.Delta
	}

	curve := s.curve
	if curve == nil {
		curve = ExpoIn
	}
	return s.Start + s.Delta*curve(s.Elapsed/s.Duration)
}
