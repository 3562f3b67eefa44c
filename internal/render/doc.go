// Package render drives the now-playing popup from the announcement queue.
// Each frame it polls for a new track, advances the popup, and hands the
// resulting frame to a Surface to draw.
package render
