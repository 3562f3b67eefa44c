// Package popup implements the timing engine of the now-playing toast.
// A cycle slides the panel in, holds it on screen, then slides it back
// out; every new track restarts the cycle.
package popup
