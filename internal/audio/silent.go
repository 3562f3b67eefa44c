package audio

import (
	"context"
	"time"
)

// Silent stands in for a Player when audio is disabled. Each track
// "plays" for a fixed duration without touching any device.
type Silent struct {
	Duration time.Duration
}

// Play waits for the configured duration or until ctx is done.
func (s Silent) Play(ctx context.Context, _ string) error {
	timer := time.NewTimer(s.Duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
