package config

import (
	"fmt"
	"strconv"
	"time"
)

// Duration is a config time span such as popup.slide, popup.hold,
// audio.buffer or audio.silent_track. TOML gives it as a string:
// "1s", "750ms", or a bare number of milliseconds in quotes ("750").
type Duration time.Duration

// UnmarshalText reads a quoted millisecond count or a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: use a string like \"750ms\" or \"3s\", or milliseconds such as \"750\": %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText writes the Go duration form, so config init emits "1s", "3s".
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
