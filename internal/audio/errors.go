package audio

import "fmt"

// DeviceError reports that the audio output device could not be opened.
// It is distinct from catalog problems: the fix is on the system side.
type DeviceError struct {
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("audio device unavailable: %v", e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// TrackError reports a track that could not be opened or decoded.
type TrackError struct {
	Path string
	Err  error
}

func (e *TrackError) Error() string {
	return fmt.Sprintf("track %s: %v", e.Path, e.Err)
}

func (e *TrackError) Unwrap() error {
	return e.Err
}
