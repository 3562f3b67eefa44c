package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Default speaker settings.
const (
	DefaultSampleRate = beep.SampleRate(44100)
	DefaultBuffer     = 100 * time.Millisecond
)

// ErrNotOpen is returned by Play before Open has succeeded.
var ErrNotOpen = errors.New("audio player is not open")

// Player plays whole tracks through the speaker, one at a time.
type Player struct {
	mu     sync.Mutex
	logger *slog.Logger

	// Volume control (0.0 to 1.0)
	volume float64

	// Speaker settings, fixed once the device is open
	sampleRate beep.SampleRate
	buffer     time.Duration
	open       bool
}

// NewPlayer creates a new audio player. The device is not touched until Open.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}

	return &Player{
		logger:     logger,
		volume:     1.0,
		sampleRate: DefaultSampleRate,
		buffer:     DefaultBuffer,
	}
}

// SetBuffer sets the speaker buffer length. It has no effect once open.
func (p *Player) SetBuffer(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if d > 0 && !p.open {
		p.buffer = d
	}
}

// SetVolume sets the playback volume (0.0 to 1.0).
// It applies from the next track.
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	p.volume = volume
	p.logger.Debug("volume set", "volume", volume)
}

// GetVolume returns the current volume.
func (p *Player) GetVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Open initializes the audio device. Every track is resampled to the
// device rate, so the device is opened once at startup.
func (p *Player) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.open {
		return nil
	}

	if err := speaker.Init(p.sampleRate, p.sampleRate.N(p.buffer)); err != nil {
		return &DeviceError{Err: err}
	}

	p.open = true
	p.logger.Debug("speaker initialized", "sample_rate", p.sampleRate, "buffer", p.buffer)
	return nil
}

// Play decodes the file at path and blocks until it has played to the end
// or ctx is done. Open and decode failures are returned as *TrackError.
func (p *Player) Play(ctx context.Context, path string) error {
	p.mu.Lock()
	open := p.open
	volume := p.volume
	sampleRate := p.sampleRate
	p.mu.Unlock()

	if !open {
		return ErrNotOpen
	}

	f, err := os.Open(path)
	if err != nil {
		return &TrackError{Path: path, Err: fmt.Errorf("failed to open track: %w", err)}
	}
	defer func() { _ = f.Close() }()

	streamer, format, err := decode(f, filepath.Ext(path))
	if err != nil {
		return &TrackError{Path: path, Err: err}
	}
	defer func() { _ = streamer.Close() }()

	var s beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		s = beep.Resample(4, format.SampleRate, sampleRate, s)
	}
	s = withVolume(s, volume)

	ctrl := &beep.Ctrl{Streamer: s}
	done := make(chan struct{})
	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		close(done)
	})))

	p.logger.Debug("track started", "path", path, "sample_rate", format.SampleRate)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		// Detach the stream so the speaker stops pulling from it before the
		// file is closed.
		speaker.Lock()
		ctrl.Streamer = nil
		speaker.Unlock()
		return ctx.Err()
	}
}

// Close stops all playback and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.open {
		speaker.Clear()
		speaker.Close()
		p.open = false
	}
	p.logger.Debug("audio player closed")
}

// decode picks a decoder by file extension.
func decode(r io.ReadCloser, ext string) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)

	switch strings.ToLower(ext) {
	case ".wav":
		streamer, format, err = wav.Decode(r)
	case ".ogg":
		streamer, format, err = vorbis.Decode(r)
	case ".mp3":
		streamer, format, err = mp3.Decode(r)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format: %q", ext)
	}

	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("failed to decode track: %w", err)
	}
	return streamer, format, nil
}

// withVolume wraps s with a gain stage unless volume is full.
func withVolume(s beep.Streamer, volume float64) beep.Streamer {
	if volume >= 1.0 {
		return s
	}
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   volumeToExponent(volume),
		Silent:   volume <= 0,
	}
}

// volumeToExponent converts a linear volume (0-1) to a base-2 gain exponent.
func volumeToExponent(volume float64) float64 {
	if volume <= 0 {
		return -100 // Effectively silent
	}
	return math.Log2(volume)
}
