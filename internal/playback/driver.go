// Package playback runs the endless pick-announce-play loop.
package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/jmylchreest/nowplaying/internal/announce"
	"github.com/jmylchreest/nowplaying/internal/catalog"
)

// Output plays a file and blocks until it has finished or ctx is done.
type Output interface {
	Play(ctx context.Context, path string) error
}

// Picker chooses a track index in [0, n).
type Picker interface {
	Pick(n int) int
}

// UniformPicker picks uniformly at random.
type UniformPicker struct {
	rng *rand.Rand
}

// NewUniformPicker creates a picker seeded from the runtime's random source.
func NewUniformPicker() *UniformPicker {
	return &UniformPicker{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// Pick returns a uniformly distributed index in [0, n).
func (p *UniformPicker) Pick(n int) int {
	return p.rng.IntN(n)
}

// Option configures a Driver.
type Option func(*Driver)

// WithPicker replaces the default uniform picker.
func WithPicker(p Picker) Option {
	return func(d *Driver) {
		d.picker = p
	}
}

// WithNoRepeat avoids picking the track that just played when the catalog
// has more than one track.
func WithNoRepeat(enabled bool) Option {
	return func(d *Driver) {
		d.noRepeat = enabled
	}
}

// Driver picks tracks at random, announces each one, and plays it to the
// end, forever. It owns the sending end of the announcement queue and
// never reads anything back from the render loop.
type Driver struct {
	catalog  atomic.Pointer[catalog.Catalog]
	output   Output
	tx       *announce.Sender
	logger   *slog.Logger
	picker   Picker
	noRepeat bool

	played atomic.Int64
}

// NewDriver creates a driver over the given catalog and output.
func NewDriver(cat *catalog.Catalog, out Output, tx *announce.Sender, logger *slog.Logger, opts ...Option) *Driver {
	if logger == nil {
		logger = slog.Default()
	}

	d := &Driver{
		output: out,
		tx:     tx,
		logger: logger,
	}
	d.catalog.Store(cat)

	for _, opt := range opts {
		opt(d)
	}
	if d.picker == nil {
		d.picker = NewUniformPicker()
	}

	return d
}

// SetCatalog swaps in a new catalog. It takes effect from the next pick.
func (d *Driver) SetCatalog(cat *catalog.Catalog) {
	if cat == nil || cat.Len() == 0 {
		d.logger.Warn("ignoring empty catalog")
		return
	}
	d.catalog.Store(cat)
	d.logger.Info("catalog swapped", "tracks", cat.Len(), "names", cat.Names())
}

// Played returns the number of tracks started so far.
func (d *Driver) Played() int64 {
	return d.played.Load()
}

// Run loops until ctx is done or a track fails. It closes the sender on
// return, so the receiver learns that no more tracks will be announced.
func (d *Driver) Run(ctx context.Context) error {
	defer d.tx.Close()

	last := -1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		cat := d.catalog.Load()
		index := d.pick(cat.Len(), last)
		track := cat.Track(index)
		last = index

		d.logger.Info("now playing", "name", track.Name, "path", track.Path)
		if err := d.tx.Send(announce.NewAnnouncement(index, track.Name, track.Path)); err != nil {
			return fmt.Errorf("failed to announce %q: %w", track.Name, err)
		}
		d.played.Add(1)

		started := time.Now()
		if err := d.output.Play(ctx, track.Path); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("failed to play %q: %w", track.Name, err)
		}

		d.logger.Debug("track finished",
			"name", track.Name,
			"played_for", time.Since(started).Round(time.Second),
		)
	}
}

// pick chooses the next index, skipping last when no-repeat is on.
func (d *Driver) pick(n, last int) int {
	if !d.noRepeat || n < 2 || last < 0 || last >= n {
		return d.picker.Pick(n)
	}

	// Pick among the other n-1 tracks and shift past the last one, which
	// keeps the choice uniform over the remaining tracks.
	i := d.picker.Pick(n - 1)
	if i >= last {
		i++
	}
	return i
}
