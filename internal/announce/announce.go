// Package announce carries "now playing" announcements from the playback
// goroutine to the render loop.
//
// The queue is single-producer, single-consumer, unbounded and FIFO. The
// producer never waits on the consumer; the consumer can poll without
// blocking or wait for the next announcement.
package announce

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	// ErrSenderGone is returned to the receiver once the producer has
	// closed the queue and every queued announcement has been received.
	ErrSenderGone = errors.New("announcement sender closed")

	// ErrClosed is returned by Send after Close, or once the receiver has
	// gone away.
	ErrClosed = errors.New("announcement queue closed")
)

// Announcement reports that a track has started.
type Announcement struct {
	ID    ulid.ULID
	Index int    // Position of the track in the catalog
	Name  string // Display name
	File  string // Resolved file path
	At    time.Time
}

// NewAnnouncement creates an announcement stamped with a new ID and the
// current time.
func NewAnnouncement(index int, name, file string) Announcement {
	now := time.Now()
	return Announcement{
		ID:    ulid.MustNew(ulid.Timestamp(now), rand.Reader),
		Index: index,
		Name:  name,
		File:  file,
		At:    now,
	}
}

// Sender is the producing end of the queue.
type Sender struct {
	in     chan Announcement
	done   <-chan struct{}
	closed bool
}

// Receiver is the consuming end of the queue.
type Receiver struct {
	out  chan Announcement
	done chan struct{}
	gone bool
}

// New creates a connected sender and receiver.
func New() (*Sender, *Receiver) {
	in := make(chan Announcement)
	out := make(chan Announcement)
	done := make(chan struct{})

	go pump(in, out, done)

	return &Sender{in: in, done: done}, &Receiver{out: out, done: done}
}

// pump moves announcements from in to out through an unbounded buffer.
// It closes out once in is closed and the buffer is drained, and exits
// early when the receiver closes done.
func pump(in <-chan Announcement, out chan<- Announcement, done <-chan struct{}) {
	defer close(out)

	var pending []Announcement
	for in != nil || len(pending) > 0 {
		var send chan<- Announcement
		var head Announcement
		if len(pending) > 0 {
			send = out
			head = pending[0]
		}

		select {
		case a, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			pending = append(pending, a)
		case send <- head:
			pending[0] = Announcement{}
			pending = pending[1:]
		case <-done:
			return
		}
	}
}

// Send queues an announcement. It does not wait for the receiver.
// Send must only be called from the producing goroutine.
func (s *Sender) Send(a Announcement) error {
	if s.closed {
		return ErrClosed
	}

	select {
	case s.in <- a:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// Close marks the producer as gone. Announcements already sent are still
// delivered. Close is idempotent.
func (s *Sender) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.in)
}

// TryRecv returns the next announcement if one is ready. It never blocks.
// The boolean is false when nothing is queued. After the sender has closed
// and the queue is drained it returns ErrSenderGone.
func (r *Receiver) TryRecv() (Announcement, bool, error) {
	if r.gone {
		return Announcement{}, false, ErrSenderGone
	}

	select {
	case a, ok := <-r.out:
		if !ok {
			r.gone = true
			return Announcement{}, false, ErrSenderGone
		}
		return a, true, nil
	default:
		return Announcement{}, false, nil
	}
}

// Recv waits for the next announcement or for ctx to be done.
func (r *Receiver) Recv(ctx context.Context) (Announcement, error) {
	if r.gone {
		return Announcement{}, ErrSenderGone
	}

	select {
	case a, ok := <-r.out:
		if !ok {
			r.gone = true
			return Announcement{}, ErrSenderGone
		}
		return a, nil
	case <-ctx.Done():
		return Announcement{}, ctx.Err()
	}
}

// Close stops delivery. Pending announcements are discarded and further
// sends fail with ErrClosed.
func (r *Receiver) Close() {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
}
