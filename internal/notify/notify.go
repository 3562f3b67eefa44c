// Package notify mirrors track announcements as desktop notifications.
package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"

	"github.com/jmylchreest/nowplaying/internal/announce"
)

// SendFunc delivers one notification.
type SendFunc func(title, message string) error

// Desktop sends a desktop notification for every announced track.
// Delivery failures are logged and never stop playback.
type Desktop struct {
	title  string
	send   SendFunc
	logger *slog.Logger
}

// NewDesktop creates a notifier using the system notification service.
func NewDesktop(title string, logger *slog.Logger) *Desktop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Desktop{
		title:  title,
		send:   beeepSend,
		logger: logger,
	}
}

// SetSendFunc replaces the delivery function.
func (d *Desktop) SetSendFunc(fn SendFunc) {
	d.send = fn
}

// Announce notifies about a. It returns immediately; delivery happens in
// the background so the render loop is never held up.
func (d *Desktop) Announce(a announce.Announcement) {
	go d.deliver(a)
}

func (d *Desktop) deliver(a announce.Announcement) {
	if err := d.send(d.title, a.Name); err != nil {
		d.logger.Warn("desktop notification failed", "track", a.Name, "error", err)
		return
	}
	d.logger.Debug("desktop notification sent", "track", a.Name, "id", a.ID.String())
}

func beeepSend(title, message string) error {
	return beeep.Notify(title, message, "")
}
