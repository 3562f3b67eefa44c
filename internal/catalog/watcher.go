package catalog

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a catalog file when it changes on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	filePath string
	opts     Options
	logger   *slog.Logger
	onReload func(*Catalog)
	done     chan struct{}
	stopped  chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewWatcher creates a watcher for the catalog at path. onReload is called
// from the watcher goroutine with each successfully reloaded catalog; a
// catalog that fails to load is logged and the previous one stays active.
func NewWatcher(path string, opts Options, onReload func(*Catalog)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		watcher:  watcher,
		filePath: path,
		opts:     opts,
		logger:   logger,
		onReload: onReload,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Start begins watching the catalog file. If it fails the watcher is
// closed and must not be reused; Stop is still safe to call.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	// Watch the directory containing the file (more reliable for editors
	// that replace the file on save)
	dir := filepath.Dir(w.filePath)
	if err := w.watcher.Add(dir); err != nil {
		w.watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.running = true
	go w.watch()
	w.logger.Debug("catalog watcher started", "path", w.filePath)
	return nil
}

// watch is the main watch loop.
func (w *Watcher) watch() {
	defer close(w.stopped)
	filename := filepath.Base(w.filePath)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// reload loads the catalog and hands it to the callback.
func (w *Watcher) reload() {
	cat, err := Load(w.filePath, w.opts)
	if err != nil {
		w.logger.Warn("catalog changed but failed to load, keeping previous", "error", err)
		return
	}

	w.logger.Info("catalog reloaded", "path", w.filePath, "tracks", cat.Len())
	if w.onReload != nil {
		w.onReload(cat)
	}
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	close(w.done)
	w.mu.Unlock()

	<-w.stopped
	return w.watcher.Close()
}
