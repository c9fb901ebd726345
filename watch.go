package colguide

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SettingsChangeHandler is called when the watched file has changed and
// writes have settled. It runs on the watcher's goroutine.
type SettingsChangeHandler func(path string)

// SettingsWatcher reports changes to one settings file. It watches the
// file's directory so editors that replace the file by rename are seen.
type SettingsWatcher struct {
	path     string
	debounce time.Duration
	handler  SettingsChangeHandler
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	watcher *fsnotify.Watcher
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewSettingsWatcher returns a stopped watcher for path.
func NewSettingsWatcher(path string, debounce time.Duration, handler SettingsChangeHandler, logger *slog.Logger) *SettingsWatcher {
	if logger == nil {
		logger = discardLogger()
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	return &SettingsWatcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		handler:  handler,
		logger:   logger,
	}
}

// Start begins watching. The watcher stops when ctx is done or Stop is
// called.
func (w *SettingsWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return ErrWatcherRunning
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	w.running = true
	w.watcher = fw
	w.stop = make(chan struct{})
	w.wg.Add(1)

	go w.loop(ctx, fw, w.stop)

	w.logger.Debug("settings watch started", "path", w.path)
	return nil
}

// Stop ends watching and waits for the watch goroutine to exit. Stopping a
// stopped watcher does nothing.
func (w *SettingsWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stop)
	fw := w.watcher
	w.watcher = nil
	w.mu.Unlock()

	w.wg.Wait()
	fw.Close()
	w.logger.Debug("settings watch stopped", "path", w.path)
}

// Running reports whether the watcher is active.
func (w *SettingsWatcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *SettingsWatcher) loop(ctx context.Context, fw *fsnotify.Watcher, stop chan struct{}) {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return

		case <-ctx.Done():
			return

		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("settings watch error", "path", w.path, "error", err)

		case <-timer.C:
			if w.handler != nil {
				w.handler(w.path)
			}
		}
	}
}
