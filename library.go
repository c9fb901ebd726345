package colguide

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultWatchDebounce is how long the settings watcher waits for writes to
// settle before reloading.
const DefaultWatchDebounce = 100 * time.Millisecond

// LibraryOptions configures the colguide library.
type LibraryOptions struct {
	// Options is the initial configuration tree. When nil the library
	// loads OptionsPath, falling back to the settings' initial options.
	Options *Options

	// Settings provides defaults and limits. When nil they are read from
	// SettingsPath, falling back to factory defaults.
	Settings     *DefaultSettings
	SettingsPath string

	// OptionsPath is where the settings store persists the tree. Empty
	// disables persistence.
	OptionsPath string

	// FileSystem is used for every read and write. Defaults to the local
	// file system.
	FileSystem FileSystemInterface

	// Logger receives diagnostics. Defaults to a discarding logger.
	Logger *slog.Logger

	// MetricsRegisterer, when set, receives the churn collectors.
	MetricsRegisterer prometheus.Registerer

	// Dispatch runs fn on the goroutine that owns the views. The settings
	// watcher applies reloads through it; Watch fails without one.
	Dispatch func(fn func())

	// WatchDebounce overrides DefaultWatchDebounce.
	WatchDebounce time.Duration
}

// Library owns the shared options model and every Adornment attached to it.
type Library struct {
	model    *OptionsModel
	settings *DefaultSettings
	store    *SettingsStore
	fs       FileSystemInterface
	logger   *slog.Logger
	metrics  *metrics
	dispatch func(fn func())
	debounce time.Duration

	// Active adornments indexed by their unique ID
	active  map[string]*Adornment
	watcher *SettingsWatcher
	mu      sync.RWMutex
	closed  bool
}

// Init creates a library, loading settings and persisted options as
// configured.
func Init(options LibraryOptions) (*Library, error) {
	lib := &Library{
		fs:       options.FileSystem,
		logger:   options.Logger,
		dispatch: options.Dispatch,
		debounce: options.WatchDebounce,
		active:   make(map[string]*Adornment),
	}
	if lib.fs == nil {
		lib.fs = &localFileSystem{}
	}
	if lib.logger == nil {
		lib.logger = discardLogger()
	}
	if lib.debounce <= 0 {
		lib.debounce = DefaultWatchDebounce
	}

	lib.settings = options.Settings
	if lib.settings == nil {
		lib.settings = LoadDefaultSettings(lib.fs, options.SettingsPath, lib.logger)
	} else {
		lib.settings.Normalize()
	}

	lib.metrics = newMetrics(options.MetricsRegisterer)
	lib.model = NewOptionsModel(options.Options, lib.settings)
	lib.store = NewSettingsStore(lib.fs, options.OptionsPath, lib.model, lib.logger)

	if options.Options == nil && options.OptionsPath != "" {
		// A malformed file is logged by the store and the model keeps the
		// settings' initial options.
		if _, err := lib.store.Load(); err != nil && !errors.Is(err, ErrInvalidSettings) {
			return nil, fmt.Errorf("loading options: %w", err)
		}
	}

	return lib, nil
}

// Model returns the shared options model.
func (lib *Library) Model() *OptionsModel { return lib.model }

// Settings returns the defaults and limits in force.
func (lib *Library) Settings() *DefaultSettings { return lib.settings }

// Store returns the settings store.
func (lib *Library) Store() *SettingsStore { return lib.store }

// Logger returns the library logger.
func (lib *Library) Logger() *slog.Logger { return lib.logger }

// Attach creates an Adornment drawing guides for doc on view.
func (lib *Library) Attach(view TextView, doc Document) (*Adornment, error) {
	if view == nil {
		return nil, ErrNilView
	}
	if doc == nil {
		return nil, ErrNilDocument
	}

	lib.mu.RLock()
	closed := lib.closed
	lib.mu.RUnlock()
	if closed {
		return nil, ErrLibraryClosed
	}

	a := newAdornment(lib, uuid.NewString(), view, doc)

	lib.mu.Lock()
	lib.active[a.id] = a
	lib.mu.Unlock()

	lib.logger.Debug("adornment attached", "adornment", a.id, "file", a.FileName(), "lines", a.LineCount())
	return a, nil
}

// Adornments returns the attached adornments in no particular order.
func (lib *Library) Adornments() []*Adornment {
	lib.mu.RLock()
	defer lib.mu.RUnlock()
	return slices.Collect(maps.Values(lib.active))
}

func (lib *Library) forget(a *Adornment) {
	lib.mu.Lock()
	delete(lib.active, a.id)
	lib.mu.Unlock()
}

// ToggleShowGuides flips guides on or off everywhere and persists the
// result.
func (lib *Library) ToggleShowGuides() error {
	lib.model.SetShowGuides(!lib.model.ShowGuides())
	if !lib.store.Persistent() {
		return nil
	}
	return lib.store.Save()
}

// Watch starts reloading the options file whenever it changes on disk.
// Reloads are applied through the Dispatch function, since the watcher
// runs on its own goroutine and the model belongs to the view's. The
// watcher stops when ctx is done or the library is closed.
func (lib *Library) Watch(ctx context.Context) error {
	if !lib.store.Persistent() {
		return ErrNoSettingsPath
	}
	if lib.dispatch == nil {
		return ErrNoDispatcher
	}

	lib.mu.Lock()
	defer lib.mu.Unlock()
	if lib.closed {
		return ErrLibraryClosed
	}
	if lib.watcher != nil {
		return ErrWatcherRunning
	}

	w := NewSettingsWatcher(lib.store.Path(), lib.debounce, lib.reload, lib.logger)
	if err := w.Start(ctx); err != nil {
		return err
	}
	lib.watcher = w
	return nil
}

func (lib *Library) reload(path string) {
	lib.dispatch(func() {
		changed, err := lib.store.Reload()
		if err != nil {
			lib.logger.Warn("failed to reload options", "path", path, "error", err)
			return
		}
		if changed {
			lib.logger.Info("options reloaded", "path", path)
		}
	})
}

// Close stops the watcher and closes every attached adornment.
func (lib *Library) Close() error {
	lib.mu.Lock()
	if lib.closed {
		lib.mu.Unlock()
		return nil
	}
	lib.closed = true
	w := lib.watcher
	lib.watcher = nil
	adornments := slices.Collect(maps.Values(lib.active))
	lib.mu.Unlock()

	if w != nil {
		w.Stop()
	}
	for _, a := range adornments {
		a.Close()
	}
	return nil
}
