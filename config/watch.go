package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/hashstructure/v2"
)

// DefaultDebounce is how long the watcher waits after the last file event
// before reloading. Editors typically emit several events per save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a config file when it changes on disk and hands every
// distinct, valid result to OnChange.
type Watcher struct {
	path     string
	debounce time.Duration
	clock    clock.Clock
	logger   *slog.Logger
	onChange func(*Config)

	mu       sync.Mutex
	lastHash uint64
	timer    *clock.Timer
}

// WatcherOptions configures a Watcher. Zero values select the defaults.
type WatcherOptions struct {
	Debounce time.Duration
	Clock    clock.Clock
	Logger   *slog.Logger
}

// NewWatcher creates a watcher for path. initial is the config already in
// use; reloads producing the same content are not reported.
func NewWatcher(path string, initial *Config, onChange func(*Config), opts WatcherOptions) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("config: watch: empty path")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	w := &Watcher{
		path:     filepath.Clean(path),
		debounce: opts.Debounce,
		clock:    opts.Clock,
		logger:   opts.Logger.With("config", path),
		onChange: onChange,
	}
	if initial != nil {
		h, err := Hash(initial)
		if err != nil {
			return nil, err
		}
		w.lastHash = h
	}
	return w, nil
}

// Hash returns a content hash of c.
func Hash(c *Config) (uint64, error) {
	h, err := hashstructure.Hash(c, hashstructure.FormatV2, &hashstructure.HashOptions{
		ZeroNil: true,
	})
	if err != nil {
		return 0, fmt.Errorf("config: hash: %w", err)
	}
	return h, nil
}

// Run watches the config directory until ctx is cancelled. The directory
// rather than the file is watched so that atomic renames by editors are
// seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("config: watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Debug("watching config for changes")

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("config: watch: event channel closed")
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("config: watch: error channel closed")
			}
			w.logger.Warn("config watch error", "error", err)
		}
	}
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = w.clock.AfterFunc(w.debounce, w.Reload)
}

// Reload reads the file now. Invalid or unchanged content is logged and
// ignored, leaving the previous config active.
func (w *Watcher) Reload() {
	cfg, err := LoadConfig(w.path)
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous", "error", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		w.logger.Warn("config reload invalid, keeping previous", "error", err)
		return
	}
	h, err := Hash(cfg)
	if err != nil {
		w.logger.Warn("config reload hash failed", "error", err)
		return
	}

	w.mu.Lock()
	if h == w.lastHash {
		w.mu.Unlock()
		w.logger.Debug("config unchanged")
		return
	}
	w.lastHash = h
	w.mu.Unlock()

	w.logger.Info("config reloaded", "capacity", cfg.History.Capacity)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
