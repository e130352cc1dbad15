// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// =============================================================================
// FILE WATCHER
// =============================================================================

// DefaultDebounce is how long the file must be quiet before it is reloaded.
const DefaultDebounce = 150 * time.Millisecond

// Event is one reload attempt. Exactly one of Config and Err is set.
type Event struct {
	Config *Config
	Err    error
}

// Watcher reloads a config file when it changes on disk.
//
// The parent directory is watched rather than the file, so editors that
// save by rename are seen. Bursts of events are debounced and reloads are
// rate limited.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	limiter  *rate.Limiter
	logger   *zap.Logger

	events    chan Event
	closeOnce sync.Once
}

// NewWatcher starts watching path. A nil logger disables logging.
func NewWatcher(path string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		watcher:  fw,
		debounce: debounce,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 2),
		logger:   logger.Named("config-watch"),
		events:   make(chan Event, 1),
	}, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Events delivers reload results. It is closed when Run returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.events)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("config file changed", zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-fire:
			fire = nil
			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
			w.reload(ctx)
		}
	}
}

// reload loads the file and publishes the result, dropping a stale
// undelivered event in favour of the newer one.
func (w *Watcher) reload(ctx context.Context) {
	cfg, err := Load(w.path)
	ev := Event{Config: cfg, Err: err}
	if err != nil {
		w.logger.Warn("config reload failed", zap.Error(err))
	} else {
		w.logger.Info("config reloaded", zap.String("path", w.path))
	}

	select {
	case <-w.events:
	default:
	}
	select {
	case w.events <- ev:
	case <-ctx.Done():
	}
}

// Close stops watching. Run returns shortly after.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}
