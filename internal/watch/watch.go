/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package watch re-runs work when screenplay files change on disk.
// It debounces rapid editor saves so a burst of writes triggers one callback.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/fsnotify/fsnotify"

	applog "shotcaller/internal/log"
)

// screenplayExts lists file extensions the watcher reacts to.
var screenplayExts = map[string]bool{
	".fountain": true,
	".txt":      true,
	".md":       true,
	".docx":     true,
}

// Options configures a Watcher.
type Options struct {
	// Dir is the directory holding screenplay files, typically
	// <project>/screenplays.
	Dir string
	// OnChange runs once per settled file change. The path is absolute.
	OnChange func(path string)
	// Debounce is how long a file must stay quiet before OnChange fires.
	// Defaults to 500ms.
	Debounce time.Duration
}

// Stats tracks watcher activity for diagnostics.
type Stats struct {
	Created   int
	Modified  int
	Removed   int
	Errors    int
	LastEvent time.Time
	LastPath  string
}

// Watcher monitors a screenplays directory and invokes a callback after
// changes settle. Safe for concurrent use.
type Watcher struct {
	mu       sync.RWMutex
	fs       *fsnotify.Watcher
	dir      string
	onChange func(string)
	pending  map[string]time.Time
	debounce time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stats    Stats
	log      *slog.Logger
}

// New creates a Watcher for opts.Dir. Call Start to begin watching.
func New(opts Options) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	d := opts.Debounce
	if d <= 0 {
		d = 500 * time.Millisecond
	}
	return &Watcher{
		fs:       fs,
		dir:      opts.Dir,
		onChange: opts.OnChange,
		pending:  make(map[string]time.Time),
		debounce: d,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		log:      applog.WithComponent("watch"),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // already running
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		w.log.Warn("create watch dir failed", slog.String("dir", w.dir), slog.Any("err", err))
	}
	if err := w.fs.Add(w.dir); err != nil {
		w.log.Warn("watch add failed", slog.String("dir", w.dir), slog.Any("err", err))
	} else {
		w.log.Info("watching", slog.String("dir", w.dir))
	}

	go w.run(ctx)
	return nil
}

// Stop halts the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.fs.Close(); err != nil {
		w.log.Error("close watcher failed", slog.Any("err", err))
	}
	w.log.Debug("watcher stopped")
}

// IsWatching reports whether the event loop is running.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// GetStats returns a copy of the current counters.
func (w *Watcher) GetStats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	// Pending changes are flushed on a short tick once they settle.
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", slog.Any("err", err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-tick.C:
			w.flushSettled()
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !screenplayExts[strings.ToLower(filepath.Ext(ev.Name))] {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats.LastEvent = time.Now()
	w.stats.LastPath = ev.Name
	switch {
	case ev.Op&fsnotify.Create != 0:
		w.stats.Created++
	case ev.Op&fsnotify.Write != 0:
		w.stats.Modified++
	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		w.stats.Removed++
		// Removed files have nothing left to convert
		delete(w.pending, ev.Name)
		return
	default:
		return // chmod etc.
	}
	w.pending[ev.Name] = time.Now()
}

// flushSettled fires OnChange for files whose last event is older than the
// debounce window.
func (w *Watcher) flushSettled() {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	cb := w.onChange
	w.mu.Unlock()

	if cb == nil {
		return
	}
	for _, path := range settled {
		if _, err := os.Stat(path); err != nil {
			continue // deleted while pending
		}
		w.log.Debug("screenplay changed", slog.String("path", path))
		cb(path)
	}
}
