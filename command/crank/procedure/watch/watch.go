// Package watch reruns a handler when source files under a set of
// directories settle after a change.
package watch

import (
	"context"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	DefaultDebounce = 300 * time.Millisecond
	tick            = 50 * time.Millisecond
)

type Handler func(ctx context.Context, paths []string)

type Watcher struct {
	Debounce  time.Duration
	Extension string
	Handler   Handler
	Logger    *zap.Logger
	watcher   *fsnotify.Watcher
	pending   map[string]time.Time
}

// New watches dirs and all their subdirectories for files with extension.
func New(logger *zap.Logger, extension string, handler Handler, dirs ...string) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		Debounce:  DefaultDebounce,
		Extension: extension,
		Handler:   handler,
		Logger:    logger,
		watcher:   watcher,
		pending:   make(map[string]time.Time),
	}

	for _, dir := range dirs {
		if err := w.add(dir); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}

	return w, nil
}

func (r *Watcher) add(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		r.Logger.Debug("watching directory", zap.String("path", path))
		return r.watcher.Add(path)
	})
}

// Roots returns the literal directory prefix of each glob pattern.
func Roots(patterns []string) []string {
	roots := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		roots = append(roots, filepath.FromSlash(base))
	}
	slices.Sort(roots)
	return slices.Compact(roots)
}

// Run blocks until ctx is cancelled, then releases the watcher.
func (r *Watcher) Run(ctx context.Context) error {
	defer r.watcher.Close()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			r.handle(event)
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			r.Logger.Warn("watcher error", zap.Error(err))
		case now := <-ticker.C:
			r.flush(ctx, now)
		}
	}
}

func (r *Watcher) handle(event fsnotify.Event) {
	// * follow new directories
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := r.add(event.Name); err != nil {
				r.Logger.Warn("unable to watch directory", zap.String("path", event.Name), zap.Error(err))
			}
			return
		}
	}

	if !strings.HasSuffix(event.Name, r.Extension) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	r.Logger.Debug("source changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
	r.pending[event.Name] = time.Now()
}

func (r *Watcher) flush(ctx context.Context, now time.Time) {
	if len(r.pending) == 0 {
		return
	}

	// * every pending change waits for the last one to settle
	for _, changed := range r.pending {
		if now.Sub(changed) < r.Debounce {
			return
		}
	}

	paths := slices.Sorted(maps.Keys(r.pending))
	clear(r.pending)
	r.Handler(ctx, paths)
}
