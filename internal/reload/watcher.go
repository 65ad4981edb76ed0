// Package reload implements dev-mode hot reload: a file watcher that reports
// settled changes and a websocket hub that tells open pages to reload.
package reload

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/gcdash/gcdash/pkg/errors"
)

// DefaultSettle is how long the watcher waits after the last event before
// reporting a burst of changes.
const DefaultSettle = 120 * time.Millisecond

// ChangeFunc receives the sorted paths that changed in one burst.
type ChangeFunc func(ctx context.Context, changed []string)

// Watcher reports changes under a set of paths. Directories are watched
// recursively, including directories created while running.
type Watcher struct {
	Paths  []string
	Settle time.Duration
	Logger *log.Logger

	mu        sync.Mutex
	callbacks []ChangeFunc
}

// OnChange registers fn. Callbacks run in registration order on the
// watcher goroutine.
func (w *Watcher) OnChange(fn ChangeFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Run watches until ctx is done. It fails if none of the paths can be watched.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create file watcher")
	}
	defer fw.Close()

	watched := 0
	for _, p := range w.Paths {
		n, err := w.addTree(fw, p)
		if err != nil {
			w.logger().Warn("not watching", "path", p, "error", err)
			continue
		}
		watched += n
	}
	if watched == 0 {
		return errors.New(errors.ErrCodeNotFound, "no watchable paths in %v", w.Paths)
	}
	w.logger().Debug("watching for changes", "dirs", watched)

	settle := w.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_, _ = w.addTree(fw, ev.Name)
				}
			}
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(settle)
			} else {
				timer.Reset(settle)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger().Warn("watch error", "error", err)

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			sort.Strings(changed)
			w.notify(ctx, changed)
		}
	}
}

func (w *Watcher) notify(ctx context.Context, changed []string) {
	w.logger().Info("change detected", "files", len(changed))
	w.mu.Lock()
	callbacks := append([]ChangeFunc(nil), w.callbacks...)
	w.mu.Unlock()
	for _, fn := range callbacks {
		fn(ctx, changed)
	}
}

// addTree adds root and, for a directory, every directory below it.
// It returns the number of watches added.
func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) (int, error) {
	info, err := os.Stat(root)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 1, fw.Add(root)
	}

	n := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if err := fw.Add(path); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

func (w *Watcher) logger() *log.Logger {
	if w.Logger == nil {
		return log.Default()
	}
	return w.Logger
}
