// Package watcher reports debounced changes to a set of files.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/logx"
)

// Watcher watches files through their parent directories, so editors that
// replace a file by renaming a temporary over it are still noticed.
type Watcher struct {
	fs       *fsnotify.Watcher
	mu       sync.Mutex
	files    map[string]struct{}
	dirs     map[string]struct{}
	pending  map[string]struct{}
	timer    *time.Timer
	debounce time.Duration
	onChange func(paths []string)
}

// New creates a watcher calling onChange with the changed paths once events
// have been quiet for debounce
func New(debounce time.Duration, onChange func(paths []string)) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		fs:       fs,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
		pending:  make(map[string]struct{}),
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// Add starts watching files
func (w *Watcher) Add(files ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}

		dir := filepath.Dir(abs)
		if _, ok := w.dirs[dir]; !ok {
			if err := w.fs.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			w.dirs[dir] = struct{}{}
		}
		w.files[abs] = struct{}{}
	}

	return nil
}

// Files returns the watched paths in sorted order
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Run dispatches events until ctx is cancelled, then closes the watcher
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	log := logx.Logger()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.handle(event.Name)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "err", err)
		}
	}
}

// handle queues a change and restarts the debounce timer
func (w *Watcher) handle(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[filepath.Clean(path)]; !ok {
		return
	}
	w.pending[filepath.Clean(path)] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	slices.Sort(paths)
	logx.Logger().Debug("files changed", "paths", paths)
	w.onChange(paths)
}

// Close stops the watcher and any pending callback
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fs.Close()
}
