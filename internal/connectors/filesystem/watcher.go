package filesystem

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/microverse/internal/logger"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watcher re-runs a callback when content files in a directory change.
// Bursts of events within the debounce window trigger one run.
type Watcher struct {
	dir      string
	debounce time.Duration
	onChange func(ctx context.Context) error
}

// NewWatcher creates a watcher for dir. A non-positive debounce selects
// DefaultDebounce.
func NewWatcher(dir string, debounce time.Duration, onChange func(ctx context.Context) error) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{dir: dir, debounce: debounce, onChange: onChange}
}

// Run watches until ctx is cancelled. Callback errors are logged and do
// not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create content dir: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("Watching %s for changes", w.dir)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.handleFsEvent(event) {
				continue
			}
			logger.Debug("content change: %s %s", event.Op, event.Name)
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)

		case <-timer.C:
			if w.onChange == nil {
				continue
			}
			if err := w.onChange(ctx); err != nil {
				logger.Error("re-ingest after change: %v", err)
			}
		}
	}
}

// handleFsEvent reports whether event should trigger a run.
func (w *Watcher) handleFsEvent(event fsnotify.Event) bool {
	if isHidden(event.Name) || !IsSupported(event.Name) {
		return false
	}
	const relevant = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
	if event.Op&relevant == 0 {
		return false
	}
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return false
		}
	}
	return true
}
