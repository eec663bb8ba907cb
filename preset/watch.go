package preset

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/phanxgames/islet"
)

// DefaultDebounce is how long Watch waits after the last write before it
// reloads. Editors often write a file in several steps.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reloads a preset file whenever it changes.
type Watcher struct {
	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration

	path string
	fn   func(Preset, error)
}

// NewWatcher returns a watcher that calls fn with every reload result. fn
// runs on the watcher goroutine; hand the preset to the tick goroutine
// before touching a scene.
func NewWatcher(path string, fn func(Preset, error)) *Watcher {
	return &Watcher{path: filepath.Clean(path), fn: fn}
}

// Watch is NewWatcher(path, fn).Run(ctx).
func Watch(ctx context.Context, path string, fn func(Preset, error)) error {
	return NewWatcher(path, fn).Run(ctx)
}

// Run watches until ctx is done and returns nil then. The parent directory is
// watched so that editors which replace the file by rename are followed.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := FormatOf(w.path); err != nil {
		return err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("preset watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	log := islet.Logger().With("preset", w.path)
	log.Info("watching preset")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("preset watcher error", "err", err)
		case <-timer.C:
			p, err := Load(w.path)
			if err != nil {
				log.Warn("preset reload failed", "err", err)
			} else {
				log.Info("preset reloaded")
			}
			w.fn(p, err)
		}
	}
}
