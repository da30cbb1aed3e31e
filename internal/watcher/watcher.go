package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"trainvoc-updates/internal/logging"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 250 * time.Millisecond

// Watcher calls onChange once a burst of edits to the watched files in a
// directory has settled.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	delay    time.Duration
	onChange func()
	log      *logging.Logger

	mu       sync.Mutex
	debounce *time.Timer
}

func New(dir string, files []string, delay time.Duration, onChange func(), log *logging.Logger) (*Watcher, error) {
	if log == nil {
		log = logging.Discard()
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory rather than the files so that editors replacing a
	// file by rename keep being observed.
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		watcher:  fsw,
		files:    make(map[string]bool, len(files)),
		delay:    delay,
		onChange: onChange,
		log:      log.With("watcher"),
	}
	for _, f := range files {
		w.files[f] = true
	}
	return w, nil
}

// Run processes file events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.files[filepath.Base(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.log.Debug("%s: %s", event.Op, event.Name)
				w.scheduleRefresh()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error: %v", err)

		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) scheduleRefresh() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.delay, w.onChange)
}

func (w *Watcher) stop() {
	w.watcher.Close()

	w.mu.Lock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()
}
