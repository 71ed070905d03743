package index

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hlvm-dev/hqlc/errors"
	"github.com/hlvm-dev/hqlc/logger"
)

// Watcher invalidates the index snapshot when the working root changes.
// Rapid change bursts (checkouts, builds) are debounced into a single
// invalidation.
type Watcher struct {
	ix      *Indexer
	watcher *fsnotify.Watcher

	mu            sync.Mutex
	debounceTimer *time.Timer
	debounce      time.Duration

	done chan struct{}
}

// NewWatcher creates and starts a watcher over the indexer's root.
func NewWatcher(ix *Indexer) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := fsw.Add(ix.Root()); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", ix.Root())
	}

	w := &Watcher{
		ix:       ix,
		watcher:  fsw,
		debounce: 500 * time.Millisecond,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) != 0 {
				w.scheduleInvalidate(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("index watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

// scheduleInvalidate resets the debounce timer; the invalidation fires once
// the burst settles.
func (w *Watcher) scheduleInvalidate(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, func() {
		logger.Debugw("filesystem changed, invalidating index", "trigger", name)
		w.ix.Invalidate()
	})
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	close(w.done)
	return w.watcher.Close()
}
