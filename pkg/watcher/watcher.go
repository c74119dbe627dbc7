package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jkarls/resgraph/pkg/logging"
)

// ChangeEvent is a batch of dataset file changes
type ChangeEvent struct {
	Paths     []string
	Timestamp time.Time
}

// DirWatcher watches a data directory for dataset (*.json) changes so the
// store can be reloaded while the server runs.
type DirWatcher struct {
	watcher *fsnotify.Watcher
	dir     string
	events  chan ChangeEvent
}

// NewDirWatcher creates a watcher over a data directory
func NewDirWatcher(dir string) (*DirWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &DirWatcher{
		watcher: fsw,
		dir:     dir,
		events:  make(chan ChangeEvent, 100),
	}, nil
}

// Start begins watching. The watcher shuts down when the context is
// cancelled.
func (w *DirWatcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	logging.Info("watching data directory", "path", w.dir)
	go w.processEvents(ctx)

	return nil
}

// processEvents filters raw fsnotify events down to dataset files and
// batches rapid bursts into one ChangeEvent.
func (w *DirWatcher) processEvents(ctx context.Context) {
	var pending []string

	flushTimer := time.NewTimer(0)
	if !flushTimer.Stop() {
		<-flushTimer.C
	}

	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			close(w.events)
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				close(w.events)
				return
			}
			if !strings.HasSuffix(filepath.Base(event.Name), ".json") {
				continue
			}
			// Ignore chmod-only noise; anything else can change graph state
			if event.Op == fsnotify.Chmod {
				continue
			}
			pending = append(pending, event.Name)
			flushTimer.Reset(100 * time.Millisecond)

		case <-flushTimer.C:
			if len(pending) > 0 {
				w.events <- ChangeEvent{Paths: pending, Timestamp: time.Now()}
				pending = nil
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (w *DirWatcher) Events() <-chan ChangeEvent {
	return w.events
}
