// Package watch reports post changes in the content directory.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/inkwell/internal/metrics"
	"github.com/starford/inkwell/internal/storage"
)

// Event kinds passed to Callback.
const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// DefaultDebounce is how long events for a slug are coalesced before the
// callback fires.
const DefaultDebounce = 100 * time.Millisecond

// Callback is called once per settled change. kind is one of Created,
// Updated, Deleted.
type Callback func(kind string, slug string)

// Run watches the content root of store until ctx is cancelled. Events on
// files that are not posts are ignored. A burst of events for one slug is
// reported once, after DefaultDebounce of quiet.
//
// fsnotify reports a rename on the old name only; it is reported as
// Deleted and the new name arrives as a separate create. A missing root
// disables watching.
func Run(ctx context.Context, store *storage.FS, logger *slog.Logger, cb Callback) error {
	return run(ctx, store, logger, DefaultDebounce, cb)
}

func run(ctx context.Context, store *storage.FS, logger *slog.Logger, debounce time.Duration, cb Callback) error {
	root := store.Root()
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		logger.Warn("watcher: content root missing, not watching", slog.String("root", root))
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("root", root))

	pending := make(map[string]string)
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	schedule := func() {
		if flushTimer == nil {
			flushTimer = time.NewTimer(debounce)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-flushCh:
			for slug, kind := range pending {
				logger.Debug("watcher: post changed", slog.String("slug", slug), slog.String("op", kind))
				metrics.RecordContentEvent(kind)
				if cb != nil {
					cb(kind, slug)
				}
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Dir(ev.Name) != root {
				continue
			}
			slug, ok := store.SlugOf(filepath.Base(ev.Name))
			if !ok {
				continue
			}

			var kind string
			switch {
			case ev.Op&fsnotify.Create != 0:
				kind = Created
			case ev.Op&fsnotify.Write != 0:
				kind = Updated
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				kind = Deleted
			default:
				continue
			}
			pending[slug] = merge(pending[slug], kind)
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// merge folds a new event into the pending one for the same slug. A file
// created and then written is still new.
func merge(prev, next string) string {
	if prev == Created && next == Updated {
		return Created
	}
	if prev == Deleted && next == Created {
		return Updated
	}
	return next
}
