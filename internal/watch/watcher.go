// Package watch observes a source directory for new media files and
// signals when a quiet period has passed, so a pipeline run can pick up
// fully written files in a batch.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jacobtruman/OrganizePictures/internal/organize"
)

const defaultDebounce = 5 * time.Second

// Watcher watches a directory tree recursively and coalesces bursts of
// media-file events into single trigger signals.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	exts     map[string]bool
	debounce time.Duration
	logger   organize.Logger
	triggers chan struct{}
}

// New creates a watcher over root for files with the given extensions
// (lowercase, with leading dot). debounce <= 0 uses the default.
func New(root string, exts []string, debounce time.Duration, logger organize.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = defaultDebounce
	}

	w := &Watcher{
		fsw:      fsw,
		root:     root,
		exts:     make(map[string]bool, len(exts)),
		debounce: debounce,
		logger:   logger,
		triggers: make(chan struct{}, 1),
	}
	for _, ext := range exts {
		w.exts[strings.ToLower(ext)] = true
	}

	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Triggers returns the channel signaled after each debounced burst of
// media-file events.
func (w *Watcher) Triggers() <-chan struct{} {
	return w.triggers
}

// Run processes filesystem events until ctx is cancelled. New directories
// are added to the watch set; media-file creates and writes arm a debounce
// timer, and the trigger fires when the timer expires with no new events.
func (w *Watcher) Run(ctx context.Context) error {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				// New subdirectories must join the watch set before
				// files land in them.
				if err := w.addRecursive(event.Name); err != nil {
					w.logger.Debug("watch add", "path", event.Name, "error", err)
				}
			}
			if !w.isMedia(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.logger.Debug("media event", "op", event.Op.String(), "path", event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case w.triggers <- struct{}{}:
			default:
				// A trigger is already pending.
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// addRecursive adds path and all its subdirectories to the watch set.
// Non-directory paths are ignored.
func (w *Watcher) addRecursive(path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(p)
		}
		return nil
	})
}

func (w *Watcher) isMedia(path string) bool {
	return w.exts[strings.ToLower(filepath.Ext(path))]
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
