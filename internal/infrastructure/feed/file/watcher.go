package file

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 500 * time.Millisecond

// Watcher calls onChange once per burst of writes to any watched file.
// Directories are watched rather than files so that atomic renames are seen.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
	onChange func()
	logger   logging.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewWatcher watches paths.  A debounce of zero means DefaultDebounce.
func NewWatcher(paths []string, debounce time.Duration, onChange func(), logger logging.Logger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeBadRequest, "no feed files to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create file watcher")
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]struct{}, len(paths)),
		debounce: debounce,
		onChange: onChange,
		logger:   logger.Named("feed.watcher"),
		done:     make(chan struct{}),
	}
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fsw.Close()
			return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid feed path").WithDetail("path=" + p)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, errors.Wrap(err, errors.ErrCodeFeedUnavailable, "failed to watch feed directory").WithDetail("dir=" + dir)
		}
	}
	return w, nil
}

// Run dispatches events until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) {
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("feed watcher error", logging.Err(err))
		case <-pending:
			pending = nil
			w.logger.Info("feed files changed")
			w.onChange()
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}

//Personal.AI order the ending
