package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type Event struct {
	Path string
	Time time.Time
}

type Options struct {
	File     string        // absolute path of the file to follow
	Debounce time.Duration // collapse bursts within this window (0 = emit every change)
}

// Watcher follows a single file. It watches the parent directory so editors
// that save by rename-over are still seen.
type Watcher struct {
	opts Options
	dir  string
	base string

	mu      sync.Mutex
	w       *fsnotify.Watcher
	cancel  context.CancelFunc
	started bool
	closed  bool
}

func New(opts Options) (*Watcher, error) {
	if !filepath.IsAbs(opts.File) {
		return nil, errors.New("watched file must be absolute")
	}
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	return &Watcher{
		opts: opts,
		dir:  filepath.Dir(opts.File),
		base: filepath.Base(opts.File),
	}, nil
}

// Start begins watching and returns the event channel. The channel is closed
// once ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) (<-chan Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return nil, errors.New("watcher already started")
	}
	if w.closed {
		return nil, errors.New("watcher closed")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("add watch: %w", err)
	}

	w.w = fsw
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.started = true

	out := make(chan Event, 16)
	go w.run(ctx, out)
	return out, nil
}

func (w *Watcher) run(ctx context.Context, out chan<- Event) {
	defer func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		_ = w.w.Close()
		close(out)
		w.closed = true
	}()

	var (
		pending bool
		timer   *time.Timer
		timerC  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	emit := func() {
		select {
		case out <- Event{Path: w.opts.File, Time: time.Now()}:
		case <-ctx.Done():
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != w.base {
				continue
			}
			if !(ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Rename)) {
				continue
			}
			if w.opts.Debounce == 0 {
				emit()
				continue
			}
			// restart the window on every change
			pending = true
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.opts.Debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if pending {
				pending = false
				emit()
			}

		case _, ok := <-w.w.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the watcher if running.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
	}
}
