package preview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Roelanb/kanbanview/internal/board"
	"github.com/Roelanb/kanbanview/internal/config"
	"github.com/Roelanb/kanbanview/internal/observability"
	"github.com/Roelanb/kanbanview/internal/store"
	"github.com/Roelanb/kanbanview/internal/watch"
	"github.com/Roelanb/kanbanview/internal/webview"
)

// ErrBoardNotFound is returned by Document for names with no stored board.
var ErrBoardNotFound = errors.New("board not found")

// Notifier is told when a board changed. The websocket hub implements it.
type Notifier interface {
	Broadcast(msg string)
}

// Service keeps the stored copy of the board file current and renders board
// documents for the preview host.
type Service struct {
	log      observability.Logger
	store    store.Store
	notifier Notifier
	renderer *board.Renderer

	mu      sync.Mutex
	cfg     config.BoardCfg
	resolve webview.ResourceURIResolver

	// run guards the follow loop lifecycle.
	run     sync.Mutex
	started bool
	parent  context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewService(log observability.Logger, st store.Store, notifier Notifier, cfg *config.Config) *Service {
	return &Service{
		log:      log,
		store:    st,
		notifier: notifier,
		renderer: board.NewRenderer(),
		resolve:  webview.PrefixResolver(cfg.Assets.BaseURI),
		cfg:      cfg.Board,
	}
}

// DefaultName is the document name of the configured board.
func (s *Service) DefaultName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Name
}

func (s *Service) boardCfg() config.BoardCfg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Reload reads the board file and stores it. On failure the previously
// stored board stays in place.
func (s *Service) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg := s.boardCfg()
	if cfg.File == "" {
		return errors.New("board.file is not configured")
	}

	b, err := board.Load(cfg.File)
	if err != nil {
		return err
	}
	rec := &store.BoardRecord{
		Name:   cfg.Name,
		Title:  cfg.Title,
		Source: cfg.File,
		Board:  b,
	}
	if err := s.store.PutBoard(rec); err != nil {
		return fmt.Errorf("store board: %w", err)
	}
	s.log.Infow("board loaded", "board", cfg.Name, "file", cfg.File, "cards", b.Count())
	return nil
}

// Start loads the board once and follows the board file until ctx is
// cancelled or Stop is called.
func (s *Service) Start(ctx context.Context) error {
	s.run.Lock()
	defer s.run.Unlock()
	if s.started {
		return errors.New("preview service already started")
	}
	if err := s.follow(ctx); err != nil {
		return err
	}
	s.parent = ctx
	s.started = true
	return nil
}

// follow reloads once and starts the watch loop for the current board file.
// Callers hold s.run.
func (s *Service) follow(ctx context.Context) error {
	cfg := s.boardCfg()
	if cfg.File == "" {
		return errors.New("board.file is not configured")
	}

	if err := s.Reload(ctx); err != nil {
		s.log.Warnw("initial board load failed", "file", cfg.File, "error", err)
	}

	w, err := watch.New(watch.Options{
		File:     cfg.File,
		Debounce: time.Duration(cfg.DebounceMs) * time.Millisecond,
	})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	events, err := w.Start(ctx)
	if err != nil {
		cancel()
		return err
	}
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for ev := range events {
			s.log.Debugw("board file changed", "file", ev.Path)
			if err := s.Reload(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				s.log.Errorw("board reload failed", "file", ev.Path, "error", err)
				continue
			}
			s.notify()
		}
	}()
	return nil
}

// Stop stops following the board file and waits for the reload loop.
func (s *Service) Stop() {
	s.run.Lock()
	defer s.run.Unlock()
	s.stopLocked()
	s.started = false
}

func (s *Service) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.wg.Wait()
}

// ApplyConfig switches the service to cfg. A running service that now points
// at another board file, or uses another debounce, restarts its watch loop.
func (s *Service) ApplyConfig(ctx context.Context, cfg *config.Config) error {
	s.run.Lock()
	defer s.run.Unlock()

	s.mu.Lock()
	prev := s.cfg
	s.cfg = cfg.Board
	s.resolve = webview.PrefixResolver(cfg.Assets.BaseURI)
	s.mu.Unlock()

	if s.started && (prev.File != cfg.Board.File || prev.DebounceMs != cfg.Board.DebounceMs) {
		s.stopLocked()
		if err := s.follow(s.parent); err != nil {
			s.started = false
			return err
		}
		s.log.Infow("board file switched", "from", prev.File, "to", cfg.Board.File)
		return nil
	}
	return s.Reload(ctx)
}

func (s *Service) notify() {
	if s.notifier != nil {
		s.notifier.Broadcast("reload")
	}
}

// Document renders the full webview document for the named board.
func (s *Service) Document(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rec, err := s.store.GetBoard(name)
	if err != nil {
		return "", fmt.Errorf("load board %q: %w", name, err)
	}
	if rec == nil {
		return "", ErrBoardNotFound
	}
	content, err := s.renderer.Render(rec.Board)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	resolve := s.resolve
	s.mu.Unlock()
	return webview.RenderDocument(webview.DocumentOptions{
		Name:               rec.Name,
		Title:              rec.Title,
		ResolveResourceURI: resolve,
		Content:            func() string { return content },
		HeaderButtons:      reloadButton,
		Footer:             liveReloadScript,
	})
}

// Render renders a board document without touching the store, for one-off
// output from the command line.
func Render(b *board.Board, name, title string, resolve webview.ResourceURIResolver) (string, error) {
	content, err := board.NewRenderer().Render(b)
	if err != nil {
		return "", err
	}
	return webview.RenderDocument(webview.DocumentOptions{
		Name:               name,
		Title:              title,
		ResolveResourceURI: resolve,
		Content:            func() string { return content },
	})
}

func reloadButton() string {
	return `<button type="button" class="btn btn-sm btn-outline-light kbv-reload" title="Reload" onclick="kbvReload()"><i class="fa fa-refresh" aria-hidden="true"></i></button>`
}

func liveReloadScript() string {
	return `<script>
function kbvReload() {
    fetch('/reload', { method: 'POST' }).finally(function() {
        location.reload();
    });
}
(function() {
    try {
        var proto = ('https:' === location.protocol) ? 'wss://' : 'ws://';
        var sock = new WebSocket(proto + location.host + '/live');
        sock.onmessage = function(ev) {
            if ('reload' === ev.data) {
                location.reload();
            }
        };
    } catch (e) { }
})();
</script>`
}
