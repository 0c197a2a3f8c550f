package api

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	json "github.com/goccy/go-json"

	"github.com/Roelanb/kanbanview/internal/observability"
	"github.com/Roelanb/kanbanview/internal/store"
)

// Previewer renders board documents.
type Previewer interface {
	DefaultName() string
	Document(ctx context.Context, name string) (string, error)
}

// Records is the part of the store the API reads and writes.
type Records interface {
	ListBoards() ([]store.BoardRecord, error)
	AppendLog(entry *store.LogEntry) error
	RecentLogs(limit int) ([]store.LogEntry, error)
}

// Control reloads the board and reads or replaces the running config.
type Control interface {
	Reload(ctx context.Context) error
	// GetConfig returns the current config model as a JSON-able structure.
	GetConfig() any
	// ApplyConfig replaces the current config with the provided bytes.
	ApplyConfig(ctx context.Context, raw []byte) error
}

type Options struct {
	Addr            string
	AssetsDir       string // served under /assets/ when set
	AllowAllOrigins bool
	Control         Control // enables /reload and /config when set
}

const maxConfigBody = 1 << 20

type Server struct {
	log     observability.Logger
	preview Previewer
	records Records
	hub     *Hub
	opts    Options
	router  chi.Router

	mu    sync.Mutex
	srv   *http.Server
	ln    net.Listener
	start bool
}

func New(log observability.Logger, preview Previewer, records Records, hub *Hub, opts Options) *Server {
	s := &Server{
		log:     log,
		preview: preview,
		records: records,
		hub:     hub,
		opts:    opts,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*", "vscode-webview://*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.opts.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/health", s.handleHealth)
	r.Get("/boards", s.handleBoards)
	r.Get("/logs", s.handleLogs)
	r.Post("/bridge", s.handleBridge)
	r.Post("/reload", s.handleReload)
	r.Get("/config", s.handleConfig)
	r.Post("/config", s.handleConfig)
	if s.hub != nil {
		r.Get("/live", s.hub.ServeHTTP)
	}
	if s.opts.AssetsDir != "" {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(s.opts.AssetsDir))))
	}
	s.mountUI(r)
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.start {
		return nil
	}
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		s.log.Infow("api server listening", "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorw("api server error", "error", err)
		}
	}()
	s.start = true
	go func() {
		<-ctx.Done()
		_ = s.Shutdown(context.Background())
	}()
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return s.opts.Addr
	}
	return s.ln.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return nil
	}
	if s.hub != nil {
		s.hub.Close()
	}
	err := s.srv.Shutdown(ctx)
	s.start = false
	s.srv = nil
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleBoards(w http.ResponseWriter, r *http.Request) {
	type boardView struct {
		Name      string    `json:"name"`
		Title     string    `json:"title,omitempty"`
		Source    string    `json:"source,omitempty"`
		Cards     int       `json:"cards"`
		UpdatedAt time.Time `json:"updated_at"`
	}
	out := []boardView{}
	if s.records != nil {
		recs, err := s.records.ListBoards()
		if err != nil {
			s.log.Errorw("list boards failed", "error", err)
			http.Error(w, "list boards failed", http.StatusInternalServerError)
			return
		}
		for _, rec := range recs {
			v := boardView{Name: rec.Name, Title: rec.Title, Source: rec.Source, UpdatedAt: rec.UpdatedAt}
			if rec.Board != nil {
				v.Cards = rec.Board.Count()
			}
			out = append(out, v)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	ctrl := s.opts.Control
	if ctrl == nil {
		http.Error(w, "control unavailable", http.StatusServiceUnavailable)
		return
	}
	if r.Method == http.MethodGet {
		writeJSON(w, http.StatusOK, ctrl.GetConfig())
		return
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxConfigBody))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := ctrl.ApplyConfig(ctx, raw); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.log.Infow("config applied", "request_id", middleware.GetReqID(r.Context()))
	s.broadcast("reload")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	ctrl := s.opts.Control
	if ctrl == nil {
		http.Error(w, "control unavailable", http.StatusServiceUnavailable)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := ctrl.Reload(ctx); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.broadcast("reload")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) broadcast(msg string) {
	if s.hub != nil {
		s.hub.Broadcast(msg)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger logs each request through the structured logger.
func requestLogger(log observability.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Debugw("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
