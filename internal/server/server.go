// Package server is the wikikit development server: it serves a built site,
// answers search queries over HTTP and pushes reload notifications to open
// pages over a websocket.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ziadkadry99/wikikit/internal/catalog"
	"github.com/ziadkadry99/wikikit/internal/logging"
	"github.com/ziadkadry99/wikikit/internal/search"
)

// ReloadPath is the websocket endpoint pages connect to for live reload.
const ReloadPath = "/ws/reload"

// Config holds server configuration.
type Config struct {
	Port       int
	Dir        string // directory containing the built site
	AllowAll   bool   // allow all CORS origins
	LiveReload bool   // inject the reload hook and accept reload sockets
}

// Server serves a built wiki.
type Server struct {
	cfg        Config
	logger     *zap.Logger
	hub        *Hub
	router     chi.Router
	httpServer *http.Server

	mu     sync.RWMutex
	engine *search.Engine
}

// New creates a server for the site in cfg.Dir. The engine answers
// /api/search and may be nil until the first build completes.
func New(cfg Config, engine *search.Engine, logger *zap.Logger) *Server {
	logger = logging.OrNop(logger)
	s := &Server{
		cfg:    cfg,
		logger: logger,
		hub:    NewHub(logger),
		engine: engine,
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
		corsOpts.AllowCredentials = false
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Reload sockets are long-lived, so only the API gets a timeout.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/api/search", s.handleSearch)
	})

	if s.cfg.LiveReload {
		r.Get(ReloadPath, s.hub.ServeHTTP)
	}

	r.Handle("/*", s.staticHandler())
	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Hub returns the reload hub.
func (s *Server) Hub() *Hub { return s.hub }

// SetEngine replaces the search engine, typically after a rebuild, and
// closes the previous one.
func (s *Server) SetEngine(e *search.Engine) {
	s.mu.Lock()
	old := s.engine
	s.engine = e
	s.mu.Unlock()

	if old != nil && old != e {
		if err := old.Close(); err != nil {
			s.logger.Warn("closing search engine", zap.Error(err))
		}
	}
}

// Reload tells every connected page to reload.
func (s *Server) Reload() {
	n := s.hub.Broadcast(ReloadMessage)
	s.logger.Debug("reload broadcast", zap.Int("clients", n))
}

type searchResponse struct {
	Query   string                   `json:"query"`
	State   string                   `json:"state"`
	Results []catalog.PageDescriptor `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	s.mu.RLock()
	if s.engine == nil {
		s.mu.RUnlock()
		http.Error(w, "search index not ready", http.StatusServiceUnavailable)
		return
	}
	res := s.engine.Search(query)
	s.mu.RUnlock()

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		resp := searchResponse{Query: res.Query, State: res.State.String(), Results: res.Pages}
		if resp.Results == nil {
			resp.Results = []catalog.PageDescriptor{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			s.logger.Warn("encoding search response", zap.Error(err))
		}
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		renderer := search.HTMLRenderer{BasePath: r.URL.Query().Get("base")}
		if err := renderer.Render(w, res); err != nil {
			s.logger.Warn("rendering search results", zap.Error(err))
		}
	default:
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
	}
}

// requestLogger logs one line per request through zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Debug("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// Start begins listening on the configured port. It returns
// http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.logger.Info("wikikit server listening", zap.String("addr", s.httpServer.Addr), zap.String("dir", s.cfg.Dir))
	return s.httpServer.ListenAndServe()
}

// Shutdown closes reload sockets and gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	err := s.httpServer.Shutdown(ctx)
	s.SetEngine(nil)
	return err
}

// OpenBrowser opens url in the user's default browser.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
