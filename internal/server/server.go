// Package server is the documentation portal: it renders the viewer page,
// exposes the rendered view as JSON and drives live viewer sessions over
// WebSocket.
package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/docviewer/internal/catalog"
	"github.com/ziadkadry99/docviewer/internal/config"
	"github.com/ziadkadry99/docviewer/internal/logging"
	"github.com/ziadkadry99/docviewer/internal/markdown"
	"github.com/ziadkadry99/docviewer/internal/metrics"
	"github.com/ziadkadry99/docviewer/internal/nav"
)

// Options holds the portal dependencies.
type Options struct {
	Config *config.Config
	Logger zerolog.Logger

	// Catalog, when set, is mounted in-process and serves the group list
	// directly to viewers that use the same-origin backend.
	Catalog *catalog.Store

	// InlineMetrics serves /metrics on the portal listener.
	InlineMetrics bool
}

// Server is the documentation portal.
type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	navigator  nav.Navigator
	markdown   *markdown.Renderer
	intro      template.HTML
	introTitle string
	catalog    *catalog.Store
	inline     bool
	router     chi.Router
	httpServer *http.Server

	// sessions tracks live WebSocket sessions so Shutdown can close them.
	sessionsMu sync.Mutex
	sessions   map[string]*session
}

// New creates the portal server.
func New(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	navigator, err := nav.ByName(cfg.Navigation)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		logger:    opts.Logger,
		navigator: navigator,
		markdown:  markdown.New(false),
		catalog:   opts.Catalog,
		inline:    opts.InlineMetrics,
		sessions:  make(map[string]*session),
	}

	if cfg.IntroFile != "" {
		intro, introTitle, err := s.markdown.RenderFile(cfg.IntroFile)
		if err != nil {
			return nil, fmt.Errorf("loading intro: %w", err)
		}
		s.intro = intro
		s.introTitle = introTitle
	}

	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	if len(s.cfg.CORSOrigins) > 0 {
		corsOpts.AllowedOrigins = s.cfg.CORSOrigins
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.inline {
		r.Handle("/metrics", metrics.Handler())
	}

	// Live sessions outlive the request timeout.
	r.Get("/ws/viewer", s.handleLive)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/", s.handlePage)
		r.Get("/api/viewer", s.handleViewJSON)

		if s.catalog != nil {
			catalog.RegisterRoutes(r, s.catalog)
		}
	})

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured address. It returns nil once
// Shutdown has been called, even if that happened first.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.cfg.Listen).Msg("docviewer portal listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown closes live sessions and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.sessionsMu.Lock()
	for _, sess := range s.sessions {
		sess.close()
	}
	s.sessionsMu.Unlock()

	return s.httpServer.Shutdown(ctx)
}

// LiveSessions returns the number of connected live sessions.
func (s *Server) LiveSessions() int {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	return len(s.sessions)
}
