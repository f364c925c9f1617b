package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/saltyorg/wbnkit/internal/config"
	"github.com/saltyorg/wbnkit/internal/database"
	"github.com/saltyorg/wbnkit/internal/entity"
	"github.com/saltyorg/wbnkit/internal/metrics"
	"github.com/saltyorg/wbnkit/internal/model"
	"github.com/saltyorg/wbnkit/internal/web/handlers"
	"github.com/saltyorg/wbnkit/internal/web/middleware"
)

//go:embed templates/*
var templatesFS embed.FS

// Server represents the web server
type Server struct {
	db        *database.DB
	addr      string
	router    *chi.Mux
	templates map[string]*template.Template
	metrics   *metrics.Collector
	handlers  *handlers.Handlers
}

// NewServer creates a new web server
func NewServer(db *database.DB, addr string, collector *metrics.Collector) (*Server, error) {
	s := &Server{
		db:      db,
		addr:    addr,
		router:  chi.NewRouter(),
		metrics: collector,
	}

	if err := s.loadTemplates(); err != nil {
		return nil, err
	}
	s.setupRoutes()

	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// loadTemplates parses each page template together with the base layout.
func (s *Server) loadTemplates() error {
	s.templates = make(map[string]*template.Template)

	pageTemplates := []string{
		"errors/404.html",
	}

	for _, page := range pageTemplates {
		tmpl, err := template.New("").ParseFS(templatesFS,
			"templates/base.html",
			"templates/"+page,
		)
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		s.templates[page] = tmpl
	}
	return nil
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	r := s.router
	timeouts := config.GetTimeouts()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeouts.RequestTimeout))

	h := handlers.New(s.db, s.templates)
	s.handlers = h

	r.NotFound(h.NotFound)
	r.Get("/", h.Health)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	observe := model.WithObserver(s.metrics.Observe)
	users := handlers.NewResource(model.New(s.db, entity.NewUser, observe), entity.NewUser)
	notes := handlers.NewResource(model.New(s.db, entity.NewNote, observe), entity.NewNote)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.JSON)
		r.Route("/users", users.Routes)
		r.Route("/notes", notes.Routes)
	})
}

// Start starts the web server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	timeouts := config.GetTimeouts()

	server := &http.Server{
		Addr:        s.addr,
		Handler:     s.router,
		ReadTimeout: timeouts.ReadTimeout,
		IdleTimeout: timeouts.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
