// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - JSON endpoints live under /api, the login redirects under /auth/discord,
    and everything else is the single-page frontend.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/portfolio/internal/content/gallery"
	"github.com/taibuivan/portfolio/internal/content/link"
	"github.com/taibuivan/portfolio/internal/content/visit"
	"github.com/taibuivan/portfolio/internal/integration/gameart"
	"github.com/taibuivan/portfolio/internal/integration/gif"
	"github.com/taibuivan/portfolio/internal/platform/apperr"
	"github.com/taibuivan/portfolio/internal/platform/config"
	"github.com/taibuivan/portfolio/internal/platform/constants"
	"github.com/taibuivan/portfolio/internal/platform/middleware"
	"github.com/taibuivan/portfolio/internal/platform/respond"
	"github.com/taibuivan/portfolio/internal/social/comment"
	"github.com/taibuivan/portfolio/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler; it answers 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; it answers 503 when a dependency is down.
	Readiness http.HandlerFunc

	// Auth handles the Discord login redirects and /api/me.
	Auth *auth.Handler

	// Comments serves the comment wall.
	Comments *comment.Handler

	Links   *link.Handler
	Gallery *gallery.Handler
	Visits  *visit.Handler
	GameArt *gameart.Handler
	GIFs    *gif.Handler

	// Static serves the frontend build. It is optional in development, where
	// the frontend runs on its own dev server.
	Static http.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, resolver middleware.PrincipalResolver, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.Authenticate(resolver))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// Registered before the mounts so sub-routers inherit it.
	r.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("Route"))
	})

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Login
	r.Mount("/auth/discord", h.Auth.Routes())

	// # Application API
	r.Route("/api", func(api chi.Router) {
		api.Get("/me", h.Auth.Me)
		api.Mount("/comments", h.Comments.Routes())
		api.Mount("/links", h.Links.Routes())
		api.Mount("/gallery", h.Gallery.Routes())
		api.Mount("/visits", h.Visits.Routes())
		api.Get("/game-image", h.GameArt.Image)
		api.Get("/gifs", h.GIFs.Search)
	})

	// # Files
	r.Get("/uploads/{filename}", h.Gallery.ServeUpload)
	if h.Static != nil {
		r.Get("/*", h.Static.ServeHTTP)
	}

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
