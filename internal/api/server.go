// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/peerline/peerline/internal/core/article"
	"github.com/peerline/peerline/internal/core/attachment"
	"github.com/peerline/peerline/internal/core/council"
	"github.com/peerline/peerline/internal/core/issue"
	"github.com/peerline/peerline/internal/core/review"
	"github.com/peerline/peerline/internal/platform/config"
	"github.com/peerline/peerline/internal/platform/constants"
	"github.com/peerline/peerline/internal/platform/middleware"
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
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Article handles the manuscript lifecycle and its editorial history.
	Article *article.Handler

	// Review handles reviewer assignments and review submission.
	Review *review.Handler

	// Council handles the voting roster, ballots, and finalization.
	Council *council.Handler

	// Attachment handles file metadata for manuscripts and issues.
	Attachment *attachment.Handler

	// Issue handles the production pipeline of journal issues.
	Issue *issue.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.Metrics())
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	// Every editorial route requires an authenticated principal; the
	// per-operation role checks live in the services.
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.RequireAuth)

		api.Route("/articles", func(articles chi.Router) {
			h.Article.RegisterRoutes(articles)
			h.Review.RegisterArticleRoutes(articles)
			h.Council.RegisterArticleRoutes(articles)
			h.Attachment.RegisterArticleRoutes(articles)
		})

		api.Route("/assignments", func(assignments chi.Router) {
			h.Review.RegisterRoutes(assignments)
		})

		api.Route("/issues", func(issues chi.Router) {
			h.Issue.RegisterRoutes(issues)
			h.Attachment.RegisterIssueRoutes(issues)
		})

		api.Route("/files", func(files chi.Router) {
			h.Attachment.RegisterRoutes(files)
		})

		api.Route("/journals", func(journals chi.Router) {
			h.Council.RegisterJournalRoutes(journals)
		})
	})

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
