// SPDX-License-Identifier: MIT

// Package api provides the HTTP API server for the patlas daemon.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patlas/patlas/internal/api/middleware"
	"github.com/patlas/patlas/internal/cache"
	"github.com/patlas/patlas/internal/config"
	"github.com/patlas/patlas/internal/health"
	"github.com/patlas/patlas/internal/jobs"
	"github.com/patlas/patlas/internal/store"
)

// Deps bundles everything the server serves from. All fields except
// Holder are optional; nil disables the related endpoints' extras.
type Deps struct {
	Holder *jobs.Holder
	Runner *jobs.Runner
	Cache  cache.Cache
	Jobs   store.JobStore
	Health *health.Manager
}

// Server is the HTTP API for the pattern catalog.
type Server struct {
	cfg       config.AppConfig
	holder    *jobs.Holder
	runner    *jobs.Runner
	cache     cache.Cache
	jobs      store.JobStore
	health    *health.Manager
	startTime time.Time
}

// NewServer wires a server around its dependencies.
func NewServer(cfg config.AppConfig, deps Deps) *Server {
	return &Server{
		cfg:       cfg,
		holder:    deps.Holder,
		runner:    deps.Runner,
		cache:     deps.Cache,
		jobs:      deps.Jobs,
		health:    deps.Health,
		startTime: time.Now(),
	}
}

// Handler builds the router with the canonical middleware stack.
func (s *Server) Handler() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableCORS:     true,
		AllowedOrigins: s.cfg.AllowedOrigins,

		EnableSecurityHeaders: true,
		CSP:                   middleware.DefaultCSP,

		EnableMetrics:  true,
		TracingService: tracingService(s.cfg),
		EnableLogging:  true,

		EnableRateLimit: s.cfg.RateLimitEnabled,
		RateLimitRPM:    s.cfg.RateLimitRPM,
	})

	if s.health != nil {
		r.Get("/healthz", s.health.ServeHealth)
		r.Get("/readyz", s.health.ServeReady)
	}
	r.Get("/catalog.json", s.handleCatalogExport)

	r.Route("/api", func(r chi.Router) {
		r.Get("/patterns", s.handleListPatterns)
		r.Get("/patterns/interpreter/demo", s.handleInterpreterDemo)
		r.Get("/patterns/{slug}", s.handleGetPattern)
		r.Get("/categories", s.handleCategories)
		r.Get("/principles", s.handlePrinciples)
		r.Get("/search", s.handleSearch)
		r.Get("/status", s.handleStatus)

		r.Group(func(r chi.Router) {
			r.Use(middleware.ReindexRateLimit())
			r.With(s.requireToken).Post("/reindex", s.handleReindex)
		})
	})

	return r
}

func tracingService(cfg config.AppConfig) string {
	if !cfg.TracingEnabled {
		return ""
	}
	return cfg.LogService
}
