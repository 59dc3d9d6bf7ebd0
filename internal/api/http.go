// Package api provides the HTTP operator surface for capability probing.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/emeprobe/emeprobe/internal/config"
	"github.com/emeprobe/emeprobe/internal/history"
	"github.com/emeprobe/emeprobe/internal/log"
	"github.com/emeprobe/emeprobe/internal/probe"
)

// ProbeHistory is the read side of the probe audit trail.
type ProbeHistory interface {
	Recent(ctx context.Context, limit int) ([]history.Record, error)
}

// Server is the HTTP API server.
type Server struct {
	cfg     config.AppConfig
	prober  *probe.Prober
	history ProbeHistory // nil when history is disabled
	logger  zerolog.Logger

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithHistory attaches the probe history read side.
func WithHistory(h ProbeHistory) Option {
	return func(s *Server) {
		s.history = h
	}
}

// New creates the API server.
func New(cfg config.AppConfig, prober *probe.Prober, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		prober: prober,
		logger: log.WithComponent("api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if cfg.APIToken == "" {
		s.logger.Warn().
			Str("security", "weak").
			Msg("API token not configured, authentication disabled")
	}
	return s
}

// Router builds the chi router with the canonical middleware stack.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(Recoverer)
	r.Use(RequestID)
	r.Use(SecurityHeaders)
	r.Use(Metrics)
	if s.cfg.TracingEnabled {
		r.Use(Tracing("emeprobe-api"))
	}
	r.Use(Logging)
	if s.cfg.RateLimitEnabled {
		r.Use(RateLimit(s.cfg.RateLimitRPM))
	}

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/keysystems", s.handleKeySystems)
		r.Post("/drm/check", s.handleCheck)
		r.Get("/drm/capabilities", s.handleCapabilities)
		r.Get("/drm/capabilities/map", s.handleCapabilityMap)
		r.Get("/drm/summary", s.handleSummary)
		r.Get("/probes/recent", s.handleRecentProbes)
		r.Post("/report/export", s.handleReportExport)
	})

	return r
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("event", "server.listening").
			Str("addr", s.cfg.ListenAddr).
			Msg("HTTP server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info().Str("event", "server.shutdown").Msg("shutting down HTTP server")
	return s.httpServer.Shutdown(shutdownCtx)
}
