package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"botbi/internal/api/health"
	"botbi/internal/domain/market"
	"botbi/pkg/errors"
	"botbi/pkg/logger"
)

// SnapshotProvider builds the market snapshot served to clients
type SnapshotProvider interface {
	GetSnapshot(ctx context.Context) market.Snapshot
}

// ServerConfig contains configuration for HTTP server
type ServerConfig struct {
	Addr        string
	ServiceName string
	Version     string
}

// Server wraps the HTTP server with lifecycle management
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer creates the HTTP server with health, metrics and market routes
func NewServer(
	cfg ServerConfig,
	healthHandler *health.Handler,
	metricsHandler http.Handler,
	snapshots SnapshotProvider,
	log *logger.Logger,
) *Server {
	log = log.Component("http")

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      newMux(cfg, healthHandler, metricsHandler, snapshots, log),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log: log,
	}
}

func newMux(
	cfg ServerConfig,
	healthHandler *health.Handler,
	metricsHandler http.Handler,
	snapshots SnapshotProvider,
	log *logger.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.HandleHealth)
	mux.HandleFunc("GET /health/ready", healthHandler.HandleReadiness)
	mux.HandleFunc("GET /health/live", healthHandler.HandleLiveness)
	mux.Handle("GET /metrics", metricsHandler)

	mux.HandleFunc("GET /api/market", func(w http.ResponseWriter, r *http.Request) {
		snap := snapshots.GetSnapshot(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			log.Warnw("Failed to write market snapshot", "error", err)
		}
	})

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"service":%q,"version":%q,"status":"running"}`, cfg.ServiceName, cfg.Version)
	})

	return mux
}

// Start listens until the server is shut down
func (s *Server) Start() error {
	s.log.Infow("Starting HTTP server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "http server failed")
	}
	return nil
}

// Shutdown waits for active connections to complete within ctx
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Stopping HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "http server shutdown failed")
	}

	s.log.Info("HTTP server stopped")
	return nil
}
