// Package server owns the HTTP listener for the partypanther API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/config"
)

// idleTimeout closes keep-alive connections browsers leave open between
// form edits; it is not user-configurable.
const idleTimeout = 60 * time.Second

// Server runs the API over a stdlib http.Server with the timeouts from
// ServerConfig applied.
type Server struct {
	shutdownTimeout time.Duration
	logger          *slog.Logger
	http            *http.Server
}

// New builds a server around handler. Read and write timeouts bound slow
// clients; ShutdownTimeout bounds how long Shutdown waits for in-flight
// requests (including duplicate checks blocked on the classifier) to drain.
func New(cfg config.ServerConfig, logger *slog.Logger, handler http.Handler) *Server {
	return &Server{
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
		http: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  idleTimeout,
		},
	}
}

// Start serves until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("partypanther api listening",
		"addr", s.http.Addr,
		"read_timeout", s.http.ReadTimeout,
		"write_timeout", s.http.WriteTimeout)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits up to ShutdownTimeout for
// in-flight requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down server", "drain_timeout", s.shutdownTimeout)
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
