package http

import (
	"context"
	stdliberrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/turtacn/JurisCompare/internal/config"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
)

// Server wraps an http.Server around the gin engine.
type Server struct {
	srv             *http.Server
	logger          logging.Logger
	shutdownTimeout time.Duration
}

// NewServer creates a Server listening on cfg.HTTPPort.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger logging.Logger) *Server {
	shutdown := cfg.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = 30 * time.Second
	}
	return &Server{
		logger:          logger,
		shutdownTimeout: shutdown,
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.srv.Addr }

// Start blocks serving HTTP until Stop is called.  A clean shutdown returns
// nil.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("http server listen on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ln)
}

// Serve serves on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("HTTP server listening", logging.String("addr", ln.Addr().String()))
	if err := s.srv.Serve(ln); err != nil && !stdliberrors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests within the shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// Handler returns the wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

//Personal.AI order the ending
