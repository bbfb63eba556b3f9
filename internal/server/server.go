// Package server exposes the wake and status operations over HTTP(S).
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/fgeck/wol-server/internal/models"
	"github.com/fgeck/wol-server/internal/services/auth"
	"github.com/fgeck/wol-server/internal/services/probe"
	"github.com/fgeck/wol-server/internal/services/wol"
	"github.com/rs/zerolog"
)

// defaultShutdownTimeout is the maximum time to wait for in-flight requests
// when no timeout is configured.
const defaultShutdownTimeout = 10 * time.Second

// Deps holds the collaborators of a Server.
type Deps struct {
	Config models.ServerConfig
	Wake   wol.Service
	Auth   auth.Service
	Probe  probe.Service

	// TLSConfig enables HTTPS when non-nil.
	TLSConfig *tls.Config

	Logger zerolog.Logger
}

// Server serves the HTTP API on a TCP listener.
type Server struct {
	cfg       models.ServerConfig
	wake      wol.Service
	auth      auth.Service
	probe     probe.Service
	tlsConfig *tls.Config
	logger    zerolog.Logger

	metrics *metrics
	limiter *rateLimiter
	handler http.Handler

	// ready is closed once the listener is bound.
	ready   chan struct{}
	addr    net.Addr
	started atomic.Bool
}

// ErrAlreadyStarted is returned when Serve is called more than once.
var ErrAlreadyStarted = errors.New("server already started")

// New creates a server. Call Serve to start accepting connections.
func New(deps Deps) (*Server, error) {
	if deps.Wake == nil {
		return nil, errors.New("wake service is required")
	}
	if deps.Auth == nil {
		return nil, errors.New("auth service is required")
	}
	if deps.Probe == nil {
		return nil, errors.New("probe service is required")
	}
	if deps.Config.RateLimit.RequestsPerSecond <= 0 || deps.Config.RateLimit.Burst < 1 {
		return nil, fmt.Errorf("invalid rate limit %v/s burst %d",
			deps.Config.RateLimit.RequestsPerSecond, deps.Config.RateLimit.Burst)
	}

	s := &Server{
		cfg:       deps.Config,
		wake:      deps.Wake,
		auth:      deps.Auth,
		probe:     deps.Probe,
		tlsConfig: deps.TLSConfig,
		logger:    deps.Logger,
		metrics:   newMetrics(),
		limiter:   newRateLimiter(deps.Config.RateLimit.RequestsPerSecond, deps.Config.RateLimit.Burst),
		ready:     make(chan struct{}),
	}
	s.handler = s.buildRouter()

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Ready returns a channel that is closed once the server is bound and
// accepting connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the resolved listen address. Only valid after Ready() is closed.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Serve binds the configured address and serves until ctx is cancelled, then
// shuts down gracefully. A Server serves at most once.
func (s *Server) Serve(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	address := net.JoinHostPort(s.cfg.Listen.Host, strconv.Itoa(s.cfg.Listen.Port))

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", address, err)
	}
	s.addr = listener.Addr()

	scheme := "http"
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
		scheme = "https"
	}
	close(s.ready)

	server := &http.Server{
		Handler:           s.handler,
		TLSConfig:         s.tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info().
		Str("address", s.addr.String()).
		Str("scheme", scheme).
		Msg("wol server listening")

	serveDone := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveDone <- err
		}
		close(serveDone)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("wol server shutting down")
	case err := <-serveDone:
		if err != nil {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	}

	timeout := s.cfg.Listen.ShutdownTimeout
	if timeout == 0 {
		timeout = defaultShutdownTimeout
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("wol server shutdown error")
		return fmt.Errorf("http server shutdown: %w", err)
	}

	s.logger.Info().Msg("wol server stopped")
	return nil
}
