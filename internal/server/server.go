// Package server is the HTTP transport for lexicon. It translates requests
// into Store, filter and nlquery calls and serializes their results as JSON.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/lexicon/internal/logger"
	"github.com/mesh-intelligence/lexicon/internal/metrics"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// Defaults applied by New when a Config field is zero.
const (
	DefaultAddr            = ":8080"
	DefaultMaxBodyBytes    = 1 << 20
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds HTTP server settings.
type Config struct {
	Addr            string
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration

	// RateLimit is the sustained requests per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64
	// RateBurst is the token bucket size; it defaults to the ceiling of RateLimit.
	RateBurst int

	// Metrics, when non-nil, is updated by every handler and served on /metrics.
	Metrics *metrics.Metrics
}

// Server serves the strings API over a types.Store.
type Server struct {
	store   types.Store
	cfg     Config
	metrics *metrics.Metrics
	limiter *limiterPool
	handler http.Handler
}

// New builds a Server. The store must already be attached.
func New(store types.Store, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	s := &Server{
		store:   store,
		cfg:     cfg,
		metrics: cfg.Metrics,
	}
	if cfg.RateLimit > 0 {
		s.limiter = newLimiterPool(cfg.RateLimit, cfg.RateBurst)
	}
	if s.metrics != nil {
		if all, err := store.List(); err == nil {
			s.metrics.StringsStored.Set(float64(len(all)))
		}
	}

	mux := http.NewServeMux()
	s.routes(mux)

	var h http.Handler = withoutTrailingSlash(mux)
	h = s.withRateLimit(h)
	h = s.withAccessLog(h)
	h = withRequestID(h)
	s.handler = h
	return s
}

// Handler returns the root handler with every middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.cfg.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Logger.Infow("HTTP server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}

	logger.Logger.Infow("HTTP server shutting down", "timeout", s.cfg.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve")
	}
	return nil
}
