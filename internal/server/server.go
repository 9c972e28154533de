// Package server is the HTTP entry point: the dashboard page plus a small
// JSON API over the resolver.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joshsymonds/lexcura/internal/config"
	"github.com/joshsymonds/lexcura/internal/resolver"
	"github.com/joshsymonds/lexcura/internal/server/middleware"
	"github.com/joshsymonds/lexcura/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Resolver is what the handlers need from the resolver.
type Resolver interface {
	ResolveDetailed(ctx context.Context, clientID string) resolver.Resolution
	Refresh()
	CacheStats() resolver.CacheStats
}

// Server owns the gin engine and its dependencies.
type Server struct {
	resolver Resolver
	logger   logger.Logger
	engine   *gin.Engine
	limiter  *middleware.RateLimiter
	version  string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithRateLimiter replaces the refresh rate limiter.
func WithRateLimiter(l *middleware.RateLimiter) Option {
	return func(s *Server) {
		s.limiter = l
	}
}

// WithVersion sets the version reported by /healthz.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// New builds the server and registers its routes.
func New(cfg config.ServerConfig, r Resolver, opts ...Option) *Server {
	s := &Server{
		resolver: r,
		logger:   logger.GetGlobalLogger(),
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil {
		s.limiter = middleware.NewRateLimiter(cfg.RefreshRate, cfg.RefreshBurst, nil)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logging(s.logger),
		middleware.Recovery(s.logger),
	)
	s.engine = engine
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	s.logger.Info("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

// Addr normalizes the listen address.
func Addr(addr string) string {
	if addr == "" {
		return config.DefaultAddr
	}
	if strings.Contains(addr, ":") {
		return addr
	}
	return ":" + addr
}
