// Package api provides the HTTP surface of periplo.
//
// Endpoints:
//
//	POST /chat    → retrieve-augment-generate pipeline
//	GET  /health  → liveness probe
//
// Middleware order: recovery → request ID → logging → CORS → rate limit.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/periplo/periplo/internal/log"
)

const (
	// DefaultAddr is the default address for the HTTP server.
	DefaultAddr = "127.0.0.1:3000"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout is the timeout for reading request headers.
	// This prevents Slowloris attacks.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is the maximum duration for writing the response. It
	// also serves as the outer bound on generation latency: the retry
	// schedule enforces ~3s of waiting plus up to three model calls.
	WriteTimeout = 60 * time.Second

	// IdleTimeout is the maximum wait for the next keep-alive request.
	IdleTimeout = 120 * time.Second
)

// Options configures the server's middleware.
type Options struct {
	// RateLimit is the per-IP request rate (requests/second); 0 disables
	// rate limiting. RateBurst is the token bucket size.
	RateLimit float64
	RateBurst int

	// TrustProxy enables client IP extraction from proxy headers.
	TrustProxy bool
}

// Server is the HTTP server for periplo.
type Server struct {
	mux     *http.ServeMux
	limiter *rateLimiter
	opts    Options
	logger  log.Logger
}

// NewServer creates a server with all routes registered.
func NewServer(svc ChatService, opts Options, logger log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{mux: mux, opts: opts, logger: logger}
	if opts.RateLimit > 0 {
		s.limiter = newRateLimiter(opts.RateLimit, opts.RateBurst)
	}

	NewChatHandler(svc, logger).RegisterRoutes(mux)
	NewHealthHandler().RegisterRoutes(mux)

	return s
}

// Handler returns the HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	middlewares := []func(http.Handler) http.Handler{
		recoveryMiddleware(s.logger),
		requestIDMiddleware,
		loggingMiddleware(s.logger),
		corsMiddleware,
	}
	if s.limiter != nil {
		middlewares = append(middlewares, rateLimitMiddleware(s.limiter, s.opts.TrustProxy, s.logger))
	}
	return chain(s.mux, middlewares...)
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
