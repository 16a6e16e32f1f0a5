package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tunebase/internal/auth"
	"github.com/desertthunder/tunebase/internal/services"
	"github.com/desertthunder/tunebase/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, CORS, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Route describes one endpoint served by a [Handler].
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
	// Protected routes require a valid bearer token.
	Protected bool
	// Limited routes are subject to the per-client rate limit.
	Limited bool
}

// Handler defines the interface for groups of HTTP endpoints in the catalog service.
// Implementations own a resource (artists, albums, tracks, accounts) and list the routes they serve.
type Handler interface {
	Routes() []Route // Routes returns the endpoints this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers every route of a Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Options are the dependencies of a [Server].
type Options struct {
	Config   shared.ServerConfig
	Catalog  *services.Catalog
	Accounts *services.Accounts
	Tokens   *auth.TokenService
	Logger   *log.Logger
}

// Server serves the catalog API.
type Server struct {
	router *BasicRouter
	config shared.ServerConfig
	logger *log.Logger
}

// New wires the middleware stack and every handler into a router.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	logger = logger.WithPrefix("http")

	router := NewBasicRouter()
	router.Use(
		Recover(logger),
		RequestID(),
		AccessLog(logger),
		CORS(opts.Config.CORSOrigins),
	)
	router.Protect(RequireAuth(opts.Tokens, logger))
	router.Limit(RateLimit(opts.Config.AuthRateLimit, opts.Config.AuthRateBurst))

	router.Handler(NewRootHandler(opts.Catalog))
	router.Handler(NewAccountHandler(opts.Accounts, logger))
	router.Handler(NewArtistHandler(opts.Catalog, logger))
	router.Handler(NewAlbumHandler(opts.Catalog, logger))
	router.Handler(NewTrackHandler(opts.Catalog, logger))

	return &Server{router: router, config: opts.Config, logger: logger}
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.config.ShutdownTimeout.Duration
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down", "timeout", timeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
