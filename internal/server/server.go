// package server contains the router, middleware & handlers for a local myFlix-compatible API
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, CORS, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers that own their route patterns.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Options configures a [Server].
type Options struct {
	Secret   string        // HS256 signing key for bearer tokens
	TokenTTL time.Duration // default 7 days
	HashCost int           // bcrypt cost, default bcrypt.DefaultCost
	Seed     bool          // load the sample catalog
	Logger   *log.Logger
}

// Server is an in-memory myFlix API.
type Server struct {
	store  *Store
	tokens *TokenIssuer
	router *BasicRouter
	logger *log.Logger
}

// New creates a server with routes and middleware registered.
func New(opts Options) (*Server, error) {
	if opts.Secret == "" {
		return nil, fmt.Errorf("%w: server secret is required", shared.ErrInvalidConfig)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	store := NewStore(opts.HashCost)
	if opts.Seed {
		store.Seed()
	}

	s := &Server{
		store:  store,
		tokens: NewTokenIssuer(opts.Secret, opts.TokenTTL),
		router: NewBasicRouter(),
		logger: opts.Logger,
	}
	s.routes()
	return s, nil
}

// Store exposes the backing store, mainly for tests and seeding.
func (s *Server) Store() *Store {
	return s.store
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router
	r.Use(Recover(s.logger), RequestLogger(s.logger))

	auth := RequireAuth(s.tokens)
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	r.Handler(healthHandler{store: s.store})
	r.Handle(http.MethodPost, "/users", http.HandlerFunc(s.handleRegister))
	r.Handle(http.MethodPost, "/login", http.HandlerFunc(s.handleLogin))

	r.Handle(http.MethodGet, "/movies", protected(s.handleMovies))
	r.Handle(http.MethodGet, "/movies/{title}", protected(s.handleMovie))
	r.Handle(http.MethodGet, "/movies/genre/{name}", protected(s.handleGenre))
	r.Handle(http.MethodGet, "/movies/directors/{name}", protected(s.handleDirector))

	r.Handle(http.MethodGet, "/users/{username}", protected(s.handleGetUser))
	r.Handle(http.MethodPut, "/users/{username}", protected(s.handleUpdateUser))
	r.Handle(http.MethodDelete, "/users/{username}", protected(s.handleDeleteUser))
	r.Handle(http.MethodPost, "/users/{username}/movies/{movieID}", protected(s.handleAddFavorite))
	r.Handle(http.MethodDelete, "/users/{username}/movies/{movieID}", protected(s.handleRemoveFavorite))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("myFlix API listening", "addr", addr, "movies", len(s.store.Movies()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
