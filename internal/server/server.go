package server

import (
	"context"
	"net/http"
	"time"

	"github.com/hongminglow/library-be/internal/auth"
	"github.com/hongminglow/library-be/internal/config"
	"github.com/hongminglow/library-be/internal/http/handlers"
	"github.com/hongminglow/library-be/internal/library"
	"github.com/hongminglow/library-be/internal/middleware"
	"github.com/hongminglow/library-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// Services are the application services behind the routes.
type Services struct {
	Auth    *auth.Service
	Library *library.Service
	Tokens  *auth.TokenManager
}

// NewServices builds the services from config and a store.
func NewServices(cfg config.Config, store storage.Store) Services {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	return Services{
		Auth:    auth.NewService(store, tokens, 0),
		Library: library.NewService(store, library.WithLoanPeriod(cfg.LoanPeriod)),
		Tokens:  tokens,
	}
}

// Handler builds the routed handler with the full middleware chain.
func Handler(cfg config.Config, store storage.Store, svc Services) http.Handler {
	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now(), store).Register(mux)
	handlers.NewAuthHandler(svc.Auth).Register(mux)
	handlers.NewBookHandler(svc.Library).Register(mux)
	handlers.NewIssueRecordHandler(svc.Library).Register(mux)

	return middleware.CORS(cfg.CORSOrigins, middleware.Logging(middleware.Authenticate(svc.Tokens, mux)))
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, svc Services) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Handler(cfg, store, svc),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
