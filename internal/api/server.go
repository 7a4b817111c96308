// Package api provides the HTTP API server and handlers for the Shlf application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/johnyfernandes/Shlf-Backend/internal/config"
	"github.com/johnyfernandes/Shlf-Backend/internal/http/response"
	"github.com/johnyfernandes/Shlf-Backend/internal/identity"
	"github.com/johnyfernandes/Shlf-Backend/internal/ratelimit"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	services Services
	resolver *identity.Resolver
	limiter  *ratelimit.KeyedRateLimiter
	cfg      *config.Config
	router   *chi.Mux
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services Services, resolver *identity.Resolver, cfg *config.Config, logger *slog.Logger) *Server {
	s := &Server{
		services: services,
		resolver: resolver,
		cfg:      cfg,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	if cfg.RateLimit.Enabled {
		rps := float64(cfg.RateLimit.RequestsPerMinute) / 60
		s.limiter = ratelimit.New(rps, cfg.RateLimit.Burst)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases background resources (rate limiter cleanup).
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Device-ID"},
		MaxAge:         300,
	}))

	if s.limiter != nil {
		s.router.Use(s.rateLimit)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// Auth endpoints (public).
	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		// Profile requires an account.
		r.Group(func(r chi.Router) {
			r.Use(s.resolveOwner)
			r.Use(s.requireUser)
			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)
		})
	})

	// Books (account or anonymous device).
	s.router.Route("/books", func(r chi.Router) {
		r.Use(s.resolveOwner)

		// Creation enforces its own identity rules so anonymous requests
		// without a device ID get DEVICE_ID_REQUIRED rather than a plain 401.
		r.Post("/", s.handleAddBook)

		r.Group(func(r chi.Router) {
			r.Use(s.requireOwner)
			r.Get("/", s.handleListBooks)
			r.Get("/stats", s.handleBookStats)
			r.Get("/{bookID}", s.handleGetBook)
			r.Put("/{bookID}", s.handleUpdateBook)
			r.Delete("/{bookID}", s.handleDeleteBook)
			r.Post("/{bookID}/sessions", s.handleCreateSession)
			r.Get("/{bookID}/sessions", s.handleListBookSessions)
		})
	})

	// Sessions across all books.
	s.router.Route("/sessions", func(r chi.Router) {
		r.Use(s.resolveOwner)
		r.Use(s.requireOwner)
		r.Get("/", s.handleListAllSessions)
		r.Put("/{id}", s.handleUpdateSession)
		r.Delete("/{id}", s.handleDeleteSession)
	})

	// Collections, account-only like goals.
	s.router.Route("/collections", func(r chi.Router) {
		r.Use(s.resolveOwner)
		r.Use(s.requireUser)
		r.Post("/", s.handleCreateCollection)
		r.Get("/", s.handleListCollections)
		r.Put("/{collectionID}", s.handleUpdateCollection)
		r.Delete("/{collectionID}", s.handleDeleteCollection)
		r.Post("/{collectionID}/books", s.handleAddBookToCollection)
		r.Delete("/{collectionID}/books/{bookID}", s.handleRemoveBookFromCollection)
	})

	// Quota status for the caller.
	s.router.Group(func(r chi.Router) {
		r.Use(s.resolveOwner)
		r.Get("/quota", s.handleQuotaStatus)
	})

	// Reading goals (accounts only).
	s.router.Route("/goals", func(r chi.Router) {
		r.Use(s.resolveOwner)
		r.Use(s.requireUser)
		r.Post("/", s.handleSetGoal)
		r.Get("/", s.handleListGoals)
		// chi requires one wildcard name per position: the GET reads it
		// as a year, the DELETE as a goal ID.
		r.Get("/{id}", s.handleGetGoalProgress)
		r.Delete("/{id}", s.handleDeleteGoal)
	})

	// Open Library passthrough. Identity is not required; a stale token
	// should not break search, so resolution is lenient here.
	s.router.Route("/search", func(r chi.Router) {
		r.Use(s.resolveOwnerLenient)
		r.Get("/books", s.handleSearchBooks)
		r.Get("/books/{workID}", s.handleGetWorkDetails)
		r.Get("/isbn/{isbn}", s.handleGetBookByISBN)
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
