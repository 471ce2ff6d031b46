// Package api provides the HTTP API server and handlers for the Inkwell application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/inkwellapp/inkwell-server/internal/http/response"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       *store.Store
	authService *service.AuthService
	blogService *service.BlogService
	router      *chi.Mux
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store *store.Store, authService *service.AuthService, blogService *service.BlogService, logger *slog.Logger) *Server {
	s := &Server{
		store:       store,
		authService: authService,
		blogService: blogService,
		router:      chi.NewRouter(),
		logger:      logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleWelcome)
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api", func(r chi.Router) {
		// Auth endpoints (public).
		r.Route("/user", func(r chi.Router) {
			r.Post("/signup", s.handleSignUp)
			r.Post("/signin", s.handleSignIn)

			// The owner's blog list requires auth.
			r.With(s.requireAuth).Get("/blogs", s.handleListUserBlogs)
		})

		r.Route("/blogs", func(r chi.Router) {
			// Public reads.
			r.Get("/", s.handleListBlogs)
			r.Get("/{id}", s.handleGetBlog)

			// Protected writes.
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/", s.handleCreateBlog)
				r.Put("/{id}", s.handleEditBlog)
				r.Delete("/{id}", s.handleDeleteBlog)
				r.Patch("/{id}/state", s.handleUpdateBlogState)
			})
		})
	})

	// Unknown routes and methods answer 200 with a not-found notice rather
	// than a 404 status.
	s.router.NotFound(s.handleFallback)
	s.router.MethodNotAllowed(s.handleFallback)
}

// handleWelcome greets unauthenticated visitors at the root.
func (s *Server) handleWelcome(w http.ResponseWriter, _ *http.Request) {
	response.Message(w, http.StatusOK, "Welcome to the Blog Api", s.logger)
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	}, s.logger)
}

func (s *Server) handleFallback(w http.ResponseWriter, _ *http.Request) {
	response.Message(w, http.StatusOK, "Page Not Found", s.logger)
}
