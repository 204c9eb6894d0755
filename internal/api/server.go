// Package api provides the HTTP API server and handlers for the LinkStash server.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/linkstash/linkstash-server/internal/service"
)

// PreviewResolver resolves an og:image URL for an external page.
// *preview.Resolver implements it.
type PreviewResolver interface {
	Resolve(ctx context.Context, rawURL string) (string, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	resourceService *service.ResourceService
	authService     *service.AuthService
	previewResolver PreviewResolver
	router          *chi.Mux
	logger          *slog.Logger
	corsOrigins     []string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	resourceService *service.ResourceService,
	authService *service.AuthService,
	previewResolver PreviewResolver,
	corsOrigins []string,
	logger *slog.Logger,
) *Server {
	s := &Server{
		resourceService: resourceService,
		authService:     authService,
		previewResolver: previewResolver,
		router:          chi.NewRouter(),
		logger:          logger,
		corsOrigins:     corsOrigins,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	origins := s.corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
// Reads are public; mutations require a bearer token.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
	})

	s.router.Route("/resources", func(r chi.Router) {
		r.Get("/", s.handleListResources)
		r.Get("/{id}", s.handleGetResource)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateResource)
			r.Put("/{id}", s.handleUpdateResource)
			r.Delete("/{id}", s.handleDeleteResource)
		})
	})

	s.router.Get("/preview", s.handlePreview)
}
