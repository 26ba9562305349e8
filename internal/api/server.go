// Package api assembles the HTTP surface: OpenAPI operations via huma
// plus raw routes for media delivery.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/signbridgeapp/signbridge-server/internal/service"
)

// Services bundles everything the handlers need.
type Services struct {
	Translation *service.TranslationService
	Signs       *service.SignService
	Artifacts   *service.ArtifactCache
}

// Server is the HTTP front of the translation service.
type Server struct {
	services        *Services
	router          *chi.Mux
	api             huma.API
	limiter         *RateLimiter
	scratchPath     string
	semanticEnabled bool
	logger          *slog.Logger
}

// Options configures server construction.
type Options struct {
	Name string
	// CORSOrigins lists allowed browser origins; empty disables CORS.
	CORSOrigins []string
	// TranslateRPM caps translate requests per client IP per minute.
	// Zero disables rate limiting.
	TranslateRPM int
	// ScratchPath is the compositor's artifact directory, reported by
	// the health endpoint.
	ScratchPath string
	// SemanticEnabled reports whether the LLM fallback is configured.
	SemanticEnabled bool
}

// NewServer assembles the router, middleware, and all routes.
func NewServer(services *Services, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		services:        services,
		router:          chi.NewRouter(),
		scratchPath:     opts.ScratchPath,
		semanticEnabled: opts.SemanticEnabled,
		logger:          logger,
	}

	if opts.TranslateRPM > 0 {
		s.limiter = NewTranslateRateLimiter(opts.TranslateRPM)
	}

	s.setupMiddleware(opts)

	name := opts.Name
	if name == "" {
		name = "SignBridge API"
	}
	humaConfig := huma.DefaultConfig(name, "1.0.0")
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-held resources.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	if len(opts.CORSOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.logger, "/api/v1/translate"))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerTranslateRoutes()
	s.registerSignRoutes()

	// Raw route: media delivery bypasses the OpenAPI layer so the file
	// can be served straight off disk with range support.
	s.router.Get("/api/v1/videos/{artifactID}", s.handleGetVideo)
}
