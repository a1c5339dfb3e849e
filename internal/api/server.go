// Package api serves the catalog over HTTP: a huma API mounted on a chi router.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/listenupapp/libreria/internal/http/response"
	"github.com/listenupapp/libreria/internal/ratelimit"
	"github.com/listenupapp/libreria/internal/service"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// Options configures the server.
type Options struct {
	// AllowedOrigins for CORS. Empty disables cross-origin access.
	AllowedOrigins []string
	// MutationLimiter throttles renames, deletions and reloads per client.
	// Nil disables throttling.
	MutationLimiter *ratelimit.KeyedRateLimiter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	catalog         *service.CatalogService
	router          *chi.Mux
	api             huma.API
	mutationLimiter *ratelimit.KeyedRateLimiter
	logger          *slog.Logger
	startedAt       time.Time
}

// NewServer creates a server with every route registered.
func NewServer(catalog *service.CatalogService, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		catalog:         catalog,
		router:          chi.NewRouter(),
		mutationLimiter: opts.MutationLimiter,
		logger:          logger,
		startedAt:       time.Now(),
	}

	s.setupMiddleware(opts)

	RegisterErrorHandler()
	s.api = humachi.New(s.router, huma.DefaultConfig("Libreria API", Version))

	s.registerHealthRoutes()
	s.registerCategoryRoutes()
	s.registerBookRoutes()
	s.registerAuthorRoutes()
	s.registerReportRoutes()
	s.registerSearchRoutes()

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "method not allowed", s.logger)
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mostly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	if len(opts.AllowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}
}

// requestLogger logs one line per request through slog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
