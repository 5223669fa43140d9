package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"inquiry-backend/infrastructure/config"
	"inquiry-backend/infrastructure/di"
	"inquiry-backend/interfaces/http/rest/handlers"
	"inquiry-backend/interfaces/http/rest/middleware"
	"inquiry-backend/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	cfg := rt.container.Config

	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	complexHandler := handlers.NewComplexHandler(rt.container.Complexes, rt.logger)
	expansionHandler := handlers.NewExpansionHandler(rt.container.Expansion, rt.container.Planner, rt.logger)
	analysisHandler := handlers.NewAnalysisHandler(rt.container.Analyzer, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		if cfg.EnableAuth {
			if authMiddleware := rt.authMiddleware(cfg); authMiddleware != nil {
				r.Use(authMiddleware)
			}
		}

		r.Route("/complexes", func(r chi.Router) {
			r.Post("/", complexHandler.CreateComplex)
			r.Get("/", complexHandler.ListComplexes)
			r.Post("/import", complexHandler.ImportComplex)
			r.Post("/restore/{complexID}", complexHandler.RestoreComplex)

			r.Route("/{complexID}", func(r chi.Router) {
				r.Get("/", complexHandler.GetComplex)
				r.Delete("/", complexHandler.DeleteComplex)
				r.Get("/export", complexHandler.ExportComplex)
				r.Post("/save", complexHandler.SaveComplex)
				r.Post("/analyze", analysisHandler.AnalyzeComplex)
				r.Post("/auto-expand", expansionHandler.AutoExpand)
				r.Post("/nodes/{nodeID}/expand", expansionHandler.ExpandNode)
			})
		})
	})

	return router
}

// authMiddleware builds the JWT middleware from configuration; a broken auth
// setup fails closed
func (rt *Router) authMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     cfg.JWTSecret,
		Issuer:        cfg.JWTIssuer,
		Audience:      []string{"inquiry-api"},
	})
	if err != nil {
		rt.logger.Error("Failed to initialize JWT validator", zap.Error(err))
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "Authentication system error", http.StatusServiceUnavailable)
			})
		}
	}
	return middleware.Authenticate(validator, rt.logger)
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
