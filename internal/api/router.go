package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/milosz-sonski/training-plans-api/internal/auth"
	"github.com/milosz-sonski/training-plans-api/internal/config"
	"github.com/milosz-sonski/training-plans-api/internal/domain"
	"github.com/milosz-sonski/training-plans-api/internal/observability"
	"go.uber.org/zap"
)

// Router holds the HTTP router and its dependencies
type Router struct {
	router   *chi.Mux
	logger   *zap.SugaredLogger
	config   *config.Config
	plans    PlanService
	renderer Renderer
}

// NewRouter creates and configures a new router
func NewRouter(logger *zap.SugaredLogger, cfg *config.Config, plans PlanService, renderer Renderer) *Router {
	r := &Router{
		router:   chi.NewRouter(),
		logger:   logger,
		config:   cfg,
		plans:    plans,
		renderer: renderer,
	}

	// Set up common middleware
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(middleware.Logger)
	r.router.Use(middleware.Recoverer)
	r.router.Use(middleware.Timeout(60 * time.Second))
	if cfg.MetricsEnabled {
		r.router.Use(observability.Middleware)
	}

	r.setupRoutes()

	return r
}

// preflight answers CORS preflight requests; the CORS headers themselves
// come from the route middleware
func preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Handler returns the HTTP handler for the router
func (r *Router) Handler() http.Handler {
	return r.router
}

// setupRoutes configures all routes
func (r *Router) setupRoutes() {
	restHandler := NewTrainingPlansHandler(r.plans, r.logger)
	plansHandler := NewPlansHandler(r.plans, r.renderer, r.logger)
	homeHandler := NewHomeHandler(r.renderer, r.logger)

	// Probes and metrics
	r.router.Get("/health", HealthHandler())
	r.router.Get("/ready", ReadinessHandler(r.plans))
	if r.config.MetricsEnabled {
		r.router.Handle("/metrics", observability.Handler())
	}

	// JSON API
	r.router.Route("/api/trainingplans", func(api chi.Router) {
		if r.config.Environment != "production" {
			api.Use(middleware.SetHeader("Access-Control-Allow-Origin", "*"))
			api.Use(middleware.SetHeader("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS"))
			api.Use(middleware.SetHeader("Access-Control-Allow-Headers", "Content-Type, Authorization"))
		}

		// Preflight requests never reach the auth group
		api.Options("/", preflight)
		api.Options("/export", preflight)
		api.Options("/{id}", preflight)

		// Public routes
		api.Get("/", restHandler.ListTrainingPlans)
		api.Get("/{id}", restHandler.GetTrainingPlan)

		// Mutating routes, protected when auth is enabled
		api.Group(func(protected chi.Router) {
			if r.config.Auth.Enabled {
				protected.Use(r.jwtAuth())
			}

			protected.Post("/", restHandler.PostTrainingPlan)
			protected.Post("/export", restHandler.ExportTrainingPlans)
			protected.Put("/{id}", restHandler.PutTrainingPlan)
			protected.Delete("/{id}", restHandler.DeleteTrainingPlan)
		})
	})

	// HTML pages
	r.router.Get("/", homeHandler.Index)
	r.router.Get("/Home", homeHandler.Index)
	r.router.Get("/Home/Index", homeHandler.Index)
	r.router.Get("/Home/Error", homeHandler.Error)

	r.router.Route("/Plans", func(pages chi.Router) {
		pages.Get("/Create", plansHandler.Create)
		pages.Post("/AddTrainingPlan", plansHandler.AddTrainingPlan)
		pages.Get("/Community", plansHandler.Community)
		pages.Get("/Edit/{id}", plansHandler.Edit)
		pages.Post("/UpdatePlan", plansHandler.UpdatePlan)
		pages.Post("/Delete/{id}", plansHandler.Delete)
	})

	r.router.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondWithError(w, r.logger, http.StatusNotFound, domain.MessageRouteNotFound)
	})

	r.router.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondWithError(w, r.logger, http.StatusMethodNotAllowed, domain.MessageMethodNotAllowed)
	})
}

// jwtAuth creates the JWT authentication middleware
func (r *Router) jwtAuth() func(http.Handler) http.Handler {
	return auth.NewJWTMiddleware(auth.Config{Secret: r.config.Auth.Secret}, r.logger).Middleware
}
