// Package api provides the HTTP API for SkyCast.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/skycastlabs/skycast/internal/api/handler"
	"github.com/skycastlabs/skycast/internal/api/middleware"
	"github.com/skycastlabs/skycast/internal/geo"
	"github.com/skycastlabs/skycast/internal/provider/resilience"
	"github.com/skycastlabs/skycast/internal/weather"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// Board orchestrates tracked places and their weather state.
	Board *weather.Board

	// Suggester, Locator, and Matcher back the /v1/geo endpoints.
	Suggester geo.CitySuggester
	Locator   geo.CityLocator
	Matcher   *geo.AutoMatcher

	// Registry exposes provider circuit state on /v1/ops/status. Nil falls
	// back to the global registry.
	Registry *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "skycast-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry)
	placesHandler := handler.NewPlacesHandler(cfg.Board)
	geoHandler := handler.NewGeoHandler(cfg.Suggester, cfg.Locator, cfg.Matcher)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Tracked places and per-place weather - standard rate limiting
		r.Route("/places", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", placesHandler.ListPlaces)
			r.Post("/", placesHandler.AddPlace)
			r.Put("/selected", placesHandler.SelectPlace)
			r.Post("/refresh", placesHandler.RefreshAll)
			r.Route("/{placeId}", func(r chi.Router) {
				r.Delete("/", placesHandler.DeletePlace)
				r.Post("/refresh", placesHandler.RefreshPlace)
				r.Get("/weather", placesHandler.GetWeather)
			})
		})

		// Geo endpoints hit upstream IP and geocoding services - strict
		// rate limiting
		r.Route("/geo", func(r chi.Router) {
			r.Use(expensiveRateLimit)
			r.Get("/suggest", geoHandler.Suggest)
			r.Get("/locate", geoHandler.Locate)
			r.Get("/match", geoHandler.Match)
		})
	})

	return r
}
