package http

import (
	"net/http"
	"time"

	"player-analytics/internal/dashboards"
	"player-analytics/internal/refresher"
	"player-analytics/internal/shared/loggers"
	"player-analytics/internal/shared/metrics"

	"github.com/go-chi/chi/v5"
)

// RouterOptions carries the dependencies and settings of the HTTP surface.
type RouterOptions struct {
	Service         dashboards.Service
	Refresher       refresher.Refresher
	DefaultLimit    int
	RefreshInterval time.Duration
	AllowedOrigins  []string
}

// NewRouter creates and configures the HTTP router.
func NewRouter(opts RouterOptions, httpLogger loggers.Logger) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, httpLogger)

	// Initialize handlers
	dashboardHandler := NewDashboardHandler(opts.Refresher, opts.RefreshInterval)
	reportHandler := NewReportHandler(opts.Refresher)
	latestPlayersHandler := NewLatestPlayersHandler(opts.Service, opts.DefaultLimit)
	healthHandler := NewHealthHandler(opts.Refresher)

	// Routes
	router.Get("/", errorHandlingAdapter(dashboardHandler))
	router.Route("/api", func(api chi.Router) {
		api.Use(mwCORS(opts.AllowedOrigins))
		api.Get("/report", errorHandlingAdapter(reportHandler))
		api.Get("/players/latest", errorHandlingAdapter(latestPlayersHandler))
	})
	router.Get("/healthz", errorHandlingAdapter(healthHandler))
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)

	return router
}
