package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"player-analytics/internal/geo"
	internalhttp "player-analytics/internal/http"
	"player-analytics/internal/refresher"
	"player-analytics/internal/shared/configs"
	"player-analytics/internal/shared/loggers"

	"github.com/jonboulle/clockwork"
)

// App holds all application dependencies and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server

	resolver         geo.Resolver
	refresher        refresher.Refresher
	backgroundCtx    context.Context
	backgroundCancel context.CancelFunc
}

// New creates and initializes a new App instance.
func New(config *configs.Config) (*App, error) {
	appLogger, err := loggers.New(config.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.With().
		Str(loggers.FieldApp, "player-analytics").
		Logger()

	// Initialize snapshot source
	initCtx := appLogger.WithContext(context.Background())
	reader, err := NewSnapshotReader(initCtx, config)
	if err != nil {
		return nil, err
	}

	resolver, err := NewGeoResolver(config)
	if err != nil {
		return nil, err
	}

	// Initialize dashboard service and its refresher
	clock := clockwork.NewRealClock()
	service, err := NewDashboardService(config, reader, resolver, clock)
	if err != nil {
		_ = resolver.Close()
		return nil, err
	}
	refresherLogger := appLogger.With().Str(loggers.FieldComponent, "refresher").Logger()
	reportRefresher := refresher.New(service, clock, config.Dashboard.RefreshIntervalDuration(), refresherLogger)

	// Initialize http router
	httpLogger := appLogger.With().Str(loggers.FieldComponent, "http").Logger()
	router := internalhttp.NewRouter(internalhttp.RouterOptions{
		Service:         service,
		Refresher:       reportRefresher,
		DefaultLimit:    config.Dashboard.LatestLimit,
		RefreshInterval: config.Dashboard.RefreshIntervalDuration(),
		AllowedOrigins:  config.Server.AllowedOrigins,
	}, httpLogger)

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
		ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(config.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(config.Server.IdleTimeout) * time.Second,
	}

	return &App{
		config:    config,
		appLogger: appLogger,
		server:    server,
		resolver:  resolver,
		refresher: reportRefresher,
	}, nil
}

// Handler exposes the HTTP handler, for tests that drive the app in-process.
func (app *App) Handler() http.Handler {
	return app.server.Handler
}

// StartBackground starts the report refresher.
func (app *App) StartBackground() {
	app.backgroundCtx, app.backgroundCancel = context.WithCancel(app.appLogger.WithContext(context.Background()))
	app.refresher.Start(app.backgroundCtx)
}

// Start starts the refresher and the HTTP server, blocking until the server stops.
func (app *App) Start() error {
	app.appLogger.Info().
		Msgf("Starting player-analytics on port %d (log_level=%s, store=%s, strategy=%s, refresh_interval=%ds)",
			app.config.Server.Port,
			app.config.Log.Level,
			app.config.Store.Driver,
			app.config.Dashboard.Strategy,
			app.config.Dashboard.RefreshInterval)

	app.StartBackground()

	return app.server.ListenAndServe()
}

// Shutdown gracefully shuts down the application.
func (app *App) Shutdown(ctx context.Context) error {
	// 1) Shutdown server
	app.appLogger.Info().Msg("Shutting down server...")
	if err := app.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.appLogger.Info().Msg("Server stopped")

	// 2) Cancel the refresher and wait for an in-flight build
	if app.backgroundCancel != nil {
		app.backgroundCancel()
	}
	app.refresher.Stop()
	app.appLogger.Info().Msg("Refresher stopped")

	// 3) Release the geo database
	if err := app.resolver.Close(); err != nil {
		return fmt.Errorf("geo resolver close failed: %w", err)
	}

	return nil
}
