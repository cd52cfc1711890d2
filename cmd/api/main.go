// Package main provides the entrypoint for the SkyCast API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/skycastlabs/skycast/internal/api"
	"github.com/skycastlabs/skycast/internal/api/middleware"
	"github.com/skycastlabs/skycast/internal/config"
	"github.com/skycastlabs/skycast/internal/database"
	"github.com/skycastlabs/skycast/internal/geo"
	"github.com/skycastlabs/skycast/internal/geo/baidu"
	"github.com/skycastlabs/skycast/internal/geo/ipinfo"
	"github.com/skycastlabs/skycast/internal/place"
	"github.com/skycastlabs/skycast/internal/telemetry"
	"github.com/skycastlabs/skycast/internal/weather"
	"github.com/skycastlabs/skycast/internal/weather/openmeteo"
	"github.com/skycastlabs/skycast/internal/weather/weathercn"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "skycast-api"

	cfg := config.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SkyCast API")

	// Initialize OpenTelemetry
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TelemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.TelemetryEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Persistence: file-backed stores by default, Postgres when configured.
	// The data directory is always created; the recent-cities list is
	// file-backed under both backends.
	if mkdirErr := os.MkdirAll(cfg.DataDir, 0o700); mkdirErr != nil {
		log.Fatal().Err(mkdirErr).Str("dir", cfg.DataDir).Msg("failed to create data directory")
	}

	var placeRepo place.Repository
	var cacheStore weather.Store
	if cfg.StoreBackend == config.StorePostgres {
		dbConfig := database.ConfigFromEnv()
		pool, connectErr := database.Connect(ctx, dbConfig)
		if connectErr != nil {
			log.Fatal().Err(connectErr).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")

		placeRepo = place.NewPostgresRepository(pool)
		cacheStore = weather.NewPostgresStore(pool, log)
	} else {
		placeRepo = place.NewFileRepository(filepath.Join(cfg.DataDir, "places.json"))
		cacheStore = weather.NewFileStore(filepath.Join(cfg.DataDir, "weather_cache.json"), log)
		log.Info().Str("dir", cfg.DataDir).Msg("file stores initialized")
	}
	recentStore := place.NewFileRecentStore(filepath.Join(cfg.DataDir, "recent_cities.json"))

	// Open-Meteo serves geocoding suggestions always, and forecasts unless
	// another provider is selected
	openMeteo := openmeteo.NewClient(openmeteo.ClientConfig{Logger: log})

	var provider weather.Provider = openMeteo
	if cfg.WeatherProvider == weathercn.ProviderName {
		provider = weathercn.NewClient(weathercn.ClientConfig{Logger: log})
	}
	log.Info().Str("provider", provider.Name()).Msg("weather provider initialized")

	// Location resolution: public IP via ipinfo, IP to location text via
	// Baidu OpenData, then CN-aware normalization
	ipClient := ipinfo.NewClient(ipinfo.ClientConfig{
		Token:  cfg.IPInfoToken,
		Logger: log,
	})
	baiduClient := baidu.NewClient(baidu.ClientConfig{Logger: log})
	locator := geo.NewTwoHopCityLocator(ipClient, baiduClient)
	matcher := geo.NewAutoMatcher(geo.AutoMatcherConfig{
		Locator:   locator,
		Suggester: openMeteo,
		Logger:    log,
	})

	// Board orchestrates the tracked places and their weather state
	board := weather.NewBoard(weather.BoardConfig{
		Provider: provider,
		Places:   placeRepo,
		Cache:    cacheStore,
		Recents:  recentStore,
		Logger:   log,
	})
	defer board.Close()

	if loadErr := board.Load(ctx); loadErr != nil {
		log.Error().Err(loadErr).Msg("failed to load board state")
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		Board:       board,
		Suggester:   openMeteo,
		Locator:     locator,
		Matcher:     matcher,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
