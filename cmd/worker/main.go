// Package main provides the entrypoint for the SkyCast cache refresh worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/skycastlabs/skycast/internal/config"
	"github.com/skycastlabs/skycast/internal/database"
	"github.com/skycastlabs/skycast/internal/place"
	"github.com/skycastlabs/skycast/internal/provider/resilience"
	"github.com/skycastlabs/skycast/internal/weather"
	"github.com/skycastlabs/skycast/internal/weather/openmeteo"
	"github.com/skycastlabs/skycast/internal/weather/weathercn"
	"github.com/skycastlabs/skycast/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "skycast-worker"

	cfg := config.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SkyCast worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Persistence, same backend selection as the API server
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("failed to create data directory")
	}

	var placeRepo place.Repository
	var cacheStore weather.Store
	if cfg.StoreBackend == config.StorePostgres {
		dbConfig := database.ConfigFromEnv()
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		placeRepo = place.NewPostgresRepository(pool)
		cacheStore = weather.NewPostgresStore(pool, log)
	} else {
		placeRepo = place.NewFileRepository(filepath.Join(cfg.DataDir, "places.json"))
		cacheStore = weather.NewFileStore(filepath.Join(cfg.DataDir, "weather_cache.json"), log)
	}

	// Background refresh tolerates latency, so the provider client retries
	// with backoff unlike the interactive API path
	var provider weather.Provider
	if cfg.WeatherProvider == weathercn.ProviderName {
		provider = weathercn.NewClient(weathercn.ClientConfig{
			HTTPClient: resilience.NewClient(resilience.WorkerClientConfig(weathercn.ProviderName)),
			Logger:     log,
		})
	} else {
		provider = openmeteo.NewClient(openmeteo.ClientConfig{
			HTTPClient: resilience.NewClient(resilience.WorkerClientConfig(openmeteo.ProviderName)),
			Logger:     log,
		})
	}
	log.Info().Str("provider", provider.Name()).Msg("weather provider initialized")

	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Logger:   log,
		Provider: provider,
		Places:   placeRepo,
		Cache:    cacheStore,
	})

	// Periodic refresh on a fixed schedule
	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Every(cfg.RefreshInterval).Do(func() {
		refreshJob.Run(ctx)
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule refresh job")
	}
	scheduler.StartAsync()
	log.Info().Dur("interval", cfg.RefreshInterval).Msg("refresh schedule started")

	// On-demand refresh via Pub/Sub, when configured
	var pubsubHandler *worker.PubSubHandler
	if cfg.PubSubProjectID != "" && cfg.PubSubSubscription != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        cfg.PubSubProjectID,
			SubscriptionName: cfg.PubSubSubscription,
			RefreshJob:       refreshJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		pubsubHandler = handler

		go func() {
			if err := pubsubHandler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
		log.Info().
			Str("subscription", cfg.PubSubSubscription).
			Msg("pubsub refresh trigger enabled")
	}

	// Health endpoint for the hosting platform
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()
	scheduler.Stop()
	if pubsubHandler != nil {
		if err := pubsubHandler.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close pubsub handler")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
