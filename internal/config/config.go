// Package config loads service configuration from the environment.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config holds service configuration shared by the API server and the worker.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// Env is the deployment environment (development, staging, production).
	Env string

	// StoreBackend selects where places and cached weather persist:
	// "file" (default) or "postgres".
	StoreBackend string

	// DataDir holds the JSON stores when StoreBackend is "file".
	DataDir string

	// WeatherProvider selects the forecast source: "open-meteo" (default)
	// or "weather-com-cn".
	WeatherProvider string

	// IPInfoToken authenticates ipinfo.io lookups (optional).
	IPInfoToken string

	// OTLPEndpoint is the OpenTelemetry collector endpoint.
	OTLPEndpoint string

	// TelemetryEnabled toggles OTel trace and metric export.
	TelemetryEnabled bool

	// PubSubProjectID and PubSubSubscription configure the worker's
	// on-demand refresh trigger. Empty disables Pub/Sub.
	PubSubProjectID    string
	PubSubSubscription string

	// RefreshInterval is the worker's periodic cache refresh cadence.
	RefreshInterval time.Duration
}

// Load reads configuration from the environment, with a best-effort .env file
// load first so local development does not need exported variables.
func Load() Config {
	_ = godotenv.Load()

	refreshInterval, err := time.ParseDuration(getEnvOrDefault("REFRESH_INTERVAL", "30m"))
	if err != nil {
		refreshInterval = 30 * time.Minute
	}

	return Config{
		Port:               getEnvOrDefault("APP_PORT", "8080"),
		Env:                getEnvOrDefault("APP_ENV", "development"),
		StoreBackend:       getEnvOrDefault("STORE_BACKEND", StoreFile),
		DataDir:            getEnvOrDefault("DATA_DIR", "./data"),
		WeatherProvider:    getEnvOrDefault("WEATHER_PROVIDER", "open-meteo"),
		IPInfoToken:        os.Getenv("IPINFO_TOKEN"),
		OTLPEndpoint:       getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TelemetryEnabled:   os.Getenv("OTEL_ENABLED") == "true",
		PubSubProjectID:    os.Getenv("PUBSUB_PROJECT_ID"),
		PubSubSubscription: os.Getenv("PUBSUB_SUBSCRIPTION"),
		RefreshInterval:    refreshInterval,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
