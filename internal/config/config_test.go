package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skycastlabs/skycast/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, config.StoreFile, cfg.StoreBackend)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "open-meteo", cfg.WeatherProvider)
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("STORE_BACKEND", config.StorePostgres)
	t.Setenv("WEATHER_PROVIDER", "weather-com-cn")
	t.Setenv("REFRESH_INTERVAL", "5m")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := config.Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, config.StorePostgres, cfg.StoreBackend)
	assert.Equal(t, "weather-com-cn", cfg.WeatherProvider)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.True(t, cfg.TelemetryEnabled)
}

func TestLoad_BadRefreshIntervalFallsBack(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "not-a-duration")

	cfg := config.Load()

	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
}
