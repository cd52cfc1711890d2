package weather_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycastlabs/skycast/internal/weather"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.json")
	store := weather.NewFileStore(path, zerolog.Nop())

	payload := weather.Payload{
		WeatherInfo: &weather.Info{City: "北京", Temperature: "3°", Weather: "晴"},
		Hourly: &weather.Hourly{
			Time:          []string{"2026-08-30T10:00"},
			Temperature2M: []float64{3.2},
		},
	}
	store.Save(ctx, "coords:39.9042,116.4074", payload)

	reloaded := weather.NewFileStore(path, zerolog.Nop()).LoadCache(ctx)
	require.Len(t, reloaded, 1)
	assert.Empty(t, cmp.Diff(payload, reloaded["coords:39.9042,116.4074"]))
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store := weather.NewFileStore(filepath.Join(t.TempDir(), "absent.json"), zerolog.Nop())
	assert.Empty(t, store.LoadCache(context.Background()))
}

func TestFileStore_CorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := weather.NewFileStore(path, zerolog.Nop())
	assert.Empty(t, store.LoadCache(context.Background()))
}

func TestFileStore_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	store := weather.NewFileStore(filepath.Join(t.TempDir(), "cache.json"), zerolog.Nop())

	store.Save(ctx, "a", weather.Payload{})
	store.Save(ctx, "b", weather.Payload{})
	store.Remove(ctx, "a")

	cached := store.LoadCache(ctx)
	assert.Len(t, cached, 1)
	_, ok := cached["b"]
	assert.True(t, ok)

	store.Clear(ctx)
	assert.Empty(t, store.LoadCache(ctx))
}

func TestMemoryStore_CopiesOnLoad(t *testing.T) {
	ctx := context.Background()
	store := weather.NewMemoryStore()
	store.Save(ctx, "a", weather.Payload{WeatherInfo: &weather.Info{City: "北京"}})

	loaded := store.LoadCache(ctx)
	delete(loaded, "a")

	assert.Len(t, store.LoadCache(ctx), 1, "mutating a loaded map must not affect the store")
}
