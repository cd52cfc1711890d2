package weather

import "context"

// Store persists the last-known payload per place id across restarts.
//
// Caching is best-effort acceleration, never a source of truth: write failures
// are swallowed (logged at most) and corrupt reads yield an empty map, so the
// foreground flow can never be blocked or failed by the cache.
type Store interface {
	LoadCache(ctx context.Context) map[string]Payload
	Save(ctx context.Context, placeID string, payload Payload)
	Remove(ctx context.Context, placeID string)
	Clear(ctx context.Context)
}
