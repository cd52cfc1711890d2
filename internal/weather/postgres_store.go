package weather

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PostgresStore is a Postgres-backed Store for server deployments.
//
// Schema:
//
//	CREATE TABLE weather_cache (
//	    place_id TEXT PRIMARY KEY,
//	    payload  JSONB NOT NULL,
//	    saved_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore creates a Postgres-backed weather cache.
func NewPostgresStore(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, logger: logger}
}

// LoadCache returns every cached payload. Query or decode failures yield an
// empty (or partial) map rather than an error.
func (s *PostgresStore) LoadCache(ctx context.Context) map[string]Payload {
	out := make(map[string]Payload)

	rows, err := s.pool.Query(ctx, `SELECT place_id, payload FROM weather_cache`)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load weather cache")
		return out
	}
	defer rows.Close()

	for rows.Next() {
		var placeID string
		var raw []byte
		if err := rows.Scan(&placeID, &raw); err != nil {
			s.logger.Warn().Err(err).Msg("failed to scan weather cache row")
			continue
		}
		var payload Payload
		if err := json.Unmarshal(raw, &payload); err != nil {
			s.logger.Warn().Err(err).Str("place_id", placeID).Msg("corrupt weather cache entry skipped")
			continue
		}
		out[placeID] = payload
	}
	return out
}

// Save upserts the payload for placeID. Failures are logged and swallowed.
func (s *PostgresStore) Save(ctx context.Context, placeID string, payload Payload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn().Err(err).Str("place_id", placeID).Msg("failed to encode weather payload")
		return
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO weather_cache (place_id, payload, saved_at)
		VALUES ($1, $2, now())
		ON CONFLICT (place_id) DO UPDATE SET payload = EXCLUDED.payload, saved_at = now()
	`, placeID, raw)
	if err != nil {
		s.logger.Warn().Err(err).Str("place_id", placeID).Msg("failed to save weather cache entry")
	}
}

// Remove drops the entry for placeID.
func (s *PostgresStore) Remove(ctx context.Context, placeID string) {
	_, err := s.pool.Exec(ctx, `DELETE FROM weather_cache WHERE place_id = $1`, placeID)
	if err != nil {
		s.logger.Warn().Err(err).Str("place_id", placeID).Msg("failed to remove weather cache entry")
	}
}

// Clear drops every entry.
func (s *PostgresStore) Clear(ctx context.Context) {
	_, err := s.pool.Exec(ctx, `DELETE FROM weather_cache`)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear weather cache")
	}
}
