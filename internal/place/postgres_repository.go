package place

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL place repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// LoadPlaces retrieves the saved place list in user order.
func (r *PostgresRepository) LoadPlaces(ctx context.Context) ([]Place, error) {
	query := `
		SELECT id, name, country, admin1, latitude, longitude
		FROM places
		ORDER BY position ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying places: %w", err)
	}
	defer rows.Close()

	var places []Place
	for rows.Next() {
		var p Place
		if err := rows.Scan(&p.ID, &p.Name, &p.Country, &p.Admin1, &p.Latitude, &p.Longitude); err != nil {
			return nil, fmt.Errorf("scanning place: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating places: %w", err)
	}

	return places, nil
}

// SavePlaces replaces the saved place list.
// The whole list is rewritten so positions stay contiguous; the list is small
// (user-added cities) and only one writer exists per process.
func (r *PostgresRepository) SavePlaces(ctx context.Context, places []Place) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(ctx, `DELETE FROM places`); err != nil {
		return fmt.Errorf("clearing places: %w", err)
	}

	insert := `
		INSERT INTO places (position, id, name, country, admin1, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, p := range places {
		if _, err := tx.Exec(ctx, insert, i, p.ID, p.Name, p.Country, p.Admin1, p.Latitude, p.Longitude); err != nil {
			return fmt.Errorf("inserting place %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing places: %w", err)
	}
	return nil
}

// LoadSelectedID retrieves the saved selected place ID, or "" if none.
func (r *PostgresRepository) LoadSelectedID(ctx context.Context) (string, error) {
	query := `SELECT place_id FROM selected_place WHERE singleton = TRUE`

	var id string
	err := r.pool.QueryRow(ctx, query).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying selected place: %w", err)
	}
	return id, nil
}

// SaveSelectedID persists the selected place ID. An empty ID clears it.
func (r *PostgresRepository) SaveSelectedID(ctx context.Context, id string) error {
	if id == "" {
		if _, err := r.pool.Exec(ctx, `DELETE FROM selected_place`); err != nil {
			return fmt.Errorf("clearing selected place: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO selected_place (singleton, place_id)
		VALUES (TRUE, $1)
		ON CONFLICT (singleton) DO UPDATE SET place_id = EXCLUDED.place_id
	`
	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("saving selected place: %w", err)
	}
	return nil
}
