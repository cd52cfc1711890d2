package place

import "context"

// Repository stores the ordered list of user-added places and the selection.
type Repository interface {
	// LoadPlaces returns the saved place list in user order.
	// A missing store yields an empty list, not an error.
	LoadPlaces(ctx context.Context) ([]Place, error)

	// SavePlaces replaces the saved place list.
	SavePlaces(ctx context.Context, places []Place) error

	// LoadSelectedID returns the saved selected place ID, or "" if none.
	LoadSelectedID(ctx context.Context) (string, error)

	// SaveSelectedID persists the selected place ID. An empty ID clears it.
	SaveSelectedID(ctx context.Context, id string) error
}

// RecentStore keeps a bounded most-recently-used list of place names.
type RecentStore interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, names []string) error
}
