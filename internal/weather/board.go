package weather

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/skycastlabs/skycast/internal/place"
)

// Snapshot is an immutable view of the board's state handed to listeners and
// API handlers. The presentation layer only reads snapshots and calls the
// board's operations; it never mutates weather state directly.
type Snapshot struct {
	Places     []place.Place    `json:"places"`
	SelectedID string           `json:"selectedPlaceId"`
	States     map[string]State `json:"states"`
	Refreshing map[string]bool  `json:"refreshing"`

	// seq orders snapshots by creation so delivery can drop stale ones.
	seq uint64
}

// Listener receives a snapshot after every state change.
type Listener func(Snapshot)

// BoardConfig holds configuration for the weather board.
type BoardConfig struct {
	// Provider fetches forecasts.
	Provider Provider

	// Places persists the tracked place list and selection.
	Places place.Repository

	// Cache persists last-known payloads. Optional; nil disables caching.
	Cache Store

	// Recents records recently added place names. Optional.
	Recents place.RecentStore

	// Logger for board operations.
	Logger zerolog.Logger
}

// fetchHandle tracks the one in-flight fetch allowed per place id. The
// generation token lets a completed fetch detect that it was superseded
// before it touches any state.
type fetchHandle struct {
	cancel context.CancelFunc
	gen    uint64
}

// Board owns the live place list and the per-place fetch lifecycle: cache
// hydration, at-most-one-in-flight fetch per place, and stale-preserving
// failure handling. All state mutation happens under one mutex; fetches run
// concurrently and re-enter through a generation-checked apply step.
type Board struct {
	provider Provider
	places   place.Repository
	cache    Store
	recents  place.RecentStore
	logger   zerolog.Logger

	base     context.Context
	shutdown context.CancelFunc

	mu         sync.Mutex
	placeList  []place.Place
	selectedID string
	states     map[string]State
	refreshing map[string]struct{}
	fetches    map[string]*fetchHandle
	nextGen    uint64
	snapSeq    uint64
	listeners  []Listener

	// notifyMu serializes listener delivery; lastNotified tracks the newest
	// snapshot delivered so a slower goroutine cannot replay an older one.
	notifyMu     sync.Mutex
	lastNotified uint64
}

// NewBoard creates a weather board.
func NewBoard(cfg BoardConfig) *Board {
	base, cancel := context.WithCancel(context.Background())
	return &Board{
		provider:   cfg.Provider,
		places:     cfg.Places,
		cache:      cfg.Cache,
		recents:    cfg.Recents,
		logger:     cfg.Logger,
		base:       base,
		shutdown:   cancel,
		states:     make(map[string]State),
		refreshing: make(map[string]struct{}),
		fetches:    make(map[string]*fetchHandle),
	}
}

// Load hydrates places, selection, and cached payloads from the stores, then
// refreshes every tracked place. Cached payloads seed loaded states before any
// network activity completes, so callers see last-known data immediately.
func (b *Board) Load(ctx context.Context) error {
	places, err := b.places.LoadPlaces(ctx)
	if err != nil {
		return fmt.Errorf("loading places: %w", err)
	}
	selectedID, err := b.places.LoadSelectedID(ctx)
	if err != nil {
		return fmt.Errorf("loading selection: %w", err)
	}

	var cached map[string]Payload
	if b.cache != nil {
		cached = b.cache.LoadCache(ctx)
	}

	b.mu.Lock()
	b.placeList = places
	b.states = make(map[string]State, len(places))
	for _, p := range places {
		if payload, ok := cached[p.ID]; ok {
			pl := payload
			b.states[p.ID] = State{Status: StatusLoaded, Payload: &pl}
		} else {
			b.states[p.ID] = State{Status: StatusIdle}
		}
	}

	b.selectedID = selectedID
	if !b.trackedLocked(selectedID) && len(places) > 0 {
		b.selectedID = places[0].ID
	}
	snap := b.snapshotLocked()
	b.mu.Unlock()

	b.notify(snap)
	b.RefreshAll()
	return nil
}

// AddPlace tracks a new place, selects it, persists the list, and fetches its
// weather. Re-adding an existing place moves it: to the front for the
// current-location sentinel, to the end otherwise.
func (b *Board) AddPlace(ctx context.Context, p place.Place) {
	b.mu.Lock()
	b.dropFromListLocked(p.ID)
	if p.IsCurrentLocation() {
		b.placeList = append([]place.Place{p}, b.placeList...)
	} else {
		b.placeList = append(b.placeList, p)
	}
	if _, ok := b.states[p.ID]; !ok {
		b.states[p.ID] = State{Status: StatusIdle}
	}
	b.selectedID = p.ID
	snap := b.snapshotLocked()
	b.mu.Unlock()

	b.persist(ctx, snap)
	if b.recents != nil && p.Name != "" {
		if _, err := place.Touch(ctx, b.recents, p.Name, place.DefaultRecentLimit); err != nil {
			b.logger.Warn().Err(err).Str("name", p.Name).Msg("failed to record recent place")
		}
	}
	b.notify(snap)
	b.Fetch(p.ID)
}

// RemovePlace cancels any in-flight fetch for the place, drops it from
// tracking, re-points selection if needed, persists the list, and removes its
// cache entry in the background.
func (b *Board) RemovePlace(ctx context.Context, placeID string) {
	b.mu.Lock()
	if handle, ok := b.fetches[placeID]; ok {
		handle.cancel()
		delete(b.fetches, placeID)
	}
	b.dropFromListLocked(placeID)
	delete(b.states, placeID)
	delete(b.refreshing, placeID)
	if b.selectedID == placeID {
		b.selectedID = ""
		if len(b.placeList) > 0 {
			b.selectedID = b.placeList[0].ID
		}
	}
	snap := b.snapshotLocked()
	b.mu.Unlock()

	b.persist(ctx, snap)
	if b.cache != nil {
		go b.cache.Remove(b.base, placeID)
	}
	b.notify(snap)
}

// SelectPlace sets the selected place and always triggers a fetch for it;
// selection doubles as a manual refresh.
func (b *Board) SelectPlace(ctx context.Context, placeID string) error {
	b.mu.Lock()
	if !b.trackedLocked(placeID) {
		b.mu.Unlock()
		return place.ErrPlaceNotFound
	}
	b.selectedID = placeID
	snap := b.snapshotLocked()
	b.mu.Unlock()

	if err := b.places.SaveSelectedID(ctx, placeID); err != nil {
		b.logger.Warn().Err(err).Str("place_id", placeID).Msg("failed to persist selection")
	}
	b.notify(snap)
	b.Fetch(placeID)
	return nil
}

// Fetch starts a weather fetch for the place, canceling any fetch already in
// flight for it. A place that already has loaded data keeps it visible and is
// flagged refreshing instead of reverting to loading.
func (b *Board) Fetch(placeID string) {
	b.mu.Lock()
	p, ok := b.findLocked(placeID)
	if !ok {
		b.mu.Unlock()
		return
	}

	if handle, exists := b.fetches[placeID]; exists {
		handle.cancel()
	}
	b.nextGen++
	gen := b.nextGen
	ctx, cancel := context.WithCancel(b.base)
	b.fetches[placeID] = &fetchHandle{cancel: cancel, gen: gen}

	if b.states[placeID].Loaded() {
		b.refreshing[placeID] = struct{}{}
	} else {
		b.states[placeID] = State{Status: StatusLoading}
	}
	snap := b.snapshotLocked()
	b.mu.Unlock()

	b.notify(snap)
	go b.runFetch(ctx, p, gen)
}

// RefreshAll fetches weather for every tracked place. Used on startup and on
// app-foreground triggers.
func (b *Board) RefreshAll() {
	b.mu.Lock()
	ids := make([]string, len(b.placeList))
	for i, p := range b.placeList {
		ids[i] = p.ID
	}
	b.mu.Unlock()

	for _, id := range ids {
		b.Fetch(id)
	}
}

// Snapshot returns the current board state.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// Subscribe registers a listener invoked after state changes. When changes
// race, only the newest snapshot is delivered.
func (b *Board) Subscribe(fn Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

// Close cancels every in-flight fetch.
func (b *Board) Close() {
	b.shutdown()
}

// runFetch performs the provider call and applies the result if this fetch is
// still the current one for its place. A superseded or canceled fetch mutates
// nothing; the superseding operation owns the final state.
func (b *Board) runFetch(ctx context.Context, p place.Place, gen uint64) {
	payload, err := b.provider.Fetch(ctx, p)

	b.mu.Lock()
	handle, ok := b.fetches[p.ID]
	if !ok || handle.gen != gen {
		b.mu.Unlock()
		return
	}
	if ctx.Err() != nil {
		b.mu.Unlock()
		return
	}
	delete(b.fetches, p.ID)
	delete(b.refreshing, p.ID)

	if err != nil {
		// Stale-but-available beats an error screen: only a place with no
		// prior successful load transitions to failed.
		if !b.states[p.ID].Loaded() {
			b.states[p.ID] = State{Status: StatusFailed, Err: err.Error()}
		}
		snap := b.snapshotLocked()
		b.mu.Unlock()

		b.logger.Warn().Err(err).
			Str("place_id", p.ID).
			Str("provider", b.provider.Name()).
			Msg("weather fetch failed")
		b.notify(snap)
		return
	}

	b.states[p.ID] = State{Status: StatusLoaded, Payload: payload}
	snap := b.snapshotLocked()
	b.mu.Unlock()

	if b.cache != nil {
		go b.cache.Save(b.base, p.ID, *payload)
	}
	b.notify(snap)
}

// persist writes the place list and selection from a snapshot. Failures are
// logged; the in-memory state stays authoritative for this process.
func (b *Board) persist(ctx context.Context, snap Snapshot) {
	if err := b.places.SavePlaces(ctx, snap.Places); err != nil {
		b.logger.Warn().Err(err).Msg("failed to persist place list")
	}
	if err := b.places.SaveSelectedID(ctx, snap.SelectedID); err != nil {
		b.logger.Warn().Err(err).Msg("failed to persist selection")
	}
}

// notify delivers a snapshot to every listener. Delivery is serialized, and a
// snapshot older than one already delivered is dropped so concurrent fetch
// completions never show listeners state moving backwards. Snapshot() remains
// the authoritative read either way.
func (b *Board) notify(snap Snapshot) {
	b.mu.Lock()
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	b.notifyMu.Lock()
	defer b.notifyMu.Unlock()
	if snap.seq <= b.lastNotified {
		return
	}
	b.lastNotified = snap.seq

	for _, fn := range listeners {
		fn(snap)
	}
}

func (b *Board) snapshotLocked() Snapshot {
	places := make([]place.Place, len(b.placeList))
	copy(places, b.placeList)

	states := make(map[string]State, len(b.states))
	for id, st := range b.states {
		states[id] = st
	}
	refreshing := make(map[string]bool, len(b.refreshing))
	for id := range b.refreshing {
		refreshing[id] = true
	}

	b.snapSeq++
	return Snapshot{
		Places:     places,
		SelectedID: b.selectedID,
		States:     states,
		Refreshing: refreshing,
		seq:        b.snapSeq,
	}
}

func (b *Board) trackedLocked(placeID string) bool {
	_, ok := b.findLocked(placeID)
	return ok
}

func (b *Board) findLocked(placeID string) (place.Place, bool) {
	for _, p := range b.placeList {
		if p.ID == placeID {
			return p, true
		}
	}
	return place.Place{}, false
}

func (b *Board) dropFromListLocked(placeID string) {
	for i, p := range b.placeList {
		if p.ID == placeID {
			b.placeList = append(b.placeList[:i], b.placeList[i+1:]...)
			return
		}
	}
}
