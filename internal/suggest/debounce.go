// Package suggest debounces free-text queries in front of a city suggester so
// rapid input produces at most one lookup, with last-request-wins delivery.
package suggest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/skycastlabs/skycast/internal/geo"
	"github.com/skycastlabs/skycast/internal/place"
)

const (
	// DefaultDelay is the quiet period after the last input change before a
	// lookup is issued.
	DefaultDelay = 250 * time.Millisecond

	// DefaultLimit bounds results per lookup.
	DefaultLimit = 10
)

// DebouncerConfig holds configuration for a Debouncer.
type DebouncerConfig struct {
	// Suggester performs the actual lookups.
	Suggester geo.CitySuggester

	// Delay overrides DefaultDelay (optional).
	Delay time.Duration

	// Limit overrides DefaultLimit (optional).
	Limit int

	// OnResults receives the suggestions for the query that produced them.
	// Only the latest query's results are ever delivered.
	OnResults func(query string, places []place.Place)

	// OnError receives lookup failures (optional). Canceled lookups are not
	// reported.
	OnError func(query string, err error)

	// Logger for debouncer operations.
	Logger zerolog.Logger
}

// Debouncer issues at most one suggestion lookup per quiet period. Each input
// change resets the timer and cancels any lookup already in flight, so stale
// result lists can never arrive after newer ones.
type Debouncer struct {
	suggester geo.CitySuggester
	delay     time.Duration
	limit     int
	onResults func(string, []place.Place)
	onError   func(string, error)
	logger    zerolog.Logger

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	gen    uint64
	closed bool
}

// NewDebouncer creates a debouncer.
func NewDebouncer(cfg DebouncerConfig) *Debouncer {
	delay := cfg.Delay
	if delay == 0 {
		delay = DefaultDelay
	}

	limit := cfg.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	onResults := cfg.OnResults
	if onResults == nil {
		onResults = func(string, []place.Place) {}
	}

	return &Debouncer{
		suggester: cfg.Suggester,
		delay:     delay,
		limit:     limit,
		onResults: onResults,
		onError:   cfg.OnError,
		logger:    cfg.Logger,
	}
}

// Update registers an input change. The pending timer is reset and any
// in-flight lookup is canceled. A whitespace-only query delivers an empty
// result immediately without scheduling a lookup.
func (d *Debouncer) Update(query string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	d.gen++
	gen := d.gen
	d.stopPendingLocked()

	if strings.TrimSpace(query) == "" {
		d.mu.Unlock()
		d.onResults(query, nil)
		return
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(query, gen)
	})
	d.mu.Unlock()
}

// Close cancels any pending timer and in-flight lookup.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.gen++
	d.stopPendingLocked()
}

// fire runs the lookup for a query if it is still the latest one.
func (d *Debouncer) fire(query string, gen uint64) {
	d.mu.Lock()
	if d.closed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.mu.Unlock()

	places, err := d.suggester.Suggestions(ctx, query, d.limit)

	d.mu.Lock()
	current := gen == d.gen && !d.closed
	if current {
		d.cancel = nil
	}
	d.mu.Unlock()
	cancel()

	// A superseded lookup was canceled by the newer input; it delivers nothing.
	if !current {
		return
	}

	if err != nil {
		d.logger.Debug().Err(err).Str("query", query).Msg("suggestion lookup failed")
		if d.onError != nil {
			d.onError(query, err)
		}
		return
	}
	d.onResults(query, places)
}

// stopPendingLocked stops the timer and cancels the in-flight lookup, if any.
func (d *Debouncer) stopPendingLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
