package suggest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycastlabs/skycast/internal/place"
)

// suggesterFunc adapts a function to geo.CitySuggester.
type suggesterFunc func(ctx context.Context, query string, limit int) ([]place.Place, error)

func (f suggesterFunc) Suggestions(ctx context.Context, query string, limit int) ([]place.Place, error) {
	return f(ctx, query, limit)
}

type resultRecorder struct {
	mu      sync.Mutex
	queries []string
	results [][]place.Place
}

func (r *resultRecorder) record(query string, places []place.Place) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, query)
	r.results = append(r.results, places)
}

func (r *resultRecorder) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.queries))
	copy(out, r.queries)
	return out
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestDebouncer_OnlyLastQueryFires(t *testing.T) {
	var calls atomic.Int32
	rec := &resultRecorder{}

	d := NewDebouncer(DebouncerConfig{
		Suggester: suggesterFunc(func(_ context.Context, query string, _ int) ([]place.Place, error) {
			calls.Add(1)
			return []place.Place{place.FromName(query)}, nil
		}),
		Delay:     30 * time.Millisecond,
		OnResults: rec.record,
	})
	defer d.Close()

	d.Update("北")
	d.Update("北京")
	d.Update("北京市")

	waitFor(t, "debounced lookup", func() bool { return calls.Load() > 0 })
	waitFor(t, "result delivery", func() bool { return len(rec.recorded()) > 0 })

	assert.Equal(t, int32(1), calls.Load(), "rapid input should collapse to one lookup")
	assert.Equal(t, []string{"北京市"}, rec.recorded())
}

func TestDebouncer_BlankQueryClearsImmediately(t *testing.T) {
	var calls atomic.Int32
	rec := &resultRecorder{}

	d := NewDebouncer(DebouncerConfig{
		Suggester: suggesterFunc(func(context.Context, string, int) ([]place.Place, error) {
			calls.Add(1)
			return nil, nil
		}),
		Delay:     20 * time.Millisecond,
		OnResults: rec.record,
	})
	defer d.Close()

	d.Update("  ")

	require.Equal(t, []string{"  "}, rec.recorded(), "blank query delivers empty results synchronously")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestDebouncer_NewInputCancelsInFlight(t *testing.T) {
	started := make(chan string, 2)
	canceled := make(chan string, 2)
	rec := &resultRecorder{}

	d := NewDebouncer(DebouncerConfig{
		Suggester: suggesterFunc(func(ctx context.Context, query string, _ int) ([]place.Place, error) {
			started <- query
			if query == "slow" {
				<-ctx.Done()
				canceled <- query
				return nil, ctx.Err()
			}
			return []place.Place{place.FromName(query)}, nil
		}),
		Delay:     10 * time.Millisecond,
		OnResults: rec.record,
	})
	defer d.Close()

	d.Update("slow")
	require.Equal(t, "slow", <-started)

	d.Update("fast")
	require.Equal(t, "slow", <-canceled, "new input must cancel the in-flight lookup")
	require.Equal(t, "fast", <-started)

	waitFor(t, "fast result", func() bool { return len(rec.recorded()) > 0 })
	assert.Equal(t, []string{"fast"}, rec.recorded(), "canceled lookup must deliver nothing")
}

func TestDebouncer_ReportsErrors(t *testing.T) {
	errs := make(chan error, 1)

	d := NewDebouncer(DebouncerConfig{
		Suggester: suggesterFunc(func(context.Context, string, int) ([]place.Place, error) {
			return nil, context.DeadlineExceeded
		}),
		Delay:   10 * time.Millisecond,
		OnError: func(_ string, err error) { errs <- err },
	})
	defer d.Close()

	d.Update("北京")

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error delivery")
	}
}

func TestDebouncer_CloseStopsPendingWork(t *testing.T) {
	var calls atomic.Int32

	d := NewDebouncer(DebouncerConfig{
		Suggester: suggesterFunc(func(context.Context, string, int) ([]place.Place, error) {
			calls.Add(1)
			return nil, nil
		}),
		Delay: 20 * time.Millisecond,
	})

	d.Update("北京")
	d.Close()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load(), "closing cancels the pending timer")
}
