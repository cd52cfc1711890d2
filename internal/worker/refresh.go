package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/skycastlabs/skycast/internal/place"
	"github.com/skycastlabs/skycast/internal/weather"
)

// RefreshJob keeps the weather cache warm: it fetches a fresh forecast for
// every stored place and writes the payload through to the cache store.
type RefreshJob struct {
	config   RefreshConfig
	logger   zerolog.Logger
	provider weather.Provider

	// Places supplies the tracked place list. Optional; when nil or empty
	// the configured fallback places are refreshed instead.
	places place.Repository

	// Cache receives refreshed payloads. Optional.
	cache weather.Store

	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns         int64
	SuccessfulRefresh int64
	FailedRefreshes   int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config   RefreshConfig
	Logger   zerolog.Logger
	Provider weather.Provider
	Places   place.Repository
	Cache    weather.Store
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	config := cfg.Config
	if len(config.FallbackPlaces) == 0 {
		config.FallbackPlaces = DefaultRefreshPlaces()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &RefreshJob{
		config:   config,
		logger:   cfg.Logger,
		provider: cfg.Provider,
		places:   cfg.Places,
		cache:    cfg.Cache,
		metrics:  &RefreshMetrics{},
	}
}

// RefreshResult contains the result of a refresh run.
type RefreshResult struct {
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	TotalPlaces int
	Successful  int
	Failed      int
	Errors      []RefreshError
}

// RefreshError represents an error during refresh.
type RefreshError struct {
	Provider string
	PlaceID  string
	Error    string
}

// Run executes the refresh job for every target place.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	startTime := time.Now()
	targets := j.targetPlaces(ctx)
	result := &RefreshResult{
		StartTime:   startTime,
		TotalPlaces: len(targets),
	}

	j.logger.Info().
		Int("total_places", result.TotalPlaces).
		Int("concurrency", j.config.Concurrency).
		Msg("starting cache refresh job")

	placesChan := make(chan place.Place, len(targets))
	resultsChan := make(chan placeResult, len(targets))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.refreshWorker(ctx, placesChan, resultsChan)
		}()
	}

	for _, p := range targets {
		placesChan <- p
	}
	close(placesChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for pr := range resultsChan {
		if pr.err == nil {
			result.Successful++
		} else {
			result.Failed++
			result.Errors = append(result.Errors, RefreshError{
				Provider: j.provider.Name(),
				PlaceID:  pr.placeID,
				Error:    pr.err.Error(),
			})
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("cache refresh job completed")

	return result
}

// targetPlaces returns the stored place list, or the configured fallback when
// the store is empty or unavailable.
func (j *RefreshJob) targetPlaces(ctx context.Context) []place.Place {
	if j.places == nil {
		return j.config.FallbackPlaces
	}

	stored, err := j.places.LoadPlaces(ctx)
	if err != nil {
		j.logger.Warn().Err(err).Msg("failed to load place list, using fallback places")
		return j.config.FallbackPlaces
	}
	if len(stored) == 0 {
		return j.config.FallbackPlaces
	}
	return stored
}

type placeResult struct {
	placeID string
	err     error
}

func (j *RefreshJob) refreshWorker(ctx context.Context, places <-chan place.Place, results chan<- placeResult) {
	for p := range places {
		select {
		case <-ctx.Done():
			return
		default:
			results <- placeResult{placeID: p.ID, err: j.refreshPlace(ctx, p)}
		}
	}
}

func (j *RefreshJob) refreshPlace(ctx context.Context, p place.Place) error {
	placeCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	payload, err := j.provider.Fetch(placeCtx, p)
	if err != nil {
		j.logger.Warn().
			Err(err).
			Str("place_id", p.ID).
			Str("place", p.Name).
			Msg("refresh fetch failed")
		return err
	}

	if j.cache != nil {
		j.cache.Save(placeCtx, p.ID, *payload)
	}
	return nil
}

func (j *RefreshJob) updateMetrics(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulRefresh += int64(result.Successful)
	j.metrics.FailedRefreshes += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRuns:         j.metrics.TotalRuns,
		SuccessfulRefresh: j.metrics.SuccessfulRefresh,
		FailedRefreshes:   j.metrics.FailedRefreshes,
		LastRunAt:         j.metrics.LastRunAt,
		LastRunDuration:   j.metrics.LastRunDuration,
		TotalDuration:     j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *RefreshJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":           m.TotalRuns,
		"successful_refreshes": m.SuccessfulRefresh,
		"failed_refreshes":     m.FailedRefreshes,
		"last_run_at":          m.LastRunAt,
		"last_run_duration":    m.LastRunDuration.String(),
		"total_duration":       m.TotalDuration.String(),
	}
}
