package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"abroads_reviews/internal/adapters/observability"
	"abroads_reviews/internal/domain"
)

// aggregate fans out over all configured providers and merges their
// normalized reviews. One provider failing (or returning nothing) never
// blocks the others; an all-empty result is the fallback trigger, not an
// error. Order of the merged set is unspecified.
func (s *ReviewService) aggregate(ctx context.Context) []domain.Review {
	sem := semaphore.NewWeighted(s.workers)

	var (
		mu     sync.Mutex
		merged []domain.Review
		wg     sync.WaitGroup
	)
	for _, p := range s.providers {
		if !p.Configured() {
			log.Debug().Str("provider", string(p.Name())).Msg("provider not configured; skipping")
			continue
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("aggregation interrupted")
			break
		}

		wg.Add(1)
		go func(p domain.Provider) {
			defer wg.Done()
			defer sem.Release(1)

			raw, err := p.Fetch(ctx)
			if err != nil {
				// recovered here: a failed provider contributes zero records
				log.Error().Err(err).Str("provider", string(p.Name())).Msg("provider fetch failed")
				return
			}

			var batch []domain.Review
			for _, rec := range raw {
				if r := Normalize(rec, p.Name()); r != nil {
					batch = append(batch, *r)
				}
			}
			observability.ProviderReviews.WithLabelValues(string(p.Name())).Add(float64(len(batch)))
			log.Info().Str("provider", string(p.Name())).Int("raw", len(raw)).Int("normalized", len(batch)).Msg("provider fetch done")

			mu.Lock()
			merged = append(merged, batch...)
			mu.Unlock()
		}(p)
	}
	wg.Wait()
	return merged
}
