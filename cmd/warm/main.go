// warm pre-computes the most commonly requested review pages into the cache
// so the first visitors after a deploy or a cache clear never pay the
// provider round-trip.
package main

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"abroads_reviews/internal/adapters/google"
	"abroads_reviews/internal/adapters/observability"
	redisad "abroads_reviews/internal/adapters/redis"
	"abroads_reviews/internal/adapters/tripadvisor"
	"abroads_reviews/internal/app"
	"abroads_reviews/internal/domain"
	"abroads_reviews/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	if cfg.RedisAddr == "" {
		log.Fatal().Msg("REDIS_ADDR is required; warming an in-process cache is pointless")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	providers := []domain.Provider{
		tripadvisor.New(cfg.TripAdvisorBase, cfg.TripAdvisorKey, cfg.TripAdvisorLoc, cfg.ProviderRPS),
		google.New(cfg.GooglePlacesBase, cfg.GoogleKey, cfg.GooglePlaceID, cfg.ProviderRPS),
	}
	svc := app.NewReviewService(providers, cache, cfg.CacheTTL, cfg.FetchWorkers)

	log.Info().Int("pages", cfg.WarmPages).Msg("cache warm starting")

	type window struct{ page, perPage int }
	var windows []window
	for page := 1; page <= cfg.WarmPages; page++ {
		for _, perPage := range []int{7, 30} {
			windows = append(windows, window{page, perPage})
		}
	}

	sem := semaphore.NewWeighted(int64(cfg.FetchWorkers))
	var wg sync.WaitGroup

	for _, wnd := range windows {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(wnd window) {
			defer wg.Done()
			defer sem.Release(1)

			resp, err := svc.GetReviews(ctx, wnd.page, wnd.perPage)
			if err != nil {
				log.Warn().Int("page", wnd.page).Int("per_page", wnd.perPage).Err(err).Msg("warm failed")
				return
			}
			log.Info().
				Int("page", wnd.page).
				Int("per_page", wnd.perPage).
				Int("count", len(resp.Reviews)).
				Bool("fallback", resp.FallbackMode).
				Msg("page warmed")
		}(wnd)
	}

	wg.Wait()
	log.Info().Msg("cache warm completed")
}
