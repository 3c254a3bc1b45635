package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"abroads_reviews/internal/adapters/observability"
	"abroads_reviews/internal/domain"
)

// Canonical pagination defaults, applied when the caller passes zero or
// negative values.
const (
	DefaultPage    = 1
	DefaultPerPage = 7
)

// ClearCache only enumerates this fixed grid of keys; entries cached under
// other per_page values survive a clear until TTL expiry. Known limitation.
const clearMaxPage = 10

var clearPerPages = []int{7, 30}

// ReviewService aggregates reviews from all configured providers, paginates
// them newest-first and caches assembled pages. It never fails toward its
// caller on upstream outages: the worst case is a fallback-mode page.
type ReviewService struct {
	providers []domain.Provider
	cache     domain.Cache
	ttl       time.Duration
	workers   int64
	now       func() time.Time
}

func NewReviewService(providers []domain.Provider, cache domain.Cache, ttl time.Duration, workers int) *ReviewService {
	if workers <= 0 {
		workers = 4
	}
	return &ReviewService{
		providers: providers,
		cache:     cache,
		ttl:       ttl,
		workers:   int64(workers),
		now:       time.Now,
	}
}

// GetReviews returns one assembled page, from cache when possible. fetched_at
// is frozen at cache-write time, so reads within one TTL window are
// byte-identical. Fallback pages are never cached: an upstream recovery
// becomes visible on the next request.
func (s *ReviewService) GetReviews(ctx context.Context, page, perPage int) (domain.PageResponse, error) {
	if page <= 0 {
		page = DefaultPage
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	key := cacheKey(page, perPage)
	var cached domain.PageResponse
	if ok, err := s.cache.Get(ctx, key, &cached); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if ok {
		log.Info().Int("page", page).Int("per_page", perPage).Msg("reviews page served from cache")
		return cached, nil
	}

	merged := s.aggregate(ctx)
	if len(merged) == 0 {
		observability.FallbackServed.Inc()
		log.Warn().Msg("no provider returned reviews; serving fallback dataset")
		return s.fallbackPage(page, perPage), nil
	}

	now := s.now()
	slice, total, hasNext := paginate(merged, page, perPage)
	resp := domain.PageResponse{
		Reviews:      assembleViews(slice, now),
		Page:         page,
		PerPage:      perPage,
		TotalReviews: total,
		HasNext:      hasNext,
		SourcesUsed:  s.sourcesUsed(),
		FetchedAt:    now.Format(time.RFC3339),
	}
	if err := s.cache.Set(ctx, key, resp, int(s.ttl.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	log.Info().Int("page", page).Int("count", len(resp.Reviews)).Int("total", total).Msg("reviews page fetched and cached")
	return resp, nil
}

// ClearCache drops all keys in the fixed (page, per_page) grid.
func (s *ReviewService) ClearCache(ctx context.Context) error {
	var firstErr error
	for page := 1; page <= clearMaxPage; page++ {
		for _, perPage := range clearPerPages {
			if err := s.cache.Del(ctx, cacheKey(page, perPage)); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	log.Info().Msg("reviews cache cleared")
	return firstErr
}

func (s *ReviewService) fallbackPage(page, perPage int) domain.PageResponse {
	now := s.now()
	slice, total, hasNext := paginate(fallbackReviews(now), page, perPage)
	return domain.PageResponse{
		Reviews:      assembleViews(slice, now),
		Page:         page,
		PerPage:      perPage,
		TotalReviews: total,
		HasNext:      hasNext,
		SourcesUsed:  map[string]bool{string(domain.SourceFallback): true},
		FetchedAt:    now.Format(time.RFC3339),
		FallbackMode: true,
	}
}

// sourcesUsed reports which providers are configured, independent of whether
// they contributed to this particular page.
func (s *ReviewService) sourcesUsed() map[string]bool {
	out := make(map[string]bool, len(s.providers))
	for _, p := range s.providers {
		out[string(p.Name())] = p.Configured()
	}
	return out
}

// paginate sorts newest-first (ties broken by ID so one cycle is
// deterministic) and slices the 1-indexed window. Pages beyond the data
// yield an empty slice, not an error.
func paginate(rs []domain.Review, page, perPage int) ([]domain.Review, int, bool) {
	sorted := make([]domain.Review, len(rs))
	copy(sorted, rs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Timestamp != sorted[j].Timestamp {
			return sorted[i].Timestamp > sorted[j].Timestamp
		}
		return sorted[i].ID < sorted[j].ID
	})

	total := len(sorted)
	start := (page - 1) * perPage
	if start >= total {
		return nil, total, false
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return sorted[start:end], total, end < total
}

func assembleViews(rs []domain.Review, now time.Time) []domain.ReviewView {
	views := make([]domain.ReviewView, 0, len(rs))
	for _, r := range rs {
		views = append(views, domain.ReviewView{
			ReviewID:       r.ID,
			AuthorName:     r.Author,
			AuthorPhotoURL: r.PhotoURL,
			Rating:         r.Rating,
			Text:           r.Text,
			RelativeTime:   RelativeTime(r.Timestamp, now),
			Source:         string(r.Source),
		})
	}
	return views
}

func cacheKey(page, perPage int) string {
	return fmt.Sprintf("reviews:page:%d:%d", page, perPage)
}
