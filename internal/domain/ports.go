package domain

import "context"

// Provider is one upstream review source. Fetch returns the provider's raw
// records; errors are reported so the aggregator can log them, but a failing
// provider never fails the aggregation as a whole. An unconfigured provider
// returns (nil, nil) without touching the network.
type Provider interface {
	Name() Source
	Configured() bool
	Fetch(ctx context.Context) ([]map[string]any, error)
}

// Cache is a generic TTL key-value store for assembled page payloads. It has
// no knowledge of providers or reviews.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// ReviewView is the wire shape of a single review. Field names are part of
// the compatibility contract with the presentation layer.
type ReviewView struct {
	ReviewID       string `json:"review_id"`
	AuthorName     string `json:"author_name"`
	AuthorPhotoURL string `json:"author_photo_url"`
	Rating         int    `json:"rating"`
	Text           string `json:"text"`
	RelativeTime   string `json:"relative_time_description"`
	Source         string `json:"source"`
}

// PageResponse is the assembled, externally visible page payload. This is
// what gets cached; fetched_at is frozen at cache-write time, so reads within
// one TTL window are byte-identical.
type PageResponse struct {
	Reviews      []ReviewView    `json:"reviews"`
	Page         int             `json:"page"`
	PerPage      int             `json:"per_page"`
	TotalReviews int             `json:"total_reviews"`
	HasNext      bool            `json:"has_next"`
	SourcesUsed  map[string]bool `json:"sources_used"`
	FetchedAt    string          `json:"fetched_at"`
	FallbackMode bool            `json:"fallback_mode,omitempty"`
}
