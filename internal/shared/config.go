package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	RedisAddr string
	RedisDB   int
	RedisPass string

	TripAdvisorBase string
	TripAdvisorKey  string
	TripAdvisorLoc  string

	GooglePlacesBase string
	GoogleKey        string
	GooglePlaceID    string

	ProviderRPS  int
	FetchWorkers int
	WarmPages    int
	CacheTTL     time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),

		RedisAddr: env("REDIS_ADDR", ""),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),

		TripAdvisorBase: env("TRIPADVISOR_BASE_URL", "https://api.content.tripadvisor.com/api/v1"),
		TripAdvisorKey:  env("TRIPADVISOR_API_KEY", ""),
		TripAdvisorLoc:  env("TRIPADVISOR_LOCATION_ID", "24938712"),

		GooglePlacesBase: env("GOOGLE_PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		GoogleKey:        env("GOOGLE_PLACES_API_KEY", ""),
		GooglePlaceID:    env("GOOGLE_PLACE_ID", ""),

		ProviderRPS:  atoi("PROVIDER_RPS", 5),
		FetchWorkers: atoi("FETCH_WORKERS", 4),
		WarmPages:    atoi("WARM_PAGES", 3),
		CacheTTL:     time.Duration(atoi("REVIEWS_CACHE_TTL_SECONDS", 21600)) * time.Second,
	}
	// Missing credentials disable a provider rather than failing startup.
	if c.TripAdvisorKey == "" {
		log.Warn().Msg("TRIPADVISOR_API_KEY is empty; TripAdvisor provider disabled")
	}
	if c.GoogleKey == "" || c.GooglePlaceID == "" {
		log.Warn().Msg("Google Places credentials incomplete; Google provider disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
