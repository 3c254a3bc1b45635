package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"abroads_reviews/internal/adapters/google"
	server "abroads_reviews/internal/adapters/http_server"
	"abroads_reviews/internal/adapters/memory"
	"abroads_reviews/internal/adapters/observability"
	redisad "abroads_reviews/internal/adapters/redis"
	"abroads_reviews/internal/adapters/tripadvisor"
	"abroads_reviews/internal/app"
	"abroads_reviews/internal/domain"
	"abroads_reviews/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// cache: Redis when configured, in-process otherwise
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis page cache")
	} else {
		cache = memory.New()
		log.Info().Msg("using in-process page cache")
	}

	providers := []domain.Provider{
		tripadvisor.New(cfg.TripAdvisorBase, cfg.TripAdvisorKey, cfg.TripAdvisorLoc, cfg.ProviderRPS),
		google.New(cfg.GooglePlacesBase, cfg.GoogleKey, cfg.GooglePlaceID, cfg.ProviderRPS),
	}
	svc := app.NewReviewService(providers, cache, cfg.CacheTTL, cfg.FetchWorkers)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{S: svc})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
