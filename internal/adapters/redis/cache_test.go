package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "abroads_reviews/internal/adapters/redis"
	"abroads_reviews/internal/domain"
)

func TestCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	in := domain.PageResponse{
		Reviews: []domain.ReviewView{{
			ReviewID: "ta_1", AuthorName: "Anna", Rating: 5,
			Text: "great", RelativeTime: "2 days ago", Source: "tripadvisor",
		}},
		Page: 1, PerPage: 7, TotalReviews: 1,
		SourcesUsed: map[string]bool{"tripadvisor": true, "google": false},
		FetchedAt:   "2025-06-15T12:00:00Z",
	}

	var miss domain.PageResponse
	if ok, err := c.Get(ctx, "reviews:page:1:7", &miss); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "reviews:page:1:7", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out domain.PageResponse
	ok, err := c.Get(ctx, "reviews:page:1:7", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out.TotalReviews != 1 || len(out.Reviews) != 1 || out.Reviews[0].ReviewID != "ta_1" {
		t.Fatalf("unexpected value: %+v", out)
	}
	if !out.SourcesUsed["tripadvisor"] || out.SourcesUsed["google"] {
		t.Fatalf("sources_used: %v", out.SourcesUsed)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "k", map[string]int{"n": 1}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(61 * time.Second)

	var out map[string]int
	if ok, err := c.Get(ctx, "k", &out); err != nil || ok {
		t.Fatalf("expected expiry, got ok=%v err=%v", ok, err)
	}
}

func TestCache_Del(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "k", 1, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	var out int
	if ok, _ := c.Get(ctx, "k", &out); ok {
		t.Fatal("expected deleted key to miss")
	}
}
