package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"abroads_reviews/internal/app"
	"abroads_reviews/internal/domain"
)

// ---- fakes ----

type fakeProvider struct {
	name       domain.Source
	configured bool
	recs       []map[string]any
	err        error
	calls      int32
}

func (f *fakeProvider) Name() domain.Source { return f.name }
func (f *fakeProvider) Configured() bool    { return f.configured }
func (f *fakeProvider) Fetch(ctx context.Context) ([]map[string]any, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.recs, f.err
}

// fakeCache round-trips values through JSON, like the real adapters, so
// byte-identity assertions are meaningful.
type fakeCache struct{ store map[string][]byte }

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

// grec builds a Google-shaped raw record; the fake providers reuse the real
// per-provider normalizers by carrying a real source name.
func grec(ts int64, text string) map[string]any {
	return map[string]any{
		"author_name":       fmt.Sprintf("Reviewer %d", ts),
		"profile_photo_url": "",
		"rating":            float64(5),
		"text":              text,
		"time":              float64(ts),
		"language":          "en",
	}
}

func googleProvider(recs ...map[string]any) *fakeProvider {
	return &fakeProvider{name: domain.SourceGoogle, configured: true, recs: recs}
}

func newService(cache domain.Cache, ps ...domain.Provider) *app.ReviewService {
	return app.NewReviewService(ps, cache, 6*time.Hour, 4)
}

// ---- tests ----

func TestGetReviews_SortedDescending(t *testing.T) {
	base := time.Now().Unix()
	p := googleProvider(
		grec(base-500, "middle"),
		grec(base-10, "newest"),
		grec(base-9000, "oldest"),
	)
	svc := newService(newFakeCache(), p)

	resp, err := svc.GetReviews(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if resp.FallbackMode {
		t.Fatal("unexpected fallback mode")
	}
	if len(resp.Reviews) != 3 || resp.TotalReviews != 3 {
		t.Fatalf("unexpected page: %+v", resp)
	}
	want := []string{"newest", "middle", "oldest"}
	for i, w := range want {
		if resp.Reviews[i].Text != w {
			t.Fatalf("position %d: got %q want %q", i, resp.Reviews[i].Text, w)
		}
	}
}

func TestGetReviews_PaginationCoverage(t *testing.T) {
	base := time.Now().Unix()
	var recs []map[string]any
	for i := 0; i < 7; i++ {
		recs = append(recs, grec(base-int64(i*100), fmt.Sprintf("review %d", i)))
	}
	cache := newFakeCache()
	svc := newService(cache, googleProvider(recs...))

	seen := map[string]bool{}
	var all []string
	for page := 1; page <= 3; page++ {
		resp, err := svc.GetReviews(context.Background(), page, 3)
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if resp.TotalReviews != 7 {
			t.Fatalf("page %d: total %d", page, resp.TotalReviews)
		}
		wantNext := page < 3
		if resp.HasNext != wantNext {
			t.Fatalf("page %d: has_next %v, want %v", page, resp.HasNext, wantNext)
		}
		for _, rv := range resp.Reviews {
			if seen[rv.ReviewID] {
				t.Fatalf("duplicate review %s across pages", rv.ReviewID)
			}
			seen[rv.ReviewID] = true
			all = append(all, rv.Text)
		}
	}
	if len(all) != 7 {
		t.Fatalf("concatenated pages hold %d reviews, want 7", len(all))
	}
	for i, text := range all {
		if want := fmt.Sprintf("review %d", i); text != want {
			t.Fatalf("position %d: got %q want %q", i, text, want)
		}
	}
}

func TestGetReviews_OutOfRangePage(t *testing.T) {
	svc := newService(newFakeCache(), googleProvider(grec(time.Now().Unix(), "only one")))

	resp, err := svc.GetReviews(context.Background(), 99, 7)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(resp.Reviews) != 0 || resp.HasNext || resp.TotalReviews != 1 {
		t.Fatalf("unexpected page: %+v", resp)
	}
}

func TestGetReviews_Defaults(t *testing.T) {
	svc := newService(newFakeCache(), googleProvider(grec(time.Now().Unix(), "hello")))

	resp, err := svc.GetReviews(context.Background(), 0, -3)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if resp.Page != app.DefaultPage || resp.PerPage != app.DefaultPerPage {
		t.Fatalf("defaults not applied: page=%d per_page=%d", resp.Page, resp.PerPage)
	}
}

func TestGetReviews_CacheIdempotence(t *testing.T) {
	p := googleProvider(grec(time.Now().Unix()-100, "cached content"))
	cache := newFakeCache()
	svc := newService(cache, p)

	first, err := svc.GetReviews(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	// Mutate the provider: a cache hit must not re-fetch.
	p.recs = []map[string]any{grec(time.Now().Unix(), "SHOULD NOT SEE THIS")}

	second, err := svc.GetReviews(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	b1, _ := json.Marshal(first)
	b2, _ := json.Marshal(second)
	if string(b1) != string(b2) {
		t.Fatalf("cached response differs:\n%s\n%s", b1, b2)
	}
	if got := atomic.LoadInt32(&p.calls); got != 1 {
		t.Fatalf("provider fetched %d times, want 1", got)
	}
}

func TestGetReviews_FallbackTrigger(t *testing.T) {
	failing := &fakeProvider{name: domain.SourceTripAdvisor, configured: true, err: fmt.Errorf("boom")}
	unconfigured := &fakeProvider{name: domain.SourceGoogle}
	svc := newService(newFakeCache(), failing, unconfigured)

	resp, err := svc.GetReviews(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !resp.FallbackMode {
		t.Fatal("expected fallback mode")
	}
	if len(resp.Reviews) != 5 || resp.TotalReviews != 5 || resp.HasNext {
		t.Fatalf("unexpected fallback page: %+v", resp)
	}
	if len(resp.SourcesUsed) != 1 || !resp.SourcesUsed["fallback"] {
		t.Fatalf("sources_used: %v", resp.SourcesUsed)
	}
	for i, rv := range resp.Reviews {
		if rv.Source != "fallback" || rv.Text == "" {
			t.Fatalf("review %d: %+v", i, rv)
		}
	}
	if got := atomic.LoadInt32(&unconfigured.calls); got != 0 {
		t.Fatalf("unconfigured provider was fetched %d times", got)
	}
}

func TestGetReviews_FallbackNotCached(t *testing.T) {
	p := &fakeProvider{name: domain.SourceGoogle, configured: true, err: fmt.Errorf("outage")}
	svc := newService(newFakeCache(), p)

	resp, _ := svc.GetReviews(context.Background(), 1, 7)
	if !resp.FallbackMode {
		t.Fatal("expected fallback mode")
	}

	// Upstream recovers; the next request must see real data immediately.
	p.err = nil
	p.recs = []map[string]any{grec(time.Now().Unix(), "back online")}

	resp2, _ := svc.GetReviews(context.Background(), 1, 7)
	if resp2.FallbackMode {
		t.Fatal("fallback page was cached")
	}
	if len(resp2.Reviews) != 1 || resp2.Reviews[0].Text != "back online" {
		t.Fatalf("unexpected page after recovery: %+v", resp2)
	}
}

func TestGetReviews_ProviderFailureIsolation(t *testing.T) {
	failing := &fakeProvider{name: domain.SourceTripAdvisor, configured: true, err: fmt.Errorf("timeout")}
	healthy := googleProvider(grec(time.Now().Unix(), "still here"))
	svc := newService(newFakeCache(), failing, healthy)

	resp, err := svc.GetReviews(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if resp.FallbackMode {
		t.Fatal("one healthy provider should prevent fallback")
	}
	if len(resp.Reviews) != 1 || resp.Reviews[0].Text != "still here" {
		t.Fatalf("unexpected page: %+v", resp)
	}
	// sources_used reflects configuration, not per-page contribution
	if !resp.SourcesUsed["tripadvisor"] || !resp.SourcesUsed["google"] {
		t.Fatalf("sources_used: %v", resp.SourcesUsed)
	}
}

func TestClearCache_Grid(t *testing.T) {
	p := googleProvider(grec(time.Now().Unix(), "content"))
	cache := newFakeCache()
	svc := newService(cache, p)

	// (1,7) is inside the clear grid, (1,9) is not
	_, _ = svc.GetReviews(context.Background(), 1, 7)
	_, _ = svc.GetReviews(context.Background(), 1, 9)
	if got := atomic.LoadInt32(&p.calls); got != 2 {
		t.Fatalf("setup fetches: %d", got)
	}

	if err := svc.ClearCache(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}

	_, _ = svc.GetReviews(context.Background(), 1, 7) // miss: recomputed
	_, _ = svc.GetReviews(context.Background(), 1, 9) // survived the clear
	if got := atomic.LoadInt32(&p.calls); got != 3 {
		t.Fatalf("fetches after clear: got %d want 3", got)
	}
}
