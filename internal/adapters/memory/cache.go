// Package memory is an in-process TTL cache used when no Redis address is
// configured, and by tests that need a controllable clock. Values round-trip
// through JSON so cached payloads behave exactly like the Redis adapter's.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"abroads_reviews/internal/adapters/observability"
)

type entry struct {
	body      []byte
	expiresAt time.Time
}

type Cache struct {
	mu    sync.Mutex
	items map[string]entry
	now   func() time.Time
}

func New() *Cache {
	return NewWithClock(time.Now)
}

// NewWithClock lets tests drive expiry with a fake clock.
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{items: make(map[string]entry), now: now}
}

func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	e, ok := c.items[key]
	if ok && c.now().After(e.expiresAt) {
		delete(c.items, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		observability.ObserveCache("memory", "miss")
		return false, nil
	}
	observability.ObserveCache("memory", "hit")
	return true, json.Unmarshal(e.body, dst)
}

func (c *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache("memory", "set")
	c.mu.Lock()
	c.items[key] = entry{body: b, expiresAt: c.now().Add(time.Duration(ttlSec) * time.Second)}
	c.mu.Unlock()
	return nil
}

func (c *Cache) Del(ctx context.Context, key string) error {
	observability.ObserveCache("memory", "del")
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}
