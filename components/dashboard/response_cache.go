package dashboard

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ResponseCache memoizes decoded provider responses so repeated loads are cheap.
type ResponseCache interface {
	GetOrFetch(key string, fetch func() (any, error)) (any, error)
}

// TTLResponseCache is an in-memory TTL cache backed by go-cache.
type TTLResponseCache struct {
	ttl   time.Duration
	store *gocache.Cache
}

// NewResponseCache builds a cache with the provided TTL. A zero TTL disables caching.
func NewResponseCache(ttl time.Duration) *TTLResponseCache {
	cleanup := 2 * ttl
	if ttl <= 0 {
		cleanup = 0
	}
	return &TTLResponseCache{
		ttl:   ttl,
		store: gocache.New(ttl, cleanup),
	}
}

// GetOrFetch returns a cached entry or fetches/stores a new one. Errors are never cached.
func (c *TTLResponseCache) GetOrFetch(key string, fetch func() (any, error)) (any, error) {
	if c == nil || c.ttl <= 0 {
		return fetch()
	}
	if cached, ok := c.store.Get(key); ok {
		return cached, nil
	}
	value, err := fetch()
	if err != nil {
		return nil, err
	}
	c.store.Set(key, value, c.ttl)
	return value, nil
}

// Flush drops every entry.
func (c *TTLResponseCache) Flush() {
	if c == nil {
		return
	}
	c.store.Flush()
}

// Len reports the number of unexpired entries.
func (c *TTLResponseCache) Len() int {
	if c == nil {
		return 0
	}
	return c.store.ItemCount()
}

// requestKey returns a deterministic key for a URL and its query.
func requestKey(url string, query map[string]string) string {
	if len(query) == 0 {
		return url
	}
	b, err := json.Marshal(query)
	if err != nil {
		return url
	}
	sum := sha1.Sum(b)
	return url + "#" + hex.EncodeToString(sum[:])
}
