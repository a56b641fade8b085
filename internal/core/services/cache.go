package services

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

type cacheEntry struct {
	vec        []float64
	insertedAt time.Time
}

// EmbeddingCache is a bounded least-recently-used cache of query
// embeddings keyed by exact query text. It has no expiry. Each call is
// atomic, so one cache may be shared by concurrent requests.
//
// Cached vectors are shared with callers and must not be modified.
type EmbeddingCache struct {
	entries *lru.Cache[string, cacheEntry]
	size    int
	now     func() time.Time
}

// NewEmbeddingCache creates a cache holding at most size entries.
// Non-positive sizes select domain.DefaultEmbeddingCacheSize.
func NewEmbeddingCache(size int) *EmbeddingCache {
	if size <= 0 {
		size = domain.DefaultEmbeddingCacheSize
	}
	// lru.New only fails for non-positive sizes.
	entries, _ := lru.New[string, cacheEntry](size)
	return &EmbeddingCache{
		entries: entries,
		size:    size,
		now:     time.Now,
	}
}

// Get returns the vector for key and promotes it to most recently used.
func (c *EmbeddingCache) Get(key string) ([]float64, bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	return entry.vec, true
}

// Put inserts or replaces key at the most recently used position,
// evicting the least recently used entry when the cache is full.
func (c *EmbeddingCache) Put(key string, vec []float64) {
	stored := make([]float64, len(vec))
	copy(stored, vec)
	c.entries.Add(key, cacheEntry{vec: stored, insertedAt: c.now()})
}

// InsertedAt reports when key was last stored, without promoting it.
func (c *EmbeddingCache) InsertedAt(key string) (time.Time, bool) {
	entry, ok := c.entries.Peek(key)
	if !ok {
		return time.Time{}, false
	}
	return entry.insertedAt, true
}

// Len returns the number of cached entries.
func (c *EmbeddingCache) Len() int {
	return c.entries.Len()
}

// Cap returns the maximum number of entries.
func (c *EmbeddingCache) Cap() int {
	return c.size
}

// Keys returns cached keys from least to most recently used.
func (c *EmbeddingCache) Keys() []string {
	return c.entries.Keys()
}

// Purge drops every entry.
func (c *EmbeddingCache) Purge() {
	c.entries.Purge()
}
