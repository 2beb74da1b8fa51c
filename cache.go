package deconj

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultCacheSize is the entry bound used by NewDefault.
const DefaultCacheSize = 4096

// Cache memoizes Deconjugate results by raw input text. It holds at most
// size entries, evicting the least recently used, and drops entries older
// than ttl when ttl is positive. It is safe for concurrent use; two
// concurrent misses on the same text both compute and the later Add wins.
type Cache struct {
	lru *expirable.LRU[string, []Form]
}

// NewCache returns a cache bounded to size entries (DefaultCacheSize if
// size is not positive). A ttl of zero disables expiry.
func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{lru: expirable.NewLRU[string, []Form](size, nil, ttl)}
}

// Get returns the cached result for text.
func (c *Cache) Get(text string) ([]Form, bool) {
	return c.lru.Get(text)
}

// Add stores forms for text.
func (c *Cache) Add(text string, forms []Form) {
	c.lru.Add(text, forms)
}

// Len returns the number of cached inputs.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Purge empties the cache.
func (c *Cache) Purge() {
	c.lru.Purge()
}
