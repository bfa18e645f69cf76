// Package cache wraps go-cache for short lived client side state such as
// outstanding requests that should not be repeated.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is an instance of a key-value store with contents specific to
// each instance and are not shared between instances. Entries expire after
// the TTL given to New unless Put overrides it.
type Cache struct {
	cacheInstance *gocache.Cache
}

func New(ttl time.Duration) *Cache {
	return &Cache{cacheInstance: gocache.New(ttl, 10*time.Second)}
}

// Put sets a key/value pair in the cache with an optional duration. Passing 0 for
// ttl will cause the default expiration to be used and -1 will not set a ttl.
func (c *Cache) Put(key string, value interface{}, ttl time.Duration) {
	c.cacheInstance.Set(key, value, ttl)
}

// Get fetches a value from the cache, returning the value as well as whether
// or not the value was found (semantics similar to map).
func (c *Cache) Get(key string) (interface{}, bool) {
	return c.cacheInstance.Get(key)
}

// PutIfAbsent stores value under key with the default TTL unless an
// unexpired entry already exists. It reports whether value was stored.
func (c *Cache) PutIfAbsent(key string, value interface{}) bool {
	return c.cacheInstance.Add(key, value, gocache.DefaultExpiration) == nil
}

func (c *Cache) Delete(key string) {
	c.cacheInstance.Delete(key)
}

func (c *Cache) Flush() {
	c.cacheInstance.Flush()
}
