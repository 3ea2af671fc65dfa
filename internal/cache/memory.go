package cache

import (
	"encoding/json"
	"sync"

	"github.com/rohmanhakim/parks-explorer/pkg/failure"
)

// MemoryCache is an in-memory implementation of the Cache interface.
// It lives only for the duration of the session; dry runs and tests use it
// in place of FileCache.
type MemoryCache struct {
	mu    sync.RWMutex
	store Store
}

// NewMemoryCache creates a new in-memory cache instance.
// The cache is initialized empty and ready for use.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store: Store{},
	}
}

// NewMemoryCacheFrom wraps an existing store, e.g. one read with Load.
func NewMemoryCacheFrom(store Store) *MemoryCache {
	if store == nil {
		store = Store{}
	}
	return &MemoryCache{
		store: store,
	}
}

func (c *MemoryCache) Get(identity string) (json.RawMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.store.Get(identity)
}

// Put never fails.
func (c *MemoryCache) Put(identity string, payload json.RawMessage) failure.ClassifiedError {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Put(identity, payload)
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.store)
}

func (c *MemoryCache) Identities() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.store.Identities()
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = Store{}
}
