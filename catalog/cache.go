package catalog

import (
	"sync"
	"time"
)

type cacheItem struct {
	expiresAt time.Time
	payload   interface{}
}

// Cache is a small TTL cache for catalog responses, injected into the Client
// so callers control its lifetime and TTL. Expired entries are dropped on
// access and by Purge.
type Cache struct {
	ttl   time.Duration
	mu    sync.Mutex
	items map[string]cacheItem
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:   ttl,
		items: make(map[string]cacheItem),
	}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return item.payload, true
}

func (c *Cache) Set(key string, payload interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheItem{
		expiresAt: time.Now().Add(c.ttl),
		payload:   payload,
	}
}

// Purge drops every expired entry. Called opportunistically by the client;
// there is no background goroutine to manage.
func (c *Cache) Purge() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, k)
		}
	}
}

// Len reports live entries, for tests.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
