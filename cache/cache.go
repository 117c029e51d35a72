// Package cache provides a small TTL cache for computed responses. Entries
// expire on their own; writers additionally clear related keys by prefix so
// readers never serve data staler than the last mutation.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultSize = 256

// Cache is a bounded LRU whose entries expire after a fixed TTL.
type Cache struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, interface{}]
}

// New creates a Cache expiring entries after ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{lru: expirable.NewLRU[string, interface{}](defaultSize, nil, ttl)}
}

// Get returns the live value for key, if any.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(key)
}

// Set stores value under key until the TTL elapses or a clear evicts it.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, value)
}

// Clear evicts every key starting with prefix. An empty prefix purges the
// whole cache.
func (c *Cache) Clear(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prefix == "" {
		c.lru.Purge()
		return
	}
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lru.Remove(key)
		}
	}
}
