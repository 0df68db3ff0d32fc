// Package cache stores generated scripts keyed by question so repeated
// questions skip the generation call.
package cache

import "sync"

// Cache is a concurrency-safe in-memory question → script store.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Get returns the cached script for a question, if any.
func (c *Cache) Get(question string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	script, ok := c.entries[question]
	return script, ok
}

// Set stores the script generated for a question.
func (c *Cache) Set(question, script string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[question] = script
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
}
