package catalog

import (
	"os"
	"sync"
	"time"
)

// Cache memoizes parsed catalogs by category id. An entry is reused only while
// the source file keeps the same modification time and size, so a cached
// document is never staler than the file on disk. Documents returned from the
// cache are shared and must be treated as read-only.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	modTime time.Time
	size    int64
	doc     Document
}

// NewCache creates an empty catalog cache
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Load returns the parsed catalog at path for category id and whether it was
// served from the cache. stats is non-nil only when the file was parsed by
// this call. A missing or unreadable file evicts the entry and yields an
// empty document.
func (c *Cache) Load(id, path string) (doc Document, stats *Stats, hit bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.Invalidate(id)
		return Empty(), nil, false
	}

	c.mu.Lock()
	entry, ok := c.entries[id]
	c.mu.Unlock()
	if ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		return entry.doc, nil, true
	}

	content, err := os.ReadFile(path)
	if err != nil {
		c.Invalidate(id)
		return Empty(), nil, false
	}
	p := NewParser()
	doc = p.Parse(content)
	parsed := p.Stats()

	c.mu.Lock()
	c.entries[id] = cacheEntry{modTime: info.ModTime(), size: info.Size(), doc: doc}
	c.mu.Unlock()

	return doc, &parsed, false
}

// Invalidate drops the entry for id.
func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

// Len returns the number of cached catalogs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
