package session

import (
	"context"
	"sync"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
)

type memoryEntry struct {
	session   *Session
	expiresAt time.Time
}

// MemoryCache is an in-process Cache with per-entry expiry
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a MemoryCache whose entries live for ttl after each Put
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Put(ctx context.Context, s *Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[s.ID] = memoryEntry{session: s, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Get(ctx context.Context, id string) (*Session, error) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()

	if !ok || !c.now().Before(entry.expiresAt) {
		if ok {
			c.mu.Lock()
			delete(c.entries, id)
			c.mu.Unlock()
		}
		cacheLookups.WithLabelValues("memory", "miss").Inc()
		return nil, models.ErrSessionNotFound
	}
	cacheLookups.WithLabelValues("memory", "hit").Inc()
	return entry.session, nil
}

func (c *MemoryCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

// Sweep drops expired entries and returns how many were removed
func (c *MemoryCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for id, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
