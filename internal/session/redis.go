package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/mohamedkhairy/stock-analyst/internal/storage"
)

const keyPrefix = "session:"

// RedisCache stores sessions as JSON blobs with a TTL
type RedisCache struct {
	kv  storage.KVStore
	ttl time.Duration
}

// NewRedisCache creates a Cache backed by kv
func NewRedisCache(kv storage.KVStore, ttl time.Duration) *RedisCache {
	return &RedisCache{kv: kv, ttl: ttl}
}

func (c *RedisCache) Put(ctx context.Context, s *Session) error {
	if err := c.kv.Set(ctx, keyPrefix+s.ID, s, c.ttl); err != nil {
		return fmt.Errorf("failed to store session %s: %w", s.ID, err)
	}
	return nil
}

func (c *RedisCache) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	err := c.kv.GetJSON(ctx, keyPrefix+id, &s)
	if errors.Is(err, storage.ErrKeyNotFound) {
		cacheLookups.WithLabelValues("redis", "miss").Inc()
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	if s.Series == nil {
		s.Series = make(map[string]*models.PriceSeries)
	}
	cacheLookups.WithLabelValues("redis", "hit").Inc()
	return &s, nil
}

func (c *RedisCache) Delete(ctx context.Context, id string) error {
	return c.kv.Delete(ctx, keyPrefix+id)
}
