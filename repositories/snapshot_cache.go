package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"stem-orders/models"
)

const snapshotKey = "orders_snapshot"

// SnapshotCache holds the last full load of the order sheet for a bounded
// time. Cache failures are never fatal; they behave as a miss.
type SnapshotCache interface {
	Get(ctx context.Context) ([]models.OrderRecord, bool)
	Set(ctx context.Context, records []models.OrderRecord)
	Invalidate(ctx context.Context)
}

type MemorySnapshotCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	records []models.OrderRecord
	expires time.Time
}

func NewMemorySnapshotCache(ttl time.Duration) *MemorySnapshotCache {
	return &MemorySnapshotCache{ttl: ttl, now: time.Now}
}

func (c *MemorySnapshotCache) Get(ctx context.Context) ([]models.OrderRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.records == nil || !c.now().Before(c.expires) {
		return nil, false
	}
	return slices.Clone(c.records), true
}

func (c *MemorySnapshotCache) Set(ctx context.Context, records []models.OrderRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = slices.Clone(records)
	if c.records == nil {
		c.records = []models.OrderRecord{}
	}
	c.expires = c.now().Add(c.ttl)
}

func (c *MemorySnapshotCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = nil
	c.expires = time.Time{}
}

type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) *RedisSnapshotCache {
	return &RedisSnapshotCache{client: client, ttl: ttl}
}

func (c *RedisSnapshotCache) Get(ctx context.Context) ([]models.OrderRecord, bool) {
	cached, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("cache: failed to read order snapshot")
		}
		return nil, false
	}

	var records []models.OrderRecord
	if err := json.Unmarshal(cached, &records); err != nil {
		log.Warn().Err(err).Msg("cache: discarding unreadable order snapshot")
		return nil, false
	}
	return records, true
}

func (c *RedisSnapshotCache) Set(ctx context.Context, records []models.OrderRecord) {
	if records == nil {
		records = []models.OrderRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		log.Warn().Err(err).Msg("cache: failed to encode order snapshot")
		return
	}
	if err := c.client.Set(ctx, snapshotKey, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("cache: failed to store order snapshot")
	}
}

func (c *RedisSnapshotCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, snapshotKey).Err(); err != nil {
		log.Warn().Err(err).Msg("cache: failed to invalidate order snapshot")
	}
}
