package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/sla-service/internal/domain"
)

const keyPrefix = "sla:report:"

// SnapshotCache stores computed reports in Redis as JSON for a fixed TTL.
// A nil *SnapshotCache, or one without a client, always misses.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache returns nil when caching is disabled.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &SnapshotCache{client: client, ttl: ttl}
}

// Get decodes the cached value for key into dst. It reports false on a miss.
func (c *SnapshotCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key with the cache TTL.
func (c *SnapshotCache) Set(ctx context.Context, key string, value any) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// ReportKey identifies a report by kind, window, sector and the minute of the
// reference clock, so cached overdue counts never lag by more than the TTL.
func ReportKey(kind string, window domain.Window, sectorID *string, now time.Time) string {
	sector := "all"
	if sectorID != nil {
		sector = *sectorID
	}
	return fmt.Sprintf("%s%s:%d:%d:%s:%d", keyPrefix, kind,
		window.Start.Unix(), window.End.Unix(), sector, now.Truncate(time.Minute).Unix())
}
