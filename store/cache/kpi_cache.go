// Package cache holds Redis-backed caches.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/section3-pro/compliance-backend/store"
	"github.com/section3-pro/compliance-backend/types"
)

const (
	kpiCacheKey = "section3:dashboard:kpis"

	// DefaultKPITTL is how long computed dashboard KPIs are served from cache.
	DefaultKPITTL = 5 * time.Minute
)

var _ store.KPICache = (*redisKPICache)(nil)

type redisKPICache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisKPICache creates a KPI cache. A non-positive ttl uses DefaultKPITTL.
func NewRedisKPICache(client redis.Cmdable, ttl time.Duration) store.KPICache {
	if ttl <= 0 {
		ttl = DefaultKPITTL
	}
	return &redisKPICache{client: client, ttl: ttl}
}

func (c *redisKPICache) Get(ctx context.Context) (*types.ComplianceKPIs, error) {
	data, err := c.client.Get(ctx, kpiCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached KPIs: %w", err)
	}

	var kpis types.ComplianceKPIs
	if err := json.Unmarshal(data, &kpis); err != nil {
		return nil, fmt.Errorf("%w: undecodable entry: %v", store.ErrCacheMiss, err)
	}
	return &kpis, nil
}

func (c *redisKPICache) Set(ctx context.Context, kpis *types.ComplianceKPIs) error {
	data, err := json.Marshal(kpis)
	if err != nil {
		return fmt.Errorf("failed to encode KPIs: %w", err)
	}
	if err := c.client.Set(ctx, kpiCacheKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache KPIs: %w", err)
	}
	return nil
}
