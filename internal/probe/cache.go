package probe

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/section3-pro/compliance-backend/config"
	"github.com/section3-pro/compliance-backend/types"
)

// CacheProbe pings the Redis instance backing the KPI cache.
type CacheProbe struct {
	Client redis.Cmdable
	Clock  Clock
}

func NewCacheProbe(client redis.Cmdable) *CacheProbe {
	return &CacheProbe{Client: client}
}

func (p *CacheProbe) Kind() Kind { return KindCache }

func (p *CacheProbe) Check(ctx context.Context, cfg *config.Config) types.ProbeResult {
	if cfg.Redis.Address == "" {
		return notConfigured("Redis is not configured; KPIs are read without caching")
	}
	if p.Client == nil {
		return unhealthy("redis client is not initialized", nil)
	}

	clock := clockOrReal(p.Clock)
	start := clock.Now()
	if err := p.Client.Ping(ctx).Err(); err != nil {
		return unhealthy("redis ping failed", err).WithResponseTime(clock.Since(start))
	}
	return latencyResult(clock.Since(start), cfg.Health.DatabaseBudget(), "redis reachable")
}
