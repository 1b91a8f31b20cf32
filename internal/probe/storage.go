package probe

import (
	"context"

	"github.com/section3-pro/compliance-backend/config"
	"github.com/section3-pro/compliance-backend/types"
)

// BucketChecker verifies that the document bucket can be reached.
type BucketChecker interface {
	CheckBucket(ctx context.Context) error
}

// StorageProbe checks the document storage backend selected by STORAGE_PROVIDER.
type StorageProbe struct {
	Supabase BucketChecker
	S3       BucketChecker
	Clock    Clock
}

func NewStorageProbe(supabase, s3 BucketChecker) *StorageProbe {
	return &StorageProbe{Supabase: supabase, S3: s3}
}

func (p *StorageProbe) Kind() Kind { return KindStorage }

func (p *StorageProbe) Check(ctx context.Context, cfg *config.Config) types.ProbeResult {
	if !cfg.StorageConfigured() {
		return notConfigured("Document storage is not configured")
	}

	checker := p.Supabase
	if cfg.Storage.Provider == config.StorageProviderS3 {
		checker = p.S3
	}
	if checker == nil {
		return unhealthy(cfg.Storage.Provider+" storage client is not initialized", nil)
	}

	clock := clockOrReal(p.Clock)
	start := clock.Now()
	if err := checker.CheckBucket(ctx); err != nil {
		return unhealthy("storage bucket is not reachable", err).WithResponseTime(clock.Since(start))
	}
	return latencyResult(clock.Since(start), cfg.Health.StorageBudget(), "storage bucket reachable ("+cfg.Storage.Provider+")")
}
