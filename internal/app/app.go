// Package app wires configuration into clients, probes and services. The
// HTTP server and the preflight CLI share it.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/section3-pro/compliance-backend/config"
	"github.com/section3-pro/compliance-backend/db"
	"github.com/section3-pro/compliance-backend/db/dbutils"
	"github.com/section3-pro/compliance-backend/internal/probe"
	"github.com/section3-pro/compliance-backend/logger"
	"github.com/section3-pro/compliance-backend/services"
	"github.com/section3-pro/compliance-backend/store"
	"github.com/section3-pro/compliance-backend/store/cache"
	"github.com/section3-pro/compliance-backend/store/objectstore"
	"github.com/section3-pro/compliance-backend/store/postgres"
	"github.com/section3-pro/compliance-backend/store/supabase"
	"go.uber.org/zap"
)

// Options tune how New builds the application.
type Options struct {
	// Registerer receives the probe metrics. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	// Migrate runs the embedded migrations when DATABASE_AUTO_MIGRATE is set.
	Migrate bool
}

// App holds the services built from one configuration snapshot.
type App struct {
	Config     *config.Config
	Health     *services.HealthService
	Deployment *services.DeploymentService
	Dashboard  *services.DashboardService

	closers []func()
	log     *zap.SugaredLogger
}

// New connects nothing eagerly: pools and clients dial on first use, so a
// missing dependency shows up in the health report instead of failing startup.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	a := &App{Config: cfg, log: logger.GetLogger()}
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}

	var (
		pgPinger, sbPinger probe.Pinger
		sbBucket, s3Bucket probe.BucketChecker
		redisClient        redis.Cmdable
		kpiStore           store.KPIStore
		kpiCache           store.KPICache
	)

	if cfg.Database.URL != "" {
		pool, err := a.openPostgres(ctx, opts.Migrate)
		if err != nil {
			a.Close()
			return nil, err
		}
		pgPinger = postgres.NewPinger(pool)
		kpiStore = postgres.NewPgKPIStore(pool, time.Duration(cfg.Database.QueryTimeout)*time.Second)
	}

	if cfg.SupabaseConfigured() {
		key := cfg.Supabase.ServiceKey
		if key == "" {
			key = cfg.Supabase.AnonKey
		}
		client, err := supabase.NewClient(cfg.Supabase.URL, key)
		if err != nil {
			// The database probe reports an uninitialized client.
			a.log.Warnw("Supabase client unavailable", "error", err)
		} else {
			sbPinger = supabase.NewTablePinger(client, cfg.Supabase.HealthTable)
			if cfg.Supabase.ServiceKey != "" {
				sbBucket = supabase.NewBucketChecker(client, cfg.Storage.Bucket)
			}
			if kpiStore == nil {
				kpiStore = supabase.NewKPIStore(client)
			}
		}
	}

	if cfg.Storage.Provider == config.StorageProviderS3 && cfg.StorageConfigured() {
		client, err := objectstore.NewS3Client(ctx, cfg.Storage)
		if err != nil {
			a.log.Warnw("S3 client unavailable", "error", err)
		} else {
			s3Bucket = objectstore.NewBucket(client, cfg.Storage.Bucket)
		}
	}

	if cfg.Redis.Address != "" {
		client := redis.NewClient(config.ConfigureRedisOptions(&cfg.Redis))
		a.closers = append(a.closers, func() { _ = client.Close() })
		redisClient = client
		kpiCache = cache.NewRedisKPICache(client, cache.DefaultKPITTL)
	}

	httpClient := &http.Client{Timeout: cfg.Health.Timeout()}

	probes := []probe.Probe{
		probe.NewDatabaseProbe(pgPinger, sbPinger),
		probe.NewAIProbe(httpClient),
		probe.NewEmailProbe(httpClient),
		probe.NewStorageProbe(sbBucket, s3Bucket),
		probe.NewSecurityProbe(),
	}
	// Redis is optional, so an absent cache does not degrade the aggregate.
	if redisClient != nil {
		probes = append(probes, probe.NewCacheProbe(redisClient))
	}
	a.Health = services.NewHealthServiceWithRegistry(cfg, opts.Registerer, cfg.Server.Version, probes...)
	a.Deployment = services.NewDeploymentService(cfg)
	a.Dashboard = services.NewDashboardService(kpiStore, kpiCache)

	return a, nil
}

func (a *App) openPostgres(ctx context.Context, migrate bool) (*pgxpool.Pool, error) {
	cfg := a.Config

	if migrate && cfg.Database.AutoMigrate {
		if err := db.RunMigrations(cfg.Database.URL); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	poolConfig, err := config.ConfigurePostgresPool(&cfg.Database)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	a.closers = append(a.closers, pool.Close)

	if migrate {
		checkCtx, cancel := context.WithTimeout(ctx, cfg.Health.Timeout())
		defer cancel()
		missing, err := dbutils.MissingTables(checkCtx, pool, db.KPITables)
		switch {
		case err != nil:
			a.log.Warnw("Could not verify KPI schema", "error", err)
		case len(missing) > 0:
			a.log.Warnw("KPI tables are missing; run migrations", "missing", missing)
		}
	}
	return pool, nil
}

// Close releases pools and clients in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
