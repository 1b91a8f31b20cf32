package config

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/section3-pro/compliance-backend/logger"
)

// ConfigurePostgresPool builds a pgxpool.Config from DATABASE_URL. Hosted
// Postgres endpoints (Supabase, Neon) get TLS enforced.
func ConfigurePostgresPool(cfg *DatabaseConfig) (*pgxpool.Config, error) {
	log := logger.GetLogger()

	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is not configured")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	host := poolConfig.ConnConfig.Host
	if isHostedPostgres(host) && poolConfig.ConnConfig.TLSConfig == nil {
		poolConfig.ConnConfig.TLSConfig = &tls.Config{
			ServerName: host,
			MinVersion: tls.VersionTLS12,
		}
	}

	connMaxLife, err := time.ParseDuration(cfg.ConnMaxLife)
	if err != nil {
		log.Warnw("Invalid connection max lifetime, using default 1h", "value", cfg.ConnMaxLife, "error", err)
		connMaxLife = time.Hour
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MaxConnLifetime = connMaxLife
	poolConfig.HealthCheckPeriod = 30 * time.Second
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second

	log.Infow("Configured database connection pool",
		"host", host,
		"database", poolConfig.ConnConfig.Database,
		"connection_string", logger.MaskConnectionString(cfg.URL),
		"max_conns", poolConfig.MaxConns,
		"max_conn_lifetime", connMaxLife.String())

	return poolConfig, nil
}

func isHostedPostgres(host string) bool {
	return strings.HasSuffix(host, ".supabase.co") ||
		strings.HasSuffix(host, ".supabase.com") ||
		strings.Contains(host, "neon.tech")
}

// ConfigureRedisOptions creates redis.Options for the KPI cache and the cache probe.
// Short timeouts keep a dead Redis from stalling a health aggregation.
func ConfigureRedisOptions(cfg *RedisConfig) *redis.Options {
	log := logger.GetLogger()

	opts := &redis.Options{
		Addr:            cfg.Address,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        3,
		MinIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		MaxRetries:      1,
		DialTimeout:     2 * time.Second,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
	}

	if cfg.UseTLS || strings.Contains(cfg.Address, "upstash.io") {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	log.Infow("Configuring Redis connection",
		"address", cfg.Address,
		"db", cfg.DB,
		"use_tls", opts.TLSConfig != nil)

	return opts
}
