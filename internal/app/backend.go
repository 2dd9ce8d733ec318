package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"pharmacy/internal/config"
	"pharmacy/internal/domain/invoice"
	"pharmacy/internal/infrastructure/cache"
	"pharmacy/internal/infrastructure/storage/memory"
	"pharmacy/internal/infrastructure/storage/postgres"
	"pharmacy/migrations"
	"pharmacy/pkg/logger"
)

// Backend is an opened storage backend.
type Backend struct {
	Repos Repositories

	// Name is "postgres" or "memory".
	Name string

	// Pool is nil for the memory backend.
	Pool *postgres.Pool

	closers []func()
}

// Close releases every resource the backend holds.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// Info reports backend details for the health endpoint.
func (b *Backend) Info() map[string]any {
	info := map[string]any{"storage": b.Name}
	if b.Pool != nil {
		info["pool"] = b.Pool.Stats()
	}
	return info
}

// OpenBackend opens PostgreSQL when DATABASE_URL is set, applying migrations
// when configured, and the in-memory store otherwise.
func OpenBackend(ctx context.Context, cfg config.Config) (*Backend, error) {
	if !cfg.UseDatabase() {
		logger.Warn(ctx, "DATABASE_URL not set, using in-memory storage")
		return &Backend{Name: "memory", Repos: MemoryRepositories(memory.New())}, nil
	}

	if cfg.MigrateOnStart {
		if err := migrations.Migrate(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		logger.Info(ctx, "database migrations applied")
	}

	pool, err := postgres.NewPool(ctx, postgres.PoolConfigFrom(cfg))
	if err != nil {
		return nil, err
	}

	opts := postgres.DefaultTxOptions()
	opts.StatementTimeout = cfg.DBStatementTimeout
	txm := postgres.NewTxManager(pool, opts)

	auditSvc, err := postgres.NewAuditService(txm)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init audit: %w", err)
	}

	return &Backend{
		Name:    "postgres",
		Repos:   PostgresRepositories(txm, auditSvc),
		Pool:    pool,
		closers: []func(){pool.Close},
	}, nil
}

// OpenCache connects the medicine cache when REDIS_ADDR is set. It returns
// nil when the cache is disabled.
func OpenCache(ctx context.Context, cfg config.Config) (*cache.MedicineCache, func(), error) {
	if !cfg.UseCache() {
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}

	closeFn := func() { _ = client.Close() }
	return cache.NewMedicineCache(client, cfg.StockCacheTTL), closeFn, nil
}

// InvalidateOnCommit drops cached medicines after every committed invoice
// mutation.
func InvalidateOnCommit(invoices *invoice.Service, c *cache.MedicineCache) {
	invoices.Hooks().OnAfterCommit(func(ctx context.Context, _ *invoice.Invoice) error {
		return c.Invalidate(ctx)
	})
}
