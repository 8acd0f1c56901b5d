package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/travel-timeline/internal/config"
	"github.com/pkordes/travel-timeline/internal/repo"
	"github.com/pkordes/travel-timeline/migrations"
)

// openStore connects the configured backend and returns it with a function
// that releases its connections.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (repo.Store, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		return openPostgres(ctx, cfg.DatabaseURL, logger)

	case config.BackendRedis:
		client, err := repo.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return repo.NewRedisStore(client, cfg.RedisKeyPrefix), func() { client.Close() }, nil

	case config.BackendMongo:
		client, err := repo.OpenMongo(ctx, cfg.MongoURL)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return repo.NewMongoStore(client.Database(cfg.MongoDatabase)), closeFn, nil

	default:
		logger.Warn("using in-memory storage; data is lost on restart")
		return repo.NewMemoryStore(), func() {}, nil
	}
}

// openPostgres opens a pool, applies pending migrations through a database/sql
// handle sharing that pool, and returns a PostgresStore.
func openPostgres(ctx context.Context, url string, logger *slog.Logger) (repo.Store, func(), error) {
	// New() does not open connections immediately; the ping does.
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	// goose needs database/sql; OpenDBFromPool shares the pgx pool.
	db := stdlib.OpenDBFromPool(pool)
	applied, err := migrations.Up(ctx, db)
	db.Close()
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("database migrations applied", "count", applied)

	return repo.NewPostgresStore(pool), pool.Close, nil
}
