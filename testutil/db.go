// Package testutil holds helpers for the storage integration tests.
//
// Every backend is opt-in: a helper skips the calling test unless its
// TEST_*_URL variable is set, so `go test ./...` passes without any servers.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/travel-timeline/migrations"
)

// Environment variables naming the integration test servers.
const (
	DatabaseURLEnv = "TEST_DATABASE_URL"
	RedisURLEnv    = "TEST_REDIS_URL"
	MongoURLEnv    = "TEST_MONGO_URL"
)

// NewPool returns a pgx pool on TEST_DATABASE_URL, closed at cleanup.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := openPool(context.Background(), requireEnv(t, DatabaseURLEnv))
	if err != nil {
		t.Fatalf("testutil.NewPool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB returns a *sql.DB over a pgx pool on TEST_DATABASE_URL, for code
// that speaks database/sql such as goose.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db := stdlib.OpenDBFromPool(NewPool(t))
	t.Cleanup(func() { db.Close() })
	return db
}

// MigrateFromEnv applies every pending migration to TEST_DATABASE_URL.
// It is meant for TestMain, where no *testing.T exists; it does nothing when
// the variable is unset.
func MigrateFromEnv(ctx context.Context) error {
	dsn := os.Getenv(DatabaseURLEnv)
	if dsn == "" {
		return nil
	}

	pool, err := openPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if _, err := migrations.Up(ctx, db); err != nil {
		return fmt.Errorf("testutil.MigrateFromEnv: %w", err)
	}
	return nil
}

func openPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// requireEnv returns the named variable or skips the test.
func requireEnv(t *testing.T, name string) string {
	t.Helper()
	v := os.Getenv(name)
	if v == "" {
		t.Skipf("%s not set; skipping integration test", name)
	}
	return v
}
