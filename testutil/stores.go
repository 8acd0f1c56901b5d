package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewRedisClient returns a client for TEST_REDIS_URL, skipping the test when
// the variable is unset. Tests should namespace keys with UniquePrefix rather
// than flushing the database.
func NewRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	opts, err := redis.ParseURL(requireEnv(t, RedisURLEnv))
	if err != nil {
		t.Fatalf("testutil.NewRedisClient: parse url: %v", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Fatalf("testutil.NewRedisClient: ping: %v", err)
	}

	t.Cleanup(func() { client.Close() })
	return client
}

// NewMongoDatabase returns a freshly named database on TEST_MONGO_URL that is
// dropped when the test finishes. The test is skipped when the variable is
// unset.
func NewMongoDatabase(t *testing.T) *mongo.Database {
	t.Helper()

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(requireEnv(t, MongoURLEnv)))
	if err != nil {
		t.Fatalf("testutil.NewMongoDatabase: connect: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		t.Fatalf("testutil.NewMongoDatabase: ping: %v", err)
	}

	db := client.Database(UniquePrefix("tt_test"))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

// UniquePrefix returns base followed by a random suffix, for isolating tests
// that share a server.
func UniquePrefix(base string) string {
	return base + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
