//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisContainer is a throwaway Redis server for store and client tests.
type RedisContainer struct {
	Container *tcredis.RedisContainer
	// URL is the redis:// connection string, as accepted by config.RedisConfig.
	URL    string
	Client *redis.Client
}

// NewRedisContainer starts Redis and registers cleanup on t.
func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get redis connection string: %v", err)
	}

	rc := &RedisContainer{Container: container, URL: url}
	rc.Client = rc.NewClient(t)

	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})
	return rc
}

// NewClient opens an extra connection pool to the container, closed when t
// ends. Separate pools stand in for separate server processes.
func (r *RedisContainer) NewClient(t *testing.T) *redis.Client {
	t.Helper()

	opts, err := redis.ParseURL(r.URL)
	if err != nil {
		t.Fatalf("failed to parse redis URL: %v", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		t.Fatalf("failed to ping redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// DeletePrefix removes every key under prefix, leaving other keys alone.
func (r *RedisContainer) DeletePrefix(ctx context.Context, prefix string) error {
	iter := r.Client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.Client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
