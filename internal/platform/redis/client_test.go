package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charterline/internal/platform/config"
)

func TestNewWithoutURL(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "http://not-redis"})
	require.Error(t, err)
}

func TestApplyPool(t *testing.T) {
	opts, err := redis.ParseURL("redis://localhost:6379/1")
	require.NoError(t, err)

	applyPool(opts, config.RedisConfig{PoolSize: 7, DialTimeout: 2 * time.Second})

	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)
	assert.Equal(t, 1, opts.DB)
}
