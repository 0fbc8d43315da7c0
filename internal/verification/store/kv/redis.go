package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"charterline/pkg/platform/sentinel"
)

// maxUpdateAttempts bounds optimistic retries when another writer touches
// the watched key between read and write.
const maxUpdateAttempts = 50

// RedisBackend stores each fixed key as a plain Redis string. Updates use
// WATCH so writers in different processes do not overwrite each other.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
}

// RedisOption configures a RedisBackend.
type RedisOption func(*RedisBackend)

// WithKeyPrefix namespaces every key, e.g. "charterline:".
func WithKeyPrefix(prefix string) RedisOption {
	return func(b *RedisBackend) {
		b.prefix = prefix
	}
}

// NewRedisBackend wraps an existing client. The caller owns the client.
func NewRedisBackend(client redis.UniversalClient, opts ...RedisOption) *RedisBackend {
	b := &RedisBackend{client: client}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *RedisBackend) Load(ctx context.Context, key string) ([]byte, error) {
	v, err := b.client.Get(ctx, b.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return v, nil
}

func (b *RedisBackend) Save(ctx context.Context, key string, value []byte) error {
	if err := b.client.Set(ctx, b.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return nil
}

// Update reads, transforms and writes key inside WATCH/MULTI, retrying when
// the key changed underneath. Errors from fn are returned unwrapped.
func (b *RedisBackend) Update(ctx context.Context, key string, fn func([]byte) ([]byte, error)) error {
	full := b.prefix + key
	var fnErr error
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, full).Bytes()
		if errors.Is(err, redis.Nil) {
			current = nil
		} else if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			fnErr = err
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, full, next, 0)
			return nil
		})
		return err
	}

	for range maxUpdateAttempts {
		fnErr = nil
		err := b.client.Watch(ctx, txf, full)
		if fnErr != nil {
			return fnErr
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("redis update %s: %w: %w", key, sentinel.ErrUnavailable, err)
		}
		return nil
	}
	return fmt.Errorf("redis update %s: %w: %w", key, sentinel.ErrUnavailable, redis.TxFailedErr)
}
