package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"charterline/pkg/platform/sentinel"
)

// Collection is a JSON list of T stored under one key. The whole list is
// read and rewritten on every upsert; callers filter by entity.
type Collection[T any] struct {
	backend Backend
	key     string
	mu      sync.Mutex
}

// NewCollection binds a collection to a backend key.
func NewCollection[T any](backend Backend, key string) *Collection[T] {
	return &Collection[T]{backend: backend, key: key}
}

// All returns every stored item. A missing key is an empty list.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	raw, err := c.backend.Load(ctx, c.key)
	if errors.Is(err, sentinel.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	return c.decode(raw)
}

func (c *Collection[T]) decode(raw []byte) ([]T, error) {
	items := []T{}
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", c.key, sentinel.ErrCorrupt, err)
	}
	return items, nil
}

// Filter returns the stored items that match keep.
func (c *Collection[T]) Filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	items, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

// Upsert replaces the first item matching same, or appends item. Backends
// that implement Updater make the whole read-modify-write atomic; others
// are serialized by the collection's own lock.
func (c *Collection[T]) Upsert(ctx context.Context, item T, same func(T) bool) error {
	apply := func(raw []byte) ([]byte, error) {
		items, err := c.decode(raw)
		if err != nil {
			return nil, err
		}
		replaced := false
		for i := range items {
			if same(items[i]) {
				items[i] = item
				replaced = true
				break
			}
		}
		if !replaced {
			items = append(items, item)
		}
		out, err := json.Marshal(items)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", c.key, err)
		}
		return out, nil
	}

	if u, ok := c.backend.(Updater); ok {
		return u.Update(ctx, c.key, apply)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := c.backend.Load(ctx, c.key)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return err
	}
	next, err := apply(raw)
	if err != nil {
		return err
	}
	return c.backend.Save(ctx, c.key, next)
}
