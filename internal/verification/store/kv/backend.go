// Package kv persists lifecycle records as JSON lists, one list per record
// type under a fixed key, on top of a pluggable key-value backend.
package kv

import (
	"context"
	"sync"

	"charterline/pkg/platform/sentinel"
)

// Fixed keys of the persisted layout.
const (
	KeyStatuses    = "verification_statuses"
	KeyReferrals   = "referral_statuses"
	KeyResolutions = "flag_resolutions"
	KeySubmissions = "intake_submissions"
)

// Backend is the minimal persistence contract: whole values stored and
// loaded by key. Load returns sentinel.ErrNotFound for a missing key.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// Updater is implemented by backends that can apply a read-modify-write to
// one key atomically, across processes sharing the store. fn receives nil
// for a missing key and returns the value to store.
type Updater interface {
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
}

// MemoryBackend keeps values in process memory.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

func (b *MemoryBackend) Load(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (b *MemoryBackend) Save(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	b.values[key] = stored
	return nil
}

func (b *MemoryBackend) Update(_ context.Context, key string, fn func([]byte) ([]byte, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, err := fn(b.values[key])
	if err != nil {
		return err
	}
	stored := make([]byte, len(next))
	copy(stored, next)
	b.values[key] = stored
	return nil
}

var (
	_ Updater = (*MemoryBackend)(nil)
	_ Updater = (*SQLiteBackend)(nil)
	_ Updater = (*RedisBackend)(nil)
)
