package service

import "sync"

// entityLocks serializes read-modify-write sequences per entity key.
// Entries are dropped once no goroutine holds or waits on them.
type entityLocks struct {
	mu    sync.Mutex
	locks map[string]*entityLock
}

type entityLock struct {
	mu   sync.Mutex
	refs int
}

func newEntityLocks() *entityLocks {
	return &entityLocks{locks: make(map[string]*entityLock)}
}

// lock blocks until the caller holds key and returns the release func.
func (l *entityLocks) lock(key string) func() {
	l.mu.Lock()
	el, ok := l.locks[key]
	if !ok {
		el = &entityLock{}
		l.locks[key] = el
	}
	el.refs++
	l.mu.Unlock()

	el.mu.Lock()
	return func() {
		el.mu.Unlock()
		l.mu.Lock()
		el.refs--
		if el.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

func (l *entityLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
