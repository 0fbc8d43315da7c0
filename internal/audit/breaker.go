package audit

import (
	"context"
	"sync"
	"time"
)

// BreakerPublisher stops calling an unhealthy sink. After threshold
// consecutive failures events are dropped with ErrCircuitOpen until cooldown
// has passed. The next event is then let through as a trial, and everything
// else is dropped until the trial reports back.
type BreakerPublisher struct {
	sink Publisher
	now  func() time.Time

	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	failures  int
	openUntil time.Time
	open      bool
	halfOpen  bool
}

// NewBreakerPublisher wraps sink. Non-positive arguments fall back to 5
// failures and one minute.
func NewBreakerPublisher(sink Publisher, threshold int, cooldown time.Duration) *BreakerPublisher {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	return &BreakerPublisher{
		sink:      sink,
		now:       time.Now,
		threshold: threshold,
		cooldown:  cooldown,
	}
}

func (b *BreakerPublisher) Emit(ctx context.Context, e Event) error {
	if !b.allow() {
		return ErrCircuitOpen
	}
	if err := b.sink.Emit(ctx, e); err != nil {
		b.recordFailure()
		return err
	}
	b.recordSuccess()
	return nil
}

// IsOpen reports whether events are currently being dropped.
func (b *BreakerPublisher) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

func (b *BreakerPublisher) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return true
	}
	if b.halfOpen || !b.now().After(b.openUntil) {
		return false
	}
	b.halfOpen = true
	return true
}

func (b *BreakerPublisher) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.open = false
	b.halfOpen = false
}

func (b *BreakerPublisher) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	if b.halfOpen || b.failures >= b.threshold {
		b.open = true
		b.halfOpen = false
		b.openUntil = b.now().Add(b.cooldown)
	}
}
