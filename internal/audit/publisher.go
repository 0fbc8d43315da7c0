package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Publisher captures structured audit events. Emit failures are reported to
// the caller, which decides whether they matter.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// LogPublisher writes each event as a structured log line.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(ctx context.Context, e Event) error {
	p.logger.InfoContext(ctx, "audit event",
		"action", string(e.Action),
		"entity_id", e.EntityID,
		"actor", e.Actor,
		"subject", e.Subject,
		"decision", e.Decision,
		"request_id", e.RequestID,
		"timestamp", e.Timestamp,
	)
	return nil
}

// MemoryPublisher keeps events in memory; used by tests and the memory driver.
type MemoryPublisher struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Emit(_ context.Context, e Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

// ListByEntity returns the events recorded for an entity in emit order.
func (p *MemoryPublisher) ListByEntity(entityID string) []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := []Event{}
	for _, e := range p.events {
		if e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out
}

// Fanout emits to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Emit(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Emit(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
