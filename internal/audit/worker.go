package audit

import (
	"context"
	"log/slog"
	"sync"
)

// Worker consumes audit events from a channel and forwards them to a sink,
// keeping slow transports off the request path.
type Worker struct {
	sink   Publisher
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Publisher, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run drains the inbox until ctx is cancelled or the inbox is closed. Sink
// failures are logged and the event is dropped.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.sink.Emit(ctx, event); err != nil && w.logger != nil {
				w.logger.ErrorContext(ctx, "audit sink failed",
					"action", string(event.Action),
					"entity_id", event.EntityID,
					"error", err,
				)
			}
		}
	}
}

// QueuePublisher hands events to a Worker through a buffered channel. When
// the buffer is full the event is dropped and ErrQueueFull is returned.
type QueuePublisher struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

func NewQueuePublisher(size int) *QueuePublisher {
	return &QueuePublisher{ch: make(chan Event, size)}
}

// Inbox is the channel to hand to NewWorker.
func (q *QueuePublisher) Inbox() <-chan Event { return q.ch }

// Emit never blocks. After Close it returns ErrQueueClosed.
func (q *QueuePublisher) Emit(_ context.Context, e Event) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- e:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events; a running Worker exits after draining.
// Calling it more than once is a no-op.
func (q *QueuePublisher) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}
