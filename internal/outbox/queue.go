package outbox

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultCapacity bounds the number of undelivered events.
const DefaultCapacity = 256

type Sink interface {
	Deliver(ctx context.Context, e Event) error
}

// Queue is a bounded fire-and-forget event queue drained by Run.
type Queue struct {
	mu      sync.Mutex
	closed  bool
	events  chan Event
	sink    Sink
	timeout time.Duration
	logger  *zap.Logger
	done    chan struct{}
}

func NewQueue(sink Sink, capacity int, timeout time.Duration, logger *zap.Logger) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Queue{
		events:  make(chan Event, capacity),
		sink:    sink,
		timeout: timeout,
		logger:  logger.With(zap.String("component", "outbox")),
		done:    make(chan struct{}),
	}
}

// Publish enqueues e without blocking. It returns false when the queue is
// full or closed; the event is dropped.
func (q *Queue) Publish(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		q.logger.Warn("outbox closed, dropping event",
			zap.String("kind", string(e.Kind)), zap.String("event_id", e.ID.String()))
		return false
	}

	select {
	case q.events <- e:
		return true
	default:
		q.logger.Warn("outbox full, dropping event",
			zap.String("kind", string(e.Kind)), zap.String("event_id", e.ID.String()))
		return false
	}
}

// Run delivers events until ctx is done or the queue is closed and drained.
func (q *Queue) Run(ctx context.Context) {
	defer close(q.done)
	for {
		select {
		case e, ok := <-q.events:
			if !ok {
				return
			}
			q.deliver(ctx, e)
		case <-ctx.Done():
			return
		}
	}
}

func (q *Queue) deliver(ctx context.Context, e Event) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	if err := q.sink.Deliver(ctx, e); err != nil {
		q.logger.Warn("failed to deliver event",
			zap.String("kind", string(e.Kind)),
			zap.String("event_id", e.ID.String()),
			zap.String("product_id", e.ProductID),
			zap.Error(err),
		)
		return
	}
	q.logger.Debug("event delivered",
		zap.String("kind", string(e.Kind)), zap.String("event_id", e.ID.String()))
}

// Close stops intake. Events already queued are still delivered by Run.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.events)
	}
}

// Done is closed when Run returns.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// Len reports the number of undelivered events.
func (q *Queue) Len() int {
	return len(q.events)
}
