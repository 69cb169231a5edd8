package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// insertTimeout bounds how long a single queued insert may take. The worker
// uses its own context; request contexts are long gone by the time an event
// is drained.
const insertTimeout = 5 * time.Second

// Recorder accepts activity events from the other plugins and writes them to
// the database asynchronously. A bounded queue decouples request handling
// from storage latency; a single background goroutine drains it in order.
//
// Delivery is at most once: events are dropped when the queue is full or
// when an insert fails, and a warning is logged either way. Recording must
// never block or fail a user-facing operation.
type Recorder struct {
	repo  ActivityRepository
	queue chan *Event

	mu     sync.RWMutex
	closed bool

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRecorder creates a Recorder with the given queue size and starts its
// background worker. Call Close during shutdown to drain remaining events.
func NewRecorder(repo ActivityRepository, queueSize int) *Recorder {
	if queueSize < 1 {
		queueSize = 256
	}
	r := &Recorder{
		repo:  repo,
		queue: make(chan *Event, queueSize),
	}
	r.wg.Add(1)
	go r.worker()
	return r
}

// Record enqueues an activity event. An empty actorID means no authenticated
// user is present; the event is silently skipped. Never blocks: when the
// queue is full the event is dropped with a warning.
func (r *Recorder) Record(ctx context.Context, actorID, action, resourceType, resourceID string, metadata map[string]any) {
	if actorID == "" {
		return
	}

	event := &Event{
		UserID:       actorID,
		ActionType:   action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Metadata:     metadata,
		CreatedAt:    time.Now().UTC(),
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}

	select {
	case r.queue <- event:
	default:
		slog.Warn("activity queue full, dropping event",
			slog.String("action", action),
			slog.String("resource_type", resourceType),
			slog.String("resource_id", resourceID),
		)
	}
}

// Close stops accepting new events and blocks until the queue is drained.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.queue)
		r.mu.Unlock()
		r.wg.Wait()
	})
}

// worker drains the queue until it is closed. Insert failures are logged and
// the event is lost.
func (r *Recorder) worker() {
	defer r.wg.Done()
	for event := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		if err := r.repo.Insert(ctx, event); err != nil {
			slog.Error("failed to write activity event",
				slog.String("action", event.ActionType),
				slog.String("resource_id", event.ResourceID),
				slog.Any("error", err),
			)
		}
		cancel()
	}
}
