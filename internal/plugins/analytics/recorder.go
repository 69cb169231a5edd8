package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// insertTimeout bounds how long a single queued insert may take.
const insertTimeout = 5 * time.Second

// ViewRecorder writes page views to the database asynchronously. It has the
// same shape as the activity recorder: a bounded queue drained by a single
// background goroutine, at-most-once delivery, never blocking the page
// render that triggered it.
//
// Unlike activity recording, anonymous views are kept: the viewer is stored
// as NULL and the row still counts toward view totals.
type ViewRecorder struct {
	repo  AnalyticsRepository
	queue chan *PageView

	mu     sync.RWMutex
	closed bool

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewViewRecorder creates a ViewRecorder with the given queue size and
// starts its background worker. Call Close during shutdown to drain
// remaining views.
func NewViewRecorder(repo AnalyticsRepository, queueSize int) *ViewRecorder {
	if queueSize < 1 {
		queueSize = 256
	}
	r := &ViewRecorder{
		repo:  repo,
		queue: make(chan *PageView, queueSize),
	}
	r.wg.Add(1)
	go r.worker()
	return r
}

// RecordView enqueues one page view. A nil viewerID marks an anonymous
// visitor. Never blocks: when the queue is full the view is dropped with a
// warning.
func (r *ViewRecorder) RecordView(ctx context.Context, pageID string, viewerID *string) {
	view := &PageView{
		PageID:   pageID,
		ViewerID: viewerID,
		ViewedAt: time.Now().UTC(),
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}

	select {
	case r.queue <- view:
	default:
		slog.Warn("page view queue full, dropping view",
			slog.String("page_id", pageID),
		)
	}
}

// Close stops accepting new views and blocks until the queue is drained.
func (r *ViewRecorder) Close() {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.queue)
		r.mu.Unlock()
		r.wg.Wait()
	})
}

// worker drains the queue until it is closed. Insert failures are logged and
// the view is lost.
func (r *ViewRecorder) worker() {
	defer r.wg.Done()
	for view := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		if err := r.repo.InsertView(ctx, view); err != nil {
			slog.Error("failed to write page view",
				slog.String("page_id", view.PageID),
				slog.Any("error", err),
			)
		}
		cancel()
	}
}
