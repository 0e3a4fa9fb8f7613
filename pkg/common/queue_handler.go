package common

import (
	"sync"
	"time"
)

// QueueProcessor handles one batch of items drained from the queue.
type QueueProcessor[V any] func(items []V)

// QueueHandler batches incoming items and processes them in the background,
// used to absorb bursts of row changes arriving over messaging without
// re-running the view pipeline per row.
type QueueHandler[V any] struct {
	mu        sync.Mutex
	queue     []V
	processor QueueProcessor[V]
	chunkSize int
	interval  time.Duration
	done      chan struct{}
}

// NewQueueHandler starts the background drain loop. Close stops it.
func NewQueueHandler[V any](processor QueueProcessor[V], chunkSize int) *QueueHandler[V] {
	q := &QueueHandler[V]{
		queue:     make([]V, 0),
		processor: processor,
		chunkSize: chunkSize,
		interval:  time.Second,
		done:      make(chan struct{}),
	}
	go q.processQueue()
	return q
}

// Add queues items for the next batch.
func (h *QueueHandler[V]) Add(item ...V) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queue = append(h.queue, item...)
}

// Close stops the drain loop after flushing what is queued.
func (h *QueueHandler[V]) Close() {
	close(h.done)
}

func (h *QueueHandler[V]) drain() []V {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.queue) == 0 {
		return nil
	}
	items := h.queue[:min(h.chunkSize, len(h.queue))]
	h.queue = h.queue[len(items):]
	return items
}

func (h *QueueHandler[V]) processQueue() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-h.done:
			for items := h.drain(); items != nil; items = h.drain() {
				h.processor(items)
			}
			return
		case <-ticker.C:
			if items := h.drain(); items != nil {
				h.processor(items)
			}
		}
	}
}
