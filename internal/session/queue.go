package session

import "sync"

// pressQueue is an unbounded FIFO of pending key presses.
//
// Enqueue may be called from any goroutine; only the Run loop dequeues.
// A buffered signal channel lets Run wait on the queue and a context at
// the same time.
type pressQueue struct {
	mu     sync.Mutex
	keys   []string
	closed bool
	signal chan struct{} // buffered, size 1; closed by Close
}

func newPressQueue() *pressQueue {
	return &pressQueue{
		keys:   make([]string, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue appends key. Returns false if the queue is closed.
func (q *pressQueue) Enqueue(key string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.keys = append(q.keys, key)

	// Non-blocking: the size-1 buffer coalesces signals.
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue removes the front key without blocking.
func (q *pressQueue) TryDequeue() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.keys) == 0 {
		return "", false
	}
	key := q.keys[0]
	if len(q.keys) == 1 {
		q.keys = q.keys[:0]
	} else {
		q.keys = q.keys[1:]
	}
	return key, true
}

// Wait returns a channel that fires when keys may be available.
// It is closed once the queue is closed.
func (q *pressQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of queued keys.
func (q *pressQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.keys)
}

// Drained reports whether the queue is closed and empty.
func (q *pressQueue) Drained() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.keys) == 0
}

// Close stops further enqueues and wakes any waiter. Idempotent.
func (q *pressQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
