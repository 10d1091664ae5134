package session

import "sync/atomic"

// Clock hands out logical sequence numbers for steps.
// Implemented by AtomicClock (production) and testutil.DeterministicClock.
type Clock interface {
	Next() int64
	Current() int64
}

// AtomicClock is a monotonic logical clock safe for concurrent use.
type AtomicClock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0; the first Next returns 1.
func NewClock() *AtomicClock {
	return &AtomicClock{}
}

// NewClockAt creates a clock that resumes after start.
func NewClockAt(start int64) *AtomicClock {
	c := &AtomicClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number.
func (c *AtomicClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number without advancing.
func (c *AtomicClock) Current() int64 {
	return c.seq.Load()
}
