// Package timer tracks elapsed test time against an optional limit.
package timer

import (
	"math"
	"sync"
	"time"
)

// Clock is the single source of monotonic time for a test.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the process monotonic clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FakeClock is a manually advanced Clock for tests and replays.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock returns a FakeClock starting at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now implements Clock.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Timer is an immutable timer value. A zero Limit counts up forever.
type Timer struct {
	StartTime time.Time
	Elapsed   time.Duration
	Limit     time.Duration
	Running   bool
	Expired   bool
}

// New returns an idle timer. Non-positive limits mean count-up.
func New(limit time.Duration) Timer {
	if limit < 0 {
		limit = 0
	}
	return Timer{Limit: limit}
}

// Reset discards all state and returns an idle timer with the new limit.
func (t Timer) Reset(limit time.Duration) Timer {
	return New(limit)
}

// Start records now as the start time.
func (t Timer) Start(now time.Time) Timer {
	t.StartTime = now
	t.Running = true
	return t
}

// Tick recomputes elapsed time at now. Expiry stops the timer.
func (t Timer) Tick(now time.Time) Timer {
	if !t.Running || t.StartTime.IsZero() {
		return t
	}
	t.Elapsed = now.Sub(t.StartTime)
	t.Expired = t.Limit > 0 && t.Elapsed >= t.Limit
	t.Running = !t.Expired
	return t
}

// HasLimit reports whether the timer counts down to a deadline.
func (t Timer) HasLimit() bool {
	return t.Limit > 0
}

// ElapsedSeconds returns the elapsed time recorded at the last tick.
func (t Timer) ElapsedSeconds() float64 {
	return t.Elapsed.Seconds()
}

// RemainingSeconds returns +Inf for count-up timers, else the clamped
// time left at the last tick.
func (t Timer) RemainingSeconds() float64 {
	if !t.HasLimit() {
		return math.Inf(1)
	}
	return math.Max(0, (t.Limit - t.Elapsed).Seconds())
}
