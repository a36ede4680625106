package application

import (
	"sync"
	"time"
)

// virtualClock advances its own time on every After call and fires at once,
// so loops that sleep for hours run instantly and deterministically.
type virtualClock struct {
	mu      sync.Mutex
	now     time.Time
	sleeps  []time.Duration
	onSleep func(count int)
	// block reports durations that must never fire.
	block func(d time.Duration) bool
}

func newVirtualClock(start time.Time) *virtualClock {
	return &virtualClock{now: start}
}

func (c *virtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *virtualClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	if c.block != nil && c.block(d) {
		c.mu.Unlock()
		return make(chan time.Time)
	}
	c.now = c.now.Add(d)
	now, count, hook := c.now, len(c.sleeps), c.onSleep
	c.mu.Unlock()

	if hook != nil {
		hook(count)
	}

	ch := make(chan time.Time, 1)
	ch <- now
	return ch
}

func (c *virtualClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}
