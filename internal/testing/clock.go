package testing

import (
	"sync"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
)

// SleepClock is a clock.Clock whose Sleep returns immediately after
// advancing the fake time. Requested sleeps are recorded.
type SleepClock struct {
	*fakeclock.FakeClock

	mu     sync.Mutex
	sleeps []time.Duration
}

// NewSleepClock creates a SleepClock starting at now.
func NewSleepClock(now time.Time) *SleepClock {
	return &SleepClock{FakeClock: fakeclock.NewFakeClock(now)}
}

// Sleep records d and advances the clock by it.
func (c *SleepClock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.mu.Unlock()
	c.Increment(d)
}

// Sleeps returns the durations passed to Sleep so far.
func (c *SleepClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}
