package playback

import (
	"sync"
	"time"
)

// Clock is the re-armable playback timer. It signals ticks at a fixed
// interval and a single deadline once the armed duration has passed.
//
// The clock never advances elapsed time itself; it exposes only tick
// and deadline signals. Narration pace drives the visible progress, and
// the clock exists purely as the termination safety net. Keeping that
// asymmetry in the interface prevents the engine and the clock from
// both writing elapsed and drifting apart.
type Clock struct {
	interval   time.Duration
	onTick     func()
	onDeadline func()

	mu   sync.Mutex
	stop chan struct{}
}

// NewClock creates a clock ticking at interval. onTick fires every
// interval while armed; onDeadline fires once when the armed duration
// has fully elapsed, after which the clock disarms itself.
func NewClock(interval time.Duration, onTick, onDeadline func()) *Clock {
	if interval <= 0 {
		interval = time.Second
	}
	return &Clock{
		interval:   interval,
		onTick:     onTick,
		onDeadline: onDeadline,
	}
}

// Arm starts the clock with the given remaining duration, replacing any
// previous arming.
func (c *Clock) Arm(remaining time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	stop := make(chan struct{})
	c.stop = stop
	deadline := time.Now().Add(remaining)

	go c.loop(stop, deadline)
}

// Disarm stops the clock. It is safe to call when the clock is not
// armed, and safe to call more than once.
func (c *Clock) Disarm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Armed reports whether the clock is currently running.
func (c *Clock) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

func (c *Clock) stopLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Clock) loop(stop chan struct{}, deadline time.Time) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			if !now.Before(deadline) {
				c.mu.Lock()
				active := c.stop == stop
				if active {
					c.stopLocked()
				}
				c.mu.Unlock()
				// A re-arm or disarm that raced us wins; only the
				// active arming may raise the deadline.
				if active && c.onDeadline != nil {
					c.onDeadline()
				}
				return
			}
			if c.onTick != nil {
				c.onTick()
			}
		}
	}
}
