package playback

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestClockTicksWhileArmed(t *testing.T) {
	var ticks atomic.Int32
	c := NewClock(10*time.Millisecond,
		func() { ticks.Add(1) },
		nil,
	)
	c.Arm(time.Second)
	defer c.Disarm()

	deadline := time.Now().Add(500 * time.Millisecond)
	for ticks.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("expected at least 3 ticks, got %d", ticks.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestClockDeadlineFiresOnce(t *testing.T) {
	var fired atomic.Int32
	c := NewClock(5*time.Millisecond,
		nil,
		func() { fired.Add(1) },
	)
	c.Arm(20 * time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Fatalf("deadline fired %d times, want 1", got)
	}
	if c.Armed() {
		t.Error("clock should disarm itself after the deadline")
	}
}

func TestClockDisarmSuppressesDeadline(t *testing.T) {
	var fired atomic.Int32
	c := NewClock(5*time.Millisecond,
		nil,
		func() { fired.Add(1) },
	)
	c.Arm(30 * time.Millisecond)
	c.Disarm()

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Fatalf("deadline fired %d times after disarm, want 0", got)
	}
}

func TestClockRearmReplacesPrevious(t *testing.T) {
	var fired atomic.Int32
	c := NewClock(5*time.Millisecond,
		nil,
		func() { fired.Add(1) },
	)
	// The second arming replaces the first; only one deadline may fire.
	c.Arm(20 * time.Millisecond)
	c.Arm(40 * time.Millisecond)
	defer c.Disarm()

	time.Sleep(200 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Fatalf("deadline fired %d times, want 1", got)
	}
}

func TestClockDisarmIdempotent(t *testing.T) {
	c := NewClock(10*time.Millisecond, nil, nil)
	c.Disarm()
	c.Arm(time.Second)
	c.Disarm()
	c.Disarm()
	if c.Armed() {
		t.Error("clock should be disarmed")
	}
}
