// Package timer provides the elapsed-time predicate that gates every periodic
// component on the node. Time is always read through a Clock so tests can
// drive it explicitly.
package timer

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Timer fires once per Interval. It is a value type: embed it directly in
// the component that owns it.
//
// Invariant: HasElapsed() == (now - last) >= Interval, and a non-positive
// Interval never elapses.
type Timer struct {
	Interval time.Duration

	last  time.Time
	clock Clock
}

// New creates a Timer stamped at the clock's current time.
// A nil clock uses the system clock.
func New(clock Clock, interval time.Duration) Timer {
	if clock == nil {
		clock = SystemClock{}
	}
	return Timer{Interval: interval, last: clock.Now(), clock: clock}
}

func (t *Timer) now() time.Time {
	if t.clock == nil {
		return time.Now()
	}
	return t.clock.Now()
}

// Reset stamps the current time as the last fire time.
func (t *Timer) Reset() {
	t.last = t.now()
}

// HasElapsed reports whether Interval has passed since the last stamp.
// It never mutates the timer.
func (t *Timer) HasElapsed() bool {
	if t.Interval <= 0 {
		return false
	}
	return t.now().Sub(t.last) >= t.Interval
}

// CheckAndReset returns true and restamps the timer iff it has elapsed.
// Once elapsed it fires exactly once until the next Interval passes.
func (t *Timer) CheckAndReset() bool {
	if t.Interval <= 0 {
		return false
	}
	now := t.now()
	if now.Sub(t.last) < t.Interval {
		return false
	}
	t.last = now
	return true
}

// Elapsed returns the time since the last stamp.
func (t *Timer) Elapsed() time.Duration {
	return t.now().Sub(t.last)
}

// SetInterval changes the period without touching the last stamp.
func (t *Timer) SetInterval(d time.Duration) {
	t.Interval = d
}

// PeriodFromHz returns one period at freqHz.
// freqHz == 0 returns 0, which a Timer treats as disabled.
func PeriodFromHz(freqHz uint32) time.Duration {
	if freqHz == 0 {
		return 0
	}
	return time.Second / time.Duration(freqHz)
}
