// Package clock supplies the time source for record dates and stage latency.
package clock

import "time"

// Clock is the time source handed to the calculator and the stats engine.
// Record dates come from Now; stage histograms are fed from Since.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// RealClock is backed by the system time.
type RealClock struct{}

// Now drops anything below a microsecond so that a record date survives a
// round trip through its serialized form unchanged.
func (RealClock) Now() time.Time {
	return time.Now().Truncate(time.Microsecond)
}

// Since is the monotonic time elapsed after t.
func (RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// FixedClock stands still until it is moved with Set or Advance. Tests use it
// to pin record dates and stage durations.
type FixedClock struct {
	now time.Time
}

// NewFixedClock returns a clock stopped at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

func (f *FixedClock) Now() time.Time {
	return f.now
}

// Since measures from t to the clock's current instant.
func (f *FixedClock) Since(t time.Time) time.Duration {
	return f.now.Sub(t)
}

// Set jumps to t, backwards included.
func (f *FixedClock) Set(t time.Time) {
	f.now = t
}

// Advance adds d to the current instant.
func (f *FixedClock) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}
