package maprender

import "time"

// Clock reports the time elapsed since the game started. Animation frames
// are derived from it.
type Clock interface {
	SinceStart() time.Duration
}

type monotonicClock struct {
	start time.Time
}

// NewClock returns a clock starting now. It reads the monotonic clock, so
// wall clock adjustments do not affect animations.
func NewClock() Clock {
	return &monotonicClock{start: time.Now()}
}

func (c *monotonicClock) SinceStart() time.Duration {
	return time.Since(c.start)
}

// FixedClock always reports the same elapsed time.
type FixedClock time.Duration

func (c FixedClock) SinceStart() time.Duration {
	return time.Duration(c)
}

func millis(c Clock) int64 {
	if c == nil {
		return 0
	}
	return c.SinceStart().Milliseconds()
}
