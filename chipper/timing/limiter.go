package timing

import "time"

// Limiter controls frame rate timing for the host loop.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// TargetFPS is the host frame rate. The interpreter executes one instruction
// and one timer tick per frame.
const TargetFPS = 60

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Second / TargetFPS
}
