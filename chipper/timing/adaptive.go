package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter sleeps until the next frame boundary and resynchronises
// when the loop falls behind, so a slow frame never causes a burst of catch-up frames.
type AdaptiveLimiter struct {
	targetFrameTime time.Duration
	nextFrameTime   time.Time
	frameCounter    int64
	dropped         int64

	now   func() time.Time
	sleep func(time.Duration)
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	return &AdaptiveLimiter{
		targetFrameTime: FrameDuration(),
		nextFrameTime:   time.Now(),
		now:             time.Now,
		sleep:           time.Sleep,
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := a.now()
	sleepTime := a.nextFrameTime.Sub(now)

	switch {
	case sleepTime > 0:
		a.sleep(sleepTime)
	case sleepTime < -a.targetFrameTime:
		a.dropped++
		a.nextFrameTime = now
	}

	a.nextFrameTime = a.nextFrameTime.Add(a.targetFrameTime)
	a.frameCounter++

	if a.frameCounter%TargetFPS == 0 && a.dropped > 0 {
		slog.Debug("Frame timing fell behind", "frames", a.frameCounter, "resyncs", a.dropped)
		a.dropped = 0
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.nextFrameTime = a.now()
	a.frameCounter = 0
	a.dropped = 0
}
