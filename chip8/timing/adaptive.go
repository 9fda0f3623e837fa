package timing

import (
	"log/slog"
	"time"
)

// spinThreshold is the remaining wait below which the limiter busy-waits instead of sleeping.
const spinThreshold = 2 * time.Millisecond

// AdaptiveLimiter uses precise timing with drift compensation.
// Combines sleep for efficiency with busy-waiting for accuracy.
type AdaptiveLimiter struct {
	targetFrameTime time.Duration
	nextFrameTime   time.Time
	windowStart     time.Time
	frameCounter    int64
	measuredFPS     float64
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	now := time.Now()
	return &AdaptiveLimiter{
		targetFrameTime: FrameDuration(),
		nextFrameTime:   now,
		windowStart:     now,
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := time.Now()
	sleepTime := a.nextFrameTime.Sub(now)

	switch {
	case sleepTime > spinThreshold:
		time.Sleep(sleepTime - time.Millisecond)
		a.spin()
	case sleepTime > 0:
		a.spin()
	case sleepTime < -5*time.Millisecond:
		// too far behind, don't try to catch up with a burst of frames
		a.nextFrameTime = now
	}

	a.nextFrameTime = a.nextFrameTime.Add(a.targetFrameTime)
	a.frameCounter++

	if a.frameCounter%TargetFPS == 0 {
		a.measure()
	}
}

func (a *AdaptiveLimiter) spin() {
	for time.Now().Before(a.nextFrameTime) {
	}
}

// measure updates the measured frame rate once per second of frames and
// nudges the schedule when it has drifted from the wall clock.
func (a *AdaptiveLimiter) measure() {
	now := time.Now()
	elapsed := now.Sub(a.windowStart)
	if elapsed > 0 {
		a.measuredFPS = float64(TargetFPS) * float64(time.Second) / float64(elapsed)
	}
	a.windowStart = now

	drift := now.Sub(a.nextFrameTime.Add(-a.targetFrameTime))
	if drift.Abs() > 10*time.Millisecond {
		a.nextFrameTime = a.nextFrameTime.Add(drift / 10)
		slog.Debug("Frame timing drift correction", "drift_ms", drift.Milliseconds(), "fps", a.measuredFPS)
	}
}

// FPS returns the frame rate measured over the last TargetFPS frames, 0 until then.
func (a *AdaptiveLimiter) FPS() float64 {
	return a.measuredFPS
}

func (a *AdaptiveLimiter) Reset() {
	a.nextFrameTime = time.Now()
	a.windowStart = a.nextFrameTime
	a.frameCounter = 0
}
