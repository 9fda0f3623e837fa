package timing

import (
	"fmt"
	"time"
)

// Limiter controls frame rate timing for emulation.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// Limiter kinds accepted by NewLimiter.
const (
	KindAdaptive = "adaptive"
	KindTicker   = "ticker"
	KindNone     = "none"
)

// NewLimiter returns the limiter for a kind name, as given on the command line.
func NewLimiter(kind string) (Limiter, error) {
	switch kind {
	case KindAdaptive, "":
		return NewAdaptiveLimiter(), nil
	case KindTicker:
		return NewTickerLimiter(), nil
	case KindNone:
		return NewNoOpLimiter(), nil
	default:
		return nil, fmt.Errorf("unknown frame limiter %q (want %s, %s or %s)", kind, KindAdaptive, KindTicker, KindNone)
	}
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// TargetFPS is the rate at which CHIP-8 timers count down and the display is refreshed.
const TargetFPS = 60

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Second / TargetFPS
}
