package timing

import "time"

// TickerLimiter paces frames on a time.Ticker. Late frames are not caught up:
// the ticker drops ticks a slow consumer misses.
type TickerLimiter struct {
	ticker   *time.Ticker
	interval time.Duration
}

func NewTickerLimiter() *TickerLimiter {
	return NewTickerLimiterWithInterval(FrameDuration())
}

// NewTickerLimiterWithInterval paces frames at a custom interval.
func NewTickerLimiterWithInterval(interval time.Duration) *TickerLimiter {
	return &TickerLimiter{
		ticker:   time.NewTicker(interval),
		interval: interval,
	}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

// Reset restarts the period and discards a tick left over from a pause.
func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.interval)
	select {
	case <-t.ticker.C:
	default:
	}
}

// Stop releases the ticker. The limiter must not be used afterwards.
func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
