package timing

import (
	"log/slog"
	"time"
)

// TickerLimiter paces frames off a time.Ticker. Frames the host loop is too
// slow for are dropped by the ticker rather than queued, so it never bursts.
type TickerLimiter struct {
	interval time.Duration
	ticker   *time.Ticker
}

func NewTickerLimiter() *TickerLimiter {
	return newTickerLimiter(FrameDuration())
}

func newTickerLimiter(interval time.Duration) *TickerLimiter {
	return &TickerLimiter{interval: interval}
}

// WaitForNextFrame blocks until the next tick. The ticker is started on
// the first call, so construction does not count as a frame.
func (t *TickerLimiter) WaitForNextFrame() {
	if t.ticker == nil {
		t.ticker = time.NewTicker(t.interval)
		slog.Debug("Frame ticker started", "interval", t.interval)
	}
	<-t.ticker.C
}

// Reset restarts the period and discards a tick that fired while paused.
func (t *TickerLimiter) Reset() {
	if t.ticker == nil {
		return
	}
	t.ticker.Reset(t.interval)
	select {
	case <-t.ticker.C:
	default:
	}
}

// Stop releases the ticker. A later WaitForNextFrame starts a new one.
func (t *TickerLimiter) Stop() {
	if t.ticker == nil {
		return
	}
	t.ticker.Stop()
	t.ticker = nil
}
