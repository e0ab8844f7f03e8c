package timing

import "time"

// TickerLimiter paces frames off a time.Ticker. It drifts more than
// AdaptiveLimiter but never busy waits.
type TickerLimiter struct {
	ticker *time.Ticker
}

func NewTickerLimiter() *TickerLimiter {
	return &TickerLimiter{ticker: time.NewTicker(FrameDuration())}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(FrameDuration())
}

// Stop releases the underlying ticker.
func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
