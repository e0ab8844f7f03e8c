package timing

import (
	"log/slog"
	"time"
)

const (
	// below this, sleeping overshoots: spin instead
	spinThreshold = 2 * time.Millisecond
	// further behind than this, stop trying to catch up
	maxLag = 5 * time.Millisecond
	// checked every driftWindow frames
	driftWindow    = 60
	driftTolerance = 10 * time.Millisecond
)

// AdaptiveLimiter sleeps for most of the frame and spins for the rest,
// slowly correcting accumulated drift.
type AdaptiveLimiter struct {
	frameTime time.Duration
	deadline  time.Time
	frames    int64
	now       func() time.Time
	sleep     func(time.Duration)
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	return &AdaptiveLimiter{
		frameTime: FrameDuration(),
		deadline:  time.Now(),
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := a.now()
	remaining := a.deadline.Sub(now)

	switch {
	case remaining > spinThreshold:
		a.sleep(remaining - time.Millisecond)
		a.spin()
	case remaining > 0:
		a.spin()
	case remaining < -maxLag:
		a.deadline = now
	}

	a.deadline = a.deadline.Add(a.frameTime)
	a.frames++

	if a.frames%driftWindow == 0 {
		drift := a.now().Sub(a.deadline)
		if drift.Abs() > driftTolerance {
			a.deadline = a.deadline.Add(drift / 10)
			slog.Debug("Frame timing drift correction", "drift_ms", drift.Milliseconds(), "frames", a.frames)
		}
	}
}

func (a *AdaptiveLimiter) spin() {
	for a.now().Before(a.deadline) {
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.deadline = a.now()
	a.frames = 0
}
