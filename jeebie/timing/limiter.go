// Package timing paces interactive front ends at the DMG refresh rate.
package timing

import (
	"time"

	"github.com/valerio/jeebie-core/jeebie/video"
)

// Limiter controls how fast frames are handed to a front end.
type Limiter interface {
	// WaitForNextFrame blocks until the next frame is due. It returns
	// immediately when running behind.
	WaitForNextFrame()

	// Reset drops accumulated timing state, e.g. after a pause.
	Reset()
}

// ClockFrequency is the DMG master clock, in cycles per second.
const ClockFrequency = 4194304

// TargetFPS is the refresh rate produced by a 70224 cycle frame, ~59.73 Hz.
func TargetFPS() float64 {
	return float64(ClockFrequency) / float64(video.FrameDots)
}

// FrameDuration returns the wall clock length of a single frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}

// New returns the limiter for the given mode: "adaptive", "ticker" or
// "none". Unknown modes fall back to adaptive.
func New(mode string) Limiter {
	switch mode {
	case "none":
		return NoOp()
	case "ticker":
		return NewTickerLimiter()
	}
	return NewAdaptiveLimiter()
}

// NoOp returns a limiter that never waits, for headless runs.
func NoOp() Limiter {
	return noOpLimiter{}
}

type noOpLimiter struct{}

func (noOpLimiter) WaitForNextFrame() {}
func (noOpLimiter) Reset()            {}
