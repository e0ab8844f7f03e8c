package backend

import (
	"github.com/valerio/jeebie-core/jeebie/input"
	"github.com/valerio/jeebie-core/jeebie/video"
)

// Backend is a complete front end: it shows frames and reports input.
type Backend interface {
	// Init prepares the output. It must be called before Update.
	Init(config Config) error

	// Update shows frame and returns the input collected since the
	// previous call.
	Update(frame *video.FrameBuffer) ([]input.Event, error)

	// Cleanup releases the resources acquired by Init.
	Cleanup() error
}

// Config holds configuration for backends. Backends ignore fields that do
// not apply to them.
type Config struct {
	Title string
	Scale int
}
