//go:build !sdl2

package sdl2

import (
	"errors"

	"github.com/valerio/jeebie-core/jeebie/backend"
	"github.com/valerio/jeebie-core/jeebie/input"
	"github.com/valerio/jeebie-core/jeebie/video"
)

// ErrUnavailable is returned by every call on a build without SDL2.
var ErrUnavailable = errors.New("SDL2 backend not available, build with -tags sdl2 to enable")

// Backend is a placeholder for builds without SDL2.
type Backend struct{}

func New() *Backend {
	return &Backend{}
}

// Available reports whether this binary was built with SDL2 support.
func Available() bool { return false }

func (s *Backend) Init(backend.Config) error {
	return ErrUnavailable
}

func (s *Backend) Update(*video.FrameBuffer) ([]input.Event, error) {
	return nil, ErrUnavailable
}

func (s *Backend) Cleanup() error {
	return nil
}
