//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/valerio/jeebie-core/jeebie/backend"
	"github.com/valerio/jeebie-core/jeebie/display"
	"github.com/valerio/jeebie-core/jeebie/input"
	"github.com/valerio/jeebie-core/jeebie/video"
	"github.com/veandco/go-sdl2/sdl"
)

// Backend draws into an SDL2 window. Building it requires the SDL2
// development libraries; default builds get the stub in stub.go.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   []byte
	queue    []input.Event
}

func New() *Backend {
	return &Backend{pixels: newPixelBuffer()}
}

// Available reports whether this binary was built with SDL2 support.
func Available() bool { return true }

func (s *Backend) Init(config backend.Config) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	scale := int32(display.ClampScale(config.Scale))
	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		video.FramebufferWidth*scale,
		video.FramebufferHeight*scale,
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer
	if err := renderer.SetLogicalSize(video.FramebufferWidth, video.FramebufferHeight); err != nil {
		slog.Warn("Failed to set logical size", "error", err)
	}

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture

	slog.Info("SDL2 backend initialized", "scale", scale)
	return nil
}

func (s *Backend) Update(frame *video.FrameBuffer) ([]input.Event, error) {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		s.handleEvent(ev)
	}

	if err := s.renderFrame(frame); err != nil {
		return nil, err
	}

	events := s.queue
	s.queue = nil
	return events, nil
}

func (s *Backend) Cleanup() error {
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

var keyNames = map[sdl.Keycode]string{
	sdl.K_z:         "z",
	sdl.K_x:         "x",
	sdl.K_w:         "w",
	sdl.K_a:         "a",
	sdl.K_s:         "s",
	sdl.K_d:         "d",
	sdl.K_o:         "o",
	sdl.K_p:         "p",
	sdl.K_q:         "q",
	sdl.K_RETURN:    "Enter",
	sdl.K_BACKSPACE: "Backspace",
	sdl.K_RSHIFT:    "Shift",
	sdl.K_LSHIFT:    "Shift",
	sdl.K_UP:        "Up",
	sdl.K_DOWN:      "Down",
	sdl.K_LEFT:      "Left",
	sdl.K_RIGHT:     "Right",
	sdl.K_SPACE:     "Space",
	sdl.K_ESCAPE:    "Escape",
	sdl.K_F5:        "F5",
	sdl.K_F9:        "F9",
}

func (s *Backend) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		s.queue = append(s.queue, input.Event{Action: input.EmulatorQuit, Type: input.Press})

	case *sdl.KeyboardEvent:
		act, ok := input.Lookup(keyNames[e.Keysym.Sym])
		if !ok {
			return
		}
		_, isJoypad := act.JoypadKey()

		switch {
		case e.Type == sdl.KEYDOWN && e.Repeat == 0:
			s.queue = append(s.queue, input.Event{Action: act, Type: input.Press})
		case e.Type == sdl.KEYUP && isJoypad:
			s.queue = append(s.queue, input.Event{Action: act, Type: input.Release})
		}
	}
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) error {
	fillPixels(s.pixels, frame)

	if err := s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), video.FramebufferWidth*bytesPerPixel); err != nil {
		return fmt.Errorf("texture update: %w", err)
	}

	s.renderer.SetDrawColor(display.GrayscaleBlack, display.GrayscaleBlack, display.GrayscaleBlack, display.FullAlpha)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
	return nil
}
