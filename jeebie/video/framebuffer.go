package video

const (
	// FramebufferWidth is the visible screen width in pixels.
	FramebufferWidth = 160
	// FramebufferHeight is the visible screen height in pixels.
	FramebufferHeight = 144
)

// FrameBuffer holds one frame of 2-bit shade indices (0 lightest, 3 darkest)
// in row-major order. Mapping shades to colors is up to the consumer.
type FrameBuffer struct {
	buffer [FramebufferWidth * FramebufferHeight]uint8
}

// NewFrameBuffer creates a blank frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

func (fb *FrameBuffer) GetPixel(x, y int) uint8 {
	return fb.buffer[y*FramebufferWidth+x]
}

func (fb *FrameBuffer) SetPixel(x, y int, shade uint8) {
	fb.buffer[y*FramebufferWidth+x] = shade & 0x03
}

// Pixels returns the backing slice, not a copy.
func (fb *FrameBuffer) Pixels() []uint8 {
	return fb.buffer[:]
}

// Row returns the shades of scanline y.
func (fb *FrameBuffer) Row(y int) []uint8 {
	return fb.buffer[y*FramebufferWidth : (y+1)*FramebufferWidth]
}

// Clear resets every pixel to shade 0.
func (fb *FrameBuffer) Clear() {
	clear(fb.buffer[:])
}
