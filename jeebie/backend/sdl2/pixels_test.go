package sdl2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/jeebie-core/jeebie/display"
	"github.com/valerio/jeebie-core/jeebie/video"
)

func TestFillPixels(t *testing.T) {
	frame := video.NewFrameBuffer()
	frame.SetPixel(1, 0, 3)
	frame.SetPixel(0, 1, 2)
	buf := newPixelBuffer()

	fillPixels(buf, frame)

	assert.Equal(t, []byte{display.GrayscaleWhite, display.GrayscaleWhite, display.GrayscaleWhite, 0xFF}, buf[0:4])
	assert.Equal(t, []byte{display.GrayscaleBlack, display.GrayscaleBlack, display.GrayscaleBlack, 0xFF}, buf[4:8])
	row := video.FramebufferWidth * bytesPerPixel
	assert.Equal(t, []byte{display.GrayscaleDarkGray, display.GrayscaleDarkGray, display.GrayscaleDarkGray, 0xFF}, buf[row:row+4])
}
