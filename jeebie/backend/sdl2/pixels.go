package sdl2

import (
	"github.com/valerio/jeebie-core/jeebie/display"
	"github.com/valerio/jeebie-core/jeebie/video"
)

const bytesPerPixel = 4

// fillPixels converts frame into RGBA bytes, laid out the way an
// ABGR8888 texture expects them on little endian hosts.
func fillPixels(dst []byte, frame *video.FrameBuffer) {
	for i, shade := range frame.Pixels() {
		c := display.RGBA(shade)
		p := dst[i*bytesPerPixel : i*bytesPerPixel+bytesPerPixel]
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
	}
}

func newPixelBuffer() []byte {
	return make([]byte, video.FramebufferWidth*video.FramebufferHeight*bytesPerPixel)
}
