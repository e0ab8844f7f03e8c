package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/valerio/jeebie-core/jeebie/display"
	"github.com/valerio/jeebie-core/jeebie/video"
	"golang.org/x/image/draw"
)

// Image converts a frame to RGBA, scaled up by an integer factor with
// nearest neighbour sampling so pixels stay square.
func Image(fb *video.FrameBuffer, scale int) *image.RGBA {
	src := image.NewRGBA(image.Rect(0, 0, video.FramebufferWidth, video.FramebufferHeight))
	for y := 0; y < video.FramebufferHeight; y++ {
		for x, shade := range fb.Row(y) {
			src.SetRGBA(x, y, display.RGBA(shade))
		}
	}

	return Scale(src, scale)
}

// Scale enlarges src by an integer factor with nearest neighbour sampling.
func Scale(src *image.RGBA, scale int) *image.RGBA {
	scale = display.ClampScale(scale)
	if scale == 1 {
		return src
	}

	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// SaveImage writes img as a PNG file at path.
func SaveImage(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return file.Close()
}

// WritePNG encodes a frame as PNG.
func WritePNG(w io.Writer, fb *video.FrameBuffer, scale int) error {
	if err := png.Encode(w, Image(fb, scale)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// SavePNG writes <dir>/<name>.png and returns its path.
func SavePNG(dir, name string, fb *video.FrameBuffer, scale int) (string, error) {
	path := filepath.Join(dir, name+".png")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	if err := WritePNG(file, fb, scale); err != nil {
		return "", err
	}
	return path, file.Close()
}

// SaveText writes <dir>/<name>.txt and returns its path.
func SaveText(dir, name string, fb *video.FrameBuffer, meta Meta) (string, error) {
	path := filepath.Join(dir, name+".txt")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	if err := WriteText(file, fb, meta); err != nil {
		return "", err
	}
	return path, file.Close()
}
