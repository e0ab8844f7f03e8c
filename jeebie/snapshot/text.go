// Package snapshot turns frames into files: text dumps for diffing, PNG
// images for looking at, and digests for comparing runs.
package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/valerio/jeebie-core/jeebie/display"
	"github.com/valerio/jeebie-core/jeebie/video"
)

// ErrMalformed is returned by ReadText for input that is not a frame dump.
var ErrMalformed = errors.New("malformed frame snapshot")

// Meta is written in the header of a text snapshot.
type Meta struct {
	Frame        uint64
	Instructions uint64
}

// WriteText dumps a frame as one character per pixel, lightest to darkest
// ░▒▓█, after a short commented header.
func WriteText(w io.Writer, fb *video.FrameBuffer, meta Meta) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# Game Boy Frame Snapshot\n")
	fmt.Fprintf(bw, "# Frame: %d, Instructions: %d\n", meta.Frame, meta.Instructions)
	fmt.Fprintf(bw, "# Resolution: %dx%d pixels\n", video.FramebufferWidth, video.FramebufferHeight)
	fmt.Fprintf(bw, "# Digest: %s\n", DigestString(fb))
	fmt.Fprintf(bw, "#\n")

	for y := 0; y < video.FramebufferHeight; y++ {
		for _, shade := range fb.Row(y) {
			bw.WriteRune(display.Rune(shade))
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// ReadText parses a dump written by WriteText. Header lines are skipped.
func ReadText(r io.Reader) (*video.FrameBuffer, error) {
	fb := video.NewFrameBuffer()
	scanner := bufio.NewScanner(r)

	y := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		if y >= video.FramebufferHeight {
			return nil, fmt.Errorf("%w: more than %d rows", ErrMalformed, video.FramebufferHeight)
		}

		x := 0
		for _, r := range line {
			shade, ok := display.ShadeOfRune(r)
			if !ok {
				return nil, fmt.Errorf("%w: unexpected %q at row %d", ErrMalformed, r, y)
			}
			if x >= video.FramebufferWidth {
				return nil, fmt.Errorf("%w: row %d too long", ErrMalformed, y)
			}
			fb.SetPixel(x, y, shade)
			x++
		}
		if x != video.FramebufferWidth {
			return nil, fmt.Errorf("%w: row %d has %d pixels", ErrMalformed, y, x)
		}
		y++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if y != video.FramebufferHeight {
		return nil, fmt.Errorf("%w: %d rows", ErrMalformed, y)
	}

	return fb, nil
}
