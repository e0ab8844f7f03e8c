package snapshot

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/jeebie-core/jeebie/video"
)

func gradient() *video.FrameBuffer {
	fb := video.NewFrameBuffer()
	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			fb.SetPixel(x, y, uint8(x/40))
		}
	}
	return fb
}

func TestTextRoundTrip(t *testing.T) {
	fb := gradient()
	var buf bytes.Buffer

	require.NoError(t, WriteText(&buf, fb, Meta{Frame: 12, Instructions: 3456}))

	out := buf.String()
	assert.Contains(t, out, "# Frame: 12, Instructions: 3456")
	assert.Contains(t, out, "# Digest: "+DigestString(fb))
	rows := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, rows, 5+video.FramebufferHeight)
	assert.Equal(t, strings.Repeat("░", 40)+strings.Repeat("▒", 40)+strings.Repeat("▓", 40)+strings.Repeat("█", 40), rows[5])

	parsed, err := ReadText(&buf)
	require.NoError(t, err)
	assert.Equal(t, fb.Pixels(), parsed.Pixels())
}

func TestReadTextMalformed(t *testing.T) {
	testCases := []struct {
		desc  string
		input string
	}{
		{desc: "empty", input: ""},
		{desc: "bad rune", input: "x\n"},
		{desc: "short row", input: "░░\n"},
		{desc: "too few rows", input: strings.Repeat("░", 160) + "\n"},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			_, err := ReadText(strings.NewReader(tC.input))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestImageScaling(t *testing.T) {
	fb := gradient()

	img := Image(fb, 3)

	assert.Equal(t, 480, img.Bounds().Dx())
	assert.Equal(t, 432, img.Bounds().Dy())
	assert.Equal(t, uint8(255), img.RGBAAt(0, 0).R)
	assert.Equal(t, uint8(255), img.RGBAAt(119, 431).R)
	assert.Equal(t, uint8(170), img.RGBAAt(120, 0).R)
	assert.Equal(t, uint8(0), img.RGBAAt(479, 431).R)

	unscaled := Image(fb, 0)
	assert.Equal(t, 160, unscaled.Bounds().Dx())
}

func TestSavePNG(t *testing.T) {
	dir := t.TempDir()

	path, err := SavePNG(dir, "frame_1", gradient(), 2)
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 288, img.Bounds().Dy())
}

func TestSaveImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	path := filepath.Join(t.TempDir(), "sheet.png")

	require.NoError(t, SaveImage(path, Scale(src, 3)))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, 12, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())
}

func TestSaveText(t *testing.T) {
	path, err := SaveText(t.TempDir(), "frame_1", gradient(), Meta{})
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	parsed, err := ReadText(file)
	require.NoError(t, err)
	assert.Equal(t, gradient().Pixels(), parsed.Pixels())
}

func TestDigest(t *testing.T) {
	a, b := video.NewFrameBuffer(), video.NewFrameBuffer()
	assert.Equal(t, Digest(a), Digest(b))
	assert.Len(t, DigestString(a), 16)

	b.SetPixel(10, 10, 2)
	assert.NotEqual(t, Digest(a), Digest(b))
}

func TestTracker(t *testing.T) {
	var tracker Tracker
	fb := video.NewFrameBuffer()

	assert.True(t, tracker.Changed(fb), "first frame is always new")
	assert.False(t, tracker.Changed(fb))

	fb.SetPixel(0, 0, 3)
	assert.True(t, tracker.Changed(fb))
	assert.False(t, tracker.Changed(fb))
	assert.Equal(t, 2, tracker.Unique())
}
