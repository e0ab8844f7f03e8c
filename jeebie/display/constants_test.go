package display

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShades(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, RGBA(0))
	assert.Equal(t, color.RGBA{A: 255}, RGBA(3))
	assert.Equal(t, uint8(170), Gray(1))
	assert.Equal(t, Gray(1), Gray(5), "only the low bits select the shade")

	for shade := uint8(0); shade < 4; shade++ {
		got, ok := ShadeOfRune(Rune(shade))
		assert.True(t, ok)
		assert.Equal(t, shade, got)
	}
	_, ok := ShadeOfRune('x')
	assert.False(t, ok)
}

func TestClampScale(t *testing.T) {
	testCases := []struct {
		in, want int
	}{
		{in: -3, want: 1},
		{in: 0, want: 1},
		{in: 4, want: 4},
		{in: 99, want: MaxPixelScale},
	}
	for _, tC := range testCases {
		assert.Equal(t, tC.want, ClampScale(tC.in))
	}
}
