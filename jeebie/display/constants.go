// Package display maps framebuffer shade indices to what front ends show.
package display

import "image/color"

// Window scaling
const (
	// DefaultPixelScale is the default scaling factor for Game Boy pixels
	DefaultPixelScale = 4
	// MaxPixelScale bounds the --scale flag
	MaxPixelScale = 10
)

// Grayscale levels, indexed by shade (0 lightest).
const (
	GrayscaleWhite     = 255
	GrayscaleLightGray = 170
	GrayscaleDarkGray  = 85
	GrayscaleBlack     = 0
	FullAlpha          = 255
)

var grays = [4]uint8{GrayscaleWhite, GrayscaleLightGray, GrayscaleDarkGray, GrayscaleBlack}

// ShadeRunes draws a shade with a single character, lightest first.
var ShadeRunes = [4]rune{'░', '▒', '▓', '█'}

// Gray returns the grayscale level of a shade. Only the low 2 bits count.
func Gray(shade uint8) uint8 {
	return grays[shade&0x03]
}

// RGBA returns the opaque color of a shade.
func RGBA(shade uint8) color.RGBA {
	g := Gray(shade)
	return color.RGBA{R: g, G: g, B: g, A: FullAlpha}
}

// Rune returns the character for a shade.
func Rune(shade uint8) rune {
	return ShadeRunes[shade&0x03]
}

// ShadeOfRune is the inverse of Rune.
func ShadeOfRune(r rune) (uint8, bool) {
	for shade, candidate := range ShadeRunes {
		if candidate == r {
			return uint8(shade), true
		}
	}
	return 0, false
}

// ClampScale keeps a user supplied scale factor within 1..MaxPixelScale.
func ClampScale(scale int) int {
	switch {
	case scale < 1:
		return 1
	case scale > MaxPixelScale:
		return MaxPixelScale
	}
	return scale
}
