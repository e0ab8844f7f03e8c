// Package render holds the pixel to character conversions shared by the
// text based outputs.
package render

import (
	"strings"

	"github.com/valerio/jeebie-core/jeebie/video"
)

const (
	upperHalf = '▀'
	lowerHalf = '▄'
	fullBlock = '█'
)

// Cell is one character cell covering two vertically stacked pixels.
type Cell struct {
	Rune       rune
	Foreground uint8 // shade drawn by the glyph
	Background uint8 // shade behind it
}

// HalfBlock picks the glyph for a top and bottom pixel pair. Equal shades
// use a full block; otherwise the upper half block is drawn in the top
// shade over the bottom one.
func HalfBlock(top, bottom uint8) Cell {
	if top == bottom {
		return Cell{Rune: fullBlock, Foreground: top, Background: top}
	}
	return Cell{Rune: upperHalf, Foreground: top, Background: bottom}
}

// HalfBlockRows converts a frame into 72 rows of 160 cells.
func HalfBlockRows(fb *video.FrameBuffer) [][]Cell {
	rows := make([][]Cell, video.FramebufferHeight/2)
	for row := range rows {
		top, bottom := fb.Row(row*2), fb.Row(row*2+1)
		cells := make([]Cell, video.FramebufferWidth)
		for x := range cells {
			cells[x] = HalfBlock(top[x], bottom[x])
		}
		rows[row] = cells
	}
	return rows
}

// Monochrome renders a frame as plain text with one glyph per pixel pair,
// for output that cannot carry colors: pixels darker than shade 1 are ink.
func Monochrome(fb *video.FrameBuffer) []string {
	lines := make([]string, 0, video.FramebufferHeight/2)
	var sb strings.Builder
	for y := 0; y < video.FramebufferHeight; y += 2 {
		sb.Reset()
		top, bottom := fb.Row(y), fb.Row(y+1)
		for x := range top {
			sb.WriteRune(inkGlyph(top[x] >= 2, bottom[x] >= 2))
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func inkGlyph(top, bottom bool) rune {
	switch {
	case top && bottom:
		return fullBlock
	case top:
		return upperHalf
	case bottom:
		return lowerHalf
	}
	return ' '
}
