package video

import "github.com/valerio/jeebie-core/jeebie/bit"

const (
	tileCount = 384
	tileBytes = 16
)

// TileRow represents one row of a tile pattern (8 pixels).
//
// Each tile row uses 2 bytes in a bit-plane format:
//
//	Byte 1 (Low):  Bit plane 0 - provides bit 0 of each pixel's color
//	Byte 2 (High): Bit plane 1 - provides bit 1 of each pixel's color
//
// Bit 7 represents the leftmost pixel, bit 0 the rightmost:
//
//	Low  (0x3C): 0 0 1 1 1 1 0 0
//	High (0x7E): 0 1 1 1 1 1 1 0
//	            -----------------
//	Colors:      0 2 3 3 3 3 2 0
type TileRow struct {
	Low  uint8
	High uint8
}

// GetPixel extracts a pixel color (0-3) from the tile row.
// pixelX should be 0-7, where 0 is the leftmost pixel.
func (t TileRow) GetPixel(pixelX int) uint8 {
	index := uint8(7 - pixelX)
	return bit.GetBitValue(index, t.High)<<1 | bit.GetBitValue(index, t.Low)
}

// Decode expands the row into its 8 color indices, left to right.
func (t TileRow) Decode() [8]uint8 {
	var pixels [8]uint8
	for x := range pixels {
		pixels[x] = t.GetPixel(x)
	}
	return pixels
}

// Tile is a decoded 8x8 pattern, indexed [y][x].
type Tile [8][8]uint8

// tileCache mirrors the pattern area 0x8000-0x97FF in decoded form. It is
// kept current by updateRow on every write to that area, so the scanline
// renderer never decodes bit planes itself.
type tileCache [tileCount]Tile

// updateRow re-decodes the row holding the byte at offset (relative to
// 0x8000) from the raw VRAM contents.
func (tc *tileCache) updateRow(vram []uint8, offset uint16) {
	base := offset &^ 1
	tile := base / tileBytes
	row := (base % tileBytes) / 2
	tc[tile][row] = TileRow{Low: vram[base], High: vram[base+1]}.Decode()
}
