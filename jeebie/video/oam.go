package video

import (
	"sort"

	"github.com/valerio/jeebie-core/jeebie/bit"
)

const (
	oamSize          = 0xA0
	spriteCount      = 40
	spritesPerLine   = 10
	spriteYOffset    = 16
	spriteXOffset    = 8
	spriteAttrFlipX  = 5
	spriteAttrFlipY  = 6
	spriteAttrBehind = 7
	spriteAttrOBP1   = 4
)

// Sprite represents a single sprite/object in OAM memory.
// Positions are screen coordinates, the hardware offsets already removed.
type Sprite struct {
	Y         int
	X         int
	TileIndex uint8
	Flags     uint8
	OAMIndex  int
	Height    int

	PaletteOBP1 bool // false = OBP0, true = OBP1
	FlipX       bool
	FlipY       bool
	BehindBG    bool // hidden behind background colors 1-3
}

func parseSprite(oam []uint8, index, height int) Sprite {
	base := index * 4
	flags := oam[base+3]
	return Sprite{
		Y:           int(oam[base]) - spriteYOffset,
		X:           int(oam[base+1]) - spriteXOffset,
		TileIndex:   oam[base+2],
		Flags:       flags,
		OAMIndex:    index,
		Height:      height,
		PaletteOBP1: bit.IsSet(spriteAttrOBP1, flags),
		FlipX:       bit.IsSet(spriteAttrFlipX, flags),
		FlipY:       bit.IsSet(spriteAttrFlipY, flags),
		BehindBG:    bit.IsSet(spriteAttrBehind, flags),
	}
}

// covers reports whether the sprite overlaps the given scanline.
func (s Sprite) covers(line int) bool {
	return s.Y <= line && line < s.Y+s.Height
}

// pixel returns the raw color (0-3) of the sprite at screen position
// (x, line) with flips applied, looking the pattern up in the tile cache.
// 8x16 sprites ignore bit 0 of the tile index.
func (s Sprite) pixel(tiles *tileCache, x, line int) uint8 {
	row := line - s.Y
	if s.FlipY {
		row = s.Height - 1 - row
	}
	col := x - s.X
	if s.FlipX {
		col = 7 - col
	}

	tile := int(s.TileIndex)
	if s.Height == 16 {
		tile &= 0xFE
	}
	tile += row / 8

	return tiles[tile][row%8][col]
}

// scanSprites performs the OAM scan for a scanline: it collects the first 10
// sprites (in OAM order) overlapping the line, then orders them by drawing
// priority, lower X first and lower OAM index on ties.
func scanSprites(oam []uint8, line, height int, out []Sprite) []Sprite {
	out = out[:0]
	for i := 0; i < spriteCount && len(out) < spritesPerLine; i++ {
		sprite := parseSprite(oam, i, height)
		if sprite.covers(line) {
			out = append(out, sprite)
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].X < out[b].X
	})

	return out
}
