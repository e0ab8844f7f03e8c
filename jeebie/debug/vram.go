// Package debug extracts views of machine state that the screen does not
// show: the tile patterns in VRAM, the sprite table and raw memory.
package debug

import (
	"fmt"
	"image"

	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/bit"
	"github.com/valerio/jeebie-core/jeebie/cpu"
	"github.com/valerio/jeebie-core/jeebie/display"
	"github.com/valerio/jeebie-core/jeebie/video"
)

const (
	TilePatternCount = 384
	TilesPerRow      = 16
	TileRows         = TilePatternCount / TilesPerRow
	TilePixels       = 8

	BackgroundTilemapAddr = 0x9800
	WindowTilemapAddr     = 0x9C00
)

// TileSource is anything that hands out decoded tile patterns.
// *video.PPU satisfies it.
type TileSource interface {
	Tile(index int) video.Tile
}

// TileSheet draws all 384 patterns in a 16x24 grid of 8x8 tiles. Colors are
// the raw 2-bit indices, no palette applied.
func TileSheet(src TileSource) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TilesPerRow*TilePixels, TileRows*TilePixels))
	for i := 0; i < TilePatternCount; i++ {
		tile := src.Tile(i)
		originX, originY := (i%TilesPerRow)*TilePixels, (i/TilesPerRow)*TilePixels
		for y, row := range tile {
			for x, color := range row {
				img.SetRGBA(originX+x, originY+y, display.RGBA(color))
			}
		}
	}
	return img
}

// TilemapInfo summarizes the LCDC bits that select what the PPU draws.
type TilemapInfo struct {
	LCDC uint8
}

func ReadTilemapInfo(mem cpu.Reader) TilemapInfo {
	return TilemapInfo{LCDC: mem.Read(addr.LCDC)}
}

func (info TilemapInfo) BackgroundMap() uint16 {
	if bit.IsSet(3, info.LCDC) {
		return WindowTilemapAddr
	}
	return BackgroundTilemapAddr
}

func (info TilemapInfo) WindowMap() uint16 {
	if bit.IsSet(6, info.LCDC) {
		return WindowTilemapAddr
	}
	return BackgroundTilemapAddr
}

func (info TilemapInfo) FormatSummary() string {
	onOff := func(set bool) string {
		if set {
			return "ON"
		}
		return "OFF"
	}
	return fmt.Sprintf("LCDC: 0x%02X | LCD %s | BG %s map 0x%04X | Window %s map 0x%04X | Sprites %s",
		info.LCDC,
		onOff(bit.IsSet(7, info.LCDC)),
		onOff(bit.IsSet(0, info.LCDC)), info.BackgroundMap(),
		onOff(bit.IsSet(5, info.LCDC)), info.WindowMap(),
		onOff(bit.IsSet(1, info.LCDC)))
}
