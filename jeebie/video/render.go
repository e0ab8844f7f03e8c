package video

import "github.com/valerio/jeebie-core/jeebie/addr"

// windowXOffset is subtracted from WX to get the window's screen column.
const windowXOffset = 7

// renderScanline composites background, window and sprites for the current
// line into the framebuffer.
func (p *PPU) renderScanline() {
	line := int(p.ly)
	if line >= FramebufferHeight {
		return
	}

	row := p.framebuffer.Row(line)
	clear(row)
	clear(p.bgColors[:])

	if p.readLCDCVariable(bgDisplay) {
		p.renderBackground(line, row)
	}
	p.renderWindow(line, row)

	if p.readLCDCVariable(spriteDisplayEnable) {
		p.renderSprites(line, row)
	}
}

func (p *PPU) renderBackground(line int, row []uint8) {
	mapBase := addr.TileMap0
	if p.readLCDCVariable(bgTileMapDisplaySelect) {
		mapBase = addr.TileMap1
	}

	y := (int(p.scy) + line) & 0xFF
	for x := 0; x < FramebufferWidth; x++ {
		mapX := (int(p.scx) + x) & 0xFF
		color := p.tileMapPixel(mapBase, mapX, y)
		p.bgColors[x] = color
		row[x] = applyPalette(p.bgp, color)
	}
}

func (p *PPU) renderWindow(line int, row []uint8) {
	if !p.readLCDCVariable(windowDisplayEnable) {
		return
	}
	if int(p.wy) > line || p.wx > FramebufferWidth+windowXOffset-1 {
		return
	}

	mapBase := addr.TileMap0
	if p.readLCDCVariable(windowTileMapSelect) {
		mapBase = addr.TileMap1
	}

	startX := int(p.wx) - windowXOffset
	for x := max(startX, 0); x < FramebufferWidth; x++ {
		color := p.tileMapPixel(mapBase, x-startX, p.windowLine)
		p.bgColors[x] = color
		row[x] = applyPalette(p.bgp, color)
	}

	p.windowLine++
}

// tileMapPixel returns the raw color at (x, y) of the 256x256 map at mapBase.
func (p *PPU) tileMapPixel(mapBase uint16, x, y int) uint8 {
	mapAddress := mapBase + uint16((y/8)*32+x/8)
	tileNumber := p.vram[mapAddress-addr.VRAMStart]
	return p.tiles[p.tileIndex(tileNumber)][y%8][x%8]
}

// tileIndex resolves a tile map entry to a tile cache index. With LCDC.4
// set tiles are numbered 0-255 from 0x8000, otherwise the number is signed
// and relative to 0x9000 (tile 256).
func (p *PPU) tileIndex(tileNumber uint8) int {
	if p.readLCDCVariable(bgWindowTileDataSelect) {
		return int(tileNumber)
	}
	return 256 + int(int8(tileNumber))
}

func (p *PPU) spriteHeight() int {
	if p.readLCDCVariable(spriteSize) {
		return 16
	}
	return 8
}

// renderSprites draws the sprites of the line. For each column the first
// sprite in priority order with an opaque pixel wins; a BG-priority sprite
// then only shows over background color 0.
func (p *PPU) renderSprites(line int, row []uint8) {
	sprites := scanSprites(p.oam[:], line, p.spriteHeight(), p.lineSprites[:])

	for x := 0; x < FramebufferWidth; x++ {
		for _, sprite := range sprites {
			if x < sprite.X || x >= sprite.X+8 {
				continue
			}

			color := sprite.pixel(&p.tiles, x, line)
			if color == 0 {
				continue
			}

			if !sprite.BehindBG || p.bgColors[x] == 0 {
				palette := p.obp0
				if sprite.PaletteOBP1 {
					palette = p.obp1
				}
				row[x] = applyPalette(palette, color)
			}
			break
		}
	}
}

// applyPalette maps a raw 2-bit color through a palette register, where
// bits 2n+1..2n hold the shade for color n.
func applyPalette(palette, color uint8) uint8 {
	return (palette >> (color * 2)) & 0x03
}
