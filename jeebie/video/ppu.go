package video

import (
	"log/slog"

	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/bit"
	"github.com/valerio/jeebie-core/jeebie/fault"
)

// Mode is the current state of the PPU, as reported in STAT bits 0-1.
type Mode uint8

const (
	HBlankMode Mode = iota
	VBlankMode
	OAMScanMode
	PixelTransferMode
)

func (m Mode) String() string {
	switch m {
	case HBlankMode:
		return "HBlank"
	case VBlankMode:
		return "VBlank"
	case OAMScanMode:
		return "OAM"
	case PixelTransferMode:
		return "Transfer"
	}
	return "Unknown"
}

// Scanline timing, in clock cycles (dots). Pixel transfer is kept at its
// longest duration instead of varying with sprites and scroll.
const (
	oamScanDots       = 80
	pixelTransferDots = 289
	hblankEndDot      = 456
	ScanlineDots      = hblankEndDot
	vblankStartLine   = 144
	LinesPerFrame     = 154
	// FrameDots is the length of a full frame, 70224 cycles.
	FrameDots = ScanlineDots * LinesPerFrame
)

// LCDC (LCD Control) Register bits
//
//	Bit 7 - LCD Display Enable (0=Off, 1=On)
//	Bit 6 - Window Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 5 - Window Display Enable (0=Off, 1=On)
//	Bit 4 - BG & Window Tile Data Select (0=8800-97FF, 1=8000-8FFF)
//	Bit 3 - BG Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 2 - OBJ (Sprite) Size (0=8x8, 1=8x16)
//	Bit 1 - OBJ (Sprite) Display Enable (0=Off, 1=On)
//	Bit 0 - BG Display (0=Off, 1=On)
type lcdcFlag uint8

const (
	lcdDisplayEnable       lcdcFlag = 7
	windowTileMapSelect    lcdcFlag = 6
	windowDisplayEnable    lcdcFlag = 5
	bgWindowTileDataSelect lcdcFlag = 4
	bgTileMapDisplaySelect lcdcFlag = 3
	spriteSize             lcdcFlag = 2
	spriteDisplayEnable    lcdcFlag = 1
	bgDisplay              lcdcFlag = 0
)

// STAT interrupt select and status bits
const (
	statCoincidence    = 2
	statHBlankSelect   = 3
	statVBlankSelect   = 4
	statOAMSelect      = 5
	statLYCSelect      = 6
	statWritableMask   = 0x78
	statUnusedReadMask = 0x80
)

// PPU is the scanline state machine. It owns VRAM, OAM and the LCD
// registers 0xFF40-0xFF4B (except DMA, which is handled by the bus), and
// renders each line into the framebuffer as it enters HBlank.
type PPU struct {
	vram  [0x2000]uint8
	oam   [oamSize]uint8
	tiles tileCache

	framebuffer *FrameBuffer
	frameReady  bool

	lcdc uint8
	stat uint8
	scy  uint8
	scx  uint8
	ly   uint8
	lyc  uint8
	bgp  uint8
	obp0 uint8
	obp1 uint8
	wy   uint8
	wx   uint8

	mode        Mode
	dots        int
	windowLine  int
	coincidence bool

	bgColors     [FramebufferWidth]uint8
	lineSprites  [spritesPerLine]Sprite
	requestIRQ   func(addr.Interrupt)
	frameCounter uint64
}

// New creates a PPU with the LCD on, at the start of line 0.
// requestInterrupt receives VBlank and STAT requests.
func New(requestInterrupt func(addr.Interrupt)) *PPU {
	if requestInterrupt == nil {
		requestInterrupt = func(addr.Interrupt) {}
	}
	p := &PPU{
		framebuffer: NewFrameBuffer(),
		requestIRQ:  requestInterrupt,
		lcdc:        0x91,
		bgp:         0xFC,
		obp0:        0xFF,
		obp1:        0xFF,
		mode:        OAMScanMode,
	}
	p.coincidence = p.ly == p.lyc
	return p
}

// Tick advances the state machine by the given amount of clock cycles.
// Cycles are consumed in chunks up to the next mode boundary, so a single
// large tick behaves exactly like many small ones.
func (p *PPU) Tick(cycles int) {
	if !p.lcdEnabled() {
		return
	}

	for cycles > 0 {
		step := p.nextBoundary() - p.dots
		if cycles < step {
			p.dots += cycles
			return
		}
		cycles -= step
		p.dots += step
		p.advance()
	}
}

func (p *PPU) nextBoundary() int {
	switch p.mode {
	case OAMScanMode:
		return oamScanDots
	case PixelTransferMode:
		return oamScanDots + pixelTransferDots
	}
	return hblankEndDot
}

// advance performs the transition at the end of the current mode.
func (p *PPU) advance() {
	switch p.mode {
	case OAMScanMode:
		p.setMode(PixelTransferMode)
	case PixelTransferMode:
		p.renderScanline()
		p.setMode(HBlankMode)
	case HBlankMode:
		p.dots = 0
		p.setLY(p.ly + 1)
		if p.ly == vblankStartLine {
			p.setMode(VBlankMode)
			p.requestIRQ(addr.VBlankInterrupt)
			p.frameReady = true
			p.frameCounter++
		} else {
			p.setMode(OAMScanMode)
		}
	case VBlankMode:
		p.dots = 0
		if p.ly+1 >= LinesPerFrame {
			p.windowLine = 0
			p.setLY(0)
			p.setMode(OAMScanMode)
		} else {
			p.setLY(p.ly + 1)
		}
	}
}

func (p *PPU) setMode(mode Mode) {
	p.mode = mode

	selectBit := uint8(0xFF)
	switch mode {
	case HBlankMode:
		selectBit = statHBlankSelect
	case VBlankMode:
		selectBit = statVBlankSelect
	case OAMScanMode:
		selectBit = statOAMSelect
	}

	if selectBit != 0xFF && bit.IsSet(selectBit, p.stat) {
		p.requestIRQ(addr.LCDSTATInterrupt)
	}
}

// setLY updates the current line and raises STAT on a LY==LYC rising edge.
func (p *PPU) setLY(line uint8) {
	p.ly = line
	p.updateCoincidence(true)
}

func (p *PPU) updateCoincidence(notify bool) {
	match := p.ly == p.lyc
	if notify && match && !p.coincidence && bit.IsSet(statLYCSelect, p.stat) {
		p.requestIRQ(addr.LCDSTATInterrupt)
	}
	p.coincidence = match
}

func (p *PPU) lcdEnabled() bool {
	return p.readLCDCVariable(lcdDisplayEnable)
}

func (p *PPU) readLCDCVariable(flag lcdcFlag) bool {
	return bit.IsSet(uint8(flag), p.lcdc)
}

// ReadRegister reads one of the LCD registers 0xFF40-0xFF4B.
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address {
	case addr.LCDC:
		return p.lcdc
	case addr.STAT:
		value := statUnusedReadMask | p.stat&statWritableMask | uint8(p.mode)
		if p.coincidence {
			value = bit.Set(statCoincidence, value)
		}
		return value
	case addr.SCY:
		return p.scy
	case addr.SCX:
		return p.scx
	case addr.LY:
		return p.ly
	case addr.LYC:
		return p.lyc
	case addr.BGP:
		return p.bgp
	case addr.OBP0:
		return p.obp0
	case addr.OBP1:
		return p.obp1
	case addr.WY:
		return p.wy
	case addr.WX:
		return p.wx
	}
	return 0xFF
}

// WriteRegister writes one of the LCD registers 0xFF40-0xFF4B.
// LY is read only: writing it is a fatal fault.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address {
	case addr.LCDC:
		p.writeLCDC(value)
	case addr.STAT:
		p.stat = value & statWritableMask
	case addr.SCY:
		p.scy = value
	case addr.SCX:
		p.scx = value
	case addr.LY:
		fault.Raise(fault.ErrIllegalWrite, "LY (0x%04X) is read only, wrote 0x%02X", address, value)
	case addr.LYC:
		p.lyc = value
		p.updateCoincidence(false)
	case addr.BGP:
		p.bgp = value
	case addr.OBP0:
		p.obp0 = value
	case addr.OBP1:
		p.obp1 = value
	case addr.WY:
		p.wy = value
	case addr.WX:
		p.wx = value
	}
}

func (p *PPU) writeLCDC(value uint8) {
	wasEnabled := p.lcdEnabled()
	p.lcdc = value
	enabled := p.lcdEnabled()

	switch {
	case wasEnabled && !enabled:
		slog.Debug("LCD off", "ly", p.ly)
		p.ly = 0
		p.dots = 0
		p.windowLine = 0
		p.mode = HBlankMode
		p.framebuffer.Clear()
		p.updateCoincidence(false)
	case !wasEnabled && enabled:
		slog.Debug("LCD on")
		p.ly = 0
		p.dots = 0
		p.windowLine = 0
		p.setMode(OAMScanMode)
		p.updateCoincidence(true)
	}
}

// ReadVRAM reads a byte in 0x8000-0x9FFF.
func (p *PPU) ReadVRAM(address uint16) uint8 {
	return p.vram[address-addr.VRAMStart]
}

// WriteVRAM writes a byte in 0x8000-0x9FFF. Writes to the pattern area
// re-decode the affected tile row immediately.
func (p *PPU) WriteVRAM(address uint16, value uint8) {
	offset := address - addr.VRAMStart
	p.vram[offset] = value
	if address <= addr.TileDataEnd {
		p.tiles.updateRow(p.vram[:], offset)
	}
}

// ReadOAM reads a byte in 0xFE00-0xFE9F.
func (p *PPU) ReadOAM(address uint16) uint8 {
	return p.oam[address-addr.OAMStart]
}

// WriteOAM writes a byte in 0xFE00-0xFE9F.
func (p *PPU) WriteOAM(address uint16, value uint8) {
	p.oam[address-addr.OAMStart] = value
}

// Tile returns the decoded pattern at index (0-383) of the tile cache.
func (p *PPU) Tile(index int) Tile {
	return p.tiles[index]
}

// Sprites returns all 40 OAM entries, decoded with the current sprite size.
func (p *PPU) Sprites() []Sprite {
	sprites := make([]Sprite, spriteCount)
	for i := range sprites {
		sprites[i] = parseSprite(p.oam[:], i, p.spriteHeight())
	}
	return sprites
}

// Framebuffer returns the buffer the PPU renders into. It is overwritten
// line by line as the PPU runs.
func (p *PPU) Framebuffer() *FrameBuffer {
	return p.framebuffer
}

// FrameReady reports whether a VBlank was entered since the last call to
// ClearFrameReady.
func (p *PPU) FrameReady() bool {
	return p.frameReady
}

func (p *PPU) ClearFrameReady() {
	p.frameReady = false
}

// FrameCount is the number of VBlank periods entered so far.
func (p *PPU) FrameCount() uint64 {
	return p.frameCounter
}

func (p *PPU) Mode() Mode {
	return p.mode
}

func (p *PPU) LY() uint8 {
	return p.ly
}

// Dots is the position inside the current scanline, 0-455.
func (p *PPU) Dots() int {
	return p.dots
}

// WindowLine is the internal window line counter.
func (p *PPU) WindowLine() int {
	return p.windowLine
}
