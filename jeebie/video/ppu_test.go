package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/fault"
)

type interruptRecorder struct {
	requests []addr.Interrupt
}

func (r *interruptRecorder) request(i addr.Interrupt) {
	r.requests = append(r.requests, i)
}

func (r *interruptRecorder) count(i addr.Interrupt) int {
	n := 0
	for _, req := range r.requests {
		if req == i {
			n++
		}
	}
	return n
}

func newTestPPU() (*PPU, *interruptRecorder) {
	rec := &interruptRecorder{}
	return New(rec.request), rec
}

func tickInChunks(p *PPU, total, chunk int) {
	for total > 0 {
		n := min(chunk, total)
		p.Tick(n)
		total -= n
	}
}

func TestModeTransitionsWithinScanline(t *testing.T) {
	p, _ := newTestPPU()

	steps := []struct {
		cycles int
		mode   Mode
		dots   int
		ly     uint8
	}{
		{79, OAMScanMode, 79, 0},
		{1, PixelTransferMode, 80, 0},
		{288, PixelTransferMode, 368, 0},
		{1, HBlankMode, 369, 0},
		{86, HBlankMode, 455, 0},
		{1, OAMScanMode, 0, 1},
	}

	for _, s := range steps {
		p.Tick(s.cycles)
		assert.Equal(t, s.mode, p.Mode())
		assert.Equal(t, s.dots, p.Dots())
		assert.Equal(t, s.ly, p.LY())
	}
}

func TestFullFrameReturnsToStart(t *testing.T) {
	for _, chunk := range []int{1, 4, 7, 24, 80, 456, 1000, FrameDots} {
		p, rec := newTestPPU()
		tickInChunks(p, FrameDots, chunk)

		assert.Equalf(t, uint8(0), p.LY(), "chunk %d", chunk)
		assert.Equalf(t, OAMScanMode, p.Mode(), "chunk %d", chunk)
		assert.Equalf(t, 0, p.Dots(), "chunk %d", chunk)
		assert.Equalf(t, 1, rec.count(addr.VBlankInterrupt), "chunk %d", chunk)
	}
}

func TestModeSequenceOverFrame(t *testing.T) {
	p, _ := newTestPPU()

	var modes []Mode
	last := p.Mode()
	modes = append(modes, last)
	for i := 0; i < FrameDots; i++ {
		p.Tick(1)
		if p.Mode() != last {
			last = p.Mode()
			modes = append(modes, last)
		}
	}

	var expected []Mode
	for i := 0; i < vblankStartLine; i++ {
		expected = append(expected, OAMScanMode, PixelTransferMode, HBlankMode)
	}
	expected = append(expected, VBlankMode, OAMScanMode)
	assert.Equal(t, expected, modes)
}

func TestVBlankEntry(t *testing.T) {
	p, rec := newTestPPU()

	p.Tick(vblankStartLine*ScanlineDots - 1)
	assert.False(t, p.FrameReady())
	assert.Equal(t, 0, rec.count(addr.VBlankInterrupt))

	p.Tick(1)
	assert.Equal(t, uint8(144), p.LY())
	assert.Equal(t, VBlankMode, p.Mode())
	assert.True(t, p.FrameReady())
	assert.Equal(t, 1, rec.count(addr.VBlankInterrupt))
	assert.Equal(t, uint64(1), p.FrameCount())

	p.ClearFrameReady()
	assert.False(t, p.FrameReady())

	p.Tick(9 * ScanlineDots)
	assert.Equal(t, uint8(153), p.LY())
	assert.Equal(t, VBlankMode, p.Mode())
}

func TestBlankFrameWithLayersDisabled(t *testing.T) {
	p, rec := newTestPPU()
	p.WriteRegister(addr.LCDC, 0x80)

	// garbage in VRAM and OAM must not leak into the frame
	for a := addr.VRAMStart; a <= addr.VRAMEnd; a++ {
		p.WriteVRAM(a, 0xFF)
	}
	for a := addr.OAMStart; a <= addr.OAMEnd; a++ {
		p.WriteOAM(a, 0x20)
	}

	p.Tick(FrameDots)

	for i, shade := range p.Framebuffer().Pixels() {
		require.Equalf(t, uint8(0), shade, "pixel %d", i)
	}
	assert.Equal(t, 1, rec.count(addr.VBlankInterrupt))
	assert.Len(t, rec.requests, 1)
}

func TestSTATInterruptSources(t *testing.T) {
	tests := []struct {
		name   string
		stat   uint8
		lyc    uint8
		cycles int
		want   int
	}{
		{"hblank select", 0x08, 0xFF, oamScanDots + pixelTransferDots, 1},
		{"hblank select over two lines", 0x08, 0xFF, ScanlineDots + oamScanDots + pixelTransferDots, 2},
		{"oam select", 0x20, 0xFF, ScanlineDots, 1},
		{"vblank select", 0x10, 0xFF, vblankStartLine * ScanlineDots, 1},
		{"lyc select", 0x40, 2, 2 * ScanlineDots, 1},
		{"lyc select, line not reached", 0x40, 3, 2 * ScanlineDots, 0},
		{"nothing selected", 0x00, 2, FrameDots, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, rec := newTestPPU()
			p.WriteRegister(addr.STAT, tt.stat)
			p.WriteRegister(addr.LYC, tt.lyc)

			p.Tick(tt.cycles)
			assert.Equal(t, tt.want, rec.count(addr.LCDSTATInterrupt))
		})
	}
}

func TestSTATRegister(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(addr.STAT, 0xFF)
	p.WriteRegister(addr.LYC, 2)

	// bit 7 reads 1, bits 3-6 are writable, bit 2 is the coincidence, 0-1 the mode
	assert.Equal(t, uint8(0xFA), p.ReadRegister(addr.STAT))

	p.Tick(2 * ScanlineDots)
	assert.Equal(t, uint8(0xFE), p.ReadRegister(addr.STAT))

	p.Tick(oamScanDots)
	assert.Equal(t, uint8(0xFF), p.ReadRegister(addr.STAT))
}

func TestLYCCoincidenceIsEdgeTriggered(t *testing.T) {
	p, rec := newTestPPU()
	p.WriteRegister(addr.STAT, 0x40)
	p.WriteRegister(addr.LYC, 5)

	p.Tick(5 * ScanlineDots)
	assert.Equal(t, 1, rec.count(addr.LCDSTATInterrupt))

	// staying on the line does not raise it again
	p.Tick(ScanlineDots - 1)
	assert.Equal(t, 1, rec.count(addr.LCDSTATInterrupt))

	p.Tick(FrameDots)
	assert.Equal(t, 2, rec.count(addr.LCDSTATInterrupt))
}

func TestLCDOff(t *testing.T) {
	p, rec := newTestPPU()
	p.Tick(10*ScanlineDots + 100)
	require.Equal(t, uint8(10), p.LY())
	p.Framebuffer().SetPixel(5, 5, 3)

	p.WriteRegister(addr.LCDC, 0x11)
	assert.Equal(t, uint8(0), p.Framebuffer().GetPixel(5, 5), "screen blanks")
	assert.Equal(t, uint8(0), p.LY())
	assert.Equal(t, HBlankMode, p.Mode())
	assert.Equal(t, uint8(0x80), p.ReadRegister(addr.STAT)&0x83)

	p.Tick(5 * FrameDots)
	assert.Equal(t, uint8(0), p.LY())
	assert.Equal(t, 0, p.Dots())
	assert.False(t, p.FrameReady())
	assert.Equal(t, 0, rec.count(addr.VBlankInterrupt))

	p.WriteRegister(addr.LCDC, 0x91)
	assert.Equal(t, OAMScanMode, p.Mode())
	assert.Equal(t, uint8(0), p.LY())
	assert.Equal(t, 0, p.Dots())

	p.Tick(FrameDots)
	assert.Equal(t, 1, rec.count(addr.VBlankInterrupt))
}

func writeRegister(p *PPU, address uint16, value uint8) (err error) {
	defer fault.Recover(&err)
	p.WriteRegister(address, value)
	return nil
}

func TestWriteLYIsIllegal(t *testing.T) {
	p, _ := newTestPPU()
	err := writeRegister(p, addr.LY, 0x10)
	assert.ErrorIs(t, err, fault.ErrIllegalWrite)
	assert.Equal(t, uint8(0), p.LY())

	assert.NoError(t, writeRegister(p, addr.SCX, 0x10))
}

func TestRegistersReadBack(t *testing.T) {
	p, _ := newTestPPU()
	for _, a := range []uint16{addr.SCY, addr.SCX, addr.LYC, addr.BGP, addr.OBP0, addr.OBP1, addr.WY, addr.WX} {
		p.WriteRegister(a, 0x5A)
		assert.Equalf(t, uint8(0x5A), p.ReadRegister(a), "register 0x%04X", a)
	}
}
