package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/cartridge"
	"github.com/valerio/jeebie-core/jeebie/fault"
	"github.com/valerio/jeebie-core/jeebie/video"
)

func newTestMMU() *MMU {
	rom := make([]byte, 0x8000)
	for i := range rom {
		rom[i] = uint8(i)
	}
	return NewWithCartridge(cartridge.NewMBC1(rom, 1))
}

func TestReadWriteRouting(t *testing.T) {
	tests := []struct {
		name    string
		address uint16
	}{
		{"vram", 0x8000},
		{"vram end", 0x9FFF},
		{"external ram", 0xA000},
		{"wram", 0xC000},
		{"wram end", 0xDFFF},
		{"oam", 0xFE00},
		{"oam end", 0xFE9F},
		{"io", 0xFF01},
		{"lcd register", addr.SCX},
		{"hram", 0xFF80},
		{"hram end", 0xFFFE},
		{"ie", addr.IE},
	}

	m := newTestMMU()
	m.Write(0x0000, 0x0A) // enable cart ram

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.Write(tt.address, 0x5C)
			assert.Equal(t, uint8(0x5C), m.Read(tt.address))
		})
	}
}

func TestCartridgeRegions(t *testing.T) {
	m := newTestMMU()
	assert.Equal(t, uint8(0x34), m.Read(0x0134))
	assert.Equal(t, uint8(0xFF), m.Read(0x7FFF))

	m.Write(0x0134, 0x00)
	assert.Equal(t, uint8(0x34), m.Read(0x0134))

	assert.Equal(t, uint8(0xFF), m.Read(0xA000), "cart ram starts disabled")
}

func TestNoCartridge(t *testing.T) {
	m := New()
	assert.Equal(t, uint8(0xFF), m.Read(0x0100))
	assert.Equal(t, uint8(0xFF), m.Read(0xA000))
	m.Write(0x2000, 0x01)
	m.Write(0xA000, 0x01)
}

func TestEchoRAM(t *testing.T) {
	m := newTestMMU()

	m.Write(0xC123, 0x11)
	assert.Equal(t, uint8(0x11), m.Read(0xE123))

	m.Write(0xFDFF, 0x22)
	assert.Equal(t, uint8(0x22), m.Read(0xDDFF))
}

func TestUnusableRegion(t *testing.T) {
	m := newTestMMU()
	for a := uint16(0xFEA0); a <= 0xFEFF; a++ {
		m.Write(a, 0x12)
		assert.Equal(t, uint8(0xFF), m.Read(a))
	}
}

func TestInterruptFlagRegister(t *testing.T) {
	m := newTestMMU()

	assert.Equal(t, uint8(0xE0), m.Read(addr.IF))
	m.Write(addr.IF, 0x05)
	assert.Equal(t, uint8(0xE5), m.Read(addr.IF))

	m.Write(addr.IF, 0x00)
	m.RequestInterrupt(addr.TimerInterrupt)
	m.RequestInterrupt(addr.JoypadInterrupt)
	assert.Equal(t, uint8(0xF4), m.Read(addr.IF))

	assert.Panics(t, func() { m.RequestInterrupt(addr.Interrupt(0x03)) })
}

func TestInterruptController(t *testing.T) {
	var ic InterruptController

	_, ok := ic.Highest()
	assert.False(t, ok)

	ic.Request(addr.TimerInterrupt)
	ic.Request(addr.LCDSTATInterrupt)
	assert.Equal(t, uint8(0), ic.Pending(), "nothing enabled")

	ic.Write(addr.IE, 0xFF)
	assert.Equal(t, uint8(0x06), ic.Pending())

	highest, ok := ic.Highest()
	require.True(t, ok)
	assert.Equal(t, addr.LCDSTATInterrupt, highest)

	ic.Acknowledge(highest)
	highest, _ = ic.Highest()
	assert.Equal(t, addr.TimerInterrupt, highest)
	assert.Equal(t, uint8(0xFF), ic.Read(addr.IE))
}

func TestHighestInterruptThroughRegisters(t *testing.T) {
	m := newTestMMU()

	_, ok := m.HighestInterrupt()
	assert.False(t, ok)

	m.Write(addr.IE, uint8(addr.VBlankInterrupt|addr.TimerInterrupt))
	m.RequestInterrupt(addr.TimerInterrupt)
	m.RequestInterrupt(addr.SerialInterrupt)
	m.RequestInterrupt(addr.VBlankInterrupt)

	highest, ok := m.HighestInterrupt()
	require.True(t, ok)
	assert.Equal(t, addr.VBlankInterrupt, highest)

	m.AcknowledgeInterrupt(highest)
	highest, ok = m.HighestInterrupt()
	require.True(t, ok)
	assert.Equal(t, addr.TimerInterrupt, highest)
	assert.Equal(t, uint8(0xE0|0x0C), m.Read(addr.IF))
}

func TestDMATransfer(t *testing.T) {
	m := newTestMMU()
	for i := uint16(0); i < 0xA0; i++ {
		m.Write(0xC000+i, uint8(0xA0-i))
	}

	m.Write(addr.DMA, 0xC0)
	for i := uint16(0); i < 0xA0; i++ {
		require.Equal(t, uint8(0xA0-i), m.Read(addr.OAMStart+i))
	}
	assert.Equal(t, uint8(0xC0), m.Read(addr.DMA))

	// from cartridge rom
	m.Write(addr.DMA, 0x01)
	assert.Equal(t, uint8(0x00), m.Read(addr.OAMStart))
	assert.Equal(t, uint8(0x9F), m.Read(addr.OAMEnd))
}

func TestBootROMLatchIsPlainStorage(t *testing.T) {
	m := newTestMMU()
	m.Write(addr.BootROMDisable, 0x01)
	assert.Equal(t, uint8(0x01), m.Read(addr.BootROMDisable))
	assert.Equal(t, uint8(0x00), m.Read(0x0000))
}

func guarded(fn func()) (err error) {
	defer fault.Recover(&err)
	fn()
	return nil
}

func TestWriteLYFaults(t *testing.T) {
	m := newTestMMU()
	err := guarded(func() { m.Write(addr.LY, 0x00) })
	assert.ErrorIs(t, err, fault.ErrIllegalWrite)
}

func TestWordAccess(t *testing.T) {
	m := newTestMMU()

	m.WriteWord(0xC000, 0xBEEF)
	assert.Equal(t, uint8(0xEF), m.Read(0xC000))
	assert.Equal(t, uint8(0xBE), m.Read(0xC001))
	assert.Equal(t, uint16(0xBEEF), m.ReadWord(0xC000))

	assert.Equal(t, uint16(0x0302), m.ReadWord(0x0002))

	err := guarded(func() { m.ReadWord(0xFFFF) })
	assert.ErrorIs(t, err, fault.ErrAddressOutOfBounds)
	err = guarded(func() { m.WriteWord(0xFFFF, 0x1234) })
	assert.ErrorIs(t, err, fault.ErrAddressOutOfBounds)

	assert.NoError(t, guarded(func() { m.WriteWord(0xFFFD, 0x1234) }))
	assert.Equal(t, uint16(0x1234), m.ReadWord(0xFFFD))
}

func TestTickDrivesTimerAndPPU(t *testing.T) {
	m := newTestMMU()
	m.Write(addr.TAC, 0x05)

	m.Tick(video.ScanlineDots)
	assert.Equal(t, uint8(1), m.Read(addr.DIV))
	assert.Equal(t, uint8(video.ScanlineDots/16), m.Read(addr.TIMA))
	assert.Equal(t, uint8(1), m.Read(addr.LY))

	m.Tick(video.FrameDots - video.ScanlineDots)
	assert.Equal(t, uint8(0), m.Read(addr.LY))
	assert.True(t, m.PPU().FrameReady())
	assert.Equal(t, uint8(0x01), m.Read(addr.IF)&0x01)
}

func TestTimerInterruptReachesIF(t *testing.T) {
	m := newTestMMU()
	m.Write(addr.TIMA, 0xFF)
	m.Write(addr.TAC, 0x05)
	m.Tick(16)
	assert.Equal(t, uint8(0x04), m.Read(addr.IF)&0x04)
}

func TestJoypadThroughBus(t *testing.T) {
	m := newTestMMU()

	m.Write(addr.P1, 0x20) // select d-pad
	assert.Equal(t, uint8(0xEF), m.Read(addr.P1))

	m.HandleKeyPress(JoypadDown)
	assert.Equal(t, uint8(0xE7), m.Read(addr.P1))
	assert.Equal(t, uint8(0x10), m.Read(addr.IF)&0x10)

	m.Write(addr.IF, 0x00)
	m.HandleKeyPress(JoypadDown)
	assert.Equal(t, uint8(0x00), m.Read(addr.IF)&0x10, "held key does not interrupt again")

	m.HandleKeyRelease(JoypadDown)
	assert.Equal(t, uint8(0xEF), m.Read(addr.P1))
}
