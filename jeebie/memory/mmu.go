package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/cartridge"
	"github.com/valerio/jeebie-core/jeebie/fault"
	"github.com/valerio/jeebie-core/jeebie/video"
)

type memRegion uint8

const (
	regionROM memRegion = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionIO
)

const (
	dmaLength = 0xA0
	wramSize  = 0x2000
	echoDelta = addr.EchoStart - addr.WRAMStart
)

// MMU allows access to all memory mapped I/O and data/registers.
// It owns every device on the bus and decides, per address, which one
// handles a read or a write.
type MMU struct {
	cart       cartridge.Cartridge
	ppu        *video.PPU
	timer      Timer
	joypad     *Joypad
	interrupts InterruptController

	wram      [wramSize]uint8
	hram      [0x7F]uint8
	io        [0x80]uint8
	regionMap [256]memRegion
}

// New creates a new memory unit with no cartridge loaded, equivalent to
// turning on a Gameboy without a cartridge in: ROM reads return 0xFF.
func New() *MMU {
	return NewWithCartridge(nil)
}

// NewWithCartridge creates a new memory unit with the provided cartridge
// plugged in.
func NewWithCartridge(cart cartridge.Cartridge) *MMU {
	m := &MMU{
		cart:   cart,
		joypad: NewJoypad(),
	}
	m.ppu = video.New(m.RequestInterrupt)
	m.timer.TimerInterruptHandler = func() { m.RequestInterrupt(addr.TimerInterrupt) }
	initRegionMap(m)
	return m
}

func initRegionMap(m *MMU) {
	for i := 0x00; i <= 0x7F; i++ {
		m.regionMap[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		m.regionMap[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		m.regionMap[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		m.regionMap[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		m.regionMap[i] = regionEcho
	}
	// OAM: 0xFE00-0xFE9F, unusable: 0xFEA0-0xFEFF
	m.regionMap[0xFE] = regionOAM
	// IO + HRAM + IE: 0xFF00-0xFFFF
	m.regionMap[0xFF] = regionIO
}

// Tick advances the devices driven by the CPU clock: timer first, then PPU.
func (m *MMU) Tick(cycles int) {
	m.timer.Tick(cycles)
	m.ppu.Tick(cycles)
}

// PPU returns the video unit behind 0x8000-0x9FFF, OAM and 0xFF40-0xFF4B.
func (m *MMU) PPU() *video.PPU {
	return m.ppu
}

// RequestInterrupt sets the interrupt flag (IF register) of the chosen interrupt to 1.
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	if interrupt.Bit() == 0xFF {
		panic(fmt.Sprintf("unknown interrupt: 0x%02X", uint8(interrupt)))
	}
	m.interrupts.Request(interrupt)
}

// HighestInterrupt returns the highest priority interrupt that is both
// requested and enabled.
func (m *MMU) HighestInterrupt() (addr.Interrupt, bool) {
	return m.interrupts.Highest()
}

// AcknowledgeInterrupt clears the IF bit of a dispatched interrupt.
func (m *MMU) AcknowledgeInterrupt(interrupt addr.Interrupt) {
	m.interrupts.Acknowledge(interrupt)
}

func (m *MMU) HandleKeyPress(key JoypadKey) {
	if m.joypad.Press(key) {
		m.RequestInterrupt(addr.JoypadInterrupt)
	}
}

func (m *MMU) HandleKeyRelease(key JoypadKey) {
	m.joypad.Release(key)
}

func (m *MMU) Read(address uint16) uint8 {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		if m.cart == nil {
			return 0xFF
		}
		return m.cart.ReadByte(address)
	case regionVRAM:
		return m.ppu.ReadVRAM(address)
	case regionWRAM:
		return m.wram[address-addr.WRAMStart]
	case regionEcho:
		return m.wram[address-echoDelta-addr.WRAMStart]
	case regionOAM:
		if address <= addr.OAMEnd {
			return m.ppu.ReadOAM(address)
		}
		return 0xFF
	case regionIO:
		return m.readIO(address)
	}
	panic(fmt.Sprintf("attempted read at unmapped address: 0x%04X", address))
}

func (m *MMU) readIO(address uint16) uint8 {
	switch {
	case address == addr.P1:
		return m.joypad.Read()
	case address >= addr.DIV && address <= addr.TAC:
		return m.timer.Read(address)
	case address == addr.IF || address == addr.IE:
		return m.interrupts.Read(address)
	case address >= addr.LCDC && address <= addr.WX && address != addr.DMA:
		return m.ppu.ReadRegister(address)
	case address >= addr.HRAMStart:
		return m.hram[address-addr.HRAMStart]
	}
	return m.io[address-0xFF00]
}

func (m *MMU) Write(address uint16, value uint8) {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		if m.cart == nil {
			slog.Debug("Write with no cartridge", "addr", fmt.Sprintf("0x%04X", address), "value", fmt.Sprintf("0x%02X", value))
			return
		}
		m.cart.WriteByte(address, value)
	case regionVRAM:
		m.ppu.WriteVRAM(address, value)
	case regionWRAM:
		m.wram[address-addr.WRAMStart] = value
	case regionEcho:
		m.wram[address-echoDelta-addr.WRAMStart] = value
	case regionOAM:
		if address <= addr.OAMEnd {
			m.ppu.WriteOAM(address, value)
			return
		}
		slog.Debug("Dropped write to unusable memory", "addr", fmt.Sprintf("0x%04X", address), "value", fmt.Sprintf("0x%02X", value))
	case regionIO:
		m.writeIO(address, value)
	default:
		panic(fmt.Sprintf("attempted write at unmapped address: 0x%04X", address))
	}
}

func (m *MMU) writeIO(address uint16, value uint8) {
	switch {
	case address == addr.P1:
		m.joypad.Write(value)
	case address >= addr.DIV && address <= addr.TAC:
		m.timer.Write(address, value)
	case address == addr.IF || address == addr.IE:
		m.interrupts.Write(address, value)
	case address == addr.DMA:
		m.io[address-0xFF00] = value
		m.dmaTransfer(value)
	case address >= addr.LCDC && address <= addr.WX:
		m.ppu.WriteRegister(address, value)
	case address >= addr.HRAMStart:
		m.hram[address-addr.HRAMStart] = value
	default:
		// 0xFF50 and everything else without side effects is plain storage
		m.io[address-0xFF00] = value
	}
}

// dmaTransfer copies 160 bytes from value<<8 into OAM, all at once.
func (m *MMU) dmaTransfer(value uint8) {
	source := uint16(value) << 8
	for i := uint16(0); i < dmaLength; i++ {
		m.ppu.WriteOAM(addr.OAMStart+i, m.Read(source+i))
	}
}

// ReadWord reads a little endian 16 bit value. The high byte would live
// past the end of the address space for 0xFFFF, which is a fatal fault.
func (m *MMU) ReadWord(address uint16) uint16 {
	if address == 0xFFFF {
		fault.Raise(fault.ErrAddressOutOfBounds, "16 bit read at 0x%04X", address)
	}
	return uint16(m.Read(address+1))<<8 | uint16(m.Read(address))
}

// WriteWord writes a little endian 16 bit value, see ReadWord.
func (m *MMU) WriteWord(address uint16, value uint16) {
	if address == 0xFFFF {
		fault.Raise(fault.ErrAddressOutOfBounds, "16 bit write at 0x%04X", address)
	}
	m.Write(address, uint8(value))
	m.Write(address+1, uint8(value>>8))
}
