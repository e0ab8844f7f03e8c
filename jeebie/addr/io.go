package addr

// memory regions
const (
	// ROMEnd is the last address served by the cartridge ROM.
	ROMEnd uint16 = 0x7FFF
	// VRAMStart is the first byte of video RAM.
	VRAMStart uint16 = 0x8000
	// VRAMEnd is the last byte of video RAM.
	VRAMEnd uint16 = 0x9FFF
	// ExtRAMStart is the first byte of cartridge RAM.
	ExtRAMStart uint16 = 0xA000
	// ExtRAMEnd is the last byte of cartridge RAM.
	ExtRAMEnd uint16 = 0xBFFF
	// WRAMStart is the first byte of work RAM.
	WRAMStart uint16 = 0xC000
	// EchoStart is the first byte of the work RAM mirror.
	EchoStart uint16 = 0xE000
	// OAMStart is the start of OAM memory (40 sprites * 4 bytes each)
	OAMStart uint16 = 0xFE00
	// OAMEnd is the end of OAM memory
	OAMEnd uint16 = 0xFE9F
	// HRAMStart is the first byte of high RAM.
	HRAMStart uint16 = 0xFF80
)

// gpu registers
const (
	// LCD Control register.
	LCDC uint16 = 0xFF40
	// LCDC Status register.
	STAT uint16 = 0xFF41
	// Scroll Y (SCY) register.
	SCY uint16 = 0xFF42
	// Scroll X (SCX) register.
	SCX uint16 = 0xFF43
	// LCDC Y-Coordinate (readonly) register.
	LY uint16 = 0xFF44
	// LY Compare register.
	LYC uint16 = 0xFF45
	// DMA Transfer and Start register.
	DMA uint16 = 0xFF46
	// BG Palette register.
	BGP uint16 = 0xFF47
	// Object Palette 0 register.
	OBP0 uint16 = 0xFF48
	// Object Palette 1 register.
	OBP1 uint16 = 0xFF49
	// Window Y Position register.
	WY uint16 = 0xFF4A
	// Window X Position register.
	WX uint16 = 0xFF4B
)

// tile data and tile maps
const (
	// TileData0 is the start of unsigned tile data (tiles 0-255)
	TileData0 uint16 = 0x8000
	// TileData2 is the base of signed tile data (tile 0 of the signed set)
	TileData2 uint16 = 0x9000
	// TileDataEnd is the last byte of tile pattern data.
	TileDataEnd uint16 = 0x97FF

	// TileMap0 is background/window tile map 0
	TileMap0 uint16 = 0x9800
	// TileMap1 is background/window tile map 1
	TileMap1 uint16 = 0x9C00
)

// interrupts
const (
	// IF is the address for the Interrupt Flags register.
	IF uint16 = 0xFF0F
	// IE is the address for the Interrupt Enable register.
	IE uint16 = 0xFFFF
)

// joypad
const (
	// P1 is used to read the Joypad state.
	P1 uint16 = 0xFF00
)

// serial I/O, kept as plain registers. Only the interrupt flag is modelled.
const (
	SB uint16 = 0xFF01
	SC uint16 = 0xFF02
)

// timers
const (
	// DIV is the divider register. Incremented 16384 times/s, writing to it resets it.
	DIV uint16 = 0xFF04
	// TIMA is the timer counter register. Generates an interrupt when it overflows.
	TIMA uint16 = 0xFF05
	// TMA is the timer modulo register. When TIMA overflows, this data will be loaded.
	TMA uint16 = 0xFF06
	// TAC is the timer control register. Used to start/stop and control the timer clock.
	TAC uint16 = 0xFF07
)

// BootROMDisable latches the boot ROM off when written.
const BootROMDisable uint16 = 0xFF50

// Interrupt is an enum that represents one of the possible interrupts.
type Interrupt uint8

const (
	// VBlankInterrupt is fired when the GPU has completed a frame.
	VBlankInterrupt Interrupt = 1
	// LCDSTATInterrupt is fired based on one of the conditions in the LCDSTAT register.
	LCDSTATInterrupt Interrupt = 1 << 1
	// TimerInterrupt is fired when the timer register (TIMA) overflows (i.e. goes from 0xFF to 0x00).
	TimerInterrupt Interrupt = 1 << 2
	// SerialInterrupt is fired when a serial transfer has completed on the game link port.
	SerialInterrupt Interrupt = 1 << 3
	// JoypadInterrupt is fired when any of the keypad inputs goes from high to low.
	JoypadInterrupt Interrupt = 1 << 4
)

// interruptVectorBase is the handler address of the VBlank interrupt, handlers
// for the other sources follow at 8 byte intervals.
const interruptVectorBase uint16 = 0x40

// Bit returns the IF/IE bit index of the interrupt.
func (i Interrupt) Bit() uint8 {
	for n := uint8(0); n < 5; n++ {
		if uint8(i) == 1<<n {
			return n
		}
	}
	return 0xFF
}

// Vector returns the handler address: 0x40, 0x48, 0x50, 0x58 or 0x60.
func (i Interrupt) Vector() uint16 {
	return interruptVectorBase + uint16(i.Bit())*8
}

func (i Interrupt) String() string {
	switch i {
	case VBlankInterrupt:
		return "VBlank"
	case LCDSTATInterrupt:
		return "STAT"
	case TimerInterrupt:
		return "Timer"
	case SerialInterrupt:
		return "Serial"
	case JoypadInterrupt:
		return "Joypad"
	}
	return "Unknown"
}
