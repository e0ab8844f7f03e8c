package cartridge

// banked holds the ROM/RAM backing store shared by every mapper, bank
// numbers past the end of the data wrap around like on real carts with
// fewer address lines wired.
type banked struct {
	rom        []uint8
	ram        []uint8
	ramEnabled bool
}

func newBanked(rom []uint8, ramBankCount int) banked {
	return banked{
		rom: rom,
		ram: make([]uint8, ramBankCount*ramBankSize),
	}
}

func (b *banked) readROM(bank int, address uint16) uint8 {
	offset := bank * romBankSize
	if offset >= len(b.rom) {
		offset %= len(b.rom)
	}
	index := offset + int(address&0x3FFF)
	if index >= len(b.rom) {
		return 0xFF
	}
	return b.rom[index]
}

func (b *banked) readRAM(bank int, address uint16) uint8 {
	if !b.ramEnabled || len(b.ram) == 0 {
		return 0xFF
	}
	offset := (bank * ramBankSize) % len(b.ram)
	return b.ram[offset+int(address-0xA000)%ramBankSize]
}

func (b *banked) writeRAM(bank int, address uint16, value uint8) {
	if !b.ramEnabled || len(b.ram) == 0 {
		return
	}
	offset := (bank * ramBankSize) % len(b.ram)
	b.ram[offset+int(address-0xA000)%ramBankSize] = value
}

// NoMBC represents cartridges with no memory banking capabilities.
// The ROM (32KB at most) is directly mapped to 0x0000-0x7FFF.
type NoMBC struct {
	rom []uint8
}

// NewNoMBC creates a new NoMBC controller
func NewNoMBC(rom []uint8) *NoMBC {
	return &NoMBC{rom: rom}
}

func (m *NoMBC) ReadByte(address uint16) uint8 {
	if int(address) < len(m.rom) && address <= 0x7FFF {
		return m.rom[address]
	}
	return 0xFF
}

// WriteByte is ignored, there is nothing to switch or store.
func (m *NoMBC) WriteByte(uint16, uint8) {}

// MBC1 supports up to 2MB ROM and 32KB RAM:
//   - 0x0000-0x1FFF RAM enable (0x0A in the low nibble)
//   - 0x2000-0x3FFF low 5 bits of the ROM bank (0 maps to 1)
//   - 0x4000-0x5FFF RAM bank or upper 2 ROM bank bits, depending on mode
//   - 0x6000-0x7FFF banking mode select
type MBC1 struct {
	banked
	romBank     uint8
	ramBank     uint8
	bankingMode uint8
}

// NewMBC1 creates a new MBC1 controller
func NewMBC1(rom []uint8, ramBankCount int) *MBC1 {
	return &MBC1{
		banked:  newBanked(rom, ramBankCount),
		romBank: 1,
	}
}

func (m *MBC1) ReadByte(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.readROM(0, address)
	case address <= 0x7FFF:
		return m.readROM(int(m.romBank), address)
	case address >= 0xA000 && address <= 0xBFFF:
		bank := 0
		if m.bankingMode == 1 {
			bank = int(m.ramBank)
		}
		return m.readRAM(bank, address)
	}
	return 0xFF
}

func (m *MBC1) WriteByte(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x3FFF:
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = m.romBank&0x60 | bank
	case address <= 0x5FFF:
		if m.bankingMode == 0 {
			m.romBank = m.romBank&0x1F | (value&0x03)<<5
		} else {
			m.ramBank = value & 0x03
		}
	case address <= 0x7FFF:
		m.bankingMode = value & 0x01
		if m.bankingMode == 1 {
			m.romBank &= 0x1F
		}
	case address >= 0xA000 && address <= 0xBFFF:
		bank := 0
		if m.bankingMode == 1 {
			bank = int(m.ramBank)
		}
		m.writeRAM(bank, address, value)
	}
}

// MBC3 supports up to 2MB ROM with a 7 bit bank register and 4 RAM banks.
// The real time clock registers (RAM bank 0x08-0x0C) read back as 0xFF.
type MBC3 struct {
	banked
	romBank uint8
	ramBank uint8
}

// NewMBC3 creates a new MBC3 controller
func NewMBC3(rom []uint8, ramBankCount int) *MBC3 {
	return &MBC3{
		banked:  newBanked(rom, ramBankCount),
		romBank: 1,
	}
}

func (m *MBC3) ReadByte(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.readROM(0, address)
	case address <= 0x7FFF:
		return m.readROM(int(m.romBank), address)
	case address >= 0xA000 && address <= 0xBFFF && m.ramBank <= 0x03:
		return m.readRAM(int(m.ramBank), address)
	}
	return 0xFF
}

func (m *MBC3) WriteByte(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x3FFF:
		m.romBank = value & 0x7F
		if m.romBank == 0 {
			m.romBank = 1
		}
	case address <= 0x5FFF:
		m.ramBank = value
	case address <= 0x7FFF:
		// clock latch, no clock
	case address >= 0xA000 && address <= 0xBFFF && m.ramBank <= 0x03:
		m.writeRAM(int(m.ramBank), address, value)
	}
}

// MBC5 supports up to 8MB ROM through a 9 bit bank number, and 16 RAM banks.
// Unlike MBC1, bank 0 can be mapped into the switchable region.
type MBC5 struct {
	banked
	romBank uint16
	ramBank uint8
}

// NewMBC5 creates a new MBC5 controller
func NewMBC5(rom []uint8, ramBankCount int) *MBC5 {
	return &MBC5{
		banked:  newBanked(rom, ramBankCount),
		romBank: 1,
	}
}

func (m *MBC5) ReadByte(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.readROM(0, address)
	case address <= 0x7FFF:
		return m.readROM(int(m.romBank), address)
	case address >= 0xA000 && address <= 0xBFFF:
		return m.readRAM(int(m.ramBank), address)
	}
	return 0xFF
}

func (m *MBC5) WriteByte(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x2FFF:
		m.romBank = m.romBank&0x100 | uint16(value)
	case address <= 0x3FFF:
		m.romBank = m.romBank&0xFF | uint16(value&0x01)<<8
	case address <= 0x5FFF:
		m.ramBank = value & 0x0F
	case address >= 0xA000 && address <= 0xBFFF:
		m.writeRAM(int(m.ramBank), address, value)
	}
}
