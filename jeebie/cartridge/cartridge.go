package cartridge

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
)

// Cartridge is the byte-addressable device plugged into the bus. It serves
// 0x0000-0x7FFF (ROM) and 0xA000-0xBFFF (external RAM) and owns any bank
// switching state; the core never looks past this interface.
type Cartridge interface {
	ReadByte(address uint16) uint8
	WriteByte(address uint16, value uint8)
}

const (
	titleAddress         = 0x134
	titleLength          = 16
	cartridgeTypeAddress = 0x147
	romSizeAddress       = 0x148
	ramSizeAddress       = 0x149
	headerChecksumAddr   = 0x14D
	headerEnd            = 0x150

	romBankSize = 0x4000
	ramBankSize = 0x2000
)

// ErrInvalidHeader is returned when the ROM data is too short to hold a header.
var ErrInvalidHeader = errors.New("invalid cartridge header")

// MBCType identifies the memory bank controller of a cartridge.
type MBCType uint8

const (
	NoMBCType MBCType = iota
	MBC1Type
	MBC3Type
	MBC5Type
	MBCUnknownType
)

func (t MBCType) String() string {
	switch t {
	case NoMBCType:
		return "ROM"
	case MBC1Type:
		return "MBC1"
	case MBC3Type:
		return "MBC3"
	case MBC5Type:
		return "MBC5"
	}
	return "unknown"
}

// Header holds the metadata found at 0x0134-0x014F.
type Header struct {
	Title          string
	CartType       uint8
	MBC            MBCType
	HasBattery     bool
	ROMBankCount   int
	RAMBankCount   int
	HeaderChecksum uint8
}

// ParseHeader decodes the cartridge header out of raw ROM data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < headerEnd {
		return Header{}, fmt.Errorf("%w: rom is %d bytes", ErrInvalidHeader, len(data))
	}

	h := Header{
		Title:          cleanGameboyTitle(data[titleAddress : titleAddress+titleLength]),
		CartType:       data[cartridgeTypeAddress],
		HeaderChecksum: data[headerChecksumAddr],
		ROMBankCount:   2 << data[romSizeAddress],
	}

	switch data[ramSizeAddress] {
	case 0x02:
		h.RAMBankCount = 1
	case 0x03:
		h.RAMBankCount = 4
	case 0x04:
		h.RAMBankCount = 16
	case 0x05:
		h.RAMBankCount = 8
	}

	switch h.CartType {
	case 0x00, 0x08, 0x09:
		h.MBC = NoMBCType
	case 0x01, 0x02, 0x03:
		h.MBC = MBC1Type
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		h.MBC = MBC3Type
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		h.MBC = MBC5Type
	default:
		h.MBC = MBCUnknownType
	}

	switch h.CartType {
	case 0x03, 0x09, 0x0F, 0x10, 0x13, 0x1B, 0x1E:
		h.HasBattery = true
	}

	return h, nil
}

// New parses the header and returns the mapper matching the cartridge type.
func New(data []byte) (Cartridge, Header, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, h, err
	}

	rom := make([]byte, len(data))
	copy(rom, data)

	var cart Cartridge
	switch h.MBC {
	case NoMBCType:
		cart = NewNoMBC(rom)
	case MBC1Type:
		cart = NewMBC1(rom, h.RAMBankCount)
	case MBC3Type:
		cart = NewMBC3(rom, h.RAMBankCount)
	case MBC5Type:
		cart = NewMBC5(rom, h.RAMBankCount)
	default:
		return nil, h, fmt.Errorf("unsupported cartridge type 0x%02X", h.CartType)
	}

	slog.Info("Loaded cartridge",
		"title", h.Title,
		"mbc", h.MBC.String(),
		"rom_banks", h.ROMBankCount,
		"ram_banks", h.RAMBankCount,
		"size", len(data))

	return cart, h, nil
}

// Blank returns a 32KB ROM-only cartridge filled with zeroes (NOPs), the
// equivalent of powering on with a cartridge that contains no program.
func Blank() Cartridge {
	return NewNoMBC(make([]byte, 2*romBankSize))
}

// cleanGameboyTitle turns the raw title bytes into printable text: NUL bytes
// end the title, non-printable characters become '?'.
func cleanGameboyTitle(titleBytes []byte) string {
	runes := make([]rune, 0, len(titleBytes))
	for _, b := range titleBytes {
		if b == 0 {
			break
		}
		r := rune(b)
		if !unicode.IsPrint(r) || r > unicode.MaxASCII {
			r = '?'
		}
		runes = append(runes, r)
	}

	title := strings.TrimSpace(string(runes))
	if title == "" {
		return "(Untitled)"
	}
	return title
}
