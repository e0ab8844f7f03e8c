package cartridge

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bankedROM returns a ROM of n banks where every byte holds its bank number.
func bankedROM(n int) []uint8 {
	rom := make([]uint8, n*romBankSize)
	for i := range rom {
		rom[i] = uint8(i / romBankSize)
	}
	return rom
}

func romWithHeader(cartType, romSize, ramSize uint8, title string) []byte {
	rom := make([]byte, 2*romBankSize)
	copy(rom[titleAddress:], title)
	rom[cartridgeTypeAddress] = cartType
	rom[romSizeAddress] = romSize
	rom[ramSizeAddress] = ramSize
	return rom
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name     string
		cartType uint8
		ramSize  uint8
		mbc      MBCType
		ramBanks int
		battery  bool
	}{
		{"rom only", 0x00, 0x00, NoMBCType, 0, false},
		{"mbc1", 0x01, 0x00, MBC1Type, 0, false},
		{"mbc1+ram+battery", 0x03, 0x03, MBC1Type, 4, true},
		{"mbc3+ram", 0x12, 0x02, MBC3Type, 1, false},
		{"mbc5+ram+battery", 0x1B, 0x04, MBC5Type, 16, true},
		{"unknown", 0xFE, 0x00, MBCUnknownType, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ParseHeader(romWithHeader(tt.cartType, 0x01, tt.ramSize, "TETRIS"))
			require.NoError(t, err)
			assert.Equal(t, "TETRIS", h.Title)
			assert.Equal(t, tt.mbc, h.MBC)
			assert.Equal(t, tt.ramBanks, h.RAMBankCount)
			assert.Equal(t, tt.battery, h.HasBattery)
			assert.Equal(t, 4, h.ROMBankCount)
		})
	}
}

func TestParseHeaderTooShort(t *testing.T) {
	_, err := ParseHeader(make([]byte, 0x100))
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestNewRejectsUnknownMapper(t *testing.T) {
	_, _, err := New(romWithHeader(0xFE, 0, 0, ""))
	assert.Error(t, err)
}

func TestCleanGameboyTitle(t *testing.T) {
	assert.Equal(t, "POKEMON RED", cleanGameboyTitle([]byte("POKEMON RED\x00\x00\x00\x00\x00")))
	assert.Equal(t, "(Untitled)", cleanGameboyTitle(make([]byte, 16)))
	assert.Equal(t, "A?B", cleanGameboyTitle([]byte{'A', 0x01, 'B'}))
}

func TestNoMBC(t *testing.T) {
	rom := make([]uint8, 0x8000)
	rom[0x0100] = 0x00
	rom[0x7FFF] = 0x42
	cart := NewNoMBC(rom)

	assert.Equal(t, uint8(0x42), cart.ReadByte(0x7FFF))
	cart.WriteByte(0x7FFF, 0x99)
	assert.Equal(t, uint8(0x42), cart.ReadByte(0x7FFF), "rom is read only")
	assert.Equal(t, uint8(0xFF), cart.ReadByte(0xA000), "no external ram")
}

func TestBlank(t *testing.T) {
	cart := Blank()
	assert.Equal(t, uint8(0x00), cart.ReadByte(0x0100))
	assert.Equal(t, uint8(0x00), cart.ReadByte(0x7FFF))
}

func TestMBC1ROMBanking(t *testing.T) {
	mbc := NewMBC1(bankedROM(64), 0)

	assert.Equal(t, uint8(0), mbc.ReadByte(0x0000), "bank 0 is fixed")
	assert.Equal(t, uint8(1), mbc.ReadByte(0x4000), "bank 1 is mapped at power on")

	tests := []struct {
		name  string
		low   uint8
		high  uint8
		wants uint8
	}{
		{"bank 2", 0x02, 0x00, 2},
		{"bank 0 maps to 1", 0x00, 0x00, 1},
		{"bank 0x1F", 0x1F, 0x00, 0x1F},
		{"upper bits", 0x01, 0x01, 0x21},
		{"upper bits and zero low", 0x00, 0x01, 0x21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mbc.WriteByte(0x4000, tt.high)
			mbc.WriteByte(0x2000, tt.low)
			assert.Equal(t, tt.wants, mbc.ReadByte(0x4000))
		})
	}
}

func TestMBC1BankWrapsAroundROMSize(t *testing.T) {
	mbc := NewMBC1(bankedROM(4), 0)
	mbc.WriteByte(0x2000, 0x05)
	assert.Equal(t, uint8(1), mbc.ReadByte(0x4000))
}

func TestMBC1RAM(t *testing.T) {
	mbc := NewMBC1(bankedROM(2), 4)

	assert.Equal(t, uint8(0xFF), mbc.ReadByte(0xA000), "ram disabled at power on")

	mbc.WriteByte(0x0000, 0x0A)
	mbc.WriteByte(0x6000, 0x01)
	for bank := uint8(0); bank < 4; bank++ {
		mbc.WriteByte(0x4000, bank)
		mbc.WriteByte(0xA000, 0x40+bank)
	}
	for bank := uint8(0); bank < 4; bank++ {
		mbc.WriteByte(0x4000, bank)
		assert.Equal(t, 0x40+bank, mbc.ReadByte(0xA000))
	}

	mbc.WriteByte(0x0000, 0x00)
	assert.Equal(t, uint8(0xFF), mbc.ReadByte(0xA000))
}

func TestMBC3(t *testing.T) {
	mbc := NewMBC3(bankedROM(128), 4)

	mbc.WriteByte(0x2000, 0x00)
	assert.Equal(t, uint8(1), mbc.ReadByte(0x4000))
	mbc.WriteByte(0x2000, 0x7F)
	assert.Equal(t, uint8(0x7F), mbc.ReadByte(0x4000))

	mbc.WriteByte(0x0000, 0x0A)
	mbc.WriteByte(0x4000, 0x02)
	mbc.WriteByte(0xA123, 0x99)
	assert.Equal(t, uint8(0x99), mbc.ReadByte(0xA123))

	mbc.WriteByte(0x4000, 0x08)
	assert.Equal(t, uint8(0xFF), mbc.ReadByte(0xA123), "clock registers are not backed")
	mbc.WriteByte(0xA123, 0x11)

	mbc.WriteByte(0x4000, 0x02)
	assert.Equal(t, uint8(0x99), mbc.ReadByte(0xA123))
}

func TestMBC5(t *testing.T) {
	rom := make([]uint8, 512*romBankSize)
	for bank := 0; bank < 512; bank++ {
		rom[bank*romBankSize] = uint8(bank)
		rom[bank*romBankSize+1] = uint8(bank >> 8)
	}
	mbc := NewMBC5(rom, 16)

	mbc.WriteByte(0x2000, 0x00)
	assert.Equal(t, uint8(0), mbc.ReadByte(0x4000), "bank 0 is selectable")

	mbc.WriteByte(0x2000, 0x34)
	mbc.WriteByte(0x3000, 0x01)
	assert.Equal(t, uint8(0x34), mbc.ReadByte(0x4000))
	assert.Equal(t, uint8(0x01), mbc.ReadByte(0x4001))

	mbc.WriteByte(0x0000, 0x0A)
	mbc.WriteByte(0x4000, 0x0F)
	mbc.WriteByte(0xBFFF, 0x77)
	mbc.WriteByte(0x4000, 0x00)
	assert.Equal(t, uint8(0x00), mbc.ReadByte(0xBFFF))
	mbc.WriteByte(0x4000, 0x0F)
	assert.Equal(t, uint8(0x77), mbc.ReadByte(0xBFFF))
}

func TestLoadFile(t *testing.T) {
	rom := romWithHeader(0x00, 0x00, 0x00, "LOADME")
	dir := t.TempDir()

	plain := filepath.Join(dir, "game.gb")
	require.NoError(t, os.WriteFile(plain, rom, 0o644))

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write(rom)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	gzipped := filepath.Join(dir, "game.gb.gz")
	require.NoError(t, os.WriteFile(gzipped, gz.Bytes(), 0o644))

	var zb bytes.Buffer
	zw := zip.NewWriter(&zb)
	f, err := zw.Create("game.gb")
	require.NoError(t, err)
	_, err = f.Write(rom)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	zipped := filepath.Join(dir, "game.zip")
	require.NoError(t, os.WriteFile(zipped, zb.Bytes(), 0o644))

	for _, path := range []string{plain, gzipped, zipped} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, rom, data)

			_, h, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, "LOADME", h.Title)
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.gb"))
	assert.Error(t, err)

	var zb bytes.Buffer
	require.NoError(t, zip.NewWriter(&zb).Close())
	empty := filepath.Join(dir, "empty.zip")
	require.NoError(t, os.WriteFile(empty, zb.Bytes(), 0o644))
	_, err = LoadFile(empty)
	assert.ErrorIs(t, err, ErrEmptyArchive)

	bogus := filepath.Join(dir, "bogus.7z")
	require.NoError(t, os.WriteFile(bogus, []byte("not an archive"), 0o644))
	_, err = LoadFile(bogus)
	assert.Error(t, err)
}
