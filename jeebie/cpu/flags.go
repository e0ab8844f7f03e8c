package cpu

import "github.com/valerio/jeebie-core/jeebie/bit"

// bit positions of the flags in F
const (
	zeroFlagBit      = 7
	subFlagBit       = 6
	halfCarryFlagBit = 5
	carryFlagBit     = 4
)

// Flags is the content of the F register. It is only packed into a byte
// when F is accessed as half of AF (PUSH AF, POP AF).
type Flags struct {
	Zero      bool
	Subtract  bool
	HalfCarry bool
	Carry     bool
}

// Byte packs the flags into bits 7-4, the low nibble is always 0.
func (f Flags) Byte() uint8 {
	var value uint8
	value = bit.SetTo(zeroFlagBit, value, f.Zero)
	value = bit.SetTo(subFlagBit, value, f.Subtract)
	value = bit.SetTo(halfCarryFlagBit, value, f.HalfCarry)
	value = bit.SetTo(carryFlagBit, value, f.Carry)
	return value
}

// FlagsFromByte unpacks F, ignoring the low nibble.
func FlagsFromByte(value uint8) Flags {
	return Flags{
		Zero:      bit.IsSet(zeroFlagBit, value),
		Subtract:  bit.IsSet(subFlagBit, value),
		HalfCarry: bit.IsSet(halfCarryFlagBit, value),
		Carry:     bit.IsSet(carryFlagBit, value),
	}
}

// String returns the flags in the usual "ZNHC" form, '-' for clear flags.
func (f Flags) String() string {
	out := []byte("----")
	if f.Zero {
		out[0] = 'Z'
	}
	if f.Subtract {
		out[1] = 'N'
	}
	if f.HalfCarry {
		out[2] = 'H'
	}
	if f.Carry {
		out[3] = 'C'
	}
	return string(out)
}

func carryBit(carry bool) uint8 {
	if carry {
		return 1
	}
	return 0
}
