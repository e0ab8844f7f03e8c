package cpu

import "github.com/valerio/jeebie-core/jeebie/bit"

// The ALU helpers are pure: they take operands (and the incoming carry where
// relevant) and return the result together with the flags it produces.

// add8 computes a+b(+carry). H is the carry out of bit 3, C out of bit 7.
func add8(a, b uint8, carry bool) (uint8, Flags) {
	c := carryBit(carry)
	sum := uint16(a) + uint16(b) + uint16(c)
	result := uint8(sum)
	return result, Flags{
		Zero:      result == 0,
		HalfCarry: (a&0x0F)+(b&0x0F)+c > 0x0F,
		Carry:     sum > 0xFF,
	}
}

// sub8 computes a-b(-carry). H is the borrow from bit 4, C the borrow
// from bit 8. CP uses it and discards the result.
func sub8(a, b uint8, carry bool) (uint8, Flags) {
	c := carryBit(carry)
	result := a - b - c
	return result, Flags{
		Zero:      result == 0,
		Subtract:  true,
		HalfCarry: int(a&0x0F)-int(b&0x0F)-int(c) < 0,
		Carry:     int(a)-int(b)-int(c) < 0,
	}
}

// add16 computes a+b for ADD HL,rr. H is the carry out of bit 11, C out of
// bit 15. Z is not computed: the instruction leaves it unchanged.
func add16(a, b uint16) (uint16, Flags) {
	sum := uint32(a) + uint32(b)
	return uint16(sum), Flags{
		HalfCarry: (a&0x0FFF)+(b&0x0FFF) > 0x0FFF,
		Carry:     sum > 0xFFFF,
	}
}

// addSP computes SP+e for ADD SP,e and LD HL,SP+e. The flags come from the
// unsigned addition of the low byte of SP and e; Z and N are always clear.
func addSP(sp uint16, e int8) (uint16, Flags) {
	offset := uint16(int16(e))
	low := uint8(sp)
	return sp + offset, Flags{
		HalfCarry: (low&0x0F)+(uint8(e)&0x0F) > 0x0F,
		Carry:     uint16(low)+uint16(uint8(e)) > 0xFF,
	}
}

func inc8(value uint8, f Flags) (uint8, Flags) {
	result := value + 1
	return result, Flags{
		Zero:      result == 0,
		HalfCarry: value&0x0F == 0x0F,
		Carry:     f.Carry,
	}
}

func dec8(value uint8, f Flags) (uint8, Flags) {
	result := value - 1
	return result, Flags{
		Zero:      result == 0,
		Subtract:  true,
		HalfCarry: value&0x0F == 0,
		Carry:     f.Carry,
	}
}

func and8(a, b uint8) (uint8, Flags) {
	result := a & b
	return result, Flags{Zero: result == 0, HalfCarry: true}
}

func or8(a, b uint8) (uint8, Flags) {
	result := a | b
	return result, Flags{Zero: result == 0}
}

func xor8(a, b uint8) (uint8, Flags) {
	result := a ^ b
	return result, Flags{Zero: result == 0}
}

// daa adjusts A to packed BCD after an addition or subtraction. N picks the
// correction direction, H is always cleared, N is preserved and C is set if
// the addition overflowed past 99.
func daa(a uint8, f Flags) (uint8, Flags) {
	carry := f.Carry
	var correction uint8

	if !f.Subtract {
		if f.HalfCarry || a&0x0F > 0x09 {
			correction |= 0x06
		}
		if f.Carry || a > 0x99 {
			correction |= 0x60
			carry = true
		}
		a += correction
	} else {
		if f.HalfCarry {
			correction |= 0x06
		}
		if f.Carry {
			correction |= 0x60
		}
		a -= correction
	}

	return a, Flags{
		Zero:     a == 0,
		Subtract: f.Subtract,
		Carry:    carry,
	}
}

// shift performs one of the 0xCB rotate/shift operations. Z reflects the
// result; the unprefixed accumulator rotates clear it afterwards.
func shift(kind Kind, value uint8, f Flags) (uint8, Flags) {
	var result uint8
	var carry bool

	switch kind {
	case KindRLC:
		carry = value&0x80 != 0
		result = value<<1 | value>>7
	case KindRRC:
		carry = value&0x01 != 0
		result = value>>1 | value<<7
	case KindRL:
		carry = value&0x80 != 0
		result = value<<1 | carryBit(f.Carry)
	case KindRR:
		carry = value&0x01 != 0
		result = value>>1 | carryBit(f.Carry)<<7
	case KindSLA:
		carry = value&0x80 != 0
		result = value << 1
	case KindSRA:
		carry = value&0x01 != 0
		result = value>>1 | value&0x80
	case KindSWAP:
		result = bit.SwapNibbles(value)
	case KindSRL:
		carry = value&0x01 != 0
		result = value >> 1
	}

	return result, Flags{Zero: result == 0, Carry: carry}
}
