package cpu

import (
	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/bit"
	"github.com/valerio/jeebie-core/jeebie/fault"
)

// Reader is the read side of the bus, enough to decode and disassemble.
type Reader interface {
	Read(address uint16) uint8
}

// Bus provides the interface for component communication.
//
// ReadWord/WriteWord are little endian and are expected to raise
// fault.ErrAddressOutOfBounds when the access crosses 0xFFFF.
// Tick advances every clocked device by the given amount of cycles.
// HighestInterrupt and AcknowledgeInterrupt front the IF/IE pair.
type Bus interface {
	Reader
	Write(address uint16, value uint8)
	ReadWord(address uint16) uint16
	WriteWord(address uint16, value uint16)
	Tick(cycles int)

	HighestInterrupt() (addr.Interrupt, bool)
	AcknowledgeInterrupt(interrupt addr.Interrupt)
}

// CPU holds the SM83 register file and executes instructions against a Bus.
type CPU struct {
	a, b, c, d, e, h, l uint8
	flags               Flags
	sp                  uint16
	pc                  uint16

	ime    bool
	halted bool

	cycles       uint64
	instructions uint64

	bus Bus
}

// New returns a CPU with the register state left behind by the boot ROM.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.setReg16(RegAF, 0x01B0)
	c.setReg16(RegBC, 0x0013)
	c.setReg16(RegDE, 0x00D8)
	c.setReg16(RegHL, 0x014D)
	c.sp = 0xFFFE
	c.pc = 0x0100
	return c
}

// Step executes one instruction (or one idle cycle while halted), advances
// the bus by its cost and then services interrupts. It returns the total
// amount of cycles consumed, interrupt dispatch included.
//
// Faults raised while executing stop the step and are returned as errors;
// the CPU state is undefined afterwards.
func (c *CPU) Step() (cycles int, err error) {
	defer fault.Recover(&err)

	if c.halted {
		cycles = haltedStepCycles
		c.bus.Tick(cycles)
	} else {
		instr, decodeErr := Decode(c.bus, c.pc)
		if decodeErr != nil {
			return 0, decodeErr
		}

		next, taken := c.execute(instr)
		c.pc = next
		cycles = instr.CyclesFor(taken)
		c.instructions++
		c.bus.Tick(cycles)
	}

	cycles += c.serviceInterrupts()
	c.cycles += uint64(cycles)
	return cycles, nil
}

func (c *CPU) reg8(r Reg8) uint8 {
	switch r {
	case RegA:
		return c.a
	case RegB:
		return c.b
	case RegC:
		return c.c
	case RegD:
		return c.d
	case RegE:
		return c.e
	case RegH:
		return c.h
	}
	return c.l
}

func (c *CPU) setReg8(r Reg8, value uint8) {
	switch r {
	case RegA:
		c.a = value
	case RegB:
		c.b = value
	case RegC:
		c.c = value
	case RegD:
		c.d = value
	case RegE:
		c.e = value
	case RegH:
		c.h = value
	case RegL:
		c.l = value
	}
}

func (c *CPU) reg16(r Reg16) uint16 {
	switch r {
	case RegBC:
		return bit.Combine(c.b, c.c)
	case RegDE:
		return bit.Combine(c.d, c.e)
	case RegHL:
		return bit.Combine(c.h, c.l)
	case RegAF:
		return bit.Combine(c.a, c.flags.Byte())
	}
	return c.sp
}

func (c *CPU) setReg16(r Reg16, value uint16) {
	high, low := bit.High(value), bit.Low(value)
	switch r {
	case RegBC:
		c.b, c.c = high, low
	case RegDE:
		c.d, c.e = high, low
	case RegHL:
		c.h, c.l = high, low
	case RegAF:
		c.a, c.flags = high, FlagsFromByte(low)
	case RegSP:
		c.sp = value
	}
}

// push writes the high byte at SP-1 and the low byte at SP-2.
func (c *CPU) push(value uint16) {
	c.sp--
	c.bus.Write(c.sp, bit.High(value))
	c.sp--
	c.bus.Write(c.sp, bit.Low(value))
}

// pop reads the low byte at SP and the high byte at SP+1.
func (c *CPU) pop() uint16 {
	low := c.bus.Read(c.sp)
	c.sp++
	high := c.bus.Read(c.sp)
	c.sp++
	return bit.Combine(high, low)
}

// Registers is a snapshot of the register file, for tracing and debugging.
type Registers struct {
	A, B, C, D, E, H, L uint8
	Flags               Flags
	SP, PC              uint16
	IME, Halted         bool
}

func (c *CPU) Registers() Registers {
	return Registers{
		A:      c.a,
		B:      c.b,
		C:      c.c,
		D:      c.d,
		E:      c.e,
		H:      c.h,
		L:      c.l,
		Flags:  c.flags,
		SP:     c.sp,
		PC:     c.pc,
		IME:    c.ime,
		Halted: c.halted,
	}
}

// SetRegisters overwrites the register file.
func (c *CPU) SetRegisters(r Registers) {
	c.a, c.b, c.c, c.d, c.e, c.h, c.l = r.A, r.B, r.C, r.D, r.E, r.H, r.L
	c.flags = r.Flags
	c.sp, c.pc = r.SP, r.PC
	c.ime, c.halted = r.IME, r.Halted
}

// Debug getters
func (c *CPU) GetPC() uint16           { return c.pc }
func (c *CPU) GetSP() uint16           { return c.sp }
func (c *CPU) GetAF() uint16           { return c.reg16(RegAF) }
func (c *CPU) GetFlags() Flags         { return c.flags }
func (c *CPU) GetIME() bool            { return c.ime }
func (c *CPU) IsHalted() bool          { return c.halted }
func (c *CPU) GetCycles() uint64       { return c.cycles }
func (c *CPU) GetInstructions() uint64 { return c.instructions }
