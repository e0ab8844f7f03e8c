package cpu

import (
	"fmt"
	"log/slog"

	"github.com/valerio/jeebie-core/jeebie/bit"
)

// highPage is the base of the 0xFF00-0xFFFF page used by LDH and LD (C).
const highPage uint16 = 0xFF00

// execute runs in with PC still pointing at its first byte. It returns the
// address of the next instruction and whether a conditional branch was
// taken.
func (c *CPU) execute(in Instruction) (uint16, bool) {
	next := c.pc + uint16(in.Length)

	switch in.Kind {
	case KindNOP:

	case KindLD:
		c.write8(in.Dst, c.read8(in.Src))
	case KindLDI, KindLDD:
		c.write8(in.Dst, c.read8(in.Src))
		hl := c.reg16(RegHL)
		if in.Kind == KindLDI {
			hl++
		} else {
			hl--
		}
		c.setReg16(RegHL, hl)
	case KindLD16:
		c.write16(in.Dst, c.read16(in.Src))
	case KindLDHLSP:
		result, flags := addSP(c.sp, c.readRel8())
		c.setReg16(RegHL, result)
		c.flags = flags
	case KindPUSH:
		c.push(c.reg16(in.Dst.Pair))
	case KindPOP:
		c.setReg16(in.Dst.Pair, c.pop())

	case KindADD:
		c.add(in)
	case KindADC:
		c.a, c.flags = add8(c.a, c.read8(in.Src), c.flags.Carry)
	case KindSUB:
		c.a, c.flags = sub8(c.a, c.read8(in.Src), false)
	case KindSBC:
		c.a, c.flags = sub8(c.a, c.read8(in.Src), c.flags.Carry)
	case KindAND:
		c.a, c.flags = and8(c.a, c.read8(in.Src))
	case KindXOR:
		c.a, c.flags = xor8(c.a, c.read8(in.Src))
	case KindOR:
		c.a, c.flags = or8(c.a, c.read8(in.Src))
	case KindCP:
		_, c.flags = sub8(c.a, c.read8(in.Src), false)
	case KindINC, KindDEC:
		c.incDec(in)
	case KindDAA:
		c.a, c.flags = daa(c.a, c.flags)
	case KindCPL:
		c.a = ^c.a
		c.flags.Subtract = true
		c.flags.HalfCarry = true
	case KindSCF:
		c.flags = Flags{Zero: c.flags.Zero, Carry: true}
	case KindCCF:
		c.flags = Flags{Zero: c.flags.Zero, Carry: !c.flags.Carry}

	case KindRLCA, KindRLA, KindRRCA, KindRRA:
		c.a, c.flags = shift(accumulatorShifts[in.Kind], c.a, c.flags)
		c.flags.Zero = false

	case KindJP:
		if !c.condition(in.Dst) {
			return next, false
		}
		return c.read16(in.Src), true
	case KindJR:
		offset := c.readRel8()
		if !c.condition(in.Dst) {
			return next, false
		}
		return next + uint16(int16(offset)), true
	case KindCALL:
		target := c.read16(in.Src)
		if !c.condition(in.Dst) {
			return next, false
		}
		c.push(next)
		return target, true
	case KindRET:
		if !c.condition(in.Dst) {
			return next, false
		}
		return c.pop(), true
	case KindRETI:
		c.ime = true
		return c.pop(), true
	case KindRST:
		c.push(next)
		return uint16(in.Dst.Value), true

	case KindHALT:
		c.halted = true
	case KindSTOP:
		slog.Debug("STOP executed, ignoring", "pc", fmt.Sprintf("0x%04X", c.pc))
	case KindDI:
		c.ime = false
	case KindEI:
		c.ime = true

	case KindRLC, KindRRC, KindRL, KindRR, KindSLA, KindSRA, KindSWAP, KindSRL:
		var result uint8
		result, c.flags = shift(in.Kind, c.read8(in.Dst), c.flags)
		c.write8(in.Dst, result)
	case KindBIT:
		c.flags = Flags{
			Zero:      !bit.IsSet(in.Dst.Value, c.read8(in.Src)),
			HalfCarry: true,
			Carry:     c.flags.Carry,
		}
	case KindRES:
		c.write8(in.Src, bit.Clear(in.Dst.Value, c.read8(in.Src)))
	case KindSET:
		c.write8(in.Src, bit.Set(in.Dst.Value, c.read8(in.Src)))

	default:
		panic(fmt.Sprintf("no handler for %v (opcode 0x%04X)", in.Kind, in.Opcode))
	}

	return next, false
}

// accumulatorShifts maps the unprefixed rotates to their CB equivalents.
var accumulatorShifts = map[Kind]Kind{
	KindRLCA: KindRLC,
	KindRLA:  KindRL,
	KindRRCA: KindRRC,
	KindRRA:  KindRR,
}

// add dispatches ADD on its destination: A, HL or SP.
func (c *CPU) add(in Instruction) {
	switch {
	case in.Dst.Type == OpReg16 && in.Dst.Pair == RegHL:
		result, flags := add16(c.reg16(RegHL), c.reg16(in.Src.Pair))
		flags.Zero = c.flags.Zero
		c.setReg16(RegHL, result)
		c.flags = flags
	case in.Dst.Type == OpReg16 && in.Dst.Pair == RegSP:
		c.sp, c.flags = addSP(c.sp, c.readRel8())
	default:
		c.a, c.flags = add8(c.a, c.read8(in.Src), false)
	}
}

// incDec handles INC/DEC on 8 bit operands (with flags) and register pairs
// (without).
func (c *CPU) incDec(in Instruction) {
	if in.Dst.Type == OpReg16 {
		value := c.reg16(in.Dst.Pair)
		if in.Kind == KindINC {
			value++
		} else {
			value--
		}
		c.setReg16(in.Dst.Pair, value)
		return
	}

	var result uint8
	if in.Kind == KindINC {
		result, c.flags = inc8(c.read8(in.Dst), c.flags)
	} else {
		result, c.flags = dec8(c.read8(in.Dst), c.flags)
	}
	c.write8(in.Dst, result)
}

func (c *CPU) condition(op Operand) bool {
	if op.Type != OpCond {
		return true
	}
	switch op.Cond {
	case CondNZ:
		return !c.flags.Zero
	case CondZ:
		return c.flags.Zero
	case CondNC:
		return !c.flags.Carry
	}
	return c.flags.Carry
}

func (c *CPU) readImm8() uint8 {
	return c.bus.Read(c.pc + 1)
}

func (c *CPU) readImm16() uint16 {
	return c.bus.ReadWord(c.pc + 1)
}

func (c *CPU) readRel8() int8 {
	return int8(c.readImm8())
}

// address resolves the memory location of an indirect operand.
func (c *CPU) address(op Operand) uint16 {
	switch op.Type {
	case OpIndirect:
		return c.reg16(op.Pair)
	case OpAddr16:
		return c.readImm16()
	case OpHigh8:
		return highPage + uint16(c.readImm8())
	case OpHighC:
		return highPage + uint16(c.c)
	}
	panic(fmt.Sprintf("operand type %d is not a memory operand", op.Type))
}

func (c *CPU) read8(op Operand) uint8 {
	switch op.Type {
	case OpReg8:
		return c.reg8(op.Reg)
	case OpImm8:
		return c.readImm8()
	}
	return c.bus.Read(c.address(op))
}

func (c *CPU) write8(op Operand, value uint8) {
	if op.Type == OpReg8 {
		c.setReg8(op.Reg, value)
		return
	}
	c.bus.Write(c.address(op), value)
}

func (c *CPU) read16(op Operand) uint16 {
	switch op.Type {
	case OpReg16:
		return c.reg16(op.Pair)
	case OpImm16:
		return c.readImm16()
	}
	panic(fmt.Sprintf("operand type %d is not a 16 bit source", op.Type))
}

func (c *CPU) write16(op Operand, value uint16) {
	switch op.Type {
	case OpReg16:
		c.setReg16(op.Pair, value)
	case OpAddr16:
		c.bus.WriteWord(c.readImm16(), value)
	default:
		panic(fmt.Sprintf("operand type %d is not a 16 bit destination", op.Type))
	}
}
