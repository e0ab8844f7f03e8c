package cpu

// Opcode tables, indexed by the opcode byte. Entries left zero are the
// opcodes with no defined behaviour.
var (
	opcodes   [256]Instruction
	opcodesCB [256]Instruction
)

// operand constructors
func reg(r Reg8) Operand       { return Operand{Type: OpReg8, Reg: r} }
func pair(p Reg16) Operand     { return Operand{Type: OpReg16, Pair: p} }
func indirect(p Reg16) Operand { return Operand{Type: OpIndirect, Pair: p} }
func cond(c Cond) Operand      { return Operand{Type: OpCond, Cond: c} }
func bitIndex(n uint8) Operand { return Operand{Type: OpBit, Value: n} }
func vector(v uint8) Operand   { return Operand{Type: OpVector, Value: v} }

var (
	none   = Operand{}
	imm8   = Operand{Type: OpImm8}
	imm16  = Operand{Type: OpImm16}
	addr16 = Operand{Type: OpAddr16}
	high8  = Operand{Type: OpHigh8}
	highC  = Operand{Type: OpHighC}
	rel8   = Operand{Type: OpRel8}
	regA   = reg(RegA)
	hlPtr  = indirect(RegHL)
)

// r8 decodes the 3 bit register field used across the instruction set:
// B, C, D, E, H, L, (HL), A.
func r8(code uint8) Operand {
	switch code & 0x07 {
	case 0:
		return reg(RegB)
	case 1:
		return reg(RegC)
	case 2:
		return reg(RegD)
	case 3:
		return reg(RegE)
	case 4:
		return reg(RegH)
	case 5:
		return reg(RegL)
	case 6:
		return hlPtr
	}
	return regA
}

// rr decodes the 2 bit register pair field; AF replaces SP for PUSH/POP.
func rr(code uint8, stack bool) Operand {
	pairs := [4]Reg16{RegBC, RegDE, RegHL, RegSP}
	if stack {
		pairs[3] = RegAF
	}
	return pair(pairs[code&0x03])
}

func op(opcode uint8, kind Kind, dst, src Operand, length, cycles uint8) {
	opcodes[opcode] = Instruction{
		Opcode: uint16(opcode),
		Kind:   kind,
		Dst:    dst,
		Src:    src,
		Length: length,
		Cycles: cycles,
	}
}

func branch(opcode uint8, kind Kind, dst, src Operand, length, cycles, taken uint8) {
	op(opcode, kind, dst, src, length, cycles)
	opcodes[opcode].TakenCycles = taken
}

func init() {
	initUnprefixed()
	initPrefixed()
}

func initUnprefixed() {
	op(0x00, KindNOP, none, none, 1, 4)
	op(0x10, KindSTOP, none, none, 2, 4)
	op(0x76, KindHALT, none, none, 1, 4)
	op(0xF3, KindDI, none, none, 1, 4)
	op(0xFB, KindEI, none, none, 1, 4)

	op(0x07, KindRLCA, regA, none, 1, 4)
	op(0x0F, KindRRCA, regA, none, 1, 4)
	op(0x17, KindRLA, regA, none, 1, 4)
	op(0x1F, KindRRA, regA, none, 1, 4)
	op(0x27, KindDAA, regA, none, 1, 4)
	op(0x2F, KindCPL, regA, none, 1, 4)
	op(0x37, KindSCF, none, none, 1, 4)
	op(0x3F, KindCCF, none, none, 1, 4)

	// 16 bit loads and arithmetic, one row per register pair
	for p := uint8(0); p < 4; p++ {
		base := p << 4
		op(base|0x01, KindLD16, rr(p, false), imm16, 3, 12)
		op(base|0x03, KindINC, rr(p, false), none, 1, 8)
		op(base|0x09, KindADD, pair(RegHL), rr(p, false), 1, 8)
		op(base|0x0B, KindDEC, rr(p, false), none, 1, 8)
		op(0xC1|base, KindPOP, rr(p, true), none, 1, 12)
		op(0xC5|base, KindPUSH, rr(p, true), none, 1, 16)
	}

	op(0x02, KindLD, indirect(RegBC), regA, 1, 8)
	op(0x12, KindLD, indirect(RegDE), regA, 1, 8)
	op(0x22, KindLDI, hlPtr, regA, 1, 8)
	op(0x32, KindLDD, hlPtr, regA, 1, 8)
	op(0x0A, KindLD, regA, indirect(RegBC), 1, 8)
	op(0x1A, KindLD, regA, indirect(RegDE), 1, 8)
	op(0x2A, KindLDI, regA, hlPtr, 1, 8)
	op(0x3A, KindLDD, regA, hlPtr, 1, 8)

	op(0x08, KindLD16, addr16, pair(RegSP), 3, 20)
	op(0xF8, KindLDHLSP, pair(RegHL), rel8, 2, 12)
	op(0xF9, KindLD16, pair(RegSP), pair(RegHL), 1, 8)
	op(0xE8, KindADD, pair(RegSP), rel8, 2, 16)

	// INC r, DEC r, LD r,n
	for code := uint8(0); code < 8; code++ {
		target := r8(code)
		base := code << 3
		if target == hlPtr {
			op(base|0x04, KindINC, target, none, 1, 12)
			op(base|0x05, KindDEC, target, none, 1, 12)
			op(base|0x06, KindLD, target, imm8, 2, 12)
			continue
		}
		op(base|0x04, KindINC, target, none, 1, 4)
		op(base|0x05, KindDEC, target, none, 1, 4)
		op(base|0x06, KindLD, target, imm8, 2, 8)
	}

	// LD r,r' (0x76 would be LD (HL),(HL) and is HALT instead)
	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		if opcode == 0x76 {
			continue
		}
		dst, src := r8(uint8(opcode)>>3), r8(uint8(opcode))
		cycles := uint8(4)
		if dst == hlPtr || src == hlPtr {
			cycles = 8
		}
		op(uint8(opcode), KindLD, dst, src, 1, cycles)
	}

	// ALU A,r and ALU A,n
	alu := [8]Kind{KindADD, KindADC, KindSUB, KindSBC, KindAND, KindXOR, KindOR, KindCP}
	for opcode := 0x80; opcode <= 0xBF; opcode++ {
		src := r8(uint8(opcode))
		cycles := uint8(4)
		if src == hlPtr {
			cycles = 8
		}
		op(uint8(opcode), alu[(opcode>>3)&0x07], regA, src, 1, cycles)
	}
	for i, kind := range alu {
		op(0xC6|uint8(i)<<3, kind, regA, imm8, 2, 8)
	}

	// control flow
	op(0x18, KindJR, none, rel8, 2, 12)
	op(0xC3, KindJP, none, imm16, 3, 16)
	op(0xE9, KindJP, none, pair(RegHL), 1, 4)
	op(0xCD, KindCALL, none, imm16, 3, 24)
	op(0xC9, KindRET, none, none, 1, 16)
	op(0xD9, KindRETI, none, none, 1, 16)
	for c := Cond(0); c < 4; c++ {
		base := uint8(c) << 3
		branch(0x20|base, KindJR, cond(c), rel8, 2, 8, 12)
		branch(0xC0|base, KindRET, cond(c), none, 1, 8, 20)
		branch(0xC2|base, KindJP, cond(c), imm16, 3, 12, 16)
		branch(0xC4|base, KindCALL, cond(c), imm16, 3, 12, 24)
	}
	for i := uint8(0); i < 8; i++ {
		op(0xC7|i<<3, KindRST, vector(i<<3), none, 1, 16)
	}

	// high page and absolute loads
	op(0xE0, KindLD, high8, regA, 2, 12)
	op(0xF0, KindLD, regA, high8, 2, 12)
	op(0xE2, KindLD, highC, regA, 1, 8)
	op(0xF2, KindLD, regA, highC, 1, 8)
	op(0xEA, KindLD, addr16, regA, 3, 16)
	op(0xFA, KindLD, regA, addr16, 3, 16)
}

func initPrefixed() {
	shifts := [8]Kind{KindRLC, KindRRC, KindRL, KindRR, KindSLA, KindSRA, KindSWAP, KindSRL}

	for opcode := 0; opcode <= 0xFF; opcode++ {
		target := r8(uint8(opcode))
		index := uint8(opcode>>3) & 0x07
		onHL := target == hlPtr

		in := Instruction{
			Opcode: 0xCB00 | uint16(opcode),
			Length: 2,
			Cycles: 8,
		}

		switch opcode >> 6 {
		case 0:
			in.Kind = shifts[index]
			in.Dst = target
			if onHL {
				in.Cycles = 16
			}
		case 1:
			in.Kind = KindBIT
			in.Dst, in.Src = bitIndex(index), target
			if onHL {
				in.Cycles = 12
			}
		case 2, 3:
			in.Kind = KindRES
			if opcode>>6 == 3 {
				in.Kind = KindSET
			}
			in.Dst, in.Src = bitIndex(index), target
			if onHL {
				in.Cycles = 16
			}
		}

		opcodesCB[opcode] = in
	}
}
