package cpu

// Kind identifies the operation of a decoded instruction. The zero value
// marks an empty opcode table entry.
type Kind uint8

const (
	KindInvalid Kind = iota

	// loads
	KindLD     // 8 bit load
	KindLDI    // 8 bit load through (HL), then HL++
	KindLDD    // 8 bit load through (HL), then HL--
	KindLD16   // 16 bit load
	KindLDHLSP // LD HL,SP+e
	KindPUSH
	KindPOP

	// 8 bit ALU on A; ADD also covers ADD HL,rr and ADD SP,e
	KindADD
	KindADC
	KindSUB
	KindSBC
	KindAND
	KindXOR
	KindOR
	KindCP
	KindINC // 8 or 16 bit, depending on the operand
	KindDEC
	KindDAA
	KindCPL
	KindSCF
	KindCCF

	// rotates on A, which always clear Z
	KindRLCA
	KindRLA
	KindRRCA
	KindRRA

	// control flow
	KindJP
	KindJR
	KindCALL
	KindRET
	KindRETI
	KindRST

	// misc
	KindNOP
	KindHALT
	KindSTOP
	KindDI
	KindEI

	// 0xCB prefixed
	KindRLC
	KindRRC
	KindRL
	KindRR
	KindSLA
	KindSRA
	KindSWAP
	KindSRL
	KindBIT
	KindRES
	KindSET
)

var kindNames = [...]string{
	KindInvalid: "???",
	KindLD:      "LD",
	KindLDI:     "LD",
	KindLDD:     "LD",
	KindLD16:    "LD",
	KindLDHLSP:  "LD",
	KindPUSH:    "PUSH",
	KindPOP:     "POP",
	KindADD:     "ADD",
	KindADC:     "ADC",
	KindSUB:     "SUB",
	KindSBC:     "SBC",
	KindAND:     "AND",
	KindXOR:     "XOR",
	KindOR:      "OR",
	KindCP:      "CP",
	KindINC:     "INC",
	KindDEC:     "DEC",
	KindDAA:     "DAA",
	KindCPL:     "CPL",
	KindSCF:     "SCF",
	KindCCF:     "CCF",
	KindRLCA:    "RLCA",
	KindRLA:     "RLA",
	KindRRCA:    "RRCA",
	KindRRA:     "RRA",
	KindJP:      "JP",
	KindJR:      "JR",
	KindCALL:    "CALL",
	KindRET:     "RET",
	KindRETI:    "RETI",
	KindRST:     "RST",
	KindNOP:     "NOP",
	KindHALT:    "HALT",
	KindSTOP:    "STOP",
	KindDI:      "DI",
	KindEI:      "EI",
	KindRLC:     "RLC",
	KindRRC:     "RRC",
	KindRL:      "RL",
	KindRR:      "RR",
	KindSLA:     "SLA",
	KindSRA:     "SRA",
	KindSWAP:    "SWAP",
	KindSRL:     "SRL",
	KindBIT:     "BIT",
	KindRES:     "RES",
	KindSET:     "SET",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "???"
}

// Reg8 names one of the 8 bit registers. F is not addressable on its own.
type Reg8 uint8

const (
	RegA Reg8 = iota
	RegB
	RegC
	RegD
	RegE
	RegH
	RegL
)

var reg8Names = [...]string{"A", "B", "C", "D", "E", "H", "L"}

func (r Reg8) String() string {
	return reg8Names[r]
}

// Reg16 names one of the 16 bit register pairs.
type Reg16 uint8

const (
	RegBC Reg16 = iota
	RegDE
	RegHL
	RegSP
	RegAF
)

var reg16Names = [...]string{"BC", "DE", "HL", "SP", "AF"}

func (r Reg16) String() string {
	return reg16Names[r]
}

// Cond is the condition of a conditional jump, call or return.
type Cond uint8

const (
	CondNZ Cond = iota
	CondZ
	CondNC
	CondC
)

var condNames = [...]string{"NZ", "Z", "NC", "C"}

func (c Cond) String() string {
	return condNames[c]
}

// OperandType tags the addressing form of an Operand.
type OperandType uint8

const (
	OpNone     OperandType = iota
	OpReg8                 // r
	OpReg16                // rr
	OpIndirect             // (rr)
	OpImm8                 // n
	OpImm16                // nn
	OpBit                  // bit index 0-7
	OpCond                 // cc
	OpAddr16               // (nn)
	OpHigh8                // (0xFF00+n)
	OpHighC                // (0xFF00+C)
	OpRel8                 // signed e, relative to the next instruction or SP
	OpVector               // RST target
)

// Operand is one operand of an Instruction. Only the field matching Type
// is meaningful.
type Operand struct {
	Type  OperandType
	Reg   Reg8
	Pair  Reg16
	Cond  Cond
	Value uint8 // bit index or RST vector
}

// Instruction is a decoded operation. Instructions are copied out of the
// opcode tables and never mutated.
type Instruction struct {
	Opcode uint16 // 0x00-0xFF, or 0xCB00-0xCBFF for prefixed instructions
	Kind   Kind
	Dst    Operand
	Src    Operand
	Length uint8
	// Cycles is the cost in clock cycles; for conditional control flow it
	// is the cost of the not taken path and TakenCycles the taken one.
	Cycles      uint8
	TakenCycles uint8
}

// CyclesFor returns the cost of the instruction depending on whether its
// condition held.
func (in Instruction) CyclesFor(taken bool) int {
	if taken && in.TakenCycles != 0 {
		return int(in.TakenCycles)
	}
	return int(in.Cycles)
}

// Valid reports whether the instruction came from a populated table entry.
func (in Instruction) Valid() bool {
	return in.Kind != KindInvalid
}
