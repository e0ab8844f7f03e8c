package cpu

import (
	"fmt"

	"github.com/valerio/jeebie-core/jeebie/fault"
)

// prefixCB selects the extended opcode table for the following byte.
const prefixCB = 0xCB

// Decode returns the instruction at pc. Prefixed instructions read their
// second byte at pc+1. Opcodes with no table entry return an error
// wrapping fault.ErrUnimplementedInstruction.
func Decode(bus Reader, pc uint16) (Instruction, error) {
	opcode := bus.Read(pc)
	if opcode == prefixCB {
		return opcodesCB[bus.Read(pc+1)], nil
	}

	instr := opcodes[opcode]
	if !instr.Valid() {
		return instr, fmt.Errorf("%w: opcode 0x%02X at 0x%04X", fault.ErrUnimplementedInstruction, opcode, pc)
	}
	return instr, nil
}
