package disasm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/valerio/jeebie-core/jeebie/bit"
	"github.com/valerio/jeebie-core/jeebie/cpu"
)

// Line is a single disassembled instruction.
type Line struct {
	Address     uint16
	Instruction string
	Length      int
}

// At disassembles the instruction at pc. Undefined opcodes are rendered as
// a data byte of length 1.
func At(mem cpu.Reader, pc uint16) Line {
	in, err := cpu.Decode(mem, pc)
	if err != nil {
		return Line{Address: pc, Instruction: fmt.Sprintf("DB $%02X", mem.Read(pc)), Length: 1}
	}

	text := in.Kind.String()
	operands := make([]string, 0, 2)
	for _, op := range []cpu.Operand{in.Dst, in.Src} {
		if op.Type == cpu.OpNone {
			continue
		}
		operands = append(operands, formatOperand(mem, pc, in, op))
	}
	if len(operands) > 0 {
		text += " " + strings.Join(operands, ",")
	}

	return Line{Address: pc, Instruction: text, Length: int(in.Length)}
}

// Range disassembles count instructions starting from start.
func Range(mem cpu.Reader, start uint16, count int) []Line {
	lines := make([]Line, 0, count)
	pc := start
	for i := 0; i < count; i++ {
		line := At(mem, pc)
		lines = append(lines, line)
		next := pc + uint16(line.Length)
		if next < pc {
			break
		}
		pc = next
	}
	return lines
}

// Bytes disassembles the instruction at offset within a standalone byte
// slice, as when dumping a ROM image. Reads past the end return 0.
func Bytes(data []byte, offset int) Line {
	return At(sliceReader(data), uint16(offset))
}

// Format renders a line for display, marking the current PC.
func Format(line Line, current bool) string {
	prefix := " "
	if current {
		prefix = ">"
	}
	return fmt.Sprintf("%s0x%04X: %s", prefix, line.Address, line.Instruction)
}

// ErrTruncated is returned by Check when an instruction runs past the end
// of the input.
var ErrTruncated = errors.New("instruction truncated")

// Check reports whether the instruction at offset fits inside data.
func Check(data []byte, offset int) error {
	line := Bytes(data, offset)
	if offset+line.Length > len(data) {
		return fmt.Errorf("%w: %s at 0x%04X", ErrTruncated, line.Instruction, offset)
	}
	return nil
}

type sliceReader []byte

func (s sliceReader) Read(address uint16) uint8 {
	if int(address) >= len(s) {
		return 0
	}
	return s[address]
}

func formatOperand(mem cpu.Reader, pc uint16, in cpu.Instruction, op cpu.Operand) string {
	imm8 := mem.Read(pc + 1)
	imm16 := bit.Combine(mem.Read(pc+2), imm8)

	switch op.Type {
	case cpu.OpReg8:
		return op.Reg.String()
	case cpu.OpReg16:
		return op.Pair.String()
	case cpu.OpIndirect:
		switch in.Kind {
		case cpu.KindLDI:
			return "(HL+)"
		case cpu.KindLDD:
			return "(HL-)"
		}
		return "(" + op.Pair.String() + ")"
	case cpu.OpImm8:
		return fmt.Sprintf("$%02X", imm8)
	case cpu.OpImm16:
		return fmt.Sprintf("$%04X", imm16)
	case cpu.OpBit:
		return fmt.Sprintf("%d", op.Value)
	case cpu.OpCond:
		return op.Cond.String()
	case cpu.OpAddr16:
		return fmt.Sprintf("($%04X)", imm16)
	case cpu.OpHigh8:
		return fmt.Sprintf("($FF00+$%02X)", imm8)
	case cpu.OpHighC:
		return "($FF00+C)"
	case cpu.OpRel8:
		offset := int8(imm8)
		if in.Kind == cpu.KindJR {
			return fmt.Sprintf("$%04X", pc+uint16(in.Length)+uint16(int16(offset)))
		}
		if in.Kind == cpu.KindLDHLSP {
			return fmt.Sprintf("SP%+d", offset)
		}
		return fmt.Sprintf("%+d", offset)
	case cpu.OpVector:
		return fmt.Sprintf("$%02X", op.Value)
	}
	return "?"
}
