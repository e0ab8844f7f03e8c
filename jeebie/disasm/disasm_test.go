package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytes(t *testing.T) {
	testCases := []struct {
		desc   string
		data   []byte
		want   string
		length int
	}{
		{desc: "nop", data: []byte{0x00}, want: "NOP", length: 1},
		{desc: "register load", data: []byte{0x78}, want: "LD A,B", length: 1},
		{desc: "immediate", data: []byte{0x3E, 0x42}, want: "LD A,$42", length: 2},
		{desc: "16 bit immediate", data: []byte{0x21, 0x34, 0x12}, want: "LD HL,$1234", length: 3},
		{desc: "indirect", data: []byte{0x77}, want: "LD (HL),A", length: 1},
		{desc: "post increment", data: []byte{0x2A}, want: "LD A,(HL+)", length: 1},
		{desc: "post decrement", data: []byte{0x32}, want: "LD (HL-),A", length: 1},
		{desc: "absolute store", data: []byte{0xEA, 0x00, 0xC0}, want: "LD ($C000),A", length: 3},
		{desc: "high page", data: []byte{0xE0, 0x40}, want: "LD ($FF00+$40),A", length: 2},
		{desc: "high page via C", data: []byte{0xF2}, want: "LD A,($FF00+C)", length: 1},
		{desc: "call", data: []byte{0xCD, 0x34, 0x12}, want: "CALL $1234", length: 3},
		{desc: "conditional jump", data: []byte{0xC2, 0x00, 0x20}, want: "JP NZ,$2000", length: 3},
		{desc: "relative jump target", data: []byte{0x18, 0xFE}, want: "JR $0000", length: 2},
		{desc: "sp offset", data: []byte{0xF8, 0xFF}, want: "LD HL,SP-1", length: 2},
		{desc: "add sp", data: []byte{0xE8, 0x05}, want: "ADD SP,+5", length: 2},
		{desc: "rst", data: []byte{0xEF}, want: "RST $28", length: 1},
		{desc: "push", data: []byte{0xF5}, want: "PUSH AF", length: 1},
		{desc: "bit", data: []byte{0xCB, 0x7C}, want: "BIT 7,H", length: 2},
		{desc: "swap", data: []byte{0xCB, 0x37}, want: "SWAP A", length: 2},
		{desc: "undefined", data: []byte{0xD3}, want: "DB $D3", length: 1},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			line := Bytes(tC.data, 0)
			assert.Equal(t, tC.want, line.Instruction)
			assert.Equal(t, tC.length, line.Length)
		})
	}
}

func TestRange(t *testing.T) {
	data := []byte{0x00, 0x3E, 0x01, 0xC3, 0x00, 0x01}

	lines := Range(sliceReader(data), 0, 3)

	require.Len(t, lines, 3)
	assert.Equal(t, uint16(0), lines[0].Address)
	assert.Equal(t, uint16(1), lines[1].Address)
	assert.Equal(t, uint16(3), lines[2].Address)
	assert.Equal(t, "JP $0100", lines[2].Instruction)
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check([]byte{0xC3, 0x00, 0x01}, 0))
	assert.ErrorIs(t, Check([]byte{0xC3, 0x00}, 0), ErrTruncated)
}

func TestFormat(t *testing.T) {
	line := Line{Address: 0x0150, Instruction: "NOP", Length: 1}
	assert.Equal(t, ">0x0150: NOP", Format(line, true))
	assert.Equal(t, " 0x0150: NOP", Format(line, false))
}
