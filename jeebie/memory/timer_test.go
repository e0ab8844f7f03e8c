package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/jeebie-core/jeebie/addr"
)

func newTestTimer() (*Timer, *int) {
	fired := 0
	t := &Timer{TimerInterruptHandler: func() { fired++ }}
	return t, &fired
}

func TestTimerDivider(t *testing.T) {
	timer, _ := newTestTimer()

	timer.Tick(255)
	assert.Equal(t, uint8(0), timer.Read(addr.DIV))
	timer.Tick(1)
	assert.Equal(t, uint8(1), timer.Read(addr.DIV))
	timer.Tick(256 * 10)
	assert.Equal(t, uint8(11), timer.Read(addr.DIV))

	timer.Tick(256 * 245)
	assert.Equal(t, uint8(0), timer.Read(addr.DIV), "wraps after 256 increments")
}

func TestTimerDividerReset(t *testing.T) {
	timer, _ := newTestTimer()

	timer.Tick(300)
	assert.Equal(t, uint8(1), timer.Read(addr.DIV))

	timer.Write(addr.DIV, 0x42)
	assert.Equal(t, uint8(0), timer.Read(addr.DIV))

	timer.Tick(255)
	assert.Equal(t, uint8(0), timer.Read(addr.DIV), "accumulator restarts too")
	timer.Tick(1)
	assert.Equal(t, uint8(1), timer.Read(addr.DIV))
}

func TestTimerFrequencies(t *testing.T) {
	tests := []struct {
		tac       uint8
		threshold int
	}{
		{0x04, 1024},
		{0x05, 16},
		{0x06, 64},
		{0x07, 256},
	}

	for _, tt := range tests {
		timer, _ := newTestTimer()
		timer.Write(addr.TAC, tt.tac)

		timer.Tick(tt.threshold - 1)
		assert.Equalf(t, uint8(0), timer.Read(addr.TIMA), "TAC %02X", tt.tac)
		timer.Tick(1)
		assert.Equalf(t, uint8(1), timer.Read(addr.TIMA), "TAC %02X", tt.tac)
		timer.Tick(tt.threshold * 3)
		assert.Equalf(t, uint8(4), timer.Read(addr.TIMA), "TAC %02X", tt.tac)
	}
}

func TestTimerDisabled(t *testing.T) {
	timer, fired := newTestTimer()
	timer.Write(addr.TAC, 0x03)
	timer.Write(addr.TIMA, 0xFF)

	timer.Tick(5000)
	assert.Equal(t, uint8(0xFF), timer.Read(addr.TIMA))
	assert.Equal(t, 0, *fired)
}

func TestTimerRemainderCarriesOver(t *testing.T) {
	timer, _ := newTestTimer()
	timer.Write(addr.TAC, 0x05)

	timer.Tick(20)
	assert.Equal(t, uint8(1), timer.Read(addr.TIMA))
	timer.Tick(12)
	assert.Equal(t, uint8(2), timer.Read(addr.TIMA))
}

func TestTimerOverflow(t *testing.T) {
	timer, fired := newTestTimer()
	timer.Write(addr.TMA, 0xAB)
	timer.Write(addr.TIMA, 0xFE)
	timer.Write(addr.TAC, 0x05)

	timer.Tick(16)
	assert.Equal(t, uint8(0xFF), timer.Read(addr.TIMA))
	assert.Equal(t, 0, *fired)

	timer.Tick(16)
	assert.Equal(t, uint8(0xAB), timer.Read(addr.TIMA))
	assert.Equal(t, 1, *fired)

	// a single large tick can overflow more than once
	timer.Write(addr.TMA, 0xFF)
	timer.Write(addr.TIMA, 0xFF)
	timer.Tick(16 * 3)
	assert.Equal(t, uint8(0xFF), timer.Read(addr.TIMA))
	assert.Equal(t, 4, *fired)
}

func TestTimerRegisters(t *testing.T) {
	timer, _ := newTestTimer()

	timer.Write(addr.TMA, 0x12)
	timer.Write(addr.TIMA, 0x34)
	timer.Write(addr.TAC, 0xFD)

	assert.Equal(t, uint8(0x12), timer.Read(addr.TMA))
	assert.Equal(t, uint8(0x34), timer.Read(addr.TIMA))
	assert.Equal(t, uint8(0xFD), timer.Read(addr.TAC))

	timer.Write(addr.TAC, 0x00)
	assert.Equal(t, uint8(0xF8), timer.Read(addr.TAC))
}
