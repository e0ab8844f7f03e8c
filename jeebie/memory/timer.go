package memory

import (
	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/bit"
)

// divThreshold is the number of clock cycles per DIV increment (16384 Hz at
// a 4194304 Hz master clock).
const divThreshold = 256

// tacThresholds maps TAC input clock select (bits 1-0) to the number of clock
// cycles per TIMA increment:
//
//	00 -> 1024 (4096 Hz)
//	01 -> 16   (262144 Hz)
//	10 -> 64   (65536 Hz)
//	11 -> 256  (16384 Hz)
var tacThresholds = [4]int{1024, 16, 64, 256}

// Timer encapsulates the DIV/TIMA/TMA/TAC registers.
//
// Both counters are accumulators: each time one reaches its threshold the
// threshold is subtracted (the remainder carries over) and the visible
// register is incremented.
type Timer struct {
	divCycles  int
	timaCycles int

	div  uint8
	tima uint8
	tma  uint8
	tac  uint8

	// TimerInterruptHandler is called on every TIMA overflow.
	TimerInterruptHandler func()
}

// Tick advances the timer by the given amount of clock cycles.
func (t *Timer) Tick(cycles int) {
	t.divCycles += cycles
	for t.divCycles >= divThreshold {
		t.divCycles -= divThreshold
		t.div++
	}

	if !bit.IsSet(2, t.tac) {
		return
	}

	threshold := tacThresholds[t.tac&0x03]
	t.timaCycles += cycles
	for t.timaCycles >= threshold {
		t.timaCycles -= threshold
		t.incrementTIMA()
	}
}

func (t *Timer) incrementTIMA() {
	t.tima++
	if t.tima != 0 {
		return
	}

	t.tima = t.tma
	if t.TimerInterruptHandler != nil {
		t.TimerInterruptHandler()
	}
}

func (t *Timer) Read(address uint16) uint8 {
	switch address {
	case addr.DIV:
		return t.div
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac | 0xF8
	}
	return 0xFF
}

func (t *Timer) Write(address uint16, value uint8) {
	switch address {
	case addr.DIV:
		// any write resets the divider
		t.div = 0
		t.divCycles = 0
	case addr.TIMA:
		t.tima = value
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		t.tac = value & 0x07
	}
}
