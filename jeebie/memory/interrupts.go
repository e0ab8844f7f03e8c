package memory

import "github.com/valerio/jeebie-core/jeebie/addr"

// interruptMask covers the five interrupt sources in IF/IE.
const interruptMask uint8 = 0x1F

// InterruptController holds the request (IF) and enable (IE) registers.
// The master enable flag (IME) lives in the CPU.
type InterruptController struct {
	requested uint8
	enabled   uint8
}

// Request raises the IF bit of the given interrupt.
func (ic *InterruptController) Request(interrupt addr.Interrupt) {
	ic.requested |= uint8(interrupt) & interruptMask
}

// Acknowledge clears the IF bit of the given interrupt.
func (ic *InterruptController) Acknowledge(interrupt addr.Interrupt) {
	ic.requested &^= uint8(interrupt)
}

// Pending returns the interrupts that are both requested and enabled.
func (ic *InterruptController) Pending() uint8 {
	return ic.requested & ic.enabled & interruptMask
}

// Highest returns the pending interrupt with the highest priority, i.e. the
// lowest bit: VBlank, STAT, Timer, Serial, Joypad.
func (ic *InterruptController) Highest() (addr.Interrupt, bool) {
	pending := ic.Pending()
	if pending == 0 {
		return 0, false
	}
	return addr.Interrupt(pending & -pending), true
}

func (ic *InterruptController) Read(address uint16) uint8 {
	switch address {
	case addr.IF:
		// upper 3 bits are unused and always read as 1
		return ic.requested | 0xE0
	case addr.IE:
		return ic.enabled
	}
	return 0xFF
}

func (ic *InterruptController) Write(address uint16, value uint8) {
	switch address {
	case addr.IF:
		ic.requested = value & interruptMask
	case addr.IE:
		ic.enabled = value
	}
}
