package cpu

const (
	// interruptDispatchCycles is the cost of pushing PC and jumping to a
	// handler.
	interruptDispatchCycles = 20
	// haltedStepCycles is the time a halted Step lets pass.
	haltedStepCycles = 1
)

// serviceInterrupts runs after every step. Any enabled and requested
// interrupt ends HALT, even with IME off. With IME on, the highest priority
// one (lowest bit) is dispatched: IME and its IF bit are cleared, PC is
// pushed and the handler vector loaded. It returns the cycles spent.
func (c *CPU) serviceInterrupts() int {
	interrupt, pending := c.bus.HighestInterrupt()
	if !pending {
		return 0
	}

	c.halted = false
	if !c.ime {
		return 0
	}

	c.ime = false
	c.bus.AcknowledgeInterrupt(interrupt)
	c.push(c.pc)
	c.pc = interrupt.Vector()

	c.bus.Tick(interruptDispatchCycles)
	return interruptDispatchCycles
}
