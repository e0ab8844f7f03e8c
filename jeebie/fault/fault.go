// Package fault holds the fatal error conditions of the emulated machine.
//
// None of these are recoverable from the guest's point of view: once raised,
// register and memory state can no longer be trusted and the machine stops.
// Components deep inside a bus access raise them with Raise, the CPU step
// boundary turns them back into plain errors with Recover.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrUnimplementedInstruction is returned when an opcode has no table entry.
	ErrUnimplementedInstruction = errors.New("unimplemented instruction")
	// ErrIllegalWrite is raised when a read-only register (LY) is written.
	ErrIllegalWrite = errors.New("illegal register write")
	// ErrAddressOutOfBounds is raised for 16 bit accesses crossing the top of the address space.
	ErrAddressOutOfBounds = errors.New("address out of bounds")
)

// IsFatal reports whether err belongs to the machine fault taxonomy.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnimplementedInstruction) ||
		errors.Is(err, ErrIllegalWrite) ||
		errors.Is(err, ErrAddressOutOfBounds)
}

// Raise aborts the current instruction with a fault wrapping kind.
func Raise(kind error, format string, args ...any) {
	panic(fmt.Errorf("%w: "+format, append([]any{kind}, args...)...))
}

// Recover is meant to be deferred at the step boundary. It stores a fault
// raised with Raise into err; any other panic keeps unwinding.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}

	if e, ok := r.(error); ok && IsFatal(e) {
		*err = e
		return
	}

	panic(r)
}
