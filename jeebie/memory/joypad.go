package memory

import "github.com/valerio/jeebie-core/jeebie/bit"

// JoypadKey represents a key on the Gameboy joypad
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

func (k JoypadKey) String() string {
	switch k {
	case JoypadRight:
		return "Right"
	case JoypadLeft:
		return "Left"
	case JoypadUp:
		return "Up"
	case JoypadDown:
		return "Down"
	case JoypadA:
		return "A"
	case JoypadB:
		return "B"
	case JoypadSelect:
		return "Select"
	case JoypadStart:
		return "Start"
	}
	return "Unknown"
}

// Joypad holds the key matrix behind P1 (0xFF00).
//
// P1 is a selector: bits 4-5 choose which group is mapped to the low bits.
//   - bit 4 clear: bits 0-3 are the 4 d-pad directions
//   - bit 5 clear: bits 0-3 are A, B, Select, Start
//   - both clear: both groups ANDed together
//   - neither clear: 0x0F
//
// A bit is 0 while its key is pressed. Bits 6-7 always read as 1.
type Joypad struct {
	buttons uint8
	dpad    uint8
	selects uint8
}

// NewJoypad creates a joypad with no key pressed and no group selected.
func NewJoypad() *Joypad {
	return &Joypad{
		buttons: 0x0F,
		dpad:    0x0F,
		selects: 0x30,
	}
}

func (j *Joypad) Read() uint8 {
	result := uint8(0b11000000) | j.selects

	selectDpad := !bit.IsSet(4, j.selects)
	selectButtons := !bit.IsSet(5, j.selects)

	switch {
	case selectButtons && selectDpad:
		result |= j.buttons & j.dpad
	case selectButtons:
		result |= j.buttons
	case selectDpad:
		result |= j.dpad
	default:
		result |= 0x0F
	}

	return result
}

// Write only keeps the selection bits 4-5.
func (j *Joypad) Write(value uint8) {
	j.selects = value & 0b00110000
}

// Press marks key as pressed. It returns true on a released to pressed
// transition, which is what requests the Joypad interrupt.
func (j *Joypad) Press(key JoypadKey) bool {
	group, index := j.lookup(key)
	if group == nil {
		return false
	}
	wasReleased := bit.IsSet(index, *group)
	*group = bit.Clear(index, *group)
	return wasReleased
}

// Release marks key as released.
func (j *Joypad) Release(key JoypadKey) {
	group, index := j.lookup(key)
	if group == nil {
		return
	}
	*group = bit.Set(index, *group)
}

func (j *Joypad) lookup(key JoypadKey) (*uint8, uint8) {
	switch {
	case key <= JoypadDown:
		return &j.dpad, uint8(key)
	case key <= JoypadStart:
		return &j.buttons, uint8(key - JoypadA)
	}
	return nil, 0
}
