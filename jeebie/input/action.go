package input

import "github.com/valerio/jeebie-core/jeebie/memory"

// Action is something a key can be bound to: a joypad button or a front
// end command.
type Action int

const (
	ActionNone Action = iota

	// Game Boy hardware controls
	GBButtonA
	GBButtonB
	GBButtonStart
	GBButtonSelect
	GBDPadUp
	GBDPadDown
	GBDPadLeft
	GBDPadRight

	// Emulator features
	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorSnapshot
	EmulatorReset
	EmulatorQuit
)

var actionNames = map[Action]string{
	GBButtonA:           "A",
	GBButtonB:           "B",
	GBButtonStart:       "Start",
	GBButtonSelect:      "Select",
	GBDPadUp:            "Up",
	GBDPadDown:          "Down",
	GBDPadLeft:          "Left",
	GBDPadRight:         "Right",
	EmulatorPauseToggle: "Pause",
	EmulatorStepFrame:   "Step frame",
	EmulatorSnapshot:    "Snapshot",
	EmulatorReset:       "Reset",
	EmulatorQuit:        "Quit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "None"
}

var joypadKeys = map[Action]memory.JoypadKey{
	GBButtonA:      memory.JoypadA,
	GBButtonB:      memory.JoypadB,
	GBButtonStart:  memory.JoypadStart,
	GBButtonSelect: memory.JoypadSelect,
	GBDPadUp:       memory.JoypadUp,
	GBDPadDown:     memory.JoypadDown,
	GBDPadLeft:     memory.JoypadLeft,
	GBDPadRight:    memory.JoypadRight,
}

// JoypadKey returns the joypad key behind a Game Boy control.
func (a Action) JoypadKey() (memory.JoypadKey, bool) {
	key, ok := joypadKeys[a]
	return key, ok
}

// IsDPad reports whether a is one of the four directions.
func (a Action) IsDPad() bool {
	return a >= GBDPadUp && a <= GBDPadRight
}

// EventType tells a press from a release.
type EventType int

const (
	Press EventType = iota
	Release
)

func (t EventType) String() string {
	if t == Release {
		return "release"
	}
	return "press"
}

// Event is an action reported by a front end.
type Event struct {
	Action Action
	Type   EventType
}
