package input

// DefaultKeyMap provides default key mappings that work across backends.
// Keys are named the way backends spell them ("Enter", "Up", "z").
var DefaultKeyMap = map[string]Action{
	// Game Boy controls
	"z":         GBButtonA,
	"x":         GBButtonB,
	"Enter":     GBButtonStart,
	"Backspace": GBButtonSelect,
	"Shift":     GBButtonSelect,
	"Up":        GBDPadUp,
	"Down":      GBDPadDown,
	"Left":      GBDPadLeft,
	"Right":     GBDPadRight,

	// WASD
	"w": GBDPadUp,
	"s": GBDPadDown,
	"a": GBDPadLeft,
	"d": GBDPadRight,

	// Emulator controls
	"Space":  EmulatorPauseToggle,
	"p":      EmulatorPauseToggle,
	"o":      EmulatorStepFrame,
	"F9":     EmulatorSnapshot,
	"F5":     EmulatorReset,
	"Escape": EmulatorQuit,
	"q":      EmulatorQuit,
}

// Lookup returns the default action for a key name.
func Lookup(key string) (Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
