package input

import (
	"log/slog"
	"time"

	"github.com/valerio/jeebie-core/jeebie/memory"
)

// debounceDuration is the minimum time between two presses of the same
// emulator command. Joypad buttons are never debounced.
const debounceDuration = 300 * time.Millisecond

// Joypad receives Game Boy button events. *jeebie.DMG satisfies it.
type Joypad interface {
	HandleKeyPress(key memory.JoypadKey)
	HandleKeyRelease(key memory.JoypadKey)
}

// Manager routes events: joypad actions go to the machine, everything else
// to the callbacks registered with On.
type Manager struct {
	joypad        Joypad
	handlers      map[Action][]func()
	lastTriggered map[Action]time.Time
	now           func() time.Time
}

func NewManager(joypad Joypad) *Manager {
	return &Manager{
		joypad:        joypad,
		handlers:      make(map[Action][]func()),
		lastTriggered: make(map[Action]time.Time),
		now:           time.Now,
	}
}

// On registers a callback for presses of an emulator command.
func (m *Manager) On(act Action, callback func()) {
	m.handlers[act] = append(m.handlers[act], callback)
}

// Trigger handles a single event.
func (m *Manager) Trigger(evt Event) {
	if key, ok := evt.Action.JoypadKey(); ok {
		if m.joypad == nil {
			return
		}
		if evt.Type == Press {
			m.joypad.HandleKeyPress(key)
		} else {
			m.joypad.HandleKeyRelease(key)
		}
		return
	}

	if evt.Type != Press {
		return
	}

	now := m.now()
	if last, ok := m.lastTriggered[evt.Action]; ok && now.Sub(last) < debounceDuration {
		slog.Debug("Debounced action", "action", evt.Action)
		return
	}
	m.lastTriggered[evt.Action] = now

	for _, callback := range m.handlers[evt.Action] {
		callback()
	}
}

// TriggerAll handles events in order.
func (m *Manager) TriggerAll(events []Event) {
	for _, evt := range events {
		m.Trigger(evt)
	}
}
