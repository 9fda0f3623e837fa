package input

import (
	"log/slog"

	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

// KeypadWriter receives hex keypad state changes.
type KeypadWriter interface {
	SetKey(index uint8, down bool)
}

// Manager handles input actions and their associated callbacks
type Manager struct {
	handlers map[action.Action]map[event.Type][]func()
	keypad   KeypadWriter
}

func NewManager(k KeypadWriter) *Manager {
	return &Manager{
		handlers: make(map[action.Action]map[event.Type][]func()),
		keypad:   k,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}

	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
// Keypad actions are written to the keypad, Hold keeps the key down.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if index, ok := action.KeyIndex(act); ok {
		if m.keypad == nil {
			return
		}
		switch evt {
		case event.Press, event.Hold:
			m.keypad.SetKey(index, true)
		case event.Release:
			m.keypad.SetKey(index, false)
		}
		return
	}

	callbacks := m.handlers[act][evt]
	if len(callbacks) == 0 {
		slog.Debug("Unhandled action", "action", act, "type", evt)
		return
	}

	for _, callback := range callbacks {
		callback()
	}
}
