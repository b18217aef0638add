package input

import (
	"time"

	"github.com/valerio/chipper/chipper/input/action"
	"github.com/valerio/chipper/chipper/input/event"
)

const (
	// debounceDuration is the minimum time between debounced events
	debounceDuration = 300 * time.Millisecond
)

// KeySetter receives keypad transitions.
type KeySetter interface {
	SetKeyState(key uint8, pressed bool)
}

// Manager handles input actions and their associated callbacks
type Manager struct {
	handlers      map[action.Action]map[event.Type][]func()
	lastTriggered map[action.Action]map[event.Type]time.Time
	keys          KeySetter
	now           func() time.Time
}

func NewManager(keys KeySetter) *Manager {
	return &Manager{
		handlers:      make(map[action.Action]map[event.Type][]func()),
		lastTriggered: make(map[action.Action]map[event.Type]time.Time),
		keys:          keys,
		now:           time.Now,
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
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	// keypad state goes straight to the machine, games poll it every step
	if act.IsKeypad() {
		if m.keys != nil {
			switch evt {
			case event.Press, event.Hold:
				m.keys.SetKeyState(act.KeyIndex(), true)
			case event.Release:
				m.keys.SetKeyState(act.KeyIndex(), false)
			}
		}
		return
	}

	// Debounce Press and Release events
	if evt == event.Press || evt == event.Release {
		now := m.now()
		if m.lastTriggered[act] == nil {
			m.lastTriggered[act] = make(map[event.Type]time.Time)
		}
		lastTime := m.lastTriggered[act][evt]
		if now.Sub(lastTime) < debounceDuration {
			return
		}
		m.lastTriggered[act][evt] = now
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}
