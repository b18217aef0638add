package action

// Action represents input actions that can be performed in the interpreter
type Action int

const (
	// Hexadecimal keypad, in key index order
	Key0 Action = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF

	// Interpreter features
	EmulatorSnapshot
	EmulatorPauseToggle
	EmulatorStepInstruction
	EmulatorQuit

	// Debug controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// IsKeypad reports whether the action is one of the 16 keypad keys.
func (a Action) IsKeypad() bool {
	return a >= Key0 && a <= KeyF
}

// KeyIndex returns the keypad index of a keypad action.
func (a Action) KeyIndex() uint8 {
	return uint8(a - Key0)
}

// FromKeyIndex returns the keypad action for a key index, only the low nibble is used.
func FromKeyIndex(key uint8) Action {
	return Key0 + Action(key&0x0F)
}
