package input

import "github.com/valerio/chipper/chipper/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// The left hand block of a QWERTY keyboard stands in for the keypad:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
var DefaultKeyMap = map[string]action.Action{
	"x": action.Key0,
	"1": action.Key1,
	"2": action.Key2,
	"3": action.Key3,
	"q": action.Key4,
	"w": action.Key5,
	"e": action.Key6,
	"a": action.Key7,
	"s": action.Key8,
	"d": action.Key9,
	"z": action.KeyA,
	"c": action.KeyB,
	"4": action.KeyC,
	"r": action.KeyD,
	"f": action.KeyE,
	"v": action.KeyF,

	// Interpreter controls
	"Space":  action.EmulatorPauseToggle,
	"p":      action.EmulatorPauseToggle,
	"n":      action.EmulatorStepInstruction,
	"F12":    action.EmulatorSnapshot,
	"Escape": action.EmulatorQuit,

	// Debug controls
	"+": action.DebugLogLevelIncrease,
	"=": action.DebugLogLevelIncrease, // Alternative without shift
	"-": action.DebugLogLevelDecrease,
	"_": action.DebugLogLevelDecrease, // Alternative with shift
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
