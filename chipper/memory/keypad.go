package memory

import "github.com/valerio/chipper/chipper/addr"

// Key is a logical key index on the hexadecimal keypad.
// Values double as glyph selectors, so the ordering must not change.
type Key uint8

const (
	Key0 Key = iota
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
)

// Keypad holds the pressed state of the 16 keys.
type Keypad struct {
	keys [addr.KeyCount]bool
}

// NewKeypad creates a new Keypad instance with all keys released
func NewKeypad() *Keypad {
	return &Keypad{}
}

// Press updates the keypad state when a key is pressed
func (k *Keypad) Press(key Key) {
	k.Set(key, true)
}

// Release updates the keypad state when a key is released
func (k *Keypad) Release(key Key) {
	k.Set(key, false)
}

// Set changes the state of a key. Only the low nibble of the key is used.
func (k *Keypad) Set(key Key, pressed bool) {
	k.keys[key&0x0F] = pressed
}

// IsPressed reports whether the key is currently down. Only the low nibble of the key is used.
func (k *Keypad) IsPressed(key Key) bool {
	return k.keys[key&0x0F]
}

// FirstPressed scans keys from the lowest index and returns the first one held down.
func (k *Keypad) FirstPressed() (Key, bool) {
	for i, pressed := range k.keys {
		if pressed {
			return Key(i), true
		}
	}

	return 0, false
}

// Reset releases all keys.
func (k *Keypad) Reset() {
	k.keys = [addr.KeyCount]bool{}
}
