package event

// Type represents the type of input event
type Type int

const (
	Press   Type = iota // Button pressed down (debounced for non keypad actions)
	Release             // Button released (debounced for non keypad actions)
	Hold                // Continuous while pressed (not debounced)
)
