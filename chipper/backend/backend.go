package backend

import (
	"github.com/valerio/chipper/chipper/audio"
	"github.com/valerio/chipper/chipper/input/action"
	"github.com/valerio/chipper/chipper/input/event"
	"github.com/valerio/chipper/chipper/video"
)

// Backend represents a complete host platform (rendering + input + audio)
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, SDL window, files)
// - Translating platform-specific input events to InputEvents
// - Handling backend-specific features (snapshots, log panels, audio)
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update is called once per host frame. Backends should:
	// 1. Poll for platform-specific events (keyboard, window events, etc.)
	// 2. Render the provided frame, only if it changed since the last acknowledgement
	// 3. Start or stop the tone according to config.SoundActive
	// It returns the input events collected since the previous call.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// ActionHandler is implemented by backends that react to host actions
// themselves, such as snapshots or log filtering.
type ActionHandler interface {
	HandleAction(act action.Action)
}

// InputEvent is a translated platform input.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title   string
	Scale   int
	Verbose bool // Backends may ignore unsupported features

	// SoundActive reports whether the machine wants the tone playing.
	SoundActive func() bool
	// Audio produces samples for backends that stream audio, it may be nil.
	Audio audio.Provider
	// DebugProvider exposes machine state for debug panels, it may be nil.
	DebugProvider DebugDataProvider
}

// DebugDataProvider exposes interpreter state for display.
type DebugDataProvider interface {
	DebugState() DebugState
}

// DebugState is a copy of the interpreter registers at a frame boundary.
type DebugState struct {
	PC, I       uint16
	SP          uint8
	V           [16]uint8
	Delay       uint8
	Sound       uint8
	Opcode      uint16
	Instruction string
	Cycles      uint64
	Paused      bool

	// Disassembly lists the instructions around PC, the current one marked with '>'.
	Disassembly []string
}

// IsSoundActive calls SoundActive, false when unset.
func (c BackendConfig) IsSoundActive() bool {
	return c.SoundActive != nil && c.SoundActive()
}
