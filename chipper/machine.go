package chipper

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/valerio/chipper/chipper/backend"
	"github.com/valerio/chipper/chipper/cpu"
	"github.com/valerio/chipper/chipper/disasm"
	"github.com/valerio/chipper/chipper/input/action"
	"github.com/valerio/chipper/chipper/memory"
	"github.com/valerio/chipper/chipper/timing"
	"github.com/valerio/chipper/chipper/video"
)

// debug listing window around PC
const (
	disasmBefore = 2
	disasmAfter  = 4
)

// Machine is the complete interpreter: memory, registers, display, keypad
// and timers. Each instance is independent.
type Machine struct {
	bus     *Bus
	cpu     *cpu.CPU
	limiter timing.Limiter

	paused     bool
	stepOnce   bool
	frameCount uint64
}

// Option configures a Machine on creation.
type Option func(*Machine)

// WithRandSource makes the random instruction deterministic.
func WithRandSource(src rand.Source) Option {
	return func(m *Machine) {
		m.cpu.SetRandSource(src)
	}
}

// WithFrameLimiter sets the pacing used by RunUntilFrame. The default does not wait.
func WithFrameLimiter(l timing.Limiter) Option {
	return func(m *Machine) {
		m.limiter = l
	}
}

// WithUnknownOpcodeHandler installs a collaborator notified every time an
// instruction cannot be executed, including stack faults.
func WithUnknownOpcodeHandler(h func(pc, opcode uint16)) Option {
	return func(m *Machine) {
		m.cpu.SetFaultHandler(func(pc, opcode uint16, _ string) {
			h(pc, opcode)
		})
	}
}

// New creates a machine in its power-on state: font loaded, program area
// empty, PC at the load origin.
func New(opts ...Option) *Machine {
	bus := NewBus()
	m := &Machine{
		bus:     bus,
		cpu:     cpu.New(bus),
		limiter: timing.NewNoOpLimiter(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// NewWithFile creates a new machine and loads the cartridge at path into it.
func NewWithFile(path string, opts ...Option) (*Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cartridge: %w", err)
	}

	m := New(opts...)
	if err := m.Load(data); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return m, nil
}

// Load copies a program image to the load origin, clearing whatever a
// previous program left in the program area. Oversized images are rejected
// and leave memory untouched.
func (m *Machine) Load(data []byte) error {
	cart, err := memory.NewCartridgeWithData(data)
	if err != nil {
		return err
	}

	m.bus.MMU.LoadCartridge(cart)
	slog.Info("Loaded cartridge", "bytes", cart.Size())

	return nil
}

// Step executes exactly one instruction and returns it.
func (m *Machine) Step() cpu.Instruction {
	return m.cpu.Exec()
}

// ShouldRedraw reports whether the display changed since the last acknowledgement.
func (m *Machine) ShouldRedraw() bool {
	return m.bus.FB.ShouldRedraw()
}

// AcknowledgeRedraw lowers the redraw flag once the host presented the frame.
func (m *Machine) AcknowledgeRedraw() {
	m.bus.FB.AcknowledgeRedraw()
}

// ShouldPlaySound reports whether the sound timer is running.
func (m *Machine) ShouldPlaySound() bool {
	return m.bus.MMU.Timers.SoundActive()
}

// SetKeyState records a keypad transition. Only the low nibble of key is used.
func (m *Machine) SetKeyState(key uint8, pressed bool) {
	m.bus.MMU.Keypad.Set(memory.Key(key), pressed)
}

// ReadFramebuffer returns a copy of the display.
func (m *Machine) ReadFramebuffer() video.Snapshot {
	return m.bus.FB.Snapshot()
}

// RunUntilFrame advances the machine by one host frame: a single step,
// unless paused, followed by the limiter wait.
func (m *Machine) RunUntilFrame() error {
	if !m.paused || m.stepOnce {
		m.Step()
		m.stepOnce = false
	}

	m.frameCount++
	m.limiter.WaitForNextFrame()

	return nil
}

// GetCurrentFrame returns the live framebuffer for rendering.
func (m *Machine) GetCurrentFrame() *video.FrameBuffer {
	return m.bus.FB
}

// HandleAction applies actions the machine understands: keypad keys,
// pause and single stepping. Anything else is ignored.
func (m *Machine) HandleAction(act action.Action, pressed bool) {
	if act.IsKeypad() {
		m.SetKeyState(act.KeyIndex(), pressed)
		return
	}

	if !pressed {
		return
	}

	switch act {
	case action.EmulatorPauseToggle:
		m.paused = !m.paused
		m.limiter.Reset()
		slog.Info("Pause toggled", "paused", m.paused)
	case action.EmulatorStepInstruction:
		if m.paused {
			m.stepOnce = true
		}
	}
}

// IsPaused reports whether RunUntilFrame is currently skipping execution.
func (m *Machine) IsPaused() bool {
	return m.paused
}

// Debug getters

func (m *Machine) CPU() *cpu.CPU         { return m.cpu }
func (m *Machine) MMU() *memory.MMU      { return m.bus.MMU }
func (m *Machine) GetFrameCount() uint64 { return m.frameCount }
func (m *Machine) GetInstructionCount() uint64 {
	return m.cpu.GetCycles()
}

// DebugState copies the registers for debug panels.
func (m *Machine) DebugState() backend.DebugState {
	c := m.cpu
	pc := c.GetPC()

	var listing []string
	for _, line := range disasm.DisassembleAround(pc, disasmBefore, disasmAfter, m.bus.MMU) {
		listing = append(listing, disasm.FormatDisassemblyLine(line, line.Address == pc))
	}

	return backend.DebugState{
		PC:          pc,
		I:           c.GetI(),
		SP:          c.GetSP(),
		V:           c.GetRegisters(),
		Delay:       m.bus.MMU.Timers.Delay(),
		Sound:       m.bus.MMU.Timers.Sound(),
		Opcode:      c.GetOpcode(),
		Instruction: cpu.Decode(c.GetOpcode()).Kind.String(),
		Cycles:      c.GetCycles(),
		Paused:      m.paused,
		Disassembly: listing,
	}
}
