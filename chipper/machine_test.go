package chipper

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/chipper/chipper/addr"
	"github.com/valerio/chipper/chipper/cpu"
	"github.com/valerio/chipper/chipper/input/action"
	"github.com/valerio/chipper/chipper/memory"
	"github.com/valerio/chipper/chipper/video"
)

// program encodes opcode words big-endian.
func program(words ...uint16) []byte {
	data := make([]byte, 0, len(words)*2)
	for _, w := range words {
		data = append(data, byte(w>>8), byte(w))
	}
	return data
}

func newLoaded(t *testing.T, words ...uint16) *Machine {
	t.Helper()

	m := New()
	require.NoError(t, m.Load(program(words...)))
	return m
}

func steps(m *Machine, n int) {
	for i := 0; i < n; i++ {
		m.Step()
	}
}

// glyph renders the rows of a 4 pixel wide glyph at the origin.
func glyph(rows ...byte) video.Snapshot {
	var s video.Snapshot
	for y, row := range rows {
		for x := 0; x < 8; x++ {
			s[y][x] = row&(0x80>>x) != 0
		}
	}
	return s
}

func TestMachine_New(t *testing.T) {
	m := New()

	assert.Equal(t, addr.ProgramStart, m.CPU().GetPC())
	assert.Equal(t, video.Snapshot{}, m.ReadFramebuffer())
	assert.False(t, m.ShouldPlaySound())
	assert.Equal(t, byte(0xF0), m.MMU().Read(0), "font is loaded")
	assert.Equal(t, byte(0x00), m.MMU().Read(addr.ProgramStart))
}

func TestMachine_Load(t *testing.T) {
	m := New()

	require.NoError(t, m.Load([]byte{0xAA, 0xBB}))
	assert.Equal(t, byte(0xAA), m.MMU().Read(0x200))
	assert.Equal(t, byte(0xBB), m.MMU().Read(0x201))

	require.NoError(t, m.Load(make([]byte, addr.ProgramCapacity)))
	assert.Equal(t, byte(0x00), m.MMU().Read(0x200))
}

func TestMachine_LoadTooLarge(t *testing.T) {
	m := newLoaded(t, 0x1234)

	oversized := make([]byte, addr.ProgramCapacity+1)
	for i := range oversized {
		oversized[i] = 0xFF
	}

	err := m.Load(oversized)
	require.Error(t, err)
	assert.True(t, errors.Is(err, memory.ErrCartridgeTooLarge))
	assert.Equal(t, byte(0x12), m.MMU().Read(0x200), "memory is left untouched")
	assert.Equal(t, byte(0x00), m.MMU().Read(0x202))
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rom.ch8")
	require.NoError(t, os.WriteFile(path, program(0x6A42), 0o644))

	m, err := NewWithFile(path)
	require.NoError(t, err)

	m.Step()
	assert.Equal(t, uint8(0x42), m.CPU().GetV(0xA))

	_, err = NewWithFile(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.Error(t, err)

	big := filepath.Join(t.TempDir(), "big.ch8")
	require.NoError(t, os.WriteFile(big, make([]byte, 4000), 0o644))
	_, err = NewWithFile(big)
	assert.ErrorIs(t, err, memory.ErrCartridgeTooLarge)
}

func TestMachine_DrawGlyph(t *testing.T) {
	m := newLoaded(t,
		0x6005, // V0 = 5
		0xF029, // I = glyph(V0)
		0x6100, // V1 = 0
		0x6200, // V2 = 0
		0xD125, // draw 5 rows at (V1, V2)
	)
	m.AcknowledgeRedraw()

	steps(m, 4)
	assert.False(t, m.ShouldRedraw())

	in := m.Step()
	assert.Equal(t, cpu.KindDraw, in.Kind)
	assert.True(t, m.ShouldRedraw())
	assert.Equal(t, uint8(0), m.CPU().GetV(addr.FlagRegister))

	want := glyph(0xF0, 0x80, 0xF0, 0x10, 0xF0)
	if diff := deep.Equal(m.ReadFramebuffer(), want); diff != nil {
		t.Errorf("framebuffer mismatch: %v", diff)
	}

	m.AcknowledgeRedraw()
	assert.False(t, m.ShouldRedraw())
}

func TestMachine_DrawTwiceErases(t *testing.T) {
	m := newLoaded(t, 0xA000, 0xD015, 0xD015)

	steps(m, 2)
	assert.NotEqual(t, video.Snapshot{}, m.ReadFramebuffer())

	m.Step()
	assert.Equal(t, video.Snapshot{}, m.ReadFramebuffer())
	assert.Equal(t, uint8(1), m.CPU().GetV(addr.FlagRegister))
}

func TestMachine_Sound(t *testing.T) {
	m := newLoaded(t, 0x6003, 0xF018, 0x1204)

	m.Step()
	assert.False(t, m.ShouldPlaySound())

	// set to 3, ticked once by the same step
	m.Step()
	assert.True(t, m.ShouldPlaySound())

	steps(m, 1)
	assert.True(t, m.ShouldPlaySound())

	steps(m, 1)
	assert.False(t, m.ShouldPlaySound())
}

func TestMachine_WaitKey(t *testing.T) {
	m := newLoaded(t, 0xF50A, 0x1202)

	steps(m, 3)
	assert.Equal(t, addr.ProgramStart, m.CPU().GetPC())

	m.SetKeyState(0x1B, true) // low nibble: key B
	m.Step()

	assert.Equal(t, uint8(0xB), m.CPU().GetV(5))
	assert.Equal(t, uint16(0x202), m.CPU().GetPC())

	m.SetKeyState(0xB, false)
	assert.False(t, m.MMU().Keypad.IsPressed(memory.KeyB))
}

func TestMachine_Random(t *testing.T) {
	m := New(WithRandSource(fixedSource(0xABCD)))
	require.NoError(t, m.Load(program(0xC0FF, 0xC10F)))

	steps(m, 2)

	regs := m.CPU().GetRegisters()
	assert.Equal(t, regs[0]&0x0F, regs[1], "registers: %s", spew.Sdump(regs))
}

func TestMachine_UnknownOpcodeHandler(t *testing.T) {
	type fault struct{ pc, opcode uint16 }
	var faults []fault

	m := New(WithUnknownOpcodeHandler(func(pc, opcode uint16) {
		faults = append(faults, fault{pc, opcode})
	}))
	require.NoError(t, m.Load(program(0x6001, 0x0ABC)))

	steps(m, 3)

	assert.Equal(t, []fault{{0x202, 0x0ABC}, {0x202, 0x0ABC}}, faults)
	assert.Equal(t, uint16(0x202), m.CPU().GetPC())
	assert.Equal(t, uint64(3), m.GetInstructionCount())
}

type countingLimiter struct {
	waits, resets int
}

func (c *countingLimiter) WaitForNextFrame() { c.waits++ }
func (c *countingLimiter) Reset()            { c.resets++ }

func TestMachine_RunUntilFrame(t *testing.T) {
	limiter := &countingLimiter{}
	m := New(WithFrameLimiter(limiter))
	require.NoError(t, m.Load(program(0x7001, 0x1200)))

	for i := 0; i < 4; i++ {
		require.NoError(t, m.RunUntilFrame())
	}

	assert.Equal(t, 4, limiter.waits)
	assert.Equal(t, uint64(4), m.GetFrameCount())
	assert.Equal(t, uint64(4), m.GetInstructionCount(), "one instruction per frame")
	assert.Equal(t, uint8(2), m.CPU().GetV(0))
}

func TestMachine_PauseAndStep(t *testing.T) {
	limiter := &countingLimiter{}
	m := New(WithFrameLimiter(limiter))
	require.NoError(t, m.Load(program(0x7001, 0x1200)))

	m.HandleAction(action.EmulatorPauseToggle, true)
	m.HandleAction(action.EmulatorPauseToggle, false)
	assert.True(t, m.IsPaused())
	assert.Equal(t, 1, limiter.resets)

	require.NoError(t, m.RunUntilFrame())
	assert.Equal(t, uint64(0), m.GetInstructionCount())

	m.HandleAction(action.EmulatorStepInstruction, true)
	require.NoError(t, m.RunUntilFrame())
	require.NoError(t, m.RunUntilFrame())
	assert.Equal(t, uint64(1), m.GetInstructionCount())

	m.HandleAction(action.EmulatorPauseToggle, true)
	require.NoError(t, m.RunUntilFrame())
	assert.Equal(t, uint64(2), m.GetInstructionCount())
	assert.Equal(t, uint64(4), m.GetFrameCount())
}

func TestMachine_HandleKeypadAction(t *testing.T) {
	m := New()

	m.HandleAction(action.Key7, true)
	assert.True(t, m.MMU().Keypad.IsPressed(memory.Key7))

	m.HandleAction(action.Key7, false)
	assert.False(t, m.MMU().Keypad.IsPressed(memory.Key7))

	// unrelated actions are ignored
	m.HandleAction(action.EmulatorQuit, true)
	assert.False(t, m.IsPaused())
}

func TestMachine_Independent(t *testing.T) {
	a := newLoaded(t, 0x6A01)
	b := newLoaded(t, 0x6A02)

	a.Step()
	b.Step()

	assert.Equal(t, uint8(1), a.CPU().GetV(0xA))
	assert.Equal(t, uint8(2), b.CPU().GetV(0xA))
}

type fixedSource uint64

func (s fixedSource) Uint64() uint64 { return uint64(s) }

func TestMachine_DebugState(t *testing.T) {
	m := newLoaded(t, 0x6A42, 0xA123, 0x1204)
	steps(m, 2)

	state := m.DebugState()

	assert.Equal(t, uint16(0x204), state.PC)
	assert.Equal(t, uint16(0x123), state.I)
	assert.Equal(t, uint8(0x42), state.V[0xA])
	assert.Equal(t, uint64(2), state.Cycles)
	require.GreaterOrEqual(t, len(state.Disassembly), 3)
	assert.Equal(t, " 0x0200: 6A42  LD VA, 0x42", state.Disassembly[0])
	assert.Equal(t, ">0x0204: 1204  JP 0x204", state.Disassembly[2])
}

func TestMachine_ReloadShorterProgram(t *testing.T) {
	m := newLoaded(t, 0x6001, 0x6102, 0x6203)
	require.NoError(t, m.Load(program(0x00E0)))

	assert.Equal(t, byte(0x00), m.MMU().Read(0x200))
	assert.Equal(t, byte(0xE0), m.MMU().Read(0x201))
	for address := uint16(0x202); address < 0x206; address++ {
		assert.Equal(t, byte(0x00), m.MMU().Read(address), "0x%03X", address)
	}
}
