package cpu

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/valerio/chipper/chipper/addr"
)

// Bus provides the interface for component communication
type Bus interface {
	Read(address uint16) byte
	ReadWord(address uint16) uint16
	Write(address uint16, value byte)

	ClearScreen()
	DrawSprite(x, y uint8, sprite []byte) bool

	IsKeyPressed(key uint8) bool
	FirstPressedKey() (uint8, bool)

	DelayTimer() uint8
	SetDelayTimer(value uint8)
	SetSoundTimer(value uint8)

	// Tick is called once at the end of every executed instruction.
	Tick()
}

// FaultHandler receives instructions that could not be executed, the
// program counter is left pointing at them.
type FaultHandler func(pc, opcode uint16, reason string)

// CPU holds the interpreter registers and call stack.
type CPU struct {
	// registers
	v     [addr.RegisterCount]uint8
	i     uint16
	pc    uint16
	stack [addr.StackDepth]uint16
	sp    uint8

	// metadata
	currentOpcode uint16
	cycles        uint64
	lastFaultPC   uint16
	lastFaultOp   uint16
	faulted       bool

	rng     *rand.Rand
	onFault FaultHandler

	bus Bus
}

// New returns an initialized CPU instance, ready to execute at the program origin.
func New(bus Bus) *CPU {
	return &CPU{
		pc:  addr.ProgramStart,
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		bus: bus,
	}
}

// SetRandSource replaces the source used by the random instruction.
func (c *CPU) SetRandSource(src rand.Source) {
	c.rng = rand.New(src)
}

// SetFaultHandler installs the collaborator notified of unknown opcodes and
// stack faults. Faults are always logged, the handler is optional.
func (c *CPU) SetFaultHandler(h FaultHandler) {
	c.onFault = h
}

// Exec executes a single instruction and ticks the timers once.
// Returns the decoded instruction.
func (c *CPU) Exec() Instruction {
	word := c.bus.ReadWord(c.pc)
	instruction := Decode(word)
	c.currentOpcode = word

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug(
			"exec",
			"pc", fmt.Sprintf("0x%04x", c.pc),
			"opcode", fmt.Sprintf("0x%04x", word),
			"instr", instruction.Kind.String(),
		)
	}

	handlers[instruction.Kind](c, instruction)

	c.bus.Tick()
	c.cycles++

	return instruction
}

// fault reports an instruction that cannot make progress. A stall on the
// same instruction is only logged the first time.
func (c *CPU) fault(reason string) {
	repeated := c.faulted && c.lastFaultPC == c.pc && c.lastFaultOp == c.currentOpcode
	c.faulted = true
	c.lastFaultPC = c.pc
	c.lastFaultOp = c.currentOpcode

	if !repeated {
		slog.Warn("Instruction fault",
			"reason", reason,
			"pc", fmt.Sprintf("0x%04X", c.pc),
			"opcode", fmt.Sprintf("0x%04X", c.currentOpcode))
	}

	if c.onFault != nil {
		c.onFault(c.pc, c.currentOpcode, reason)
	}
}

// setFlag writes 1 or 0 to VF.
func (c *CPU) setFlag(condition bool) {
	if condition {
		c.v[addr.FlagRegister] = 1
		return
	}

	c.v[addr.FlagRegister] = 0
}

// next advances to the following instruction.
func (c *CPU) next() {
	c.pc += 2
}

// skipIf advances past the following instruction when the condition holds.
func (c *CPU) skipIf(condition bool) {
	if condition {
		c.pc += 4
		return
	}

	c.pc += 2
}

// Debug getter methods for register display
func (c *CPU) GetV(x uint8) uint8 { return c.v[x&0x0F] }
func (c *CPU) GetI() uint16       { return c.i }
func (c *CPU) GetPC() uint16      { return c.pc }
func (c *CPU) GetSP() uint8       { return c.sp }
func (c *CPU) GetCycles() uint64  { return c.cycles }
func (c *CPU) GetOpcode() uint16  { return c.currentOpcode }

// GetRegisters returns a copy of the V registers.
func (c *CPU) GetRegisters() [addr.RegisterCount]uint8 { return c.v }
