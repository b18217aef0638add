package disasm

import (
	"fmt"
	"io"

	"github.com/valerio/chipper/chipper/addr"
	"github.com/valerio/chipper/chipper/bit"
	"github.com/valerio/chipper/chipper/cpu"
)

// InstructionSize is the fixed width of every instruction in bytes.
const InstructionSize = 2

// Reader is the memory the disassembler reads from.
type Reader interface {
	Read(address uint16) byte
}

// DisassemblyLine represents a single disassembled instruction
type DisassemblyLine struct {
	Address     uint16
	Opcode      uint16
	Instruction string
}

// templates hold the operand layout per instruction kind
var templates = map[cpu.Kind]func(in cpu.Instruction) string{
	cpu.KindClearScreen:           func(cpu.Instruction) string { return "CLS" },
	cpu.KindReturn:                func(cpu.Instruction) string { return "RET" },
	cpu.KindJump:                  func(in cpu.Instruction) string { return fmt.Sprintf("JP 0x%03X", in.NNN) },
	cpu.KindCall:                  func(in cpu.Instruction) string { return fmt.Sprintf("CALL 0x%03X", in.NNN) },
	cpu.KindSkipEqualImmediate:    xnn("SE"),
	cpu.KindSkipNotEqualImmediate: xnn("SNE"),
	cpu.KindSkipEqualRegisters:    xy("SE"),
	cpu.KindSetImmediate:          xnn("LD"),
	cpu.KindAddImmediate:          xnn("ADD"),
	cpu.KindCopy:                  xy("LD"),
	cpu.KindOr:                    xy("OR"),
	cpu.KindAnd:                   xy("AND"),
	cpu.KindXor:                   xy("XOR"),
	cpu.KindAdd:                   xy("ADD"),
	cpu.KindSub:                   xy("SUB"),
	cpu.KindShiftRight:            x("SHR V%X"),
	cpu.KindSubReverse:            xy("SUBN"),
	cpu.KindShiftLeft:             x("SHL V%X"),
	cpu.KindSkipNotEqualRegisters: xy("SNE"),
	cpu.KindSetIndex:              func(in cpu.Instruction) string { return fmt.Sprintf("LD I, 0x%03X", in.NNN) },
	cpu.KindJumpOffset:            func(in cpu.Instruction) string { return fmt.Sprintf("JP V0, 0x%03X", in.NNN) },
	cpu.KindRandom:                xnn("RND"),
	cpu.KindDraw:                  func(in cpu.Instruction) string { return fmt.Sprintf("DRW V%X, V%X, %d", in.X, in.Y, in.N) },
	cpu.KindSkipKeyPressed:        x("SKP V%X"),
	cpu.KindSkipKeyNotPressed:     x("SKNP V%X"),
	cpu.KindGetDelayTimer:         x("LD V%X, DT"),
	cpu.KindWaitKey:               x("LD V%X, K"),
	cpu.KindSetDelayTimer:         x("LD DT, V%X"),
	cpu.KindSetSoundTimer:         x("LD ST, V%X"),
	cpu.KindAddIndex:              x("ADD I, V%X"),
	cpu.KindIndexGlyph:            x("LD F, V%X"),
	cpu.KindStoreBCD:              x("LD B, V%X"),
	cpu.KindRegisterDump:          x("LD [I], V%X"),
	cpu.KindRegisterLoad:          x("LD V%X, [I]"),
}

func x(format string) func(cpu.Instruction) string {
	return func(in cpu.Instruction) string { return fmt.Sprintf(format, in.X) }
}

func xy(mnemonic string) func(cpu.Instruction) string {
	return func(in cpu.Instruction) string { return fmt.Sprintf("%s V%X, V%X", mnemonic, in.X, in.Y) }
}

func xnn(mnemonic string) func(cpu.Instruction) string {
	return func(in cpu.Instruction) string { return fmt.Sprintf("%s V%X, 0x%02X", mnemonic, in.X, in.NN) }
}

// Format renders a decoded instruction in assembler notation. Words that
// decode to nothing are shown as raw data.
func Format(in cpu.Instruction) string {
	if tmpl, ok := templates[in.Kind]; ok {
		return tmpl(in)
	}
	return fmt.Sprintf("DW 0x%04X", in.Opcode)
}

// DisassembleAt disassembles the instruction at the given program counter
func DisassembleAt(pc uint16, mem Reader) DisassemblyLine {
	word := bit.Combine(mem.Read(pc), mem.Read(pc+1))

	return DisassemblyLine{
		Address:     pc,
		Opcode:      word,
		Instruction: Format(cpu.Decode(word)),
	}
}

// DisassembleRange disassembles multiple instructions starting from the given PC
func DisassembleRange(startPC uint16, count int, mem Reader) []DisassemblyLine {
	lines := make([]DisassemblyLine, 0, count)
	pc := startPC

	for i := 0; i < count; i++ {
		lines = append(lines, DisassembleAt(pc&addr.AddressMask, mem))
		pc += InstructionSize
	}

	return lines
}

// DisassembleAround disassembles instructions around the given PC, clamped
// to the program area. Instructions are fixed width so walking back is exact.
func DisassembleAround(currentPC uint16, beforeCount, afterCount int, mem Reader) []DisassemblyLine {
	startPC := currentPC
	for i := 0; i < beforeCount && startPC >= addr.ProgramStart+InstructionSize; i++ {
		startPC -= InstructionSize
	}

	count := int(currentPC-startPC)/InstructionSize + 1 + afterCount
	return DisassembleRange(startPC, count, mem)
}

// FormatDisassemblyLine formats a disassembly line for display
func FormatDisassemblyLine(line DisassemblyLine, isCurrentPC bool) string {
	prefix := " "
	if isCurrentPC {
		prefix = ">"
	}

	return fmt.Sprintf("%s0x%04X: %04X  %s", prefix, line.Address, line.Opcode, line.Instruction)
}

// Listing writes the disassembly of a whole program image, as loaded at the
// program origin. A trailing odd byte is shown as data.
func Listing(w io.Writer, program []byte) error {
	for offset := 0; offset < len(program); offset += InstructionSize {
		address := addr.ProgramStart + uint16(offset)

		if offset+1 >= len(program) {
			if _, err := fmt.Fprintf(w, "0x%04X: %02X    DB 0x%02X\n", address, program[offset], program[offset]); err != nil {
				return err
			}
			break
		}

		word := bit.Combine(program[offset], program[offset+1])
		line := DisassemblyLine{Address: address, Opcode: word, Instruction: Format(cpu.Decode(word))}
		if _, err := fmt.Fprintln(w, FormatDisassemblyLine(line, false)[1:]); err != nil {
			return err
		}
	}

	return nil
}
