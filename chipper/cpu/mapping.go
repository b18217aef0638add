package cpu

import (
	"fmt"

	"github.com/valerio/chipper/chipper/bit"
)

// Kind identifies one of the documented instruction behaviors.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindClearScreen
	KindReturn
	KindJump
	KindCall
	KindSkipEqualImmediate
	KindSkipNotEqualImmediate
	KindSkipEqualRegisters
	KindSetImmediate
	KindAddImmediate
	KindCopy
	KindOr
	KindAnd
	KindXor
	KindAdd
	KindSub
	KindShiftRight
	KindSubReverse
	KindShiftLeft
	KindSkipNotEqualRegisters
	KindSetIndex
	KindJumpOffset
	KindRandom
	KindDraw
	KindSkipKeyPressed
	KindSkipKeyNotPressed
	KindGetDelayTimer
	KindWaitKey
	KindSetDelayTimer
	KindSetSoundTimer
	KindAddIndex
	KindIndexGlyph
	KindStoreBCD
	KindRegisterDump
	KindRegisterLoad

	kindCount
)

func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Instruction is a decoded opcode word.
type Instruction struct {
	Opcode uint16
	Kind   Kind

	X   uint8  // register selector, bits 8-11
	Y   uint8  // register selector, bits 4-7
	N   uint8  // low nibble
	NN  uint8  // low byte
	NNN uint16 // low 12 bits
}

func (in Instruction) String() string {
	return fmt.Sprintf("%04X %s", in.Opcode, in.Kind)
}

// Decode splits an opcode word into its operand fields and identifies the
// behavior it selects. Words that match no documented behavior decode to KindUnknown.
func Decode(word uint16) Instruction {
	return Instruction{
		Opcode: word,
		Kind:   decodeKind(word),
		X:      bit.Nibble(word, 2),
		Y:      bit.Nibble(word, 1),
		N:      bit.Nibble(word, 0),
		NN:     bit.Low(word),
		NNN:    bit.Address(word),
	}
}

func decodeKind(word uint16) Kind {
	switch bit.Nibble(word, 3) {
	case 0x0:
		switch word {
		case 0x00E0:
			return KindClearScreen
		case 0x00EE:
			return KindReturn
		}
	case 0x1:
		return KindJump
	case 0x2:
		return KindCall
	case 0x3:
		return KindSkipEqualImmediate
	case 0x4:
		return KindSkipNotEqualImmediate
	case 0x5:
		return KindSkipEqualRegisters
	case 0x6:
		return KindSetImmediate
	case 0x7:
		return KindAddImmediate
	case 0x8:
		return aluKinds[bit.Nibble(word, 0)]
	case 0x9:
		return KindSkipNotEqualRegisters
	case 0xA:
		return KindSetIndex
	case 0xB:
		return KindJumpOffset
	case 0xC:
		return KindRandom
	case 0xD:
		return KindDraw
	case 0xE:
		switch bit.Low(word) {
		case 0x9E:
			return KindSkipKeyPressed
		case 0xA1:
			return KindSkipKeyNotPressed
		}
	case 0xF:
		return miscKinds[bit.Low(word)]
	}

	return KindUnknown
}

// aluKinds maps the low nibble of 8XY? words.
var aluKinds = [16]Kind{
	0x0: KindCopy,
	0x1: KindOr,
	0x2: KindAnd,
	0x3: KindXor,
	0x4: KindAdd,
	0x5: KindSub,
	0x6: KindShiftRight,
	0x7: KindSubReverse,
	0xE: KindShiftLeft,
}

// miscKinds maps the low byte of FX?? words.
var miscKinds = [256]Kind{
	0x07: KindGetDelayTimer,
	0x0A: KindWaitKey,
	0x15: KindSetDelayTimer,
	0x18: KindSetSoundTimer,
	0x1E: KindAddIndex,
	0x29: KindIndexGlyph,
	0x33: KindStoreBCD,
	0x55: KindRegisterDump,
	0x65: KindRegisterLoad,
}

// handler executes one behavior, including its program counter update.
type handler func(*CPU, Instruction)

var handlers = [kindCount]handler{
	KindUnknown:               opUnknown,
	KindClearScreen:           opClearScreen,
	KindReturn:                opReturn,
	KindJump:                  opJump,
	KindCall:                  opCall,
	KindSkipEqualImmediate:    opSkipEqualImmediate,
	KindSkipNotEqualImmediate: opSkipNotEqualImmediate,
	KindSkipEqualRegisters:    opSkipEqualRegisters,
	KindSetImmediate:          opSetImmediate,
	KindAddImmediate:          opAddImmediate,
	KindCopy:                  opCopy,
	KindOr:                    opOr,
	KindAnd:                   opAnd,
	KindXor:                   opXor,
	KindAdd:                   opAdd,
	KindSub:                   opSub,
	KindShiftRight:            opShiftRight,
	KindSubReverse:            opSubReverse,
	KindShiftLeft:             opShiftLeft,
	KindSkipNotEqualRegisters: opSkipNotEqualRegisters,
	KindSetIndex:              opSetIndex,
	KindJumpOffset:            opJumpOffset,
	KindRandom:                opRandom,
	KindDraw:                  opDraw,
	KindSkipKeyPressed:        opSkipKeyPressed,
	KindSkipKeyNotPressed:     opSkipKeyNotPressed,
	KindGetDelayTimer:         opGetDelayTimer,
	KindWaitKey:               opWaitKey,
	KindSetDelayTimer:         opSetDelayTimer,
	KindSetSoundTimer:         opSetSoundTimer,
	KindAddIndex:              opAddIndex,
	KindIndexGlyph:            opIndexGlyph,
	KindStoreBCD:              opStoreBCD,
	KindRegisterDump:          opRegisterDump,
	KindRegisterLoad:          opRegisterLoad,
}

var kindNames = [kindCount]string{
	KindUnknown:               "unknown opcode",
	KindClearScreen:           "CLS",
	KindReturn:                "RET",
	KindJump:                  "JP nnn",
	KindCall:                  "CALL nnn",
	KindSkipEqualImmediate:    "SE Vx,nn",
	KindSkipNotEqualImmediate: "SNE Vx,nn",
	KindSkipEqualRegisters:    "SE Vx,Vy",
	KindSetImmediate:          "LD Vx,nn",
	KindAddImmediate:          "ADD Vx,nn",
	KindCopy:                  "LD Vx,Vy",
	KindOr:                    "OR Vx,Vy",
	KindAnd:                   "AND Vx,Vy",
	KindXor:                   "XOR Vx,Vy",
	KindAdd:                   "ADD Vx,Vy",
	KindSub:                   "SUB Vx,Vy",
	KindShiftRight:            "SHR Vx",
	KindSubReverse:            "SUBN Vx,Vy",
	KindShiftLeft:             "SHL Vx",
	KindSkipNotEqualRegisters: "SNE Vx,Vy",
	KindSetIndex:              "LD I,nnn",
	KindJumpOffset:            "JP V0,nnn",
	KindRandom:                "RND Vx,nn",
	KindDraw:                  "DRW Vx,Vy,n",
	KindSkipKeyPressed:        "SKP Vx",
	KindSkipKeyNotPressed:     "SKNP Vx",
	KindGetDelayTimer:         "LD Vx,DT",
	KindWaitKey:               "LD Vx,K",
	KindSetDelayTimer:         "LD DT,Vx",
	KindSetSoundTimer:         "LD ST,Vx",
	KindAddIndex:              "ADD I,Vx",
	KindIndexGlyph:            "LD F,Vx",
	KindStoreBCD:              "LD B,Vx",
	KindRegisterDump:          "LD [I],Vx",
	KindRegisterLoad:          "LD Vx,[I]",
}
