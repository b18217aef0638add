package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		word uint16
		kind Kind
	}{
		{0x00E0, KindClearScreen},
		{0x00EE, KindReturn},
		{0x0000, KindUnknown},
		{0x0123, KindUnknown},
		{0x00E1, KindUnknown},
		{0x1ABC, KindJump},
		{0x2300, KindCall},
		{0x3142, KindSkipEqualImmediate},
		{0x4142, KindSkipNotEqualImmediate},
		{0x5120, KindSkipEqualRegisters},
		{0x512F, KindSkipEqualRegisters},
		{0x6A55, KindSetImmediate},
		{0x7A01, KindAddImmediate},
		{0x8120, KindCopy},
		{0x8121, KindOr},
		{0x8122, KindAnd},
		{0x8123, KindXor},
		{0x8124, KindAdd},
		{0x8125, KindSub},
		{0x8126, KindShiftRight},
		{0x8127, KindSubReverse},
		{0x812E, KindShiftLeft},
		{0x8128, KindUnknown},
		{0x812F, KindUnknown},
		{0x9120, KindSkipNotEqualRegisters},
		{0x9127, KindSkipNotEqualRegisters},
		{0xA123, KindSetIndex},
		{0xB300, KindJumpOffset},
		{0xC10F, KindRandom},
		{0xD125, KindDraw},
		{0xE19E, KindSkipKeyPressed},
		{0xE1A1, KindSkipKeyNotPressed},
		{0xE100, KindUnknown},
		{0xF107, KindGetDelayTimer},
		{0xF10A, KindWaitKey},
		{0xF115, KindSetDelayTimer},
		{0xF118, KindSetSoundTimer},
		{0xF11E, KindAddIndex},
		{0xF129, KindIndexGlyph},
		{0xF133, KindStoreBCD},
		{0xF155, KindRegisterDump},
		{0xF165, KindRegisterLoad},
		{0xF1FF, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			in := Decode(tt.word)
			assert.Equal(t, tt.kind, in.Kind, "decoding 0x%04X", tt.word)
			assert.Equal(t, tt.word, in.Opcode)
		})
	}
}

func TestDecode_Operands(t *testing.T) {
	in := Decode(0xD3A7)

	assert.Equal(t, uint8(0x3), in.X)
	assert.Equal(t, uint8(0xA), in.Y)
	assert.Equal(t, uint8(0x7), in.N)
	assert.Equal(t, uint8(0xA7), in.NN)
	assert.Equal(t, uint16(0x3A7), in.NNN)
	assert.Equal(t, "D3A7 DRW Vx,Vy,n", in.String())
}

func TestDecode_EveryWordHasHandler(t *testing.T) {
	for word := 0; word <= 0xFFFF; word++ {
		in := Decode(uint16(word))
		require.Less(t, in.Kind, kindCount, "0x%04X decoded out of range", word)
		require.NotNil(t, handlers[in.Kind], "no handler for %s", in.Kind)
	}
}

func TestKind_Names(t *testing.T) {
	for k := KindUnknown; k < kindCount; k++ {
		assert.NotEmpty(t, k.String(), "kind %d has no name", k)
		assert.NotNil(t, handlers[k], "kind %s has no handler", k)
	}

	assert.Equal(t, "Kind(200)", Kind(200).String())
}
