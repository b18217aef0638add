package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/chipper/chipper/addr"
)

func TestMMU_FontLoaded(t *testing.T) {
	mmu := New()

	for i := 0; i < len(font); i++ {
		assert.Equal(t, font[i], mmu.Read(uint16(i)), "glyph byte %d", i)
	}
	// glyph 0 is a box, glyph F ends with a single left column
	assert.Equal(t, byte(0xF0), mmu.Read(0))
	assert.Equal(t, byte(0x80), mmu.Read(addr.FontEnd-1))
}

func TestMMU_FontIsImmutable(t *testing.T) {
	mmu := New()

	mmu.Write(0x000, 0xAA)
	mmu.Write(addr.FontEnd-1, 0xAA)
	mmu.Write(addr.FontEnd, 0xAA)

	assert.Equal(t, byte(0xF0), mmu.Read(0x000))
	assert.Equal(t, byte(0x80), mmu.Read(addr.FontEnd-1))
	assert.Equal(t, byte(0xAA), mmu.Read(addr.FontEnd))
}

func TestMMU_AddressMasking(t *testing.T) {
	mmu := New()

	mmu.Write(0x1300, 0x42)
	assert.Equal(t, byte(0x42), mmu.Read(0x0300))
	assert.Equal(t, byte(0x42), mmu.Read(0xF300))
}

func TestMMU_ReadWord(t *testing.T) {
	mmu := New()

	mmu.Write(0x200, 0x12)
	mmu.Write(0x201, 0x34)
	assert.Equal(t, uint16(0x1234), mmu.ReadWord(0x200))

	// wraps around the end of memory
	mmu.Write(0xFFF, 0xAB)
	assert.Equal(t, uint16(0xABF0), mmu.ReadWord(0xFFF))
}

func TestCartridge_Capacity(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "empty", size: 0},
		{name: "small", size: 128},
		{name: "exactly full", size: 3584},
		{name: "one byte too many", size: 3585, wantErr: true},
		{name: "way too large", size: 8192, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, err := NewCartridgeWithData(make([]byte, tt.size))
			if tt.wantErr {
				assert.Nil(t, cart)
				assert.True(t, errors.Is(err, ErrCartridgeTooLarge))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.size, cart.Size())
		})
	}
}

func TestMMU_LoadCartridge(t *testing.T) {
	data := make([]byte, addr.ProgramCapacity)
	for i := range data {
		data[i] = byte(i)
	}
	cart, err := NewCartridgeWithData(data)
	require.NoError(t, err)

	mmu := NewWithCartridge(cart)

	assert.Equal(t, byte(0x00), mmu.Read(0x200))
	assert.Equal(t, byte(0x01), mmu.Read(0x201))
	assert.Equal(t, byte(0xFF), mmu.Read(0x2FF))
	assert.Equal(t, data[len(data)-1], mmu.Read(0xFFF))
	assert.Equal(t, byte(0xF0), mmu.Read(0x000), "font must survive a full load")
}

func TestMMU_ReloadClearsPreviousProgram(t *testing.T) {
	long, err := NewCartridgeWithData([]byte{0x11, 0x22, 0x33, 0x44})
	require.NoError(t, err)
	short, err := NewCartridgeWithData([]byte{0xAA})
	require.NoError(t, err)

	mmu := NewWithCartridge(long)
	mmu.Write(0xFFF, 0x55)
	mmu.LoadCartridge(short)

	assert.Equal(t, byte(0xAA), mmu.Read(0x200))
	assert.Equal(t, byte(0x00), mmu.Read(0x201))
	assert.Equal(t, byte(0x00), mmu.Read(0x203))
	assert.Equal(t, byte(0x00), mmu.Read(0xFFF))
	assert.Equal(t, byte(0xF0), mmu.Read(0x000), "font must survive a reload")
}

func TestCartridge_CopiesData(t *testing.T) {
	data := []byte{0xA2, 0x2A}
	cart, err := NewCartridgeWithData(data)
	require.NoError(t, err)

	data[0] = 0x00
	assert.Equal(t, 2, cart.Size())
	assert.Equal(t, uint8(0xA2), NewWithCartridge(cart).Read(0x200))
}
