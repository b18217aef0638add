package memory

import (
	"log/slog"

	"github.com/valerio/chipper/chipper/addr"
)

// font holds the 16 built-in hexadecimal glyphs, 5 rows each, 4 pixels wide
// in the high nibble of every row.
var font = [addr.GlyphCount * addr.GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// MMU owns the 4 KiB address space along with the keypad and timer state.
type MMU struct {
	memory [addr.MemorySize]byte

	Keypad *Keypad
	Timers Timers
}

// New creates a new memory unit with the font loaded and no cartridge.
func New() *MMU {
	mmu := &MMU{
		Keypad: NewKeypad(),
	}
	copy(mmu.memory[addr.FontStart:addr.FontEnd], font[:])

	return mmu
}

// NewWithCartridge creates a new memory unit with the provided cartridge loaded.
func NewWithCartridge(cart *Cartridge) *MMU {
	mmu := New()
	mmu.LoadCartridge(cart)

	return mmu
}

// LoadCartridge copies the cartridge into the program area. Cartridges are
// bounded in size on creation, so this always fits. The rest of the program
// area is cleared, so nothing from a previous cartridge survives a reload.
func (m *MMU) LoadCartridge(cart *Cartridge) {
	program := m.memory[addr.ProgramStart:]
	clear(program)
	copy(program, cart.data)

	slog.Debug("Cartridge mapped", "origin", addr.ProgramStart, "bytes", cart.Size())
}

// Read returns the byte at the address, masked to 12 bits.
func (m *MMU) Read(address uint16) byte {
	return m.memory[address&addr.AddressMask]
}

// Write stores a byte at the address, masked to 12 bits.
// Writes into the glyph area are dropped.
func (m *MMU) Write(address uint16, value byte) {
	address &= addr.AddressMask
	if address < addr.FontEnd {
		slog.Debug("Dropped write to font area", "address", address, "value", value)
		return
	}

	m.memory[address] = value
}

// ReadWord returns the big-endian 16 bit word at the address.
func (m *MMU) ReadWord(address uint16) uint16 {
	return uint16(m.Read(address))<<8 | uint16(m.Read(address+1))
}

// Tick advances the timers by one step.
func (m *MMU) Tick() {
	m.Timers.Tick()
}
