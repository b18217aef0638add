package addr

// memory map
const (
	// MemorySize is the size of the whole addressable space.
	MemorySize = 0x1000
	// AddressMask keeps an address within the 12 bit addressable space.
	AddressMask uint16 = 0x0FFF

	// FontStart is where the built-in hexadecimal glyphs are stored.
	FontStart uint16 = 0x000
	// GlyphSize is the amount of bytes (rows) of a single glyph.
	GlyphSize = 5
	// GlyphCount is the number of built-in glyphs, one per hex digit.
	GlyphCount = 16
	// FontEnd is the first address past the glyph area.
	FontEnd = FontStart + GlyphSize*GlyphCount

	// ProgramStart is the fixed load origin of cartridges, and the initial PC.
	ProgramStart uint16 = 0x200
	// ProgramCapacity is the amount of bytes available to a cartridge.
	ProgramCapacity = MemorySize - int(ProgramStart)
)

// registers
const (
	// RegisterCount is the number of general purpose V registers.
	RegisterCount = 16
	// FlagRegister is the index of VF, written by carry/borrow/collision side effects.
	FlagRegister = 0xF
	// StackDepth is the maximum number of nested calls.
	StackDepth = 16
	// KeyCount is the number of keys on the hexadecimal keypad.
	KeyCount = 16
)
