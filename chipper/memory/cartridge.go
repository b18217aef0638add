package memory

import (
	"errors"
	"fmt"

	"github.com/valerio/chipper/chipper/addr"
)

// ErrCartridgeTooLarge is returned when a cartridge does not fit in the program area.
var ErrCartridgeTooLarge = errors.New("cartridge too large")

// Cartridge is the raw program image. There is no header: the bytes are
// placed verbatim at addr.ProgramStart.
type Cartridge struct {
	data []byte
}

// NewCartridgeWithData initializes a new Cartridge from a slice of bytes.
// The data is copied, and must fit in the memory available to programs.
func NewCartridgeWithData(bytes []byte) (*Cartridge, error) {
	if len(bytes) > addr.ProgramCapacity {
		return nil, fmt.Errorf("%w: %d bytes, maximum is %d", ErrCartridgeTooLarge, len(bytes), addr.ProgramCapacity)
	}

	cart := &Cartridge{
		data: make([]byte, len(bytes)),
	}
	copy(cart.data, bytes)

	return cart, nil
}

// Size returns the amount of bytes in the cartridge.
func (c Cartridge) Size() int {
	return len(c.data)
}
