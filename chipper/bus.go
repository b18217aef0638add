package chipper

import (
	"github.com/valerio/chipper/chipper/cpu"
	"github.com/valerio/chipper/chipper/memory"
	"github.com/valerio/chipper/chipper/video"
)

// Bus provides centralized component communication
type Bus struct {
	MMU *memory.MMU
	FB  *video.FrameBuffer
}

var _ cpu.Bus = (*Bus)(nil)

func NewBus() *Bus {
	return &Bus{
		MMU: memory.New(),
		FB:  video.NewFrameBuffer(),
	}
}

func (b *Bus) Read(address uint16) byte {
	return b.MMU.Read(address)
}

func (b *Bus) ReadWord(address uint16) uint16 {
	return b.MMU.ReadWord(address)
}

func (b *Bus) Write(address uint16, value byte) {
	b.MMU.Write(address, value)
}

func (b *Bus) ClearScreen() {
	b.FB.Clear()
}

func (b *Bus) DrawSprite(x, y uint8, sprite []byte) bool {
	return b.FB.DrawSprite(x, y, sprite)
}

func (b *Bus) IsKeyPressed(key uint8) bool {
	return b.MMU.Keypad.IsPressed(memory.Key(key))
}

func (b *Bus) FirstPressedKey() (uint8, bool) {
	key, ok := b.MMU.Keypad.FirstPressed()
	return uint8(key), ok
}

func (b *Bus) DelayTimer() uint8 {
	return b.MMU.Timers.Delay()
}

func (b *Bus) SetDelayTimer(value uint8) {
	b.MMU.Timers.SetDelay(value)
}

func (b *Bus) SetSoundTimer(value uint8) {
	b.MMU.Timers.SetSound(value)
}

// Tick advances the timers, once per executed instruction.
func (b *Bus) Tick() {
	b.MMU.Tick()
}
