package cpu

import (
	"testing"

	"github.com/valerio/chipper/chipper/addr"
	"github.com/valerio/chipper/chipper/bit"
	"github.com/valerio/chipper/chipper/memory"
	"github.com/valerio/chipper/chipper/video"
)

// testBus wires the real memory and framebuffer together.
type testBus struct {
	*memory.MMU
	fb *video.FrameBuffer
}

func newTestBus() *testBus {
	return &testBus{
		MMU: memory.New(),
		fb:  video.NewFrameBuffer(),
	}
}

func (b *testBus) ClearScreen() {
	b.fb.Clear()
}

func (b *testBus) DrawSprite(x, y uint8, sprite []byte) bool {
	return b.fb.DrawSprite(x, y, sprite)
}

func (b *testBus) IsKeyPressed(key uint8) bool {
	return b.Keypad.IsPressed(memory.Key(key))
}

func (b *testBus) FirstPressedKey() (uint8, bool) {
	key, ok := b.Keypad.FirstPressed()
	return uint8(key), ok
}

func (b *testBus) DelayTimer() uint8 {
	return b.Timers.Delay()
}

func (b *testBus) SetDelayTimer(value uint8) {
	b.Timers.SetDelay(value)
}

func (b *testBus) SetSoundTimer(value uint8) {
	b.Timers.SetSound(value)
}

func (b *testBus) writeWord(address, word uint16) {
	b.Write(address, bit.High(word))
	b.Write(address+1, bit.Low(word))
}

// newTestCPU places the program at the load origin.
func newTestCPU(t *testing.T, program ...uint16) (*CPU, *testBus) {
	t.Helper()

	bus := newTestBus()
	for i, word := range program {
		bus.writeWord(addr.ProgramStart+uint16(i*2), word)
	}

	return New(bus), bus
}

// constSource always yields the same value.
type constSource uint64

func (s constSource) Uint64() uint64 { return uint64(s) }
