package memory

// Timers holds the delay and sound down-counters.
// Both are decremented once per executed instruction while non-zero,
// the host is responsible for stepping at roughly 60 Hz.
type Timers struct {
	delay uint8
	sound uint8
}

// Tick decrements both timers by one, flooring at zero.
func (t *Timers) Tick() {
	if t.delay > 0 {
		t.delay--
	}

	if t.sound > 0 {
		t.sound--
	}
}

// Delay returns the current value of the delay timer.
func (t *Timers) Delay() uint8 {
	return t.delay
}

// Sound returns the current value of the sound timer.
func (t *Timers) Sound() uint8 {
	return t.sound
}

// SetDelay sets the delay timer.
func (t *Timers) SetDelay(value uint8) {
	t.delay = value
}

// SetSound sets the sound timer.
func (t *Timers) SetSound(value uint8) {
	t.sound = value
}

// SoundActive is true while the sound timer is non-zero.
func (t *Timers) SoundActive() bool {
	return t.sound != 0
}
