package audio

import "math"

const (
	// SampleRate is the output rate in Hz.
	SampleRate = 44100
	// ToneFrequency is the pitch of the buzzer in Hz.
	ToneFrequency = 240
	// DefaultVolume is the buzzer amplitude relative to full scale.
	DefaultVolume = 0.25
)

// SquareWave is a single tone buzzer. It produces sound only while the gate
// reports true, silence otherwise.
type SquareWave struct {
	phase     float64
	phaseInc  float64
	amplitude int16
	gate      func() bool
}

// NewSquareWave creates a buzzer at the default pitch and volume.
func NewSquareWave(gate func() bool) *SquareWave {
	return NewSquareWaveWith(gate, ToneFrequency, DefaultVolume)
}

// NewSquareWaveWith creates a buzzer with a custom pitch and volume in 0..1.
func NewSquareWaveWith(gate func() bool, frequency, volume float64) *SquareWave {
	volume = math.Max(0, math.Min(1, volume))

	return &SquareWave{
		phaseInc:  frequency / SampleRate,
		amplitude: int16(volume * math.MaxInt16),
		gate:      gate,
	}
}

// Active reports whether the gate is open.
func (s *SquareWave) Active() bool {
	return s.gate != nil && s.gate()
}

// GetSamples generates count samples. The phase restarts on every silent
// period so each beep starts on the same edge.
func (s *SquareWave) GetSamples(count int) []int16 {
	samples := make([]int16, count)
	if !s.Active() {
		s.phase = 0
		return samples
	}

	for i := range samples {
		if s.phase < 0.5 {
			samples[i] = s.amplitude
		} else {
			samples[i] = -s.amplitude
		}
		s.phase = math.Mod(s.phase+s.phaseInc, 1)
	}

	return samples
}
