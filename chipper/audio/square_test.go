package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquareWave_SilentWhenGateClosed(t *testing.T) {
	s := NewSquareWave(func() bool { return false })

	samples := s.GetSamples(512)

	require.Len(t, samples, 512)
	for _, v := range samples {
		assert.Equal(t, int16(0), v)
	}
}

func TestSquareWave_NilGate(t *testing.T) {
	s := NewSquareWave(nil)
	assert.False(t, s.Active())
	assert.Equal(t, make([]int16, 4), s.GetSamples(4))
}

func TestSquareWave_Tone(t *testing.T) {
	s := NewSquareWave(func() bool { return true })
	volume := DefaultVolume
	amplitude := int16(volume * math.MaxInt16)

	// one second of audio
	samples := s.GetSamples(SampleRate)

	edges := 0
	for i, v := range samples {
		require.Contains(t, []int16{amplitude, -amplitude}, v, "sample %d", i)
		if i > 0 && samples[i-1] != v {
			edges++
		}
	}

	assert.Equal(t, amplitude, samples[0], "a beep starts on the high half")
	assert.InDelta(t, 2*ToneFrequency, edges, 2)
}

func TestSquareWave_RestartsAfterSilence(t *testing.T) {
	on := true
	s := NewSquareWave(func() bool { return on })

	s.GetSamples(100)
	on = false
	s.GetSamples(10)
	on = true

	assert.Equal(t, s.amplitude, s.GetSamples(1)[0])
}

func TestSquareWave_VolumeClamped(t *testing.T) {
	s := NewSquareWaveWith(func() bool { return true }, ToneFrequency, 3)
	assert.Equal(t, int16(32767), s.amplitude)
}
