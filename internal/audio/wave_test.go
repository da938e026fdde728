package audio

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func samples(t *testing.T, w *squareWave, count int) []float32 {
	t.Helper()

	buf := make([]byte, count*bytesPerFrame)
	n, err := w.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, len(buf), n)

	result := make([]float32, count)
	for i := range result {
		result[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*bytesPerFrame:]))
	}
	return result
}

func TestSquareWave_Silent(t *testing.T) {
	w := newSquareWave(8, 2)
	for _, sample := range samples(t, w, 8) {
		assert.Equal(t, float32(0), sample)
	}
}

func TestSquareWave_Tone(t *testing.T) {
	w := newSquareWave(8, 2) // 4 samples per wave
	w.gate.Store(true)

	high, low := float32(amplitude), float32(-amplitude)
	assert.Equal(t, []float32{high, high, low, low, high, high, low, low}, samples(t, w, 8))

	// the phase restarts after the tone was switched off
	_ = samples(t, w, 1)
	w.gate.Store(false)
	_ = samples(t, w, 1)
	w.gate.Store(true)
	assert.Equal(t, []float32{high, high, low}, samples(t, w, 3))
}

func TestSquareWave_PartialSample(t *testing.T) {
	w := newSquareWave(SampleRate, ToneFrequency)
	n, err := w.Read(make([]byte, 10))
	assert.NoError(t, err)
	assert.Equal(t, 8, n)
}
