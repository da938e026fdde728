// Package audio plays the beeper tone while the sound timer is active.
package audio

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

// SampleRate is the output sample rate in Hz.
const SampleRate = 44100

// ToneFrequency is the frequency of the beeper in Hz.
const ToneFrequency = 440

const (
	amplitude     = 0.2
	bytesPerFrame = 4 // mono float32
)

// squareWave is a gated square wave generator that produces little endian
// float32 mono samples. It is read from the audio thread while the gate is
// switched from the driver.
type squareWave struct {
	gate   atomic.Bool
	period int // samples per full wave
	phase  int
}

func newSquareWave(sampleRate, frequency int) *squareWave {
	period := max(sampleRate/frequency, 2)
	return &squareWave{period: period}
}

// Read fills p with whole samples. Silence is produced while the gate is
// closed, the phase restarts with the next tone.
func (w *squareWave) Read(p []byte) (int, error) {
	n := len(p) / bytesPerFrame * bytesPerFrame
	on := w.gate.Load()
	if !on {
		w.phase = 0
	}

	for i := 0; i < n; i += bytesPerFrame {
		var sample float32
		if on {
			sample = amplitude
			if w.phase >= w.period/2 {
				sample = -amplitude
			}
			w.phase = (w.phase + 1) % w.period
		}
		binary.LittleEndian.PutUint32(p[i:], math.Float32bits(sample))
	}
	return n, nil
}
