//go:build headless

package audio

import "github.com/retroenv/retrogolib/log"

// Speaker is silent in headless builds.
type Speaker struct {
	wave *squareWave
}

// New returns a silent speaker.
func New(_ *log.Logger) (*Speaker, error) {
	return &Speaker{wave: newSquareWave(SampleRate, ToneFrequency)}, nil
}

// SetTone records the tone state.
func (s *Speaker) SetTone(on bool) {
	s.wave.gate.Store(on)
}

// Close does nothing.
func (s *Speaker) Close() error {
	return nil
}
