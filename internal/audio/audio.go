//go:build !headless

package audio

import (
	"fmt"

	"github.com/ebitengine/oto/v3"
	"github.com/retroenv/retrogolib/log"
)

// Speaker plays a square wave tone through the default audio device.
type Speaker struct {
	logger *log.Logger
	ctx    *oto.Context
	player *oto.Player
	wave   *squareWave
}

// New opens the audio device and starts the silent player.
func New(logger *log.Logger) (*Speaker, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("creating audio context: %w", err)
	}
	<-ready

	s := &Speaker{
		logger: logger,
		ctx:    ctx,
		wave:   newSquareWave(SampleRate, ToneFrequency),
	}
	s.player = ctx.NewPlayer(s.wave)
	s.player.Play()

	logger.Debug("Audio initialized", log.Int("sample_rate", SampleRate))
	return s, nil
}

// SetTone switches the tone on or off.
func (s *Speaker) SetTone(on bool) {
	s.wave.gate.Store(on)
}

// Close stops playback.
func (s *Speaker) Close() error {
	s.wave.gate.Store(false)
	s.player.Pause()
	if err := s.player.Err(); err != nil {
		return fmt.Errorf("audio player: %w", err)
	}
	return nil
}
