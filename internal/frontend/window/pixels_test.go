package window

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/interpreter"
	"github.com/retroenv/retrogolib/assert"
)

func TestFillPixels(t *testing.T) {
	var frame display.Frame
	frame[0][1] = true
	frame[display.Height-1][display.Width-1] = true

	pixels := make([]byte, pixelBufferSize)
	fillPixels(frame, pixels)

	assert.Equal(t, []byte{pixelOff.R, pixelOff.G, pixelOff.B, pixelOff.A}, pixels[0:4])
	assert.Equal(t, []byte{pixelOn.R, pixelOn.G, pixelOn.B, pixelOn.A}, pixels[4:8])
	assert.Equal(t, []byte{pixelOn.R, pixelOn.G, pixelOn.B, pixelOn.A}, pixels[pixelBufferSize-4:])

	lit := 0
	for offset := 0; offset < len(pixels); offset += 4 {
		if pixels[offset] == pixelOn.R {
			lit++
		}
	}
	assert.Equal(t, 2, lit)
}

func TestStatusLine(t *testing.T) {
	s := interpreter.Snapshot{
		PC:     0x2A4,
		I:      0x050,
		Cycles: 1234,
		State:  interpreter.AwaitingKey,
	}
	assert.Equal(t, "PC $2A4  I $050  cycles 1234  awaiting key", statusLine(s))
}
