// Package window implements a frontend that shows the screen in a desktop
// window and reads the keypad from the keyboard.
package window

import (
	"fmt"
	"image/color"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/interpreter"
)

var (
	pixelOn     = color.RGBA{R: 0xE8, G: 0xE8, B: 0xD8, A: 0xFF}
	pixelOff    = color.RGBA{R: 0x18, G: 0x1C, B: 0x20, A: 0xFF}
	statusColor = color.RGBA{R: 0x00, G: 0xDC, B: 0x5A, A: 0xFF}
)

// pixelBufferSize is the size of the RGBA buffer of one frame.
const pixelBufferSize = display.Width * display.Height * 4

// fillPixels converts a frame into RGBA pixels.
func fillPixels(frame display.Frame, dst []byte) {
	offset := 0
	for y := range display.Height {
		for x := range display.Width {
			c := pixelOff
			if frame[y][x] {
				c = pixelOn
			}
			dst[offset] = c.R
			dst[offset+1] = c.G
			dst[offset+2] = c.B
			dst[offset+3] = c.A
			offset += 4
		}
	}
}

// statusLine returns the text of the status overlay.
func statusLine(s interpreter.Snapshot) string {
	return fmt.Sprintf("PC $%03X  I $%03X  cycles %d  %s", s.PC, s.I, s.Cycles, s.State)
}
