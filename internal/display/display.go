// Package display implements the monochrome CHIP-8 framebuffer.
//
// The framebuffer is a fixed 64x32 grid of 1-bit pixels. Every coordinate
// access wraps modulo the screen size, so callers never address a pixel
// outside of the grid.
package display

import (
	"strings"
)

const (
	// Width is the number of horizontal pixels of the screen.
	Width = 64
	// Height is the number of vertical pixels of the screen.
	Height = 32

	// MaxSpriteRows is the maximum number of rows a sprite can have.
	MaxSpriteRows = 15
	// spriteWidth is the number of pixels encoded in a single sprite row byte.
	spriteWidth = 8
)

// Frame is a value copy of the framebuffer content, indexed as [y][x].
type Frame [Height][Width]bool

// Framebuffer is the pixel grid of the machine.
type Framebuffer struct {
	pixels Frame
}

// New returns a new cleared framebuffer.
func New() *Framebuffer {
	return &Framebuffer{}
}

// Clear turns off all pixels.
func (f *Framebuffer) Clear() {
	f.pixels = Frame{}
}

// Pixel returns whether the pixel at the wrapped coordinate is lit.
func (f *Framebuffer) Pixel(x, y int) bool {
	x, y = wrap(x, y)
	return f.pixels[y][x]
}

// SetPixel sets the pixel at the wrapped coordinate.
func (f *Framebuffer) SetPixel(x, y int, on bool) {
	x, y = wrap(x, y)
	f.pixels[y][x] = on
}

// TogglePixel flips the pixel at the wrapped coordinate and returns the
// value it had before.
func (f *Framebuffer) TogglePixel(x, y int) bool {
	x, y = wrap(x, y)
	was := f.pixels[y][x]
	f.pixels[y][x] = !was
	return was
}

// DrawSprite XORs the sprite rows onto the screen with the top left corner at
// the given coordinate. Each row byte encodes 8 pixels, most significant bit
// first. Rows beyond MaxSpriteRows are ignored.
// It returns true if any set sprite bit hit a pixel that was already lit.
func (f *Framebuffer) DrawSprite(x, y int, rows []byte) bool {
	if len(rows) > MaxSpriteRows {
		rows = rows[:MaxSpriteRows]
	}

	// all targets are resolved against the pre-call state before anything
	// is written, so a sprite never collides with its own pixels.
	type target struct {
		x, y int
	}
	toggles := make([]target, 0, len(rows)*spriteWidth)
	collision := false

	for dy, row := range rows {
		for dx := range spriteWidth {
			if row&(0x80>>dx) == 0 {
				continue
			}

			tx, ty := wrap(x+dx, y+dy)
			if f.pixels[ty][tx] {
				collision = true
			}
			toggles = append(toggles, target{x: tx, y: ty})
		}
	}

	for _, t := range toggles {
		f.pixels[t.y][t.x] = !f.pixels[t.y][t.x]
	}
	return collision
}

// Frame returns a copy of the current screen content.
func (f *Framebuffer) Frame() Frame {
	return f.pixels
}

// Lit returns the number of lit pixels.
func (f *Framebuffer) Lit() int {
	return f.pixels.Lit()
}

// String renders the screen as text, one line per pixel row.
func (f *Framebuffer) String() string {
	return f.pixels.String()
}

// Lit returns the number of lit pixels of the frame.
func (fr Frame) Lit() int {
	count := 0
	for y := range Height {
		for x := range Width {
			if fr[y][x] {
				count++
			}
		}
	}
	return count
}

// String renders the frame as text using '#' for lit and '.' for dark pixels.
func (fr Frame) String() string {
	var sb strings.Builder
	sb.Grow(Height * (Width + 1))

	for y := range Height {
		for x := range Width {
			if fr[y][x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// wrap maps any coordinate, including negative ones, into the screen.
func wrap(x, y int) (int, int) {
	x %= Width
	if x < 0 {
		x += Width
	}
	y %= Height
	if y < 0 {
		y += Height
	}
	return x, y
}
