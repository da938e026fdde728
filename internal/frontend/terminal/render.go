package terminal

import (
	"strings"

	"github.com/retroenv/retrochip8/internal/display"
)

// ANSI sequences used for drawing.
const (
	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// Render returns the frame as text that redraws the screen from the top left
// corner. Two pixel rows are combined into one text row using half block
// characters. Lines end with CRLF as the terminal is in raw mode.
func Render(frame display.Frame) string {
	var sb strings.Builder
	sb.Grow(len(cursorHome) + display.Height/2*(display.Width*3+2))
	sb.WriteString(cursorHome)

	for y := 0; y < display.Height; y += 2 {
		for x := range display.Width {
			sb.WriteString(halfBlock(frame[y][x], frame[y+1][x]))
		}
		sb.WriteString("\r\n")
	}
	return sb.String()
}

func halfBlock(top, bottom bool) string {
	switch {
	case top && bottom:
		return "█"
	case top:
		return "▀"
	case bottom:
		return "▄"
	default:
		return " "
	}
}
