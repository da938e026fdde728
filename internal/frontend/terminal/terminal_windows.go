//go:build windows

// Package terminal implements a frontend that renders the screen into the
// terminal and reads the keypad from stdin.
package terminal

import (
	"errors"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrogolib/log"
)

// ErrUnavailable is returned on platforms without raw terminal support.
var ErrUnavailable = errors.New("terminal frontend is not supported on this platform")

// Terminal is a frontend running in a text terminal.
type Terminal struct {
	done chan struct{}
}

// New returns a new terminal frontend.
func New(_ *log.Logger, _ chan<- driver.KeyEvent, _ chan<- struct{}) *Terminal {
	return &Terminal{done: make(chan struct{})}
}

// Start always fails on this platform.
func (t *Terminal) Start() error { return ErrUnavailable }

// Present does nothing.
func (t *Terminal) Present(display.Frame) {}

// Done returns a channel that is never closed.
func (t *Terminal) Done() <-chan struct{} { return t.done }

// Close does nothing.
func (t *Terminal) Close() {}
