//go:build headless

package window

import (
	"errors"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrochip8/internal/interpreter"
	"github.com/retroenv/retrogolib/log"
)

// ErrUnavailable is returned by headless builds that contain no window support.
var ErrUnavailable = errors.New("window frontend is not included in headless builds")

// Window is a frontend running in a desktop window.
type Window struct {
	done chan struct{}
}

// New returns a new window frontend.
func New(_ *log.Logger, _ chan<- driver.KeyEvent, _ chan<- struct{}, _ int) *Window {
	return &Window{done: make(chan struct{})}
}

// Run always fails in headless builds.
func (w *Window) Run() error { return ErrUnavailable }

// Present does nothing.
func (w *Window) Present(display.Frame) {}

// Done returns a channel that is never closed.
func (w *Window) Done() <-chan struct{} { return w.done }

// Close does nothing.
func (w *Window) Close() {}

// OnFrame does nothing.
func (w *Window) OnFrame(uint64, *interpreter.Interpreter) error { return nil }
