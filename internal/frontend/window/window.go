//go:build !headless

package window

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrochip8/internal/interpreter"
	"github.com/retroenv/retrogolib/log"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

const title = "retrochip8"

// Compile-time checks to ensure Window can be used as driver screen and hook.
var (
	_ driver.Screen = (*Window)(nil)
	_ driver.Hook   = (*Window)(nil)
)

// Window is a frontend running in a desktop window.
type Window struct {
	logger *log.Logger
	keys   chan<- driver.KeyEvent
	resets chan<- struct{}
	scale  int

	mu      sync.Mutex // protects frame, dirty and status
	frame   display.Frame
	dirty   bool
	status  string
	pixels  []byte
	image   *ebiten.Image
	overlay bool

	fullscreen bool
	closing    atomic.Bool
	done       chan struct{}

	clipboardOnce sync.Once
	clipboardOK   bool
}

// New returns a new window frontend that sends key events and reset
// requests to the given channels.
func New(logger *log.Logger, keys chan<- driver.KeyEvent, resets chan<- struct{}, scale int) *Window {
	return &Window{
		logger: logger,
		keys:   keys,
		resets: resets,
		scale:  max(scale, 1),
		pixels: make([]byte, pixelBufferSize),
		dirty:  true,
		done:   make(chan struct{}),
	}
}

// Run opens the window and blocks until it is closed. It has to be called
// from the main goroutine.
func (w *Window) Run() error {
	defer close(w.done)

	ebiten.SetWindowSize(display.Width*w.scale, display.Height*w.scale)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)

	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("running window: %w", err)
	}
	return nil
}

// Present stores the frame to show with the next screen refresh.
func (w *Window) Present(frame display.Frame) {
	w.mu.Lock()
	w.frame = frame
	w.dirty = true
	w.mu.Unlock()
}

// Done returns a channel that is closed when the window was closed.
func (w *Window) Done() <-chan struct{} {
	return w.done
}

// Close requests the window to close.
func (w *Window) Close() {
	w.closing.Store(true)
}

// OnFrame records the machine state for the status overlay.
func (w *Window) OnFrame(_ uint64, machine *interpreter.Interpreter) error {
	status := statusLine(machine.Snapshot())
	w.mu.Lock()
	w.status = status
	w.mu.Unlock()
	return nil
}

// Update handles the keyboard input.
func (w *Window) Update() error {
	if w.closing.Load() {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		w.fullscreen = !w.fullscreen
		ebiten.SetFullscreen(w.fullscreen)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		w.overlay = !w.overlay
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF10) {
		select {
		case w.resets <- struct{}{}:
		default:
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		w.copyScreen()
	}

	for key, keypad := range keymap {
		switch {
		case inpututil.IsKeyJustPressed(key):
			w.sendKey(keypad, true)
		case inpututil.IsKeyJustReleased(key):
			w.sendKey(keypad, false)
		}
	}
	return nil
}

// Draw renders the last presented frame scaled to the window.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.image == nil {
		w.image = ebiten.NewImage(display.Width, display.Height)
	}

	w.mu.Lock()
	if w.dirty {
		fillPixels(w.frame, w.pixels)
		w.image.WritePixels(w.pixels)
		w.dirty = false
	}
	status := w.status
	w.mu.Unlock()

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(w.scale), float64(w.scale))
	screen.DrawImage(w.image, opts)

	if w.overlay {
		face := basicfont.Face7x13
		text.Draw(screen, status, face, 4, face.Height, statusColor)
	}
}

// Layout returns the logical screen size.
func (w *Window) Layout(_, _ int) (int, int) {
	return display.Width * w.scale, display.Height * w.scale
}

func (w *Window) sendKey(key uint8, pressed bool) {
	select {
	case w.keys <- driver.KeyEvent{Key: key, Pressed: pressed}:
	default:
		w.logger.Debug("Dropping key event", log.Uint8("key", key))
	}
}

// copyScreen writes the screen as text to the clipboard.
func (w *Window) copyScreen() {
	w.clipboardOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			w.logger.Warn("Clipboard is not available", log.Err(err))
			return
		}
		w.clipboardOK = true
	})
	if !w.clipboardOK {
		return
	}

	w.mu.Lock()
	screen := w.frame.String()
	w.mu.Unlock()

	clipboard.Write(clipboard.FmtText, []byte(screen))
	w.logger.Info("Screen copied to clipboard")
}
