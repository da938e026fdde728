//go:build !windows

// Package terminal implements a frontend that renders the screen into the
// terminal and reads the keypad from stdin.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// pollInterval is the sleep time when no input is available.
const pollInterval = 5 * time.Millisecond

// Compile-time check to ensure Terminal can be used as driver screen.
var _ driver.Screen = (*Terminal)(nil)

// Terminal is a frontend running in a text terminal.
type Terminal struct {
	logger *log.Logger
	keys   chan<- driver.KeyEvent
	resets chan<- struct{}
	out    io.Writer
	hold   time.Duration

	mu       sync.Mutex // protects out
	stopCh   chan struct{}
	done     chan struct{}
	readDone chan struct{}
	stopped  sync.Once

	started      bool
	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

// New returns a new terminal frontend that sends key events and reset
// requests to the given channels.
func New(logger *log.Logger, keys chan<- driver.KeyEvent, resets chan<- struct{}) *Terminal {
	return &Terminal{
		logger:   logger,
		keys:     keys,
		resets:   resets,
		out:      os.Stdout,
		hold:     DefaultHold,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
		readDone: make(chan struct{}),
	}
}

// Start puts stdin into raw non blocking mode and starts reading keys.
func (t *Terminal) Start() error {
	t.fd = int(os.Stdin.Fd())
	if !term.IsTerminal(t.fd) {
		return errors.New("stdin is not a terminal")
	}

	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err == nil && (width < display.Width || height < display.Height/2) {
		t.logger.Warn("Terminal is smaller than the screen",
			log.Int("columns", width),
			log.Int("rows", height))
	}

	oldState, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}
	t.oldTermState = oldState

	if err := unix.SetNonblock(t.fd, true); err != nil {
		_ = term.Restore(t.fd, t.oldTermState)
		t.oldTermState = nil
		return fmt.Errorf("setting nonblocking stdin: %w", err)
	}
	t.nonblockSet = true

	t.write(clearScreen + hideCursor)
	t.started = true
	go t.readLoop()
	return nil
}

// Present draws the frame.
func (t *Terminal) Present(frame display.Frame) {
	t.write(Render(frame))
}

// Done is closed when the user pressed Escape or Ctrl+C.
func (t *Terminal) Done() <-chan struct{} {
	return t.done
}

// Close stops reading input and restores the terminal state.
func (t *Terminal) Close() {
	t.stop()
	if !t.started {
		return
	}
	<-t.readDone

	if t.nonblockSet {
		_ = unix.SetNonblock(t.fd, false)
		t.nonblockSet = false
	}
	if t.oldTermState != nil {
		_ = term.Restore(t.fd, t.oldTermState)
		t.oldTermState = nil
	}
	t.write(showCursor + "\r\n")
}

func (t *Terminal) stop() {
	t.stopped.Do(func() {
		close(t.stopCh)
		close(t.done)
	})
}

func (t *Terminal) write(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.out, s)
}

func (t *Terminal) readLoop() {
	defer close(t.readDone)

	holds := newHoldTracker(t.hold)
	buf := make([]byte, 16)

	for {
		select {
		case <-t.stopCh:
			return
		default:
		}

		n, err := unix.Read(t.fd, buf)
		now := time.Now()
		if n > 0 && !t.handleInput(buf[:n], holds, now) {
			t.stop()
			return
		}
		for _, ev := range holds.expire(now) {
			t.sendKey(ev)
		}

		switch {
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EWOULDBLOCK), err == nil && n <= 0:
			time.Sleep(pollInterval)
		case err != nil:
			t.logger.Error("Reading terminal input failed", log.Err(err))
			t.stop()
			return
		}
	}
}

// handleInput processes the input bytes. It returns false if the user
// requested to quit.
func (t *Terminal) handleInput(input []byte, holds *holdTracker, now time.Time) bool {
	for _, b := range input {
		switch b {
		case keyCtrlC, keyEscape:
			return false
		case keyCtrlR:
			select {
			case t.resets <- struct{}{}:
			default:
			}
			continue
		}

		key, ok := KeyFor(b)
		if !ok {
			continue
		}
		if holds.press(key, now) {
			t.sendKey(driver.KeyEvent{Key: key, Pressed: true})
		}
	}
	return true
}

func (t *Terminal) sendKey(ev driver.KeyEvent) {
	select {
	case t.keys <- ev:
	case <-t.stopCh:
	}
}
