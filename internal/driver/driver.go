// Package driver runs an interpreter in real time. It executes instructions
// at the configured CPU rate, ticks the timers at 60 Hz, forwards key events
// and presents frames to a screen.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/interpreter"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// FrameRate is the number of frames per second, which is also the rate of
// the delay and sound timers.
const FrameRate = 60

// DefaultCPUHz is the default number of instructions executed per second.
const DefaultCPUHz = 700

var (
	// ErrCycleBudget is returned when the configured number of cycles was executed.
	ErrCycleBudget = errors.New("cycle budget exhausted")
	// ErrBreakpoint is returned when the program counter reached a breakpoint.
	ErrBreakpoint = errors.New("breakpoint hit")
)

// KeyEvent is a change of the pressed state of a keypad key.
type KeyEvent struct {
	Key     uint8
	Pressed bool
}

// Screen receives the frames to present.
type Screen interface {
	// Present is called with the current screen content whenever the program
	// changed it.
	Present(frame display.Frame)
	// Done is closed when the user closed the screen.
	Done() <-chan struct{}
}

// Speaker plays the tone while the sound timer is active.
type Speaker interface {
	SetTone(on bool)
}

// Hook is called at the start of every frame before any instruction of the
// frame is executed. A returned error stops the driver.
type Hook interface {
	OnFrame(frame uint64, machine *interpreter.Interpreter) error
}

// Config contains the driver settings.
type Config struct {
	CPUHz       int             // instructions per second
	MaxCycles   uint64          // stop after this many cycles, 0 for no limit
	Breakpoints set.Set[uint16] // addresses to stop at before executing
	Screen      Screen          // optional
	Speaker     Speaker         // optional
	Hooks       []Hook          // optional
}

// Driver paces an interpreter.
type Driver struct {
	logger  *log.Logger
	machine *interpreter.Interpreter
	cfg     Config

	keys   chan KeyEvent
	resets chan struct{}

	frames         uint64
	cyclesPerFrame int
	tone           bool
	resumeFrom     uint16 // breakpoint address to step over when resuming
}

// New returns a new driver for the interpreter.
func New(logger *log.Logger, machine *interpreter.Interpreter, cfg Config) (*Driver, error) {
	if cfg.CPUHz <= 0 {
		cfg.CPUHz = DefaultCPUHz
	}
	if cfg.CPUHz < FrameRate {
		return nil, fmt.Errorf("cpu rate %d Hz is below the frame rate of %d Hz", cfg.CPUHz, FrameRate)
	}
	if cfg.Breakpoints == nil {
		cfg.Breakpoints = set.New[uint16]()
	}

	return &Driver{
		logger:         logger,
		machine:        machine,
		cfg:            cfg,
		keys:           make(chan KeyEvent, 64),
		resets:         make(chan struct{}, 1),
		cyclesPerFrame: cfg.CPUHz / FrameRate,
		resumeFrom:     noBreakpoint,
	}, nil
}

// noBreakpoint is outside of the 12 bit address space.
const noBreakpoint = 0xFFFF

// Keys returns the channel that accepts key events from any goroutine.
func (d *Driver) Keys() chan<- KeyEvent {
	return d.keys
}

// Resets returns the channel that accepts machine reset requests from any
// goroutine.
func (d *Driver) Resets() chan<- struct{} {
	return d.resets
}

// SetScreen sets the screen to present frames to. Frontends need the input
// channels of the driver, so the screen is attached after creation. It must
// not be called while Run is active.
func (d *Driver) SetScreen(screen Screen) {
	d.cfg.Screen = screen
}

// AddHook appends a frame hook. It must not be called while Run is active.
func (d *Driver) AddHook(hook Hook) {
	d.cfg.Hooks = append(d.cfg.Hooks, hook)
}

// Frames returns the number of frames run.
func (d *Driver) Frames() uint64 {
	return d.frames
}

// Run executes frames at 60 Hz until the context is cancelled, the screen
// is closed or execution stopped. A cancelled context or closed screen
// returns nil.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()

	var done <-chan struct{}
	if d.cfg.Screen != nil {
		done = d.cfg.Screen.Done()
	}

	d.logger.Debug("Starting driver",
		log.Int("cpu_hz", d.cfg.CPUHz),
		log.Int("cycles_per_frame", d.cyclesPerFrame))

	defer d.setTone(false)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			return nil
		case <-ticker.C:
			if err := d.Frame(); err != nil {
				return err
			}
		}
	}
}

// Frame runs a single frame: it applies pending input, calls the hooks,
// executes the instructions of the frame, ticks the timers and presents the
// screen if it changed.
func (d *Driver) Frame() error {
	d.drainInput()

	for _, hook := range d.cfg.Hooks {
		if err := hook.OnFrame(d.frames, d.machine); err != nil {
			return fmt.Errorf("frame hook: %w", err)
		}
	}
	d.frames++

	err := d.runCycles()

	d.machine.TickTimers()
	d.setTone(d.machine.SoundTimer() > 0)

	if d.machine.ConsumeRedraw() && d.cfg.Screen != nil {
		d.cfg.Screen.Present(d.frame())
	}
	return err
}

func (d *Driver) runCycles() error {
	for range d.cyclesPerFrame {
		if d.cfg.MaxCycles > 0 && d.machine.Cycles() >= d.cfg.MaxCycles {
			d.logger.Info("Cycle budget exhausted", log.Int("cycles", int(d.machine.Cycles())))
			return ErrCycleBudget
		}

		pc := d.machine.PC()
		if d.cfg.Breakpoints.Contains(pc) && d.machine.State() == interpreter.Running {
			if d.resumeFrom != pc {
				d.resumeFrom = pc
				d.logger.Info("Breakpoint hit",
					log.Hex("pc", pc),
					log.Stringer("state", d.machine.Snapshot()))
				return fmt.Errorf("%w at $%03X", ErrBreakpoint, pc)
			}
		}
		d.resumeFrom = noBreakpoint

		if err := d.machine.Cycle(); err != nil {
			d.logger.Info("Machine state at fault",
				log.Stringer("state", d.machine.Snapshot()))
			return fmt.Errorf("executing program: %w", err)
		}
	}
	return nil
}

// drainInput applies all queued key events and reset requests without blocking.
func (d *Driver) drainInput() {
	for {
		select {
		case <-d.resets:
			d.logger.Debug("Resetting machine")
			d.machine.Reset()
			d.resumeFrom = noBreakpoint
			if d.cfg.Screen != nil {
				d.cfg.Screen.Present(d.frame())
			}

		case ev := <-d.keys:
			if err := d.machine.SetKey(ev.Key, ev.Pressed); err != nil {
				d.logger.Warn("Ignoring key event", log.Err(err))
			}

		default:
			return
		}
	}
}

func (d *Driver) setTone(on bool) {
	if d.tone == on || d.cfg.Speaker == nil {
		d.tone = on
		return
	}
	d.tone = on
	d.cfg.Speaker.SetTone(on)
}

// frame returns the screen content of the machine. An interpreter that uses
// an external display has no framebuffer to present.
func (d *Driver) frame() display.Frame {
	if screen := d.machine.Screen(); screen != nil {
		return screen.Frame()
	}
	return display.Frame{}
}
