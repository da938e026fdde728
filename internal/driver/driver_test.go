package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/interpreter"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

type fakeScreen struct {
	frames []display.Frame
	done   chan struct{}
}

func newFakeScreen() *fakeScreen {
	return &fakeScreen{done: make(chan struct{})}
}

func (s *fakeScreen) Present(frame display.Frame) {
	s.frames = append(s.frames, frame)
}

func (s *fakeScreen) Done() <-chan struct{} {
	return s.done
}

type fakeSpeaker struct {
	tones []bool
}

func (s *fakeSpeaker) SetTone(on bool) {
	s.tones = append(s.tones, on)
}

type hookFunc func(frame uint64, machine *interpreter.Interpreter) error

func (f hookFunc) OnFrame(frame uint64, machine *interpreter.Interpreter) error {
	return f(frame, machine)
}

func newMachine(t *testing.T, words ...uint16) *interpreter.Interpreter {
	t.Helper()

	machine := interpreter.New(log.NewTestLogger(t), interpreter.WithSeed(1))
	program := make([]byte, 0, 2*len(words))
	for _, word := range words {
		program = append(program, byte(word>>8), byte(word))
	}
	assert.NoError(t, machine.LoadProgram(program))
	return machine
}

func newDriver(t *testing.T, machine *interpreter.Interpreter, cfg Config) *Driver {
	t.Helper()

	d, err := New(log.NewTestLogger(t), machine, cfg)
	assert.NoError(t, err)
	return d
}

func TestNew(t *testing.T) {
	machine := newMachine(t, 0x1200)

	d := newDriver(t, machine, Config{})
	assert.Equal(t, DefaultCPUHz/FrameRate, d.cyclesPerFrame)

	_, err := New(log.NewTestLogger(t), machine, Config{CPUHz: 30})
	assert.ErrorContains(t, err, "below the frame rate")
}

func TestFrame_Cycles(t *testing.T) {
	machine := newMachine(t, 0x1200) // jp $200
	d := newDriver(t, machine, Config{CPUHz: 600})

	assert.NoError(t, d.Frame())
	assert.Equal(t, uint64(10), machine.Cycles())
	assert.NoError(t, d.Frame())
	assert.Equal(t, uint64(20), machine.Cycles())
	assert.Equal(t, uint64(2), d.Frames())
}

func TestFrame_TimersAndTone(t *testing.T) {
	machine := newMachine(t,
		0x6002, // ld V0, $02
		0xF018, // ld ST, V0
		0xF015, // ld DT, V0
		0x1206, // jp $206
	)
	speaker := &fakeSpeaker{}
	d := newDriver(t, machine, Config{CPUHz: 600, Speaker: speaker})

	assert.NoError(t, d.Frame())
	assert.Equal(t, uint8(1), machine.SoundTimer())
	assert.Equal(t, uint8(1), machine.DelayTimer())
	assert.Equal(t, []bool{true}, speaker.tones)

	assert.NoError(t, d.Frame())
	assert.Equal(t, uint8(0), machine.SoundTimer())
	assert.Equal(t, []bool{true, false}, speaker.tones)

	assert.NoError(t, d.Frame())
	assert.Equal(t, []bool{true, false}, speaker.tones)
}

func TestFrame_Present(t *testing.T) {
	machine := newMachine(t,
		0xF029, // ld F, V0
		0xD005, // drw V0, V0, $5
		0x1204, // jp $204
	)
	screen := newFakeScreen()
	d := newDriver(t, machine, Config{CPUHz: 600, Screen: screen})

	assert.NoError(t, d.Frame())
	assert.Len(t, screen.frames, 1)
	assert.Equal(t, 14, screen.frames[0].Lit())

	// nothing changed, nothing is presented
	assert.NoError(t, d.Frame())
	assert.Len(t, screen.frames, 1)
}

func TestFrame_Keys(t *testing.T) {
	machine := newMachine(t,
		0xF30A, // ld V3, K
		0x1202, // jp $202
	)
	d := newDriver(t, machine, Config{CPUHz: 600})

	assert.NoError(t, d.Frame())
	assert.Equal(t, interpreter.AwaitingKey, machine.State())

	d.Keys() <- KeyEvent{Key: 0x20, Pressed: true} // ignored
	d.Keys() <- KeyEvent{Key: 0x9, Pressed: true}
	assert.NoError(t, d.Frame())
	assert.Equal(t, interpreter.Running, machine.State())
	assert.Equal(t, uint8(0x9), machine.V(3))
	assert.True(t, machine.Key(0x9))

	d.Keys() <- KeyEvent{Key: 0x9, Pressed: false}
	assert.NoError(t, d.Frame())
	assert.False(t, machine.Key(0x9))
}

func TestFrame_Reset(t *testing.T) {
	machine := newMachine(t, 0x7001, 0x1200) // add V0, $01; jp $200
	screen := newFakeScreen()
	d := newDriver(t, machine, Config{CPUHz: 600, Screen: screen})

	assert.NoError(t, d.Frame())
	assert.Equal(t, uint8(5), machine.V(0))

	d.Resets() <- struct{}{}
	assert.NoError(t, d.Frame())
	assert.Equal(t, uint8(5), machine.V(0))
	assert.Equal(t, uint64(10), machine.Cycles())
	assert.Len(t, screen.frames, 1)
}

func TestDriver_Attach(t *testing.T) {
	machine := newMachine(t, 0x00E0, 0x1202) // cls; jp $202
	d := newDriver(t, machine, Config{CPUHz: 600})

	screen := newFakeScreen()
	var calls int
	d.SetScreen(screen)
	d.AddHook(hookFunc(func(uint64, *interpreter.Interpreter) error {
		calls++
		return nil
	}))

	assert.NoError(t, d.Frame())
	assert.Equal(t, 1, calls)
	assert.Len(t, screen.frames, 1)
	assert.Equal(t, 0, screen.frames[0].Lit())
}

func TestFrame_CycleBudget(t *testing.T) {
	machine := newMachine(t, 0x1200)
	d := newDriver(t, machine, Config{CPUHz: 600, MaxCycles: 15})

	assert.NoError(t, d.Frame())
	err := d.Frame()
	assert.True(t, errors.Is(err, ErrCycleBudget))
	assert.Equal(t, uint64(15), machine.Cycles())
}

func TestFrame_Breakpoint(t *testing.T) {
	machine := newMachine(t,
		0x6001, // ld V0, $01
		0x7001, // add V0, $01
		0x1200, // jp $200
	)
	breakpoints := set.New[uint16]()
	breakpoints.Add(0x204)
	d := newDriver(t, machine, Config{CPUHz: 600, Breakpoints: breakpoints})

	err := d.Frame()
	assert.True(t, errors.Is(err, ErrBreakpoint))
	assert.ErrorContains(t, err, "$204")
	assert.Equal(t, uint16(0x204), machine.PC())
	assert.Equal(t, uint64(2), machine.Cycles())

	// resuming steps over the breakpoint and stops at its next hit
	err = d.Frame()
	assert.True(t, errors.Is(err, ErrBreakpoint))
	assert.Equal(t, uint16(0x204), machine.PC())
	assert.Equal(t, uint64(5), machine.Cycles())
}

func TestFrame_Fault(t *testing.T) {
	machine := newMachine(t, 0xFFFF)
	d := newDriver(t, machine, Config{CPUHz: 600})

	err := d.Frame()
	assert.True(t, errors.Is(err, interpreter.ErrInvalidOpcode))
	var execErr *interpreter.ExecutionError
	assert.True(t, errors.As(err, &execErr))
	assert.Equal(t, uint16(0x200), execErr.PC)
}

func TestFrame_Hooks(t *testing.T) {
	machine := newMachine(t, 0x1200)
	var calls []uint64
	stop := errors.New("stop")

	hook := hookFunc(func(frame uint64, m *interpreter.Interpreter) error {
		calls = append(calls, frame)
		if frame == 1 {
			return stop
		}
		return m.SetKey(0x1, true)
	})
	d := newDriver(t, machine, Config{CPUHz: 600, Hooks: []Hook{hook}})

	assert.NoError(t, d.Frame())
	assert.True(t, machine.Key(0x1))

	err := d.Frame()
	assert.True(t, errors.Is(err, stop))
	assert.Equal(t, []uint64{0, 1}, calls)
	assert.Equal(t, uint64(10), machine.Cycles())
}

func TestRun(t *testing.T) {
	t.Run("context cancelled", func(t *testing.T) {
		d := newDriver(t, newMachine(t, 0x1200), Config{})
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		assert.NoError(t, d.Run(ctx))
	})

	t.Run("screen closed", func(t *testing.T) {
		screen := newFakeScreen()
		close(screen.done)
		d := newDriver(t, newMachine(t, 0x1200), Config{Screen: screen})
		assert.NoError(t, d.Run(t.Context()))
	})

	t.Run("fault", func(t *testing.T) {
		speaker := &fakeSpeaker{}
		d := newDriver(t, newMachine(t, 0x6002, 0xF018, 0xFFFF), Config{Speaker: speaker})
		err := d.Run(t.Context())
		assert.True(t, errors.Is(err, interpreter.ErrInvalidOpcode))
		assert.Equal(t, []bool{true, false}, speaker.tones)
	})
}
