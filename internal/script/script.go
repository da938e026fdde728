// Package script runs Lua scripts that automate the emulator. A script
// defines a global on_frame(frame) function that is called at the start of
// every frame and can press keys and inspect the machine state.
package script

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrochip8/internal/interpreter"
	"github.com/retroenv/retrogolib/log"
	lua "github.com/yuin/gopher-lua"
)

// ErrScriptHalt is returned when the script requested to stop the emulation.
var ErrScriptHalt = errors.New("script requested halt")

const frameFunction = "on_frame"

// Compile-time check to ensure Runner can be used as driver hook.
var _ driver.Hook = (*Runner)(nil)

// Runner executes a Lua script every frame.
type Runner struct {
	logger *log.Logger
	state  *lua.LState
	name   string

	machine *interpreter.Interpreter // machine of the current frame
	halted  bool
	reason  string
}

// LoadFile loads and runs the top level of a script file.
func LoadFile(logger *log.Logger, path string) (*Runner, error) {
	r := newRunner(logger, path)
	if err := r.state.DoFile(path); err != nil {
		r.Close()
		return nil, fmt.Errorf("loading script %s: %w", path, err)
	}
	return r.validate()
}

// LoadString loads and runs the top level of a script source.
func LoadString(logger *log.Logger, name, source string) (*Runner, error) {
	r := newRunner(logger, name)
	if err := r.state.DoString(source); err != nil {
		r.Close()
		return nil, fmt.Errorf("loading script %s: %w", name, err)
	}
	return r.validate()
}

func newRunner(logger *log.Logger, name string) *Runner {
	r := &Runner{
		logger: logger,
		state:  lua.NewState(),
		name:   name,
	}
	r.registerFunctions()
	return r
}

func (r *Runner) validate() (*Runner, error) {
	if r.state.GetGlobal(frameFunction).Type() != lua.LTFunction {
		r.Close()
		return nil, fmt.Errorf("script %s does not define function %s", r.name, frameFunction)
	}
	return r, nil
}

// Close releases the Lua state.
func (r *Runner) Close() {
	r.state.Close()
}

// OnFrame calls the frame function of the script.
func (r *Runner) OnFrame(frame uint64, machine *interpreter.Interpreter) error {
	r.machine = machine
	defer func() { r.machine = nil }()

	fn := r.state.GetGlobal(frameFunction)
	err := r.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(frame))
	if err != nil {
		return fmt.Errorf("script %s frame %d: %w", r.name, frame, err)
	}

	if r.halted {
		if r.reason == "" {
			return ErrScriptHalt
		}
		return fmt.Errorf("%w: %s", ErrScriptHalt, r.reason)
	}
	return nil
}

func (r *Runner) registerFunctions() {
	functions := map[string]lua.LGFunction{
		"press":   r.press,
		"release": r.release,
		"reg":     r.register8,
		"pc":      r.pc,
		"index":   r.index,
		"delay":   r.delay,
		"sound":   r.sound,
		"pixel":   r.pixel,
		"waiting": r.waiting,
		"halt":    r.halt,
		"log":     r.logMessage,
	}
	for name, fn := range functions {
		r.state.SetGlobal(name, r.state.NewFunction(fn))
	}
}

func (r *Runner) press(state *lua.LState) int {
	r.setKey(state, true)
	return 0
}

func (r *Runner) release(state *lua.LState) int {
	r.setKey(state, false)
	return 0
}

func (r *Runner) setKey(state *lua.LState, pressed bool) {
	key := state.CheckInt(1)
	if key < 0 || key >= interpreter.KeyCount {
		state.ArgError(1, fmt.Sprintf("key %d out of range 0-15", key))
		return
	}
	if err := r.current(state).SetKey(uint8(key), pressed); err != nil {
		state.RaiseError("%s", err.Error())
	}
}

func (r *Runner) register8(state *lua.LState) int {
	x := state.CheckInt(1)
	if x < 0 || x >= interpreter.RegisterCount {
		state.ArgError(1, fmt.Sprintf("register %d out of range 0-15", x))
		return 0
	}
	state.Push(lua.LNumber(r.current(state).V(uint8(x))))
	return 1
}

func (r *Runner) pc(state *lua.LState) int {
	state.Push(lua.LNumber(r.current(state).PC()))
	return 1
}

func (r *Runner) index(state *lua.LState) int {
	state.Push(lua.LNumber(r.current(state).I()))
	return 1
}

func (r *Runner) delay(state *lua.LState) int {
	state.Push(lua.LNumber(r.current(state).DelayTimer()))
	return 1
}

func (r *Runner) sound(state *lua.LState) int {
	state.Push(lua.LNumber(r.current(state).SoundTimer()))
	return 1
}

func (r *Runner) pixel(state *lua.LState) int {
	x := state.CheckInt(1)
	y := state.CheckInt(2)

	screen := r.current(state).Screen()
	state.Push(lua.LBool(screen != nil && screen.Pixel(x, y)))
	return 1
}

func (r *Runner) waiting(state *lua.LState) int {
	state.Push(lua.LBool(r.current(state).State() == interpreter.AwaitingKey))
	return 1
}

// current returns the machine of the running frame. Machine functions can
// not be used from the top level of a script.
func (r *Runner) current(state *lua.LState) *interpreter.Interpreter {
	if r.machine == nil {
		state.RaiseError("machine functions can only be called from %s", frameFunction)
	}
	return r.machine
}

func (r *Runner) halt(state *lua.LState) int {
	r.halted = true
	r.reason = state.OptString(1, "")
	return 0
}

func (r *Runner) logMessage(state *lua.LState) int {
	r.logger.Info("Script", log.String("script", r.name), log.String("message", state.CheckString(1)))
	return 0
}
