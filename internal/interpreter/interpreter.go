// Package interpreter implements the CHIP-8 virtual machine: memory,
// registers, stack, timers and keypad together with the fetch, decode and
// execute cycle. Drawing is delegated to a Display, by default the
// framebuffer of the display package.
package interpreter

import (
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrogolib/log"
)

// CHIP-8 machine layout constants.
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 4096
	// ProgramStart is the address that programs are loaded to and start
	// executing from. Everything below it is reserved for the interpreter.
	ProgramStart = 0x200
	// MaxProgramSize is the largest program that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart

	// RegisterCount is the number of general purpose registers V0-VF.
	RegisterCount = 16
	// StackSize is the number of stack slots.
	StackSize = 16
	// KeyCount is the number of keys of the hex keypad.
	KeyCount = 16

	// flagRegister is VF, used for carry, borrow, shift and collision flags.
	flagRegister = 0xF
	// instructionSize is the size of every instruction in bytes.
	instructionSize = 2
)

// Display is the drawing capability the interpreter needs from a framebuffer.
type Display interface {
	Clear()
	DrawSprite(x, y int, rows []byte) bool
}

// Compile-time check to ensure the framebuffer can be used as display.
var _ Display = (*display.Framebuffer)(nil)

// Interpreter is a CHIP-8 virtual machine. It owns all machine state and is
// not safe for concurrent use.
type Interpreter struct {
	logger *log.Logger

	memory    [MemorySize]byte
	registers [RegisterCount]uint8
	index     uint16
	pc        uint16
	stack     [StackSize]uint16
	sp        uint8

	delayTimer uint8
	soundTimer uint8
	keys       [KeyCount]bool

	display Display
	screen  *display.Framebuffer // set if the display is the built-in framebuffer
	redraw  bool

	state        State
	waitRegister uint8
	fault        error

	program []byte
	cycles  uint64
	trace   bool
	rng     *rand.Rand
}

// Option configures an interpreter.
type Option func(*Interpreter)

// WithDisplay sets the display that the clear and draw instructions operate on.
func WithDisplay(d Display) Option {
	return func(i *Interpreter) {
		i.display = d
		i.screen, _ = d.(*display.Framebuffer)
	}
}

// WithSeed makes the random instruction deterministic by seeding its generator.
func WithSeed(seed uint64) Option {
	return func(i *Interpreter) {
		i.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	}
}

// WithTrace enables debug logging of every executed instruction.
func WithTrace(enabled bool) Option {
	return func(i *Interpreter) {
		i.trace = enabled
	}
}

// New returns a new interpreter in its power-on state with the font loaded.
func New(logger *log.Logger, options ...Option) *Interpreter {
	i := &Interpreter{
		logger: logger,
	}
	for _, option := range options {
		option(i)
	}

	if i.display == nil {
		i.screen = display.New()
		i.display = i.screen
	}
	if i.rng == nil {
		i.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	i.reset()
	return i
}

// LoadProgram copies the program into memory at ProgramStart and resets the
// machine. Programs larger than MaxProgramSize are rejected without touching
// the memory.
func (i *Interpreter) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	i.program = make([]byte, len(program))
	copy(i.program, program)
	i.reset()
	i.keys = [KeyCount]bool{}

	i.logger.Debug("Program loaded",
		log.Int("size", len(program)),
		log.Hex("start", uint16(ProgramStart)))
	return nil
}

// Reset puts the machine back into its power-on state and reloads the last
// loaded program. The key state is kept, as frontends only report key
// changes and a key held during the reset is still pressed afterwards.
func (i *Interpreter) Reset() {
	i.reset()
}

func (i *Interpreter) reset() {
	i.memory = [MemorySize]byte{}
	copy(i.memory[FontAddress:], font[:])
	copy(i.memory[ProgramStart:], i.program)

	i.registers = [RegisterCount]uint8{}
	i.index = 0
	i.pc = ProgramStart
	i.stack = [StackSize]uint16{}
	i.sp = 0
	i.delayTimer = 0
	i.soundTimer = 0

	i.display.Clear()
	i.redraw = false

	i.state = Running
	i.waitRegister = 0
	i.fault = nil
	i.cycles = 0
}

// Fetch reads the big endian instruction word at the program counter.
func (i *Interpreter) Fetch() (uint16, error) {
	if int(i.pc)+1 >= MemorySize {
		return 0, ErrOutOfBounds
	}
	hi := uint16(i.memory[i.pc])
	lo := uint16(i.memory[i.pc+1])
	return hi<<8 | lo, nil
}

// Cycle performs a single fetch, decode and execute step. While the machine
// waits for a key press no instruction is fetched. A returned error is fatal,
// the machine is halted and every further call returns the same error.
func (i *Interpreter) Cycle() error {
	switch i.state {
	case Halted:
		return i.fault
	case AwaitingKey:
		i.cycles++
		i.resolveKeyWait()
		return nil
	}

	pc := i.pc
	opcode, err := i.Fetch()
	if err != nil {
		return i.halt(&ExecutionError{PC: pc, Err: err})
	}

	if i.trace {
		i.logger.Debug("Executing",
			log.Hex("pc", pc),
			log.Hex("opcode", opcode),
			log.String("instruction", chip8.Format(opcode)))
	}

	i.cycles++
	if err := i.Execute(opcode); err != nil {
		return i.halt(&ExecutionError{PC: pc, Opcode: opcode, Fetched: true, Err: err})
	}
	return nil
}

func (i *Interpreter) halt(err *ExecutionError) error {
	i.state = Halted
	i.fault = err
	i.logger.Debug("Machine halted", log.Err(err))
	return err
}

// TickTimers decrements the delay and sound timers, both stop at zero.
// It is meant to be called at 60 Hz independent of the instruction rate.
func (i *Interpreter) TickTimers() {
	if i.delayTimer > 0 {
		i.delayTimer--
	}
	if i.soundTimer > 0 {
		i.soundTimer--
	}
}

// SetKey updates the pressed state of a key of the hex keypad.
func (i *Interpreter) SetKey(key uint8, pressed bool) error {
	if key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	i.keys[key] = pressed
	return nil
}

// Key returns whether the key is currently pressed.
func (i *Interpreter) Key(key uint8) bool {
	return i.keys[key&0xF]
}

// PC returns the program counter.
func (i *Interpreter) PC() uint16 { return i.pc }

// I returns the index register.
func (i *Interpreter) I() uint16 { return i.index }

// SP returns the stack pointer.
func (i *Interpreter) SP() uint8 { return i.sp }

// V returns the content of register Vx.
func (i *Interpreter) V(x uint8) uint8 { return i.registers[x&0xF] }

// DelayTimer returns the current delay timer value.
func (i *Interpreter) DelayTimer() uint8 { return i.delayTimer }

// SoundTimer returns the current sound timer value.
func (i *Interpreter) SoundTimer() uint8 { return i.soundTimer }

// State returns the execution state.
func (i *Interpreter) State() State { return i.state }

// Fault returns the error that halted the machine, or nil.
func (i *Interpreter) Fault() error { return i.fault }

// Cycles returns the number of cycles executed since the last reset.
func (i *Interpreter) Cycles() uint64 { return i.cycles }

// ProgramLength returns the size of the loaded program in bytes.
func (i *Interpreter) ProgramLength() int { return len(i.program) }

// ReadMemory returns the byte at the address, wrapped into memory.
func (i *Interpreter) ReadMemory(address uint16) byte {
	return i.memory[address%MemorySize]
}

// Display returns the display the draw instructions operate on.
func (i *Interpreter) Display() Display {
	return i.display
}

// Screen returns the built-in framebuffer, or nil if an external display
// was configured.
func (i *Interpreter) Screen() *display.Framebuffer {
	return i.screen
}

// Redraw returns whether the screen content changed since the host last
// consumed the flag.
func (i *Interpreter) Redraw() bool {
	return i.redraw
}

// ConsumeRedraw returns the redraw flag and resets it.
func (i *Interpreter) ConsumeRedraw() bool {
	redraw := i.redraw
	i.redraw = false
	return redraw
}

// Snapshot returns a copy of the register state.
func (i *Interpreter) Snapshot() Snapshot {
	return Snapshot{
		PC:         i.pc,
		I:          i.index,
		SP:         i.sp,
		V:          i.registers,
		Stack:      i.stack,
		DelayTimer: i.delayTimer,
		SoundTimer: i.soundTimer,
		State:      i.state,
		Cycles:     i.cycles,
	}
}
