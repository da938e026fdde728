package interpreter

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
)

var (
	// ErrProgramTooLarge is returned when a program does not fit into the
	// memory above the reserved interpreter area.
	ErrProgramTooLarge = errors.New("program too large")
	// ErrOutOfBounds is returned when an instruction is fetched from outside
	// of the memory.
	ErrOutOfBounds = errors.New("instruction fetch out of bounds")
	// ErrInvalidOpcode is returned for instruction words that do not decode
	// to any known instruction.
	ErrInvalidOpcode = errors.New("invalid opcode")
	// ErrStackOverflow is returned when a call exceeds the stack depth.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when a return is executed on an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrInvalidKey is returned for key indexes outside of 0-F.
	ErrInvalidKey = errors.New("invalid key")
)

// ExecutionError describes a fatal fault of the machine. It wraps one of the
// sentinel errors of this package.
type ExecutionError struct {
	PC      uint16
	Opcode  uint16
	Fetched bool // whether Opcode holds a fetched instruction word
	Err     error
}

func (e *ExecutionError) Error() string {
	if !e.Fetched {
		return fmt.Sprintf("%s at $%03X", e.Err, e.PC)
	}
	return fmt.Sprintf("%s at $%03X: $%04X (%s)", e.Err, e.PC, e.Opcode, chip8.Format(e.Opcode))
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
