package chip8

import (
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Instruction represents a decoded CHIP-8 instruction. It wraps the
// retrogolib instruction definition and classifies its control flow and
// memory behavior.
type Instruction struct {
	ins *chip8.Instruction
}

// Lookup returns the instruction of an instruction word.
// The second return value is false if the word is not a valid instruction.
func Lookup(opcode uint16) (Instruction, bool) {
	if !Valid(opcode) {
		return Instruction{}, false
	}

	firstNibble := (opcode & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&opcode == op.Info.Value {
			return Instruction{ins: op.Instruction}, true
		}
	}

	ins, _ := decode(opcode)
	return Instruction{ins: ins}, true
}

// IsCall returns true if the instruction is a call instruction.
func (i Instruction) IsCall() bool {
	return i.ins == chip8.CallInst
}

// IsJump returns true if the instruction is a jump instruction.
func (i Instruction) IsJump() bool {
	return i.ins == chip8.JpInst
}

// IsReturn returns true if the instruction is a return instruction.
func (i Instruction) IsReturn() bool {
	return i.ins == chip8.RetInst
}

// IsSkip returns true if the instruction is a conditional skip instruction.
func (i Instruction) IsSkip() bool {
	if i.ins == nil {
		return false
	}
	return chip8.SkipInstructions.Contains(i.ins.Name)
}

// ReadsMemory returns true if this instruction reads from memory.
func (i Instruction) ReadsMemory() bool {
	if i.ins == nil {
		return false
	}
	return chip8.MemoryReadInstructions.Contains(i.ins.Name)
}

// WritesMemory returns true if this instruction writes to memory.
func (i Instruction) WritesMemory() bool {
	if i.ins == nil {
		return false
	}
	return chip8.MemoryWriteInstructions.Contains(i.ins.Name)
}

// Target returns the 12 bit address operand of jump, call and index load
// instructions. The second return value is false for all other instructions.
func Target(opcode uint16) (uint16, bool) {
	switch opcode & 0xF000 {
	case 0x1000, 0x2000, 0xA000, 0xB000:
		return opcode & 0x0FFF, true
	default:
		return 0, false
	}
}
