// Package chip8 provides CHIP-8 instruction decoding and formatting.
// It is used for execution traces, fault messages and ROM listings.
package chip8

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// opcodeSize is the size of CHIP-8 instructions in bytes.
const opcodeSize = 2

// Format returns the assembly representation of an instruction word,
// for example "ld V2, $34". Words that do not decode to an instruction
// are formatted as data.
func Format(opcode uint16) string {
	ins, params := decode(opcode)
	if ins == nil {
		return fmt.Sprintf(".word $%04X", opcode)
	}
	if params == "" {
		return ins.Name
	}
	return fmt.Sprintf("%s %s", ins.Name, params)
}

// Valid returns whether the instruction word is part of the instruction set.
func Valid(opcode uint16) bool {
	ins, _ := decode(opcode)
	return ins != nil
}

// decode resolves the instruction of an opcode and its formatted parameters.
func decode(opcode uint16) (*chip8.Instruction, string) {
	switch opcode & 0xF000 {
	case 0x0000:
		switch opcode {
		case 0x00E0:
			return chip8.ClsInst, ""
		case 0x00EE:
			return chip8.RetInst, ""
		}

	case 0x1000, 0xB000:
		return chip8.JpInst, formatJumpInstruction(opcode)

	case 0x2000:
		return chip8.CallInst, fmt.Sprintf("$%03X", opcode&0x0FFF)

	case 0x3000:
		return chip8.SeInst, formatCompareInstruction(opcode)

	case 0x4000:
		return chip8.SneInst, formatCompareInstruction(opcode)

	case 0x5000:
		if opcode&0x000F == 0 {
			return chip8.SeInst, formatCompareInstruction(opcode)
		}

	case 0x9000:
		if opcode&0x000F == 0 {
			return chip8.SneInst, formatCompareInstruction(opcode)
		}

	case 0x6000, 0xA000:
		return chip8.LdInst, formatLoadInstruction(opcode)

	case 0x7000:
		return chip8.AddInst, formatAddInstruction(opcode)

	case 0x8000:
		return decodeArithmetic(opcode)

	case 0xC000:
		return chip8.RndInst, formatRandomInstruction(opcode)

	case 0xD000:
		return chip8.DrwInst, formatDrawInstruction(opcode)

	case 0xE000:
		switch opcode & 0x00FF {
		case 0x9E:
			return chip8.SkpInst, formatSkipInstruction(opcode)
		case 0xA1:
			return chip8.SknpInst, formatSkipInstruction(opcode)
		}

	case 0xF000:
		return decodeMisc(opcode)
	}
	return nil, ""
}

// decodeArithmetic decodes the register to register instructions 8XYN.
func decodeArithmetic(opcode uint16) (*chip8.Instruction, string) {
	switch opcode & 0x000F {
	case 0x0:
		return chip8.LdInst, formatLoadInstruction(opcode)
	case 0x1:
		return chip8.OrInst, formatBinaryInstruction(opcode)
	case 0x2:
		return chip8.AndInst, formatBinaryInstruction(opcode)
	case 0x3:
		return chip8.XorInst, formatBinaryInstruction(opcode)
	case 0x4:
		return chip8.AddInst, formatAddInstruction(opcode)
	case 0x5:
		return chip8.SubInst, formatBinaryInstruction(opcode)
	case 0x6:
		return chip8.ShrInst, formatShiftInstruction(opcode)
	case 0x7:
		return chip8.SubnInst, formatBinaryInstruction(opcode)
	case 0xE:
		return chip8.ShlInst, formatShiftInstruction(opcode)
	}
	return nil, ""
}

// decodeMisc decodes the timer, keyboard and memory instructions FXNN.
func decodeMisc(opcode uint16) (*chip8.Instruction, string) {
	x := extractRegisterX(opcode)

	switch opcode & 0x00FF {
	case 0x07:
		return chip8.LdInst, fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return chip8.LdInst, fmt.Sprintf("V%X, K", x)
	case 0x15:
		return chip8.LdInst, fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return chip8.LdInst, fmt.Sprintf("ST, V%X", x)
	case 0x1E:
		return chip8.AddInst, fmt.Sprintf("I, V%X", x)
	case 0x29:
		return chip8.LdInst, fmt.Sprintf("F, V%X", x)
	case 0x33:
		return chip8.LdInst, fmt.Sprintf("B, V%X", x)
	case 0x55:
		return chip8.LdInst, fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return chip8.LdInst, fmt.Sprintf("V%X, [I]", x)
	}
	return nil, ""
}

// formatJumpInstruction formats jump instructions (JP addr, JP V0+addr).
func formatJumpInstruction(opcode uint16) string {
	if opcode&0xF000 == 0xB000 {
		return fmt.Sprintf("V0, $%03X", opcode&0x0FFF)
	}
	return fmt.Sprintf("$%03X", opcode&0x0FFF)
}

// formatCompareInstruction formats comparison instructions (SE, SNE).
func formatCompareInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	switch opcode & 0xF000 {
	case 0x5000, 0x9000:
		y := extractRegisterY(opcode)
		return fmt.Sprintf("V%X, V%X", x, y)
	default:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	}
}

// formatLoadInstruction formats load instructions (LD Vx, byte/Vy/I).
func formatLoadInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	switch opcode & 0xF000 {
	case 0x8000:
		y := extractRegisterY(opcode)
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", opcode&0x0FFF)
	default:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	}
}

// formatAddInstruction formats add instructions (ADD Vx, byte/Vy).
func formatAddInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	if opcode&0xF000 == 0x8000 {
		y := extractRegisterY(opcode)
		return fmt.Sprintf("V%X, V%X", x, y)
	}
	return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
}

func formatBinaryInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	y := extractRegisterY(opcode)
	return fmt.Sprintf("V%X, V%X", x, y)
}

func formatShiftInstruction(opcode uint16) string {
	return fmt.Sprintf("V%X", extractRegisterX(opcode))
}

func formatRandomInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
}

// formatDrawInstruction formats draw instructions (DRW).
func formatDrawInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	y := extractRegisterY(opcode)
	n := opcode & 0x000F
	return fmt.Sprintf("V%X, V%X, $%X", x, y, n)
}

func formatSkipInstruction(opcode uint16) string {
	return fmt.Sprintf("V%X", extractRegisterX(opcode))
}

// extractRegisterX extracts the X register nibble from a CHIP-8 opcode.
func extractRegisterX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

// extractRegisterY extracts the Y register nibble from a CHIP-8 opcode.
func extractRegisterY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}
