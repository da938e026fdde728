package chip8

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrogolib/set"
)

// Disassemble writes a listing of the program loaded at the base address.
// Every instruction word is written with its address, its bytes and its
// assembly representation. Addresses that are targets of jumps, calls or
// index loads inside the program get a label line.
func Disassemble(w io.Writer, program []byte, base uint16) error {
	labels := collectLabels(program, base)
	buf := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(buf, "; %d bytes at $%03X\n", len(program), base); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for offset := 0; offset < len(program); offset += opcodeSize {
		address := base + uint16(offset)
		if labels.Contains(address) {
			if _, err := fmt.Fprintf(buf, "\n%s:\n", labelName(address)); err != nil {
				return fmt.Errorf("writing label: %w", err)
			}
		}

		if offset+1 >= len(program) {
			if _, err := fmt.Fprintf(buf, "$%03X  %02X     .byte $%02X\n", address, program[offset], program[offset]); err != nil {
				return fmt.Errorf("writing trailing byte: %w", err)
			}
			break
		}

		opcode := uint16(program[offset])<<8 | uint16(program[offset+1])
		if err := writeLine(buf, address, opcode, labels); err != nil {
			return err
		}
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flushing listing: %w", err)
	}
	return nil
}

func writeLine(w io.Writer, address, opcode uint16, labels set.Set[uint16]) error {
	code := Format(opcode)
	if target, ok := Target(opcode); ok && labels.Contains(target) && opcode&0xF000 != 0xB000 {
		// replace the numeric operand with the label name
		code = strings.Replace(code, fmt.Sprintf("$%03X", target), labelName(target), 1)
	}

	line := fmt.Sprintf("$%03X  %02X %02X  %s", address, opcode>>8, opcode&0xFF, code)
	if comment := annotation(address, opcode); comment != "" {
		line = fmt.Sprintf("%-32s; %s", line, comment)
	}

	if _, err := fmt.Fprintln(w, line); err != nil {
		return fmt.Errorf("writing instruction at $%03X: %w", address, err)
	}
	return nil
}

// annotation returns a comment describing the control flow or memory
// behavior of the instruction at the address.
func annotation(address, opcode uint16) string {
	ins, ok := Lookup(opcode)
	if !ok {
		return ""
	}

	var notes []string
	switch {
	case ins.IsCall():
		notes = append(notes, "subroutine call")
	case ins.IsReturn():
		notes = append(notes, "subroutine return")
	case ins.IsJump() && opcode&0xF000 == 0xB000:
		notes = append(notes, "jump offset by V0")
	case ins.IsJump() && opcode&0x0FFF == address:
		notes = append(notes, "endless loop")
	}
	if ins.IsSkip() {
		notes = append(notes, "skips next instruction")
	}
	if usesIndexedMemory(opcode) {
		if ins.ReadsMemory() && !isStore(opcode) {
			notes = append(notes, "reads [I]")
		}
		if ins.WritesMemory() && isStore(opcode) {
			notes = append(notes, "writes [I]")
		}
	}
	return strings.Join(notes, ", ")
}

// usesIndexedMemory returns whether the instruction accesses memory through
// the index register.
func usesIndexedMemory(opcode uint16) bool {
	if opcode&0xF000 == 0xD000 {
		return true
	}
	switch opcode & 0xF0FF {
	case 0xF033, 0xF055, 0xF065:
		return true
	default:
		return false
	}
}

func isStore(opcode uint16) bool {
	switch opcode & 0xF0FF {
	case 0xF033, 0xF055:
		return true
	default:
		return false
	}
}

// collectLabels returns all instruction aligned addresses inside the program
// that are referenced by an address operand.
func collectLabels(program []byte, base uint16) set.Set[uint16] {
	labels := set.New[uint16]()
	end := int(base) + len(program)

	for offset := 0; offset+1 < len(program); offset += opcodeSize {
		opcode := uint16(program[offset])<<8 | uint16(program[offset+1])
		if !Valid(opcode) {
			continue
		}
		target, ok := Target(opcode)
		if !ok || opcode&0xF000 == 0xB000 {
			continue // jp V0 targets are only known at runtime
		}
		if int(target) < int(base) || int(target) >= end || (target-base)%opcodeSize != 0 {
			continue
		}
		labels.Add(target)
	}
	return labels
}

func labelName(address uint16) string {
	return fmt.Sprintf("label_%03X", address)
}

// Labels returns the sorted label addresses of a program listing.
func Labels(program []byte, base uint16) []uint16 {
	return set.Sorted(collectLabels(program, base))
}
