package interpreter

import (
	"fmt"
	"strings"
)

// State is the execution state of the machine.
type State int

const (
	// Running executes one instruction per cycle.
	Running State = iota
	// AwaitingKey waits for a key press without fetching instructions.
	AwaitingKey
	// Halted is entered on a fatal fault, no further instructions are executed.
	Halted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case AwaitingKey:
		return "awaiting key"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Snapshot is a value copy of the register state of the machine.
type Snapshot struct {
	PC         uint16
	I          uint16
	SP         uint8
	V          [RegisterCount]uint8
	Stack      [StackSize]uint16
	DelayTimer uint8
	SoundTimer uint8
	State      State
	Cycles     uint64
}

// String returns a multi line dump of the registers, used for breakpoint
// and fault reports.
func (s Snapshot) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PC=$%03X I=$%03X SP=%d DT=%d ST=%d state=%s cycles=%d\n",
		s.PC, s.I, s.SP, s.DelayTimer, s.SoundTimer, s.State, s.Cycles)

	for reg, value := range s.V {
		if reg > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "V%X=$%02X", reg, value)
	}

	if s.SP > 0 {
		sb.WriteString("\nstack:")
		for slot := 1; slot <= int(s.SP); slot++ {
			fmt.Fprintf(&sb, " $%03X", s.Stack[slot])
		}
	}
	return sb.String()
}
