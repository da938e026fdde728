package terminal

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestKeyFor(t *testing.T) {
	tests := []struct {
		input byte
		key   uint8
		ok    bool
	}{
		{'1', 0x1, true},
		{'4', 0xC, true},
		{'q', 0x4, true},
		{'R', 0xD, true},
		{'a', 0x7, true},
		{'f', 0xE, true},
		{'z', 0xA, true},
		{'X', 0x0, true},
		{'c', 0xB, true},
		{'v', 0xF, true},
		{'5', 0, false},
		{' ', 0, false},
		{keyEscape, 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			key, ok := KeyFor(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestKeymapComplete(t *testing.T) {
	seen := make(map[uint8]bool)
	for _, key := range keymap {
		seen[key] = true
	}
	assert.Len(t, seen, 16)
}
