package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Program
	}{
		{
			name: "default flags",
			args: []string{"pong.ch8"},
			want: options.Program{
				Parameters: options.Parameters{Input: "pong.ch8"},
				Flags:      options.Flags{Frontend: options.FrontendWindow},
				Emulation:  options.Emulation{CPUHz: 700, Scale: 10},
			},
		},
		{
			name: "input flag",
			args: []string{"-i", "pong.ch8", "-f", "Terminal", "-hz", "1000"},
			want: options.Program{
				Parameters: options.Parameters{Input: "pong.ch8"},
				Flags:      options.Flags{Frontend: options.FrontendTerminal},
				Emulation:  options.Emulation{CPUHz: 1000, Scale: 10},
			},
		},
		{
			name: "trace implies debug",
			args: []string{"-trace", "-f", "headless", "-cycles", "500", "-seed", "7", "test.ch8"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.ch8"},
				Flags:      options.Flags{Frontend: options.FrontendHeadless, Trace: true, Debug: true},
				Emulation:  options.Emulation{CPUHz: 700, Scale: 10, MaxCycles: 500, Seed: 7},
			},
		},
		{
			name: "breakpoints",
			args: []string{"-break", "200, $2A4,0x300", "test.ch8"},
			want: options.Program{
				Parameters:          options.Parameters{Input: "test.ch8"},
				Flags:               options.Flags{Frontend: options.FrontendWindow},
				Emulation:           options.Emulation{CPUHz: 700, Scale: 10, Breakpoints: "200, $2A4,0x300"},
				BreakpointAddresses: []uint16{0x200, 0x2A4, 0x300},
			},
		},
		{
			name: "input flag before positional file",
			args: []string{"-i", "pong.ch8", "tetris.ch8"},
			want: options.Program{
				Parameters: options.Parameters{Input: "pong.ch8"},
				Flags:      options.Flags{Frontend: options.FrontendWindow},
				Emulation:  options.Emulation{CPUHz: 700, Scale: 10},
			},
		},
		{
			name: "disassembly",
			args: []string{"-disasm", "-o", "out.asm", "-q", "test.ch8"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.ch8", Output: "out.asm"},
				Flags:      options.Flags{Frontend: options.FrontendWindow, Disasm: true, Quiet: true},
				Emulation:  options.Emulation{CPUHz: 700, Scale: 10},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse("retrochip8", tt.args)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_UsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"missing input", []string{}, "missing input file"},
		{"help", []string{"-h"}, "help requested"},
		{"unknown flag", []string{"-unknown", "test.ch8"}, "flag provided but not defined"},
		{"flag after file", []string{"test.ch8", "-debug"}, "Potential argument -debug"},
		{"extra argument", []string{"test.ch8", "other.ch8"}, "unexpected arguments: other.ch8"},
		{"unsupported frontend", []string{"-f", "vulkan", "test.ch8"}, "unsupported frontend: vulkan"},
		{"cpu rate too low", []string{"-hz", "10", "test.ch8"}, "outside of the supported range"},
		{"invalid scale", []string{"-scale", "0", "test.ch8"}, "invalid window scale"},
		{"invalid breakpoint", []string{"-break", "xyz", "test.ch8"}, "invalid breakpoint address 'xyz'"},
		{"breakpoint outside memory", []string{"-break", "1000", "test.ch8"}, "outside of the memory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("retrochip8", tt.args)
			assert.ErrorContains(t, err, tt.message)

			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))
		})
	}
}

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"prog", "-f", "headless", "test.ch8"}

	opts, err := ParseFlags()
	assert.NoError(t, err)
	assert.Equal(t, "test.ch8", opts.Input)
	assert.Equal(t, options.FrontendHeadless, opts.Frontend)
}

func TestParseAddresses(t *testing.T) {
	addresses, err := ParseAddresses("")
	assert.NoError(t, err)
	assert.Len(t, addresses, 0)

	addresses, err = ParseAddresses("fff,$0,,0X2a")
	assert.NoError(t, err)
	assert.Equal(t, []uint16{0xFFF, 0x000, 0x02A}, addresses)
}
