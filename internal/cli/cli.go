// Package cli handles command line interface logic
package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/retroenv/retrochip8/internal/interpreter"
	"github.com/retroenv/retrochip8/internal/options"
	rcli "github.com/retroenv/retrogolib/cli"
)

// CPU rate limits accepted by the -hz flag.
const (
	MinCPUHz = 60
	MaxCPUHz = 100_000
)

var validFrontends = []string{options.FrontendTerminal, options.FrontendWindow, options.FrontendHeadless}

// ParseFlags parses the command line flags of the process.
func ParseFlags() (options.Program, error) {
	return Parse(os.Args[0], os.Args[1:])
}

// Parse parses the given command line arguments and returns the program options.
// The ROM file can be passed with -i or as the last argument.
func Parse(name string, arguments []string) (options.Program, error) {
	flags := rcli.NewFlagSet(name)
	var opts options.Program
	var positional options.Positional
	flags.AddSection("Parameters", &opts.Parameters)
	flags.AddSection("Flags", &opts.Flags)
	flags.AddSection("Emulation", &opts.Emulation)
	flags.AddPositional(&positional)

	args, err := flags.Parse(arguments)
	if err != nil {
		// the flag set printed the usage already
		if errors.Is(err, rcli.ErrHelpRequested) {
			return opts, &UsageError{flags: flags, shown: true}
		}
		return opts, &UsageError{flags: flags, msg: err.Error(), shown: true}
	}

	if err := validateArgs(flags, args); err != nil {
		return opts, err
	}
	if opts.Input == "" {
		opts.Input = positional.File
	}
	if opts.Input == "" {
		return opts, &UsageError{flags: flags, msg: "missing input file"}
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *rcli.FlagSet
	msg   string
	shown bool // usage was printed while parsing
}

func (e *UsageError) Error() string {
	if e.msg == "" {
		return rcli.ErrHelpRequested.Error()
	}
	return e.msg
}

// ShowUsage prints the error message and the usage information with all
// flag defaults, unless the usage was already printed while parsing.
func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Printf("error: %s\n\n", e.msg)
	}
	if !e.shown {
		e.flags.ShowUsage()
	}
}

// validateArgs checks the arguments that remain after the ROM file.
func validateArgs(flags *rcli.FlagSet, args []string) error {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			return &UsageError{
				flags: flags,
				msg:   fmt.Sprintf("Potential argument %s found after the ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	if len(args) > 0 {
		return &UsageError{flags: flags, msg: fmt.Sprintf("unexpected arguments: %s", strings.Join(args, " "))}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Frontend = strings.ToLower(opts.Frontend)
	if !slices.Contains(validFrontends, opts.Frontend) {
		return fmt.Errorf("unsupported frontend: %s. Valid options: %s",
			opts.Frontend, strings.Join(validFrontends, ", "))
	}

	if opts.CPUHz < MinCPUHz || opts.CPUHz > MaxCPUHz {
		return fmt.Errorf("cpu rate %d is outside of the supported range %d-%d", opts.CPUHz, MinCPUHz, MaxCPUHz)
	}
	if opts.Scale < 1 {
		return fmt.Errorf("invalid window scale %d", opts.Scale)
	}
	if opts.Trace {
		opts.Debug = true
	}

	addresses, err := ParseAddresses(opts.Breakpoints)
	if err != nil {
		return err
	}
	opts.BreakpointAddresses = addresses
	return nil
}

// ParseAddresses parses a comma separated list of hex addresses. Addresses
// can have a $ or 0x prefix and must be inside of the memory.
func ParseAddresses(s string) ([]uint16, error) {
	var addresses []uint16
	for field := range strings.SplitSeq(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		digits := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(field), "$"), "0x")
		value, err := strconv.ParseUint(digits, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid breakpoint address '%s': %w", field, err)
		}
		if value >= interpreter.MemorySize {
			return nil, fmt.Errorf("breakpoint address '%s' is outside of the memory", field)
		}
		addresses = append(addresses, uint16(value))
	}
	return addresses, nil
}
