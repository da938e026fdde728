// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrochip8/internal/interpreter"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// InterpreterOptions returns the interpreter options for the program options.
func InterpreterOptions(opts options.Program) []interpreter.Option {
	interpreterOptions := []interpreter.Option{
		interpreter.WithTrace(opts.Trace),
	}
	if opts.Seed != 0 {
		interpreterOptions = append(interpreterOptions, interpreter.WithSeed(opts.Seed))
	}
	return interpreterOptions
}

// DriverConfig returns the driver configuration for the program options.
// Screen, speaker and hooks are set up by the caller.
func DriverConfig(opts options.Program) driver.Config {
	breakpoints := set.New[uint16]()
	for _, address := range opts.BreakpointAddresses {
		breakpoints.Add(address)
	}

	return driver.Config{
		CPUHz:       opts.CPUHz,
		MaxCycles:   opts.MaxCycles,
		Breakpoints: breakpoints,
	}
}
