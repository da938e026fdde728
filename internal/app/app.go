// Package app provides the main application helpers for the emulator.
package app

import (
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// PrintBanner prints the program name and version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("retrochip8", log.String("version", buildinfo.Version(version, commit, date)))
}

// PrintInfo prints the information about the loaded ROM and the emulation settings.
func PrintInfo(logger *log.Logger, opts options.Program, programSize int) {
	if opts.Quiet {
		return
	}

	logger.Info("Running CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", programSize),
		log.String("frontend", opts.Frontend),
		log.Int("cpu_hz", opts.CPUHz),
	)
	if opts.MaxCycles > 0 {
		logger.Info("Cycle budget set", log.Int("cycles", int(opts.MaxCycles)))
	}
	for _, address := range opts.BreakpointAddresses {
		logger.Debug("Breakpoint set", log.Hex("address", address))
	}
}
