package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrochip8/internal/audio"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrochip8/internal/frontend/terminal"
	"github.com/retroenv/retrochip8/internal/frontend/window"
	"github.com/retroenv/retrochip8/internal/interpreter"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/script"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sync/errgroup"
)

// IsStop returns whether the error ends the emulation without a failure:
// an exhausted cycle budget, a breakpoint or a halt requested by a script.
func IsStop(err error) bool {
	return errors.Is(err, driver.ErrCycleBudget) ||
		errors.Is(err, driver.ErrBreakpoint) ||
		errors.Is(err, script.ErrScriptHalt)
}

// Run loads the ROM and runs it with the selected frontend until the
// frontend is closed, the context is cancelled or the emulation stops.
func Run(ctx context.Context, logger *log.Logger, opts options.Program) error {
	program, err := loader.New(logger).Load(opts.Input)
	if err != nil {
		return err
	}

	machine := interpreter.New(logger, config.InterpreterOptions(opts)...)
	if err := machine.LoadProgram(program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	PrintInfo(logger, opts, len(program))

	cfg := config.DriverConfig(opts)
	if opts.Script != "" {
		runner, err := script.LoadFile(logger, opts.Script)
		if err != nil {
			return err
		}
		defer runner.Close()
		cfg.Hooks = append(cfg.Hooks, runner)
	}

	if !opts.Mute && opts.Frontend != options.FrontendHeadless {
		speaker, err := audio.New(logger)
		if err != nil {
			logger.Warn("Sound is disabled", log.Err(err))
		} else {
			defer func() { _ = speaker.Close() }()
			cfg.Speaker = speaker
		}
	}

	d, err := driver.New(logger, machine, cfg)
	if err != nil {
		return fmt.Errorf("creating driver: %w", err)
	}

	switch opts.Frontend {
	case options.FrontendTerminal:
		return runTerminal(ctx, logger, d)
	case options.FrontendWindow:
		return runWindow(ctx, logger, d, opts.Scale)
	default:
		return runHeadless(ctx, opts, d, machine, os.Stdout)
	}
}

func runTerminal(ctx context.Context, logger *log.Logger, d *driver.Driver) error {
	term := terminal.New(logger, d.Keys(), d.Resets())
	if err := term.Start(); err != nil {
		return fmt.Errorf("starting terminal frontend: %w", err)
	}
	defer term.Close()

	d.SetScreen(term)
	return d.Run(ctx)
}

// runWindow runs the window on the calling goroutine, as required by the
// graphics backends, and the driver in the background.
func runWindow(ctx context.Context, logger *log.Logger, d *driver.Driver, scale int) error {
	win := window.New(logger, d.Keys(), d.Resets(), scale)
	d.SetScreen(win)
	d.AddHook(win)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer win.Close()
		return d.Run(gctx)
	})

	windowErr := win.Run()
	cancel()
	if err := g.Wait(); err != nil {
		return err
	}
	return windowErr
}

// runHeadless runs without screen and input and prints the final screen.
func runHeadless(ctx context.Context, opts options.Program, d *driver.Driver, machine *interpreter.Interpreter, out io.Writer) error {
	err := d.Run(ctx)
	if !opts.Quiet {
		if screen := machine.Screen(); screen != nil {
			_, _ = fmt.Fprint(out, screen.String())
		}
	}
	return err
}

// Disassemble writes the listing of the ROM to the output file or stdout.
func Disassemble(logger *log.Logger, opts options.Program) error {
	program, err := loader.New(logger).Load(opts.Input)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Error("Closing output file failed", log.Err(err))
			}
		}()
		out = f
	}

	if err := chip8.Disassemble(out, program, interpreter.ProgramStart); err != nil {
		return fmt.Errorf("disassembling: %w", err)
	}

	if opts.Output != "" {
		logger.Info("Listing written", log.String("file", opts.Output))
	}
	return nil
}
