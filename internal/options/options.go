// Package options contains the program options.
package options

// Frontend names.
const (
	FrontendTerminal = "terminal"
	FrontendWindow   = "window"
	FrontendHeadless = "headless"
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"name of the input ROM file"`
	Script string `flag:"script" usage:"Lua script file that is run every frame"`
	Output string `flag:"o" usage:"name of the output listing file for -disasm, printed on console if no name given"`
}

// Positional contains the positional arguments.
type Positional struct {
	File string `arg:"positional" usage:"ROM file to run, alternative to -i"`
}

// Flags contains behavior options.
type Flags struct {
	Frontend string `flag:"f" usage:"frontend to use (terminal/window/headless)" default:"window"`
	Disasm   bool   `flag:"disasm" usage:"print a listing of the ROM instead of running it"`
	Trace    bool   `flag:"trace" usage:"log every executed instruction, implies -debug"`
	Mute     bool   `flag:"mute" usage:"disable sound output"`
	Debug    bool   `flag:"debug" usage:"enable debugging options for extended logging"`
	Quiet    bool   `flag:"q" usage:"perform operations quietly"`
}

// Emulation contains the machine settings.
type Emulation struct {
	CPUHz       int    `flag:"hz" usage:"number of instructions executed per second" default:"700"`
	Scale       int    `flag:"scale" usage:"pixel scale of the window frontend" default:"10"`
	MaxCycles   uint64 `flag:"cycles" usage:"stop after executing this many instructions, 0 for no limit"`
	Seed        uint64 `flag:"seed" usage:"seed of the random number generator, 0 for a random seed"`
	Breakpoints string `flag:"break" usage:"comma separated hex breakpoint addresses, for example 200,2A4"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	Emulation

	BreakpointAddresses []uint16 // parsed from Breakpoints
}
