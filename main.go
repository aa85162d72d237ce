// main.go - Main entry point for the live Z80/8080 debugger

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
(c) 2026 The emudbg Authors
https://github.com/mirage2032/emudbg
License: GPLv3 or later
*/

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147memudbg\033[0m \033[38;2;255;140;147m- live Z80 / 8080 debugger\033[0m")
	fmt.Println("F5 run  F6 step  F7 halt  F8 follow PC  F9 breakpoint  ` monitor")
	fmt.Println("License: GPLv3 or later")
}

type options struct {
	cfg      EmulatorConfig
	display  DisplayConfig
	frontend int
	script   string
	program  string
}

// parseNumber accepts everything the monitor accepts ($hex, 0xhex, bare
// hex, #decimal) and checks the upper bound.
func parseNumber(name, value string, limit uint64) (uint64, error) {
	v, ok := ParseAddress(value)
	if !ok {
		return 0, fmt.Errorf("invalid -%s: %q", name, value)
	}
	if v > limit {
		return 0, fmt.Errorf("invalid -%s: $%X is above $%X", name, v, limit)
	}
	return v, nil
}

func parseFlags(args []string) (options, error) {
	opts := options{cfg: DefaultEmulatorConfig()}
	var (
		cpuName   string
		lowMem    string
		loadAddr  string
		tui       bool
		monitor   bool
		noEnforce bool
	)

	flagSet := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&cpuName, "cpu", "", "CPU core: z80 or i8080 (default from file extension, else z80)")
	flagSet.StringVar(&lowMem, "lowmem", "$1000", "Size of the low memory block in front of the display")
	flagSet.BoolVar(&opts.cfg.LowROM, "lowrom", false, "Make the low memory block read-only")
	flagSet.IntVar(&opts.cfg.DisplayWidth, "width", DEFAULT_DISPLAY_WIDTH, "Display width in pixels")
	flagSet.IntVar(&opts.cfg.DisplayHeight, "height", DEFAULT_DISPLAY_HEIGHT, "Display height in pixels")
	flagSet.IntVar(&opts.display.Scale, "scale", DEFAULT_DISPLAY_SCALE, "Window scale factor (1-4)")
	flagSet.IntVar(&opts.cfg.Budget, "budget", DEFAULT_RUN_CYCLE_BUDGET, "Cycles per run-mode tick")
	flagSet.StringVar(&loadAddr, "load-addr", "$0000", "Program load address and initial PC")
	flagSet.BoolVar(&tui, "tui", false, "Full-screen terminal debugger")
	flagSet.BoolVar(&monitor, "monitor", false, "Line-mode monitor on the terminal")
	flagSet.StringVar(&opts.script, "script", "", "Run a Lua script against the loaded program and exit")
	flagSet.BoolVar(&noEnforce, "no-enforce-bp", false, "Do not stop run-mode at breakpoints")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./emudbg [-cpu z80|i8080] [-tui|-monitor|-script file.lua] [--load-addr $0100] program.bin")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.Usage()
		}
		return opts, err
	}
	opts.program = flagSet.Arg(0)

	if tui && monitor {
		return opts, fmt.Errorf("select at most one of -tui and -monitor")
	}
	switch {
	case tui:
		opts.frontend = FRONTEND_TUI
	case monitor:
		opts.frontend = FRONTEND_MONITOR
	default:
		opts.frontend = FRONTEND_WINDOW
	}

	switch {
	case cpuName != "":
		mode, err := normalizeMode(cpuName)
		if err != nil {
			return opts, err
		}
		opts.cfg.CPU = mode
	case opts.program != "":
		if mode, err := modeFromExtension(opts.program); err == nil {
			opts.cfg.CPU = mode
		}
	}

	v, err := parseNumber("lowmem", lowMem, MAX_MEMORY_SIZE)
	if err != nil {
		return opts, err
	}
	opts.cfg.LowMemSize = int(v)
	if v, err = parseNumber("load-addr", loadAddr, 0xFFFF); err != nil {
		return opts, err
	}
	opts.cfg.LoadAddr = uint16(v)
	opts.cfg.EnforceBreakpoints = !noEnforce
	if opts.cfg.Budget <= 0 {
		return opts, fmt.Errorf("invalid -budget: %d", opts.cfg.Budget)
	}
	opts.display.Scale = ClampScale(opts.display.Scale)
	opts.display.RefreshRate = DEFAULT_REFRESH_RATE
	return opts, nil
}

// runScript loads the program, runs the Lua file with the monitor printing
// to out, and drains the event loop.
func runScript(opts options, loop *EventLoop, emu *Emulator, mon *MachineMonitor, out io.Writer) error {
	mon.SetSink(func(l OutputLine) { fmt.Fprintln(out, l.Text) })
	defer mon.SetSink(nil)

	if opts.program != "" {
		if err := loadNow(opts.program, loop, emu); err != nil {
			return err
		}
	}
	engine := mon.ScriptEngine()
	defer engine.Close()
	if err := engine.RunFile(opts.script); err != nil {
		return err
	}
	emu.StopRun()
	// Run whatever the script left posted.
	for !loop.Idle() && loop.RunPending() > 0 {
	}
	return nil
}

// loadNow loads a program and pumps the loop until the load has landed.
func loadNow(path string, loop *EventLoop, emu *Emulator) error {
	done := make(chan error, 1)
	LoadProgramFile(path, loop, emu, func(err error) { done <- err })
	for {
		select {
		case err := <-done:
			return err
		case <-loop.Wake():
			loop.RunPending()
		}
	}
}

func run(opts options) error {
	loop := NewEventLoop()
	emu, err := NewEmulator(opts.cfg, loop)
	if err != nil {
		return err
	}
	mon := NewMachineMonitor(emu)

	if opts.script != "" {
		return runScript(opts, loop, emu, mon, os.Stdout)
	}

	if opts.frontend != FRONTEND_WINDOW {
		emu.Controller().SetTickInterval(tickInterval)
	}
	if opts.program != "" {
		path := opts.program
		LoadProgramFile(path, loop, emu, func(err error) {
			if err != nil {
				mon.appendOutput(fmt.Sprintf("Error: %v", err), colorRed)
				return
			}
			mon.appendOutput(fmt.Sprintf("Loaded %s at $%04X", path, emu.Config().LoadAddr), colorCyan)
		})
	}

	fe, err := NewFrontend(opts.frontend, FrontendDeps{
		Emu:     emu,
		Monitor: mon,
		Loop:    loop,
		Display: opts.display,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return fe.Run(ctx)
}

func main() {
	opts, err := parseFlags(os.Args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if opts.script == "" && opts.frontend == FRONTEND_WINDOW {
		boilerPlate()
	}

	if err := run(opts); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
