// emulator.go - Emulator snapshot and its accessors

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

(c) 2026 The emudbg Authors
https://github.com/mirage2032/emudbg
License: GPLv3 or later
*/

/*
emulator.go - Emulator

The Emulator exclusively owns the CPU registers, the address space, the
breakpoint set and the execution state. Front-ends, the monitor and Lua
scripts never touch those directly; every mutation goes through a named
operation that validates its input and returns an outcome:

    WriteMem / WriteMemRange        OutOfRange, ReadOnly (nothing written)
    WriteMemHex                     InvalidEncoding
    WriteRegister / WriteRegisterHex unknown register, InvalidEncoding
    Step / ToggleRun / ToggleHalt   ExecutionFailure (stops run-mode)
    ToggleBreakpoint
    LoadProgram                     OutOfRange (nothing written)

A failed edit leaves state unchanged so the caller can redisplay the last
good value. Every successful mutation bumps Generation, which front-ends
poll to decide when to redraw.

Default memory map (16-bit address space):

    $0000-$0FFF  low RAM (or ROM with -lowrom)
    $1000-$CFFF  display, 256x192 bytes, one 3-3-2 pixel per byte
    $D000-$FFFF  RAM
*/

package main

import (
	"fmt"
)

const (
	DEFAULT_LOW_MEMORY_SIZE = 0x1000
	DEFAULT_DISPLAY_WIDTH   = 256
	DEFAULT_DISPLAY_HEIGHT  = 192
	DEFAULT_LISTING_ROWS    = 10
	DEFAULT_EDITOR_WIDTH    = 0x10
	DEFAULT_EDITOR_ROWS     = 10
)

type EmulatorConfig struct {
	CPU                string
	LowMemSize         int
	LowROM             bool
	DisplayWidth       int
	DisplayHeight      int
	Budget             int
	LoadAddr           uint16
	EnforceBreakpoints bool
}

func DefaultEmulatorConfig() EmulatorConfig {
	return EmulatorConfig{
		CPU:                modeZ80,
		LowMemSize:         DEFAULT_LOW_MEMORY_SIZE,
		DisplayWidth:       DEFAULT_DISPLAY_WIDTH,
		DisplayHeight:      DEFAULT_DISPLAY_HEIGHT,
		Budget:             DEFAULT_RUN_CYCLE_BUDGET,
		EnforceBreakpoints: true,
	}
}

// portLatch is the I/O space: OUT stores a byte per port, IN reads it back.
type portLatch struct {
	ports [256]byte
}

func (p *portLatch) In(port uint16) byte         { return p.ports[byte(port)] }
func (p *portLatch) Out(port uint16, value byte) { p.ports[byte(port)] = value }

type Emulator struct {
	cfg EmulatorConfig

	mem     *AddressSpace
	display *DisplayDevice
	io      *portLatch
	cpu     DebuggableCPU
	disasm  *Disassembler
	bps     *BreakpointSet
	ctrl    *ExecutionController
	loop    Scheduler

	anchor  ListingAnchor
	regView *RegisterView

	generation uint64

	errorHooks []func(error)
	breakHooks []func(BreakpointEvent)
}

// buildMemory lays out low memory, the display and trailing RAM.
func buildMemory(cfg EmulatorConfig) (*AddressSpace, *DisplayDevice, error) {
	if cfg.DisplayWidth <= 0 || cfg.DisplayHeight <= 0 {
		return nil, nil, fmt.Errorf("display size %dx%d is empty", cfg.DisplayWidth, cfg.DisplayHeight)
	}
	if cfg.LowMemSize <= 0 {
		return nil, nil, fmt.Errorf("low memory size must be positive")
	}
	used := cfg.LowMemSize + cfg.DisplayWidth*cfg.DisplayHeight
	if used > MAX_MEMORY_SIZE {
		return nil, nil, fmt.Errorf("low memory $%X plus %dx%d display exceeds $%X bytes",
			cfg.LowMemSize, cfg.DisplayWidth, cfg.DisplayHeight, MAX_MEMORY_SIZE)
	}

	var low MemoryDevice = NewRAMDevice(cfg.LowMemSize)
	if cfg.LowROM {
		low = NewROMDevice(cfg.LowMemSize)
	}
	display := NewDisplayDevice(cfg.DisplayWidth, cfg.DisplayHeight)
	devices := []MemoryDevice{low, display}
	if rest := MAX_MEMORY_SIZE - used; rest > 0 {
		devices = append(devices, NewRAMDevice(rest))
	}

	mem, err := NewAddressSpace(MAX_MEMORY_SIZE, devices...)
	if err != nil {
		return nil, nil, err
	}
	return mem, display, nil
}

func NewEmulator(cfg EmulatorConfig, loop Scheduler) (*Emulator, error) {
	mem, display, err := buildMemory(cfg)
	if err != nil {
		return nil, err
	}
	io := &portLatch{}
	cpu, err := createCPU(cfg.CPU, mem, io)
	if err != nil {
		return nil, err
	}

	e := &Emulator{
		cfg:     cfg,
		mem:     mem,
		display: display,
		io:      io,
		cpu:     cpu,
		disasm:  NewDisassembler(cpu, mem),
		bps:     NewBreakpointSet(),
		loop:    loop,
	}
	e.ctrl = NewExecutionController(cpu, mem, e.bps, loop)
	e.ctrl.SetBudget(cfg.Budget)
	e.ctrl.SetEnforceBreakpoints(cfg.EnforceBreakpoints)
	e.ctrl.onChange = e.touch
	e.ctrl.onError = e.reportError
	e.ctrl.onBreak = e.reportBreak
	e.regView = &RegisterView{emu: e}
	cpu.SetPC(cfg.LoadAddr)
	return e, nil
}

func (e *Emulator) touch() { e.generation++ }

// Generation changes whenever anything visible may have changed.
func (e *Emulator) Generation() uint64 { return e.generation }

// OnError registers a hook for step and run failures.
func (e *Emulator) OnError(fn func(error)) { e.errorHooks = append(e.errorHooks, fn) }

// OnBreak registers a hook for breakpoint stops.
func (e *Emulator) OnBreak(fn func(BreakpointEvent)) { e.breakHooks = append(e.breakHooks, fn) }

func (e *Emulator) reportError(err error) {
	for _, fn := range e.errorHooks {
		fn(err)
	}
}

func (e *Emulator) reportBreak(ev BreakpointEvent) {
	for _, fn := range e.breakHooks {
		fn(ev)
	}
}

func (e *Emulator) Config() EmulatorConfig  { return e.cfg }
func (e *Emulator) CPUName() string         { return e.cpu.CPUName() }
func (e *Emulator) Memory() *AddressSpace   { return e.mem }
func (e *Emulator) Display() *DisplayDevice { return e.display }
func (e *Emulator) Scheduler() Scheduler    { return e.loop }

// Memory

func (e *Emulator) MemorySize() int { return e.mem.Size() }

func (e *Emulator) ReadMem(addr uint16) (byte, error) {
	return e.mem.Read8(addr)
}

// ByteText is the two-digit hex form of a byte, or ?? when it cannot be
// read.
func (e *Emulator) ByteText(addr uint16) string {
	v, err := e.mem.Read8(addr)
	if err != nil {
		return "??"
	}
	return fmt.Sprintf("%02X", v)
}

func (e *Emulator) WriteMem(addr uint16, value byte) error {
	if err := e.mem.Write8(addr, value); err != nil {
		return err
	}
	e.touch()
	return nil
}

// WriteMemRange writes data from addr as a single edit. On error nothing
// was written.
func (e *Emulator) WriteMemRange(addr uint16, data []byte) error {
	if err := e.mem.WriteRange(addr, data); err != nil {
		return err
	}
	e.touch()
	return nil
}

func (e *Emulator) WriteMemHex(addr uint16, text string) error {
	v, err := parseHexInput(text, 8)
	if err != nil {
		return err
	}
	return e.WriteMem(addr, byte(v))
}

func (e *Emulator) ReadRange(addr uint16, n int) ([]byte, error) {
	return e.mem.ReadRange(addr, n)
}

// Registers

func (e *Emulator) Registers() []RegisterInfo { return e.cpu.GetRegisters() }

func (e *Emulator) Register(name string) (uint64, error) {
	v, ok := e.cpu.GetRegister(name)
	if !ok {
		return 0, &RegisterError{Name: name, Err: ErrUnknownRegister}
	}
	return v, nil
}

// RegisterWidth is the width in bits of a named register.
func (e *Emulator) RegisterWidth(name string) (int, error) {
	w, ok := e.cpu.RegisterWidth(name)
	if !ok {
		return 0, &RegisterError{Name: name, Err: ErrUnknownRegister}
	}
	return w, nil
}

// WriteRegister rejects unknown names and values wider than the register.
func (e *Emulator) WriteRegister(name string, value uint64) error {
	w, err := e.RegisterWidth(name)
	if err != nil {
		return err
	}
	if value>>w != 0 {
		return &RegisterError{Name: name, Err: fmt.Errorf("$%X does not fit %d bits: %w", value, w, ErrInvalidEncoding)}
	}
	if !e.cpu.SetRegister(name, value) {
		return &RegisterError{Name: name, Err: ErrUnknownRegister}
	}
	e.touch()
	return nil
}

func (e *Emulator) WriteRegisterHex(name, text string) error {
	w, err := e.RegisterWidth(name)
	if err != nil {
		return err
	}
	v, err := parseHexInput(text, w)
	if err != nil {
		return &RegisterError{Name: name, Err: err}
	}
	return e.WriteRegister(name, v)
}

func (e *Emulator) PC() uint16 { return e.cpu.GetPC() }

func (e *Emulator) Cycles() uint64 { return e.cpu.Cycles() }

func (e *Emulator) RegisterView() *RegisterView { return e.regView }

// SwapRegisterView pages the register view between the main and alternate
// sets without touching the CPU.
func (e *Emulator) SwapRegisterView() {
	e.regView.SwapView()
}

// SwapRegisterBanks exchanges the CPU's main and alternate register sets.
func (e *Emulator) SwapRegisterBanks() {
	e.regView.SwapContent()
}

// Breakpoints

func (e *Emulator) ToggleBreakpoint(addr uint16) bool {
	on := e.bps.Toggle(addr)
	e.touch()
	return on
}

// SetBreakpoint arms addr. A non-nil cond replaces the condition and
// resets the hit count; nil leaves an existing breakpoint as it is.
func (e *Emulator) SetBreakpoint(addr uint16, cond *BreakpointCondition) {
	if cond != nil {
		e.bps.SetCondition(addr, cond)
	} else {
		e.bps.Set(addr)
	}
	e.touch()
}

func (e *Emulator) ClearBreakpoint(addr uint16) bool {
	ok := e.bps.Remove(addr)
	e.touch()
	return ok
}

func (e *Emulator) ClearBreakpoints() {
	e.bps.Clear()
	e.touch()
}

func (e *Emulator) HasBreakpoint(addr uint16) bool { return e.bps.Contains(addr) }

func (e *Emulator) Breakpoints() *BreakpointSet { return e.bps }

// Execution

func (e *Emulator) Step() error { return e.ctrl.Step() }
func (e *Emulator) ToggleRun()  { e.ctrl.ToggleRun() }
func (e *Emulator) ToggleHalt() { e.ctrl.ToggleHalt() }
func (e *Emulator) StopRun()    { e.ctrl.StopRun() }

func (e *Emulator) Running() bool          { return e.ctrl.Running() }
func (e *Emulator) Halted() bool           { return e.ctrl.Halted() }
func (e *Emulator) State() ControllerState { return e.ctrl.State() }
func (e *Emulator) LastError() error       { return e.ctrl.LastError() }

func (e *Emulator) Controller() *ExecutionController { return e.ctrl }

// LoadProgram copies data into memory at the configured load address.
func (e *Emulator) LoadProgram(data []byte) error {
	return e.LoadProgramAt(e.cfg.LoadAddr, data)
}

// LoadProgramAt fails with OutOfRange, writing nothing, when data does not
// fit between origin and the end of memory. ROM is filled too.
func (e *Emulator) LoadProgramAt(origin uint16, data []byte) error {
	if err := e.mem.Load(origin, data); err != nil {
		return err
	}
	e.touch()
	return nil
}

// Reset stops run-mode and resets the CPU. Memory and breakpoints are kept.
func (e *Emulator) Reset() {
	e.ctrl.StopRun()
	e.cpu.Reset()
	e.cpu.SetPC(e.cfg.LoadAddr)
	e.touch()
}

// ClearMemory zeroes RAM and the display. ROM keeps its contents.
func (e *Emulator) ClearMemory() {
	e.mem.Reset()
	e.touch()
}

// Listing

func (e *Emulator) Disassembler() *Disassembler { return e.disasm }

// ListingStart is where the listing currently begins.
func (e *Emulator) ListingStart() uint16 { return e.anchor.Start(e.cpu.GetPC()) }

func (e *Emulator) Listing(rows int) []ListingEntry {
	return e.disasm.Listing(e.ListingStart(), rows)
}

func (e *Emulator) ToggleFollowPC() {
	e.anchor.Toggle(e.cpu.GetPC())
	e.touch()
}

// FollowingPC is true while the listing tracks the live PC.
func (e *Emulator) FollowingPC() bool { return !e.anchor.Pinned() }

func (e *Emulator) SetListingStartHex(text string) error {
	if err := e.anchor.SetHex(text); err != nil {
		return err
	}
	e.touch()
	return nil
}

// Display

// Frame paints the display into dst (RGBA, DisplayDevice.RGBASize bytes).
func (e *Emulator) Frame(dst []byte) { e.display.Redraw(dst) }

// EmulatorSnapshot is a read-only copy of the observable state.
type EmulatorSnapshot struct {
	CPU         string
	PC          uint16
	Cycles      uint64
	Halted      bool
	State       string
	FollowPC    bool
	ListingAt   uint16
	Registers   []RegisterInfo
	Breakpoints []Breakpoint
	Regions     []MemoryRegion
	Generation  uint64
}

func (e *Emulator) Snapshot() EmulatorSnapshot {
	return EmulatorSnapshot{
		CPU:         e.cpu.CPUName(),
		PC:          e.cpu.GetPC(),
		Cycles:      e.cpu.Cycles(),
		Halted:      e.cpu.Halted(),
		State:       e.ctrl.State().String(),
		FollowPC:    e.FollowingPC(),
		ListingAt:   e.ListingStart(),
		Registers:   e.cpu.GetRegisters(),
		Breakpoints: e.bps.List(),
		Regions:     e.mem.Regions(),
		Generation:  e.generation,
	}
}
