// debug_commands.go - Monitor command parser and handlers

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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// MonitorCommand is a parsed command with name and arguments.
type MonitorCommand struct {
	Name string
	Args []string
}

// ParseCommand splits a raw input line into a command name and arguments.
func ParseCommand(input string) MonitorCommand {
	input = strings.TrimSpace(input)
	if input == "" {
		return MonitorCommand{}
	}
	parts := strings.Fields(input)
	return MonitorCommand{
		Name: strings.ToLower(parts[0]),
		Args: parts[1:],
	}
}

// ParseAddress parses a monitor number in various formats:
// $hex, 0xhex, bare hex, #decimal
func ParseAddress(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// #decimal
	if strings.HasPrefix(s, "#") {
		v, err := strconv.ParseUint(s[1:], 10, 64)
		return v, err == nil
	}

	// $hex
	if strings.HasPrefix(s, "$") {
		v, err := strconv.ParseUint(s[1:], 16, 64)
		return v, err == nil
	}

	// 0x or 0X hex
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		return v, err == nil
	}

	v, err := strconv.ParseUint(s, 16, 64)
	return v, err == nil
}

// EvalAddress evaluates a simple expression: <term> [+|- <term>]*
// Each term is either a register name or a number. Register names win over
// bare hex, so "BC" is the register and "$BC" the number.
func EvalAddress(expr string, emu *Emulator) (uint64, bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, false
	}

	type token struct {
		text string
		op   byte // 0 for first term, '+' or '-'
	}

	var tokens []token
	current := strings.Builder{}
	currentOp := byte(0)

	for i := 0; i < len(expr); i++ {
		ch := expr[i]
		if (ch == '+' || ch == '-') && i > 0 {
			t := strings.TrimSpace(current.String())
			if t != "" {
				tokens = append(tokens, token{text: t, op: currentOp})
			}
			currentOp = ch
			current.Reset()
		} else {
			current.WriteByte(ch)
		}
	}
	t := strings.TrimSpace(current.String())
	if t != "" {
		tokens = append(tokens, token{text: t, op: currentOp})
	}

	if len(tokens) == 0 {
		return 0, false
	}

	var result uint64
	for _, tok := range tokens {
		var val uint64
		ok := false

		if emu != nil {
			if v, err := emu.Register(tok.text); err == nil {
				val, ok = v, true
			}
		}
		if !ok {
			val, ok = ParseAddress(tok.text)
		}
		if !ok {
			return 0, false
		}

		switch tok.op {
		case 0, '+':
			result += val
		case '-':
			result -= val
		}
	}

	return result, true
}

// evalAddr16 is EvalAddress for operands that must fit the address bus.
// Results wrap modulo 64K like the CPU's own address arithmetic.
func (m *MachineMonitor) evalAddr16(arg string) (uint16, bool) {
	v, ok := EvalAddress(arg, m.emu)
	if !ok {
		m.appendOutput(fmt.Sprintf("Invalid address: %s", arg), colorRed)
		return 0, false
	}
	return uint16(v), true
}

// ExecuteCommand dispatches a parsed command to the appropriate handler.
// Returns true if the monitor should exit.
func (m *MachineMonitor) ExecuteCommand(input string) bool {
	cmd := ParseCommand(input)
	if cmd.Name == "" {
		return false
	}

	if len(m.history) == 0 || m.history[len(m.history)-1] != input {
		m.history = append(m.history, input)
	}
	m.historyIdx = len(m.history)

	switch cmd.Name {
	case "r":
		return m.cmdRegisters(cmd)
	case "d":
		return m.cmdDisassemble(cmd)
	case "m":
		return m.cmdMemoryDump(cmd)
	case "w":
		return m.cmdWrite(cmd)
	case "s":
		return m.cmdStep(cmd)
	case "g":
		return m.cmdGo(cmd)
	case "h":
		return m.cmdHalt(cmd)
	case "x":
		return true
	case "b":
		return m.cmdBreakpointSet(cmd)
	case "bc":
		return m.cmdBreakpointClear(cmd)
	case "bl":
		return m.cmdBreakpointList(cmd)
	case "bp":
		return m.cmdBreakpointCondition(cmd)
	case "f":
		return m.cmdFollow(cmd)
	case "load":
		return m.cmdLoad(cmd)
	case "reset":
		return m.cmdReset(cmd)
	case "swap":
		return m.cmdSwapView(cmd)
	case "exx":
		return m.cmdExchange(cmd)
	case "bt":
		return m.cmdBacktrace(cmd)
	case "map":
		return m.cmdMap(cmd)
	case "dump":
		return m.cmdDump(cmd)
	case "budget":
		return m.cmdBudget(cmd)
	case "script":
		return m.cmdScript(cmd)
	case "cls":
		m.ClearOutput()
		return false
	case "?", "help":
		return m.cmdHelp(cmd)
	default:
		m.appendOutput(fmt.Sprintf("Unknown command: %s", cmd.Name), colorRed)
		return false
	}
}

func (m *MachineMonitor) cmdRegisters(cmd MonitorCommand) bool {
	if len(cmd.Args) >= 2 {
		// Set register: r <name> <value>
		name := strings.ToUpper(cmd.Args[0])
		val, ok := ParseAddress(cmd.Args[1])
		if !ok {
			m.appendOutput(fmt.Sprintf("Invalid value: %s", cmd.Args[1]), colorRed)
			return false
		}
		shown, err := m.emu.RegisterView().Commit(name, fmt.Sprintf("%X", val))
		if err != nil {
			m.appendOutput(fmt.Sprintf("Error: %v", err), colorRed)
			if shown != "??" {
				m.appendOutput(fmt.Sprintf("%s kept $%s", name, shown), colorDim)
			}
			return false
		}
		m.appendOutput(fmt.Sprintf("%s = $%s", name, shown), colorGreen)
		return false
	}
	if len(cmd.Args) == 1 {
		m.appendOutput("Usage: r [<name> <value>]", colorRed)
		return false
	}

	m.showRegisters()
	return false
}

func (m *MachineMonitor) showRegisters() {
	regs := m.emu.Registers()
	var line strings.Builder
	color := uint32(colorWhite)
	group := ""
	flush := func() {
		if line.Len() > 0 {
			m.appendOutput(line.String(), color)
			line.Reset()
			color = colorWhite
		}
	}
	for _, r := range regs {
		if r.Group != group {
			flush()
			group = r.Group
		}
		if line.Len() > 0 {
			line.WriteString("  ")
		}
		fmt.Fprintf(&line, "%-3s $%0*X", r.Name, r.BitWidth/4, r.Value)
		if prev, ok := m.prevRegs[r.Name]; ok && prev != r.Value {
			color = colorGreen
		}
	}
	flush()

	state := m.emu.State().String()
	if m.emu.Halted() {
		state += " HALTED"
	}
	m.appendOutput(fmt.Sprintf("%s  cycles:%d", state, m.emu.Cycles()), colorDim)
}

func (m *MachineMonitor) cmdDisassemble(cmd MonitorCommand) bool {
	addr := m.emu.ListingStart()
	count := 16

	if len(cmd.Args) >= 1 {
		v, ok := m.evalAddr16(cmd.Args[0])
		if !ok {
			return false
		}
		addr = v
	}
	if len(cmd.Args) >= 2 {
		if v, ok := ParseAddress(cmd.Args[1]); ok && v > 0 {
			count = int(min(v, 256))
		}
	}

	m.showDisassemblyAt(addr, count)
	return false
}

func (m *MachineMonitor) showDisassemblyAt(addr uint16, count int) {
	pc := m.emu.PC()
	for _, entry := range m.emu.Disassembler().Listing(addr, count) {
		color := uint32(colorWhite)
		prefix := "  "
		if entry.Address == pc {
			color = colorYellow
			prefix = "> "
		}
		if m.emu.HasBreakpoint(entry.Address) {
			prefix = "* "
			if entry.Address != pc {
				color = colorRed
			}
		}
		if entry.Err != nil && color == colorWhite {
			color = colorDim
		}
		m.appendOutput(fmt.Sprintf("%s%04X: %-24s %s", prefix, entry.Address, entry.HexText(), entry.MnemonicText()), color)
	}
}

func (m *MachineMonitor) cmdMemoryDump(cmd MonitorCommand) bool {
	addr := m.emu.PC()
	lines := 8

	if len(cmd.Args) >= 1 {
		v, ok := m.evalAddr16(cmd.Args[0])
		if !ok {
			return false
		}
		addr = v
		// The memory panel follows an explicit address.
		m.editor.SetStart(addr)
	}
	if len(cmd.Args) >= 2 {
		if v, ok := ParseAddress(cmd.Args[1]); ok && v > 0 {
			lines = int(min(v, 256))
		}
	}

	size := m.emu.MemorySize()
	for range lines {
		if int(addr) >= size {
			break
		}
		var hexParts []string
		var ascii []byte
		for j := range 16 {
			a := int(addr) + j
			if a >= size {
				hexParts = append(hexParts, "  ")
				ascii = append(ascii, ' ')
				continue
			}
			v, err := m.emu.ReadMem(uint16(a))
			switch {
			case err != nil:
				hexParts = append(hexParts, "??")
				ascii = append(ascii, '.')
			case v >= 0x20 && v < 0x7F:
				hexParts = append(hexParts, fmt.Sprintf("%02X", v))
				ascii = append(ascii, v)
			default:
				hexParts = append(hexParts, fmt.Sprintf("%02X", v))
				ascii = append(ascii, '.')
			}
		}

		hexStr := strings.Join(hexParts[:8], " ") + "  " + strings.Join(hexParts[8:], " ")
		m.appendOutput(fmt.Sprintf("%04X: %s  %s", addr, hexStr, string(ascii)), colorWhite)
		if int(addr)+16 > 0xFFFF {
			break
		}
		addr += 16
	}
	return false
}

func (m *MachineMonitor) cmdWrite(cmd MonitorCommand) bool {
	if len(cmd.Args) < 2 {
		m.appendOutput("Usage: w <addr> <bytes..>", colorRed)
		return false
	}

	addr, ok := m.evalAddr16(cmd.Args[0])
	if !ok {
		return false
	}

	var data []byte
	for _, arg := range cmd.Args[1:] {
		v, ok := ParseAddress(arg)
		if !ok || v > 0xFF {
			m.appendOutput(fmt.Sprintf("Invalid byte: %s", arg), colorRed)
			return false
		}
		data = append(data, byte(v))
	}

	if err := m.emu.WriteMemRange(addr, data); err != nil {
		m.appendOutput(fmt.Sprintf("Error: %v", err), colorRed)
		m.appendOutput("Nothing written", colorDim)
		return false
	}
	m.appendOutput(fmt.Sprintf("Wrote %d byte(s) at $%04X", len(data), addr), colorCyan)
	return false
}

func (m *MachineMonitor) cmdStep(cmd MonitorCommand) bool {
	count := 1
	if len(cmd.Args) >= 1 {
		v, ok := ParseAddress(cmd.Args[0])
		if !ok || v == 0 {
			m.appendOutput(fmt.Sprintf("Invalid count: %s", cmd.Args[0]), colorRed)
			return false
		}
		count = int(min(v, 1<<20))
	}

	startCycles := m.emu.Cycles()
	done := 0
	for range count {
		if err := m.emu.Step(); err != nil {
			// the error hook already reported it
			break
		}
		done++
	}

	m.appendOutput(fmt.Sprintf("Step: %d instruction(s), %d cycle(s)", done, m.emu.Cycles()-startCycles), colorCyan)

	for _, r := range m.emu.Registers() {
		if prev, ok := m.prevRegs[r.Name]; ok && prev != r.Value {
			m.appendOutput(fmt.Sprintf("  %s: $%X -> $%X", r.Name, prev, r.Value), colorGreen)
		}
	}
	m.saveCurrentRegs()

	m.showDisassemblyAt(m.emu.PC(), 1)
	return false
}

func (m *MachineMonitor) cmdGo(cmd MonitorCommand) bool {
	if len(cmd.Args) >= 1 && !m.emu.Running() {
		addr, ok := m.evalAddr16(cmd.Args[0])
		if !ok {
			return false
		}
		if err := m.emu.WriteRegister("PC", uint64(addr)); err != nil {
			m.appendOutput(fmt.Sprintf("Error: %v", err), colorRed)
			return false
		}
	}
	m.emu.ToggleRun()
	if m.emu.Running() {
		m.appendOutput(fmt.Sprintf("Running from $%04X", m.emu.PC()), colorCyan)
	} else {
		m.appendOutput(fmt.Sprintf("Stopped at $%04X", m.emu.PC()), colorCyan)
		m.saveCurrentRegs()
	}
	return false
}

func (m *MachineMonitor) cmdHalt(_ MonitorCommand) bool {
	m.emu.ToggleHalt()
	if m.emu.Halted() {
		m.appendOutput("CPU halted", colorCyan)
	} else {
		m.appendOutput("CPU released", colorCyan)
	}
	return false
}

func (m *MachineMonitor) cmdBreakpointSet(cmd MonitorCommand) bool {
	if len(cmd.Args) < 1 {
		m.appendOutput("Usage: b <addr> [condition]", colorRed)
		return false
	}

	addr, ok := m.evalAddr16(cmd.Args[0])
	if !ok {
		return false
	}

	if len(cmd.Args) >= 2 {
		cond, err := ParseCondition(strings.Join(cmd.Args[1:], " "))
		if err != nil {
			m.appendOutput(fmt.Sprintf("Invalid condition: %s", err), colorRed)
			return false
		}
		m.emu.SetBreakpoint(addr, cond)
		m.appendOutput(fmt.Sprintf("Breakpoint set at $%04X if %s", addr, FormatCondition(cond)), colorCyan)
		return false
	}
	m.emu.SetBreakpoint(addr, nil)
	m.appendOutput(fmt.Sprintf("Breakpoint set at $%04X", addr), colorCyan)
	return false
}

func (m *MachineMonitor) cmdBreakpointCondition(cmd MonitorCommand) bool {
	if len(cmd.Args) < 2 {
		m.appendOutput("Usage: bp <addr> <condition>", colorRed)
		return false
	}
	return m.cmdBreakpointSet(cmd)
}

func (m *MachineMonitor) cmdBreakpointClear(cmd MonitorCommand) bool {
	if len(cmd.Args) < 1 {
		m.appendOutput("Usage: bc <addr> | bc *", colorRed)
		return false
	}

	if cmd.Args[0] == "*" {
		m.emu.ClearBreakpoints()
		m.appendOutput("All breakpoints cleared", colorCyan)
		return false
	}

	addr, ok := m.evalAddr16(cmd.Args[0])
	if !ok {
		return false
	}
	if m.emu.ClearBreakpoint(addr) {
		m.appendOutput(fmt.Sprintf("Breakpoint cleared at $%04X", addr), colorCyan)
	} else {
		m.appendOutput(fmt.Sprintf("No breakpoint at $%04X", addr), colorRed)
	}
	return false
}

func (m *MachineMonitor) cmdBreakpointList(_ MonitorCommand) bool {
	bps := m.emu.Breakpoints().List()
	if len(bps) == 0 {
		m.appendOutput("No breakpoints", colorDim)
		return false
	}
	for _, bp := range bps {
		condStr := ""
		if bp.Condition != nil {
			condStr = " if " + FormatCondition(bp.Condition)
		}
		hitStr := ""
		if bp.Hits > 0 {
			hitStr = fmt.Sprintf(" (hits:%d)", bp.Hits)
		}
		m.appendOutput(fmt.Sprintf("$%04X%s%s", bp.Address, condStr, hitStr), colorCyan)
	}
	return false
}

// cmdFollow toggles whether the listing tracks PC, or pins it at an
// address.
func (m *MachineMonitor) cmdFollow(cmd MonitorCommand) bool {
	if len(cmd.Args) == 0 {
		m.emu.ToggleFollowPC()
		if m.emu.FollowingPC() {
			m.appendOutput("Listing follows PC", colorCyan)
		} else {
			m.appendOutput(fmt.Sprintf("Listing pinned at $%04X", m.emu.ListingStart()), colorCyan)
		}
		return false
	}

	addr, ok := m.evalAddr16(cmd.Args[0])
	if !ok {
		return false
	}
	if m.emu.FollowingPC() {
		m.emu.ToggleFollowPC()
	}
	if err := m.emu.SetListingStartHex(fmt.Sprintf("%04X", addr)); err != nil {
		m.appendOutput(fmt.Sprintf("Error: %v", err), colorRed)
		return false
	}
	m.appendOutput(fmt.Sprintf("Listing pinned at $%04X", addr), colorCyan)
	return false
}

func (m *MachineMonitor) cmdLoad(cmd MonitorCommand) bool {
	if len(cmd.Args) < 1 {
		m.appendOutput("Usage: load <file> [addr]", colorRed)
		return false
	}
	path := cmd.Args[0]
	origin := m.emu.Config().LoadAddr
	if len(cmd.Args) >= 2 {
		v, ok := m.evalAddr16(cmd.Args[1])
		if !ok {
			return false
		}
		origin = v
	}

	m.appendOutput(fmt.Sprintf("Loading %s at $%04X", path, origin), colorDim)
	LoadProgramFileAt(path, origin, m.emu.Scheduler(), m.emu, func(err error) {
		if err != nil {
			m.appendOutput(fmt.Sprintf("Error: %v", err), colorRed)
			return
		}
		m.appendOutput(fmt.Sprintf("Loaded %s at $%04X", filepath.Base(path), origin), colorGreen)
	})
	return false
}

func (m *MachineMonitor) cmdReset(cmd MonitorCommand) bool {
	if len(cmd.Args) > 0 && strings.EqualFold(cmd.Args[0], "mem") {
		m.emu.ClearMemory()
		m.appendOutput("Memory cleared", colorCyan)
	}
	m.emu.Reset()
	m.saveCurrentRegs()
	m.appendOutput(fmt.Sprintf("Reset, PC=$%04X", m.emu.PC()), colorCyan)
	return false
}

func (m *MachineMonitor) cmdSwapView(_ MonitorCommand) bool {
	m.emu.SwapRegisterView()
	m.appendOutput(fmt.Sprintf("Register view: %s", m.emu.RegisterView().VisibleGroup()), colorCyan)
	return false
}

func (m *MachineMonitor) cmdExchange(_ MonitorCommand) bool {
	if m.emu.cpu.RegisterBanks() < 2 {
		m.appendOutput(fmt.Sprintf("%s has no alternate register set", m.emu.CPUName()), colorRed)
		return false
	}
	m.emu.SwapRegisterBanks()
	m.appendOutput("Register sets exchanged", colorCyan)
	m.showRegisters()
	m.saveCurrentRegs()
	return false
}

func (m *MachineMonitor) cmdBacktrace(cmd MonitorCommand) bool {
	depth := 16
	if len(cmd.Args) >= 1 {
		if v, ok := ParseAddress(cmd.Args[0]); ok && v > 0 {
			depth = int(min(v, 256))
		}
	}

	addrs := backtrace(m.emu, depth)
	if len(addrs) == 0 {
		m.appendOutput("No stack frames found", colorDim)
		return false
	}

	for i, addr := range addrs {
		m.appendOutput(fmt.Sprintf("#%-3d $%04X", i, addr), colorCyan)
	}
	return false
}

func (m *MachineMonitor) cmdMap(_ MonitorCommand) bool {
	for _, r := range m.emu.Memory().Regions() {
		m.appendOutput(fmt.Sprintf("$%04X-$%04X  %-8s %6d bytes", r.Start, r.End-1, r.Device, r.End-r.Start), colorCyan)
	}
	return false
}

func (m *MachineMonitor) cmdDump(_ MonitorCommand) bool {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	for line := range strings.SplitSeq(strings.TrimRight(cfg.Sdump(m.emu.Snapshot()), "\n"), "\n") {
		m.appendOutput(line, colorWhite)
	}
	return false
}

func (m *MachineMonitor) cmdBudget(cmd MonitorCommand) bool {
	ctrl := m.emu.Controller()
	if len(cmd.Args) >= 1 {
		v, ok := ParseAddress(cmd.Args[0])
		if !ok || v == 0 || v > 1<<30 {
			m.appendOutput(fmt.Sprintf("Invalid budget: %s", cmd.Args[0]), colorRed)
			return false
		}
		ctrl.SetBudget(int(v))
	}
	m.appendOutput(fmt.Sprintf("Run budget: %d cycles per tick", ctrl.Budget()), colorCyan)
	return false
}

// cmdScript runs a Lua file, or a plain file of monitor commands one per
// line with # comments.
func (m *MachineMonitor) cmdScript(cmd MonitorCommand) bool {
	if len(cmd.Args) < 1 {
		m.appendOutput("Usage: script <filename>", colorRed)
		return false
	}
	path := cmd.Args[0]

	m.scriptDepth++
	defer func() { m.scriptDepth-- }()
	if m.scriptDepth > monitorScriptDepth {
		m.appendOutput("Script recursion limit reached", colorRed)
		return false
	}

	if strings.EqualFold(filepath.Ext(path), ".lua") {
		if err := m.ScriptEngine().RunFile(path); err != nil {
			m.appendOutput(fmt.Sprintf("Error: %v", err), colorRed)
		}
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		m.appendOutput(fmt.Sprintf("Error: %s", err), colorRed)
		return false
	}
	for line := range strings.SplitSeq(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m.ExecuteCommand(line) {
			return true
		}
	}
	return false
}

// ScriptEngine returns the monitor's Lua state, creating it on first use.
func (m *MachineMonitor) ScriptEngine() *ScriptEngine {
	if m.script == nil {
		m.script = NewScriptEngine(m)
	}
	return m.script
}

func (m *MachineMonitor) cmdHelp(_ MonitorCommand) bool {
	helpLines := []string{
		"Machine Monitor Commands:",
		"  r                  Show registers",
		"  r <name> <value>   Set register",
		"  d [addr] [count]   Disassemble",
		"  m [addr] [count]   Memory dump (hex+ASCII)",
		"  w <addr> <bytes..> Write bytes",
		"  s [count]          Single-step",
		"  g [addr]           Start/stop run-mode",
		"  h                  Toggle CPU halt",
		"  b <addr> [cond]    Set breakpoint (optional condition)",
		"  bp <addr> <cond>   Set breakpoint condition",
		"  bc <addr|*>        Clear breakpoint(s)",
		"  bl                 List breakpoints",
		"  f [addr]           Toggle listing follows PC / pin at addr",
		"  load <file> [addr] Load program image",
		"  reset [mem]        Reset CPU; mem also clears RAM",
		"  swap               Page register view",
		"  exx                Exchange main and alternate registers",
		"  bt [depth]         Stack backtrace",
		"  map                Memory map",
		"  dump               Dump emulator state",
		"  budget [cycles]    Show/set run budget per tick",
		"  script <file>      Run command script (.lua for Lua)",
		"  cls                Clear output",
		"  x                  Exit monitor",
		"",
		"Addresses: $hex, 0xhex, bare hex, #decimal, expr+expr",
		"Conditions: reg==val, [$addr]==val, hitcount>val",
	}
	for _, line := range helpLines {
		m.appendOutput(line, colorCyan)
	}
	return false
}
