// debug_monitor.go - Machine Monitor core (scrollback, input line, history)

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
	"sync"
)

// MonitorState represents whether the monitor is active.
type MonitorState int

const (
	MonitorInactive MonitorState = iota
	MonitorActive
)

// OutputLine holds styled text for the monitor scrollback buffer.
type OutputLine struct {
	Text  string
	Color uint32 // RGBA packed
}

const (
	monitorMaxOutput   = 500
	monitorMaxInput    = 76
	monitorScriptDepth = 8
)

// MachineMonitor is the text command surface over an Emulator. Commands,
// the input line and history belong to the event loop goroutine; mu only
// guards the scrollback, which renderers read.
type MachineMonitor struct {
	emu    *Emulator
	state  MonitorState
	editor *MemoryEditor // shared with the front-ends' memory panel

	mu           sync.Mutex
	outputLines  []OutputLine
	maxOutput    int
	scrollOffset int
	sink         func(OutputLine)

	inputLine  []byte
	cursorPos  int
	history    []string
	historyIdx int

	prevRegs    map[string]uint64 // for change highlighting
	script      *ScriptEngine
	scriptDepth int
}

// NewMachineMonitor creates a monitor and subscribes it to the emulator's
// error and breakpoint notifications.
func NewMachineMonitor(emu *Emulator) *MachineMonitor {
	m := &MachineMonitor{
		emu:       emu,
		editor:    NewMemoryEditor(emu, DEFAULT_EDITOR_WIDTH, DEFAULT_EDITOR_ROWS),
		maxOutput: monitorMaxOutput,
		prevRegs:  make(map[string]uint64),
	}
	emu.OnError(m.handleError)
	emu.OnBreak(m.handleBreakpointHit)
	return m
}

// Editor is the memory grid the front-ends draw and edit. The m command
// moves it too.
func (m *MachineMonitor) Editor() *MemoryEditor { return m.editor }

// CommitEdit commits the memory editor's pending entry. A rejected value
// is logged with the text the cell or address box kept.
func (m *MachineMonitor) CommitEdit() {
	what := fmt.Sprintf("$%04X", m.editor.Cursor())
	if m.editor.EnteringAddress() {
		what = "view start"
	}
	shown, err := m.editor.Commit()
	if err != nil {
		m.appendOutput(fmt.Sprintf("Error: %s: %v (kept %s)", what, err, shown), colorRed)
	}
}

// SetSink mirrors every new scrollback line to fn, for line-oriented hosts.
func (m *MachineMonitor) SetSink(fn func(OutputLine)) {
	m.mu.Lock()
	m.sink = fn
	m.mu.Unlock()
}

// IsActive returns whether the monitor is currently shown.
func (m *MachineMonitor) IsActive() bool { return m.state == MonitorActive }

// Activate enters the monitor and prints the current machine state.
func (m *MachineMonitor) Activate() {
	if m.state == MonitorActive {
		return
	}
	m.state = MonitorActive
	m.ResetInput()
	m.saveCurrentRegs()

	m.appendOutput(fmt.Sprintf("MACHINE MONITOR [%s] - Type ? for help", m.emu.CPUName()), colorCyan)
	m.showRegisters()
	m.showDisassemblyAt(m.emu.PC(), 8)
}

func (m *MachineMonitor) Deactivate() { m.state = MonitorInactive }

// appendOutput adds a line to the scrollback buffer.
func (m *MachineMonitor) appendOutput(text string, color uint32) {
	line := OutputLine{Text: text, Color: color}
	m.mu.Lock()
	m.outputLines = append(m.outputLines, line)
	if len(m.outputLines) > m.maxOutput {
		m.outputLines = m.outputLines[len(m.outputLines)-m.maxOutput:]
	}
	sink := m.sink
	m.mu.Unlock()
	if sink != nil {
		sink(line)
	}
}

// Lines returns a copy of the scrollback.
func (m *MachineMonitor) Lines() []OutputLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]OutputLine, len(m.outputLines))
	copy(out, m.outputLines)
	return out
}

// Window returns at most n lines ending scrollOffset lines above the
// newest one.
func (m *MachineMonitor) Window(n int) []OutputLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	end := max(len(m.outputLines)-m.scrollOffset, 0)
	start := max(end-n, 0)
	out := make([]OutputLine, end-start)
	copy(out, m.outputLines[start:end])
	return out
}

// Scroll moves the scrollback view; positive values go back in time.
func (m *MachineMonitor) Scroll(lines, visible int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	limit := max(len(m.outputLines)-visible, 0)
	m.scrollOffset = max(0, min(m.scrollOffset+lines, limit))
}

func (m *MachineMonitor) ClearOutput() {
	m.mu.Lock()
	m.outputLines = nil
	m.scrollOffset = 0
	m.mu.Unlock()
}

// saveCurrentRegs snapshots the registers for change detection.
func (m *MachineMonitor) saveCurrentRegs() {
	m.prevRegs = make(map[string]uint64)
	for _, r := range m.emu.Registers() {
		m.prevRegs[r.Name] = r.Value
	}
}

func (m *MachineMonitor) handleError(err error) {
	m.appendOutput(fmt.Sprintf("Error: %v", err), colorRed)
}

func (m *MachineMonitor) handleBreakpointHit(ev BreakpointEvent) {
	m.appendOutput(fmt.Sprintf("BREAK at $%04X (hits:%d)", ev.Address, ev.Hits), colorRed)
	m.showRegisters()
	m.saveCurrentRegs()
	m.showDisassemblyAt(ev.Address, 8)
}

// Input line editing

func (m *MachineMonitor) Input() string { return string(m.inputLine) }
func (m *MachineMonitor) Cursor() int   { return m.cursorPos }

func (m *MachineMonitor) ResetInput() {
	m.inputLine = nil
	m.cursorPos = 0
	m.historyIdx = len(m.history)
}

// InsertText inserts the printable ASCII characters of s at the cursor.
// Anything else, and anything past the input width, is dropped.
func (m *MachineMonitor) InsertText(s string) {
	for _, r := range s {
		if r < 0x20 || r >= 0x7F || len(m.inputLine) >= monitorMaxInput {
			continue
		}
		m.inputLine = append(m.inputLine, 0)
		copy(m.inputLine[m.cursorPos+1:], m.inputLine[m.cursorPos:])
		m.inputLine[m.cursorPos] = byte(r)
		m.cursorPos++
	}
}

func (m *MachineMonitor) Backspace() {
	if m.cursorPos > 0 && len(m.inputLine) > 0 {
		m.inputLine = append(m.inputLine[:m.cursorPos-1], m.inputLine[m.cursorPos:]...)
		m.cursorPos--
	}
}

func (m *MachineMonitor) CursorLeft() {
	if m.cursorPos > 0 {
		m.cursorPos--
	}
}

func (m *MachineMonitor) CursorRight() {
	if m.cursorPos < len(m.inputLine) {
		m.cursorPos++
	}
}

func (m *MachineMonitor) HistoryPrev() {
	if m.historyIdx > 0 {
		m.historyIdx--
		m.inputLine = []byte(m.history[m.historyIdx])
		m.cursorPos = len(m.inputLine)
	}
}

func (m *MachineMonitor) HistoryNext() {
	if m.historyIdx < len(m.history)-1 {
		m.historyIdx++
		m.inputLine = []byte(m.history[m.historyIdx])
		m.cursorPos = len(m.inputLine)
		return
	}
	m.historyIdx = len(m.history)
	m.inputLine = nil
	m.cursorPos = 0
}

// Submit echoes and executes the input line. It returns true when the
// command asked the monitor to exit.
func (m *MachineMonitor) Submit() bool {
	input := string(m.inputLine)
	m.appendOutput("> "+input, colorDim)
	m.inputLine = nil
	m.cursorPos = 0
	m.mu.Lock()
	m.scrollOffset = 0
	m.mu.Unlock()

	if m.ExecuteCommand(input) {
		m.state = MonitorInactive
		return true
	}
	return false
}

// Color constants (RGBA packed as 0xRRGGBBAA)
const (
	colorWhite  = 0xFFFFFFFF
	colorCyan   = 0x64C8FFFF
	colorYellow = 0xFFFF55FF
	colorRed    = 0xFF5555FF
	colorGreen  = 0x55FF55FF
	colorDim    = 0x5555FFFF
)
