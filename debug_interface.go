// debug_interface.go - DebuggableCPU interface and supporting types for the debugger

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

import "strings"

// RegisterInfo describes a single CPU register for display in the debugger.
type RegisterInfo struct {
	Name     string // "PC", "HL", "A'"
	BitWidth int    // 8 or 16
	Value    uint64
	Group    string // "general", "shadow", "pointer", "index", "status"
}

// Register groups. The register view pages through GroupMain and
// GroupShadow; the remaining groups are always shown.
const (
	GroupMain    = "general"
	GroupShadow  = "shadow"
	GroupPointer = "pointer"
	GroupIndex   = "index"
	GroupStatus  = "status"
)

// BreakpointEvent is published when run-mode stops on a breakpoint.
type BreakpointEvent struct {
	Address uint16
	Hits    uint64
}

// DebuggableCPU is the capability interface every CPU variant implements.
// The debugger only talks to CPUs through it.
type DebuggableCPU interface {
	CPUName() string
	Reset()

	GetRegisters() []RegisterInfo
	GetRegister(name string) (uint64, bool)
	SetRegister(name string, value uint64) bool
	RegisterWidth(name string) (int, bool)
	GetPC() uint16
	SetPC(addr uint16)

	// RegisterBanks is 2 for CPUs with a shadow register set.
	RegisterBanks() int
	SwapRegisterBanks()

	Halted() bool
	SetHalted(halted bool)
	Cycles() uint64

	Step() error
	RunForCycles(budget int) error

	// Decode reads one instruction from mem without side effects.
	Decode(mem Memory, addr uint16) (Instruction, error)
}

// regAccessor binds a register name to its storage. Accessors with an empty
// group (half registers) are addressable by name but not listed.
type regAccessor struct {
	name  string
	width int
	group string
	get   func() uint64
	set   func(uint64)
}

type regTable []regAccessor

func (t regTable) lookup(name string) (*regAccessor, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i := range t {
		if t[i].name == name {
			return &t[i], true
		}
	}
	return nil, false
}

func (t regTable) list() []RegisterInfo {
	out := make([]RegisterInfo, 0, len(t))
	for _, r := range t {
		if r.group == "" {
			continue
		}
		out = append(out, RegisterInfo{Name: r.name, BitWidth: r.width, Value: r.get(), Group: r.group})
	}
	return out
}

func (t regTable) get(name string) (uint64, bool) {
	r, ok := t.lookup(name)
	if !ok {
		return 0, false
	}
	return r.get(), true
}

// set masks value to the register width; callers validate range first.
func (t regTable) set(name string, value uint64) bool {
	r, ok := t.lookup(name)
	if !ok {
		return false
	}
	r.set(value & (1<<r.width - 1))
	return true
}

func (t regTable) width(name string) (int, bool) {
	r, ok := t.lookup(name)
	if !ok {
		return 0, false
	}
	return r.width, true
}
