// runtime_status.go - Status bar model shared by the front-ends

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

// runtimeStatusSnapshot is what the status bar shows. It is published by
// the event loop goroutine and read by renderers.
type runtimeStatusSnapshot struct {
	cpu         string
	state       ControllerState
	halted      bool
	followPC    bool
	enforceBP   bool
	breakpoints int
	pc          uint16
	cycles      uint64
	budget      int
	failed      bool
}

type runtimeStatusStore struct {
	mu sync.RWMutex
	runtimeStatusSnapshot
}

func (s *runtimeStatusStore) publish(e *Emulator) {
	ctrl := e.Controller()
	s.mu.Lock()
	s.cpu = e.CPUName()
	s.state = e.State()
	s.halted = e.Halted()
	s.followPC = e.FollowingPC()
	s.enforceBP = ctrl.Enforcing()
	s.breakpoints = e.Breakpoints().Len()
	s.pc = e.PC()
	s.cycles = e.Cycles()
	s.budget = ctrl.Budget()
	s.failed = e.LastError() != nil
	s.mu.Unlock()
}

func (s *runtimeStatusStore) snapshot() runtimeStatusSnapshot {
	s.mu.RLock()
	snap := s.runtimeStatusSnapshot
	s.mu.RUnlock()
	return snap
}

type statusToken struct {
	name    string
	enabled bool
}

type statusLine struct {
	label  string
	tokens []statusToken
	info   string // trailing plain text
}

// statusLines lays out the status bar: CPU selection, execution state and
// debugger settings.
func statusLines(s runtimeStatusSnapshot) []statusLine {
	return []statusLine{
		{label: "CPU  ", tokens: []statusToken{
			{name: "Z80", enabled: s.cpu == "Z80"},
			{name: "|", enabled: false},
			{name: "8080", enabled: s.cpu == "8080"},
		}, info: fmt.Sprintf("PC $%04X  CYC %d", s.pc, s.cycles)},
		{label: "EXEC ", tokens: []statusToken{
			{name: "RUN", enabled: s.state == StateRunning},
			{name: "|", enabled: false},
			{name: "HALT", enabled: s.halted},
			{name: "|", enabled: false},
			{name: "FAULT", enabled: s.failed},
		}, info: fmt.Sprintf("BUDGET %d", s.budget)},
		{label: "DEBUG", tokens: []statusToken{
			{name: "FOLLOW", enabled: s.followPC},
			{name: "|", enabled: false},
			{name: fmt.Sprintf("BP:%d", s.breakpoints), enabled: s.breakpoints > 0},
			{name: "|", enabled: false},
			{name: "TRAP", enabled: s.enforceBP},
		}},
	}
}

// String renders a status line as plain text, bracketing enabled tokens.
func (l statusLine) String() string {
	out := l.label
	for _, t := range l.tokens {
		switch {
		case t.name == "|":
			out += " "
		case t.enabled:
			out += " [" + t.name + "]"
		default:
			out += " " + t.name
		}
	}
	if l.info != "" {
		out += "  " + l.info
	}
	return out
}

var runtimeStatus = &runtimeStatusStore{}
