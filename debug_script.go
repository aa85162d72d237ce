// debug_script.go - Lua automation for the debugger

package main

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// pumper is implemented by schedulers a script may drive directly.
type pumper interface {
	RunPending() int
	InTurn() bool
}

// ScriptEngine exposes the emulator to Lua. Every function that can fail
// returns nil plus a message instead of raising, so scripts can test the
// result:
//
//	local ok, err = poke(0x0000, 0x3E)
//	if not ok then print(err) end
type ScriptEngine struct {
	L   *lua.LState
	mon *MachineMonitor
	emu *Emulator
}

func NewScriptEngine(mon *MachineMonitor) *ScriptEngine {
	s := &ScriptEngine{L: lua.NewState(), mon: mon, emu: mon.emu}
	for name, fn := range map[string]lua.LGFunction{
		"step":   s.luaStep,
		"run":    s.luaRun,
		"stop":   s.luaStop,
		"halt":   s.luaHalt,
		"peek":   s.luaPeek,
		"poke":   s.luaPoke,
		"reg":    s.luaReg,
		"setreg": s.luaSetReg,
		"bp":     s.luaBreakpoint,
		"pc":     s.luaPC,
		"state":  s.luaState,
		"cmd":    s.luaCmd,
		"pump":   s.luaPump,
		"print":  s.luaPrint,
	} {
		s.L.SetGlobal(name, s.L.NewFunction(fn))
	}
	return s
}

func (s *ScriptEngine) Close() { s.L.Close() }

func (s *ScriptEngine) RunFile(path string) error {
	if err := s.L.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

func (s *ScriptEngine) RunString(src string) error {
	return s.L.DoString(src)
}

// luaFail pushes the nil, message pair.
func luaFail(L *lua.LState, err error) int {
	L.Push(lua.LNil)
	L.Push(lua.LString(err.Error()))
	return 2
}

func checkAddr(L *lua.LState, n int) (uint16, error) {
	v := L.CheckInt64(n)
	if v < 0 || v > 0xFFFF {
		return 0, fmt.Errorf("address %d: %w", v, ErrOutOfRange)
	}
	return uint16(v), nil
}

// step([n]) executes n instructions (default 1) and returns the new PC.
func (s *ScriptEngine) luaStep(L *lua.LState) int {
	n := L.OptInt(1, 1)
	for range max(n, 0) {
		if err := s.emu.Step(); err != nil {
			return luaFail(L, err)
		}
	}
	L.Push(lua.LNumber(s.emu.PC()))
	return 1
}

func (s *ScriptEngine) luaRun(L *lua.LState) int {
	if !s.emu.Running() {
		s.emu.ToggleRun()
	}
	L.Push(lua.LTrue)
	return 1
}

func (s *ScriptEngine) luaStop(L *lua.LState) int {
	s.emu.StopRun()
	L.Push(lua.LTrue)
	return 1
}

// halt() toggles the halt flag and returns the new value.
func (s *ScriptEngine) luaHalt(L *lua.LState) int {
	s.emu.ToggleHalt()
	L.Push(lua.LBool(s.emu.Halted()))
	return 1
}

func (s *ScriptEngine) luaPeek(L *lua.LState) int {
	addr, err := checkAddr(L, 1)
	if err != nil {
		return luaFail(L, err)
	}
	v, err := s.emu.ReadMem(addr)
	if err != nil {
		return luaFail(L, err)
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (s *ScriptEngine) luaPoke(L *lua.LState) int {
	addr, err := checkAddr(L, 1)
	if err != nil {
		return luaFail(L, err)
	}
	v := L.CheckInt64(2)
	if v < 0 || v > 0xFF {
		return luaFail(L, fmt.Errorf("byte %d: %w", v, ErrInvalidEncoding))
	}
	if err := s.emu.WriteMem(addr, byte(v)); err != nil {
		return luaFail(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

func (s *ScriptEngine) luaReg(L *lua.LState) int {
	v, err := s.emu.Register(L.CheckString(1))
	if err != nil {
		return luaFail(L, err)
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (s *ScriptEngine) luaSetReg(L *lua.LState) int {
	name := L.CheckString(1)
	v := L.CheckInt64(2)
	if v < 0 {
		return luaFail(L, &RegisterError{Name: name, Err: ErrInvalidEncoding})
	}
	if err := s.emu.WriteRegister(name, uint64(v)); err != nil {
		return luaFail(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

// bp(addr) toggles a breakpoint and returns whether it is now set.
func (s *ScriptEngine) luaBreakpoint(L *lua.LState) int {
	addr, err := checkAddr(L, 1)
	if err != nil {
		return luaFail(L, err)
	}
	L.Push(lua.LBool(s.emu.ToggleBreakpoint(addr)))
	return 1
}

func (s *ScriptEngine) luaPC(L *lua.LState) int {
	L.Push(lua.LNumber(s.emu.PC()))
	return 1
}

func (s *ScriptEngine) luaState(L *lua.LState) int {
	L.Push(lua.LString(s.emu.State().String()))
	return 1
}

// cmd(line) runs a monitor command and returns true if it asked to exit.
func (s *ScriptEngine) luaCmd(L *lua.LState) int {
	L.Push(lua.LBool(s.mon.ExecuteCommand(L.CheckString(1))))
	return 1
}

// pump([n]) runs n turns of the event loop (default 1) and returns the
// number of tasks that ran.
func (s *ScriptEngine) luaPump(L *lua.LState) int {
	p, ok := s.emu.Scheduler().(pumper)
	if !ok {
		return luaFail(L, fmt.Errorf("scheduler cannot be pumped from a script"))
	}
	if p.InTurn() {
		// Scripts started by the monitor already run inside a handler.
		return luaFail(L, fmt.Errorf("pump() is unavailable while the event loop is running"))
	}
	total := 0
	for range max(L.OptInt(1, 1), 0) {
		total += p.RunPending()
	}
	L.Push(lua.LNumber(total))
	return 1
}

func (s *ScriptEngine) luaPrint(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	s.mon.appendOutput(strings.Join(parts, "\t"), colorWhite)
	return 0
}
