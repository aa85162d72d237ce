package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func newTestScript(t *testing.T, program []byte) (*ScriptEngine, *MachineMonitor, *Emulator) {
	t.Helper()
	mon, emu, _ := newTestMonitor(t, program)
	s := mon.ScriptEngine()
	t.Cleanup(s.Close)
	return s, mon, emu
}

func luaGlobal(t *testing.T, s *ScriptEngine, name string) lua.LValue {
	t.Helper()
	return s.L.GetGlobal(name)
}

func TestScriptStepAndRegisters(t *testing.T) {
	s, _, _ := newTestScript(t, []byte{0x3E, 0x2A, 0x47}) // LD A,2A; LD B,A
	err := s.RunString(`
		newpc = step(2)
		a = reg("A")
		b = reg("b")
	`)
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if luaGlobal(t, s, "newpc") != lua.LNumber(3) {
		t.Fatalf("newpc = %v", luaGlobal(t, s, "newpc"))
	}
	if luaGlobal(t, s, "a") != lua.LNumber(0x2A) || luaGlobal(t, s, "b") != lua.LNumber(0x2A) {
		t.Fatalf("a=%v b=%v", luaGlobal(t, s, "a"), luaGlobal(t, s, "b"))
	}
}

func TestScriptPeekPoke(t *testing.T) {
	s, _, emu := newTestScript(t, nil)
	err := s.RunString(`
		ok = poke(0x2000, 0x99)
		v = peek(0x2000)
		bad, msg = poke(0x2000, 0x100)
		far, farmsg = peek(0x10000)
	`)
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if emu.ByteText(0x2000) != "99" || luaGlobal(t, s, "v") != lua.LNumber(0x99) {
		t.Fatalf("poke/peek mismatch: %s %v", emu.ByteText(0x2000), luaGlobal(t, s, "v"))
	}
	if luaGlobal(t, s, "ok") != lua.LTrue {
		t.Fatalf("ok = %v", luaGlobal(t, s, "ok"))
	}
	if luaGlobal(t, s, "bad") != lua.LNil || !strings.Contains(luaGlobal(t, s, "msg").String(), "invalid hex value") {
		t.Fatalf("bad poke = %v, %v", luaGlobal(t, s, "bad"), luaGlobal(t, s, "msg"))
	}
	if luaGlobal(t, s, "far") != lua.LNil || !strings.Contains(luaGlobal(t, s, "farmsg").String(), "outside memory range") {
		t.Fatalf("far peek = %v, %v", luaGlobal(t, s, "far"), luaGlobal(t, s, "farmsg"))
	}
}

func TestScriptSetRegErrors(t *testing.T) {
	s, _, emu := newTestScript(t, nil)
	err := s.RunString(`
		ok = setreg("HL", 0xBEEF)
		wide, widemsg = setreg("A", 0x1FF)
		unknown, unknownmsg = setreg("QQ", 1)
	`)
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if v, _ := emu.Register("HL"); v != 0xBEEF {
		t.Fatalf("HL = %04X", v)
	}
	if luaGlobal(t, s, "wide") != lua.LNil || luaGlobal(t, s, "unknown") != lua.LNil {
		t.Fatalf("bad setreg succeeded")
	}
	if !strings.Contains(luaGlobal(t, s, "unknownmsg").String(), "unknown register") {
		t.Fatalf("unknownmsg = %v", luaGlobal(t, s, "unknownmsg"))
	}
}

func TestScriptRunUntilBreakpoint(t *testing.T) {
	s, _, emu := newTestScript(t, []byte{0x00, 0x00, 0x00, 0x18, 0xFB})
	err := s.RunString(`
		armed = bp(3)
		run()
		before = state()
		pump(1)
		after = state()
		where = pc()
	`)
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if luaGlobal(t, s, "armed") != lua.LTrue {
		t.Fatalf("bp did not arm")
	}
	if luaGlobal(t, s, "before").String() != "RUNNING" || luaGlobal(t, s, "after").String() != "IDLE" {
		t.Fatalf("states = %v, %v", luaGlobal(t, s, "before"), luaGlobal(t, s, "after"))
	}
	if luaGlobal(t, s, "where") != lua.LNumber(3) || emu.Running() {
		t.Fatalf("stopped at %v running=%v", luaGlobal(t, s, "where"), emu.Running())
	}
}

func TestScriptStepError(t *testing.T) {
	s, _, _ := newTestScript(t, []byte{0xED, 0x00})
	if err := s.RunString(`r, msg = step()`); err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if luaGlobal(t, s, "r") != lua.LNil || !strings.Contains(luaGlobal(t, s, "msg").String(), "execution failed") {
		t.Fatalf("step error = %v, %v", luaGlobal(t, s, "r"), luaGlobal(t, s, "msg"))
	}
}

func TestScriptHaltStopAndCmd(t *testing.T) {
	s, mon, emu := newTestScript(t, nil)
	err := s.RunString(`
		h = halt()
		cmd("w 10 AB")
		exit = cmd("x")
		run()
		stop()
		print("done", 42)
	`)
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if luaGlobal(t, s, "h") != lua.LTrue || !emu.Halted() {
		t.Fatalf("halt() = %v", luaGlobal(t, s, "h"))
	}
	if emu.ByteText(0x10) != "AB" {
		t.Fatalf("cmd did not run the monitor command")
	}
	if luaGlobal(t, s, "exit") != lua.LTrue {
		t.Fatalf("cmd(x) = %v", luaGlobal(t, s, "exit"))
	}
	if emu.Running() {
		t.Fatalf("stop() left run-mode on")
	}
	requireOutput(t, mon.Lines(), "done\t42")
}

func TestScriptRunFileFromMonitor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.lua")
	if err := os.WriteFile(path, []byte(`poke(0x100, 0x3E) poke(0x101, 0x05) setreg("PC", 0x100) step()`), 0o644); err != nil {
		t.Fatal(err)
	}
	mon, emu, _ := newTestMonitor(t, nil)
	runCmd(mon, "script "+path)
	if v, _ := emu.Register("A"); v != 5 {
		t.Fatalf("A = %d after Lua script", v)
	}

	bad := filepath.Join(t.TempDir(), "bad.lua")
	if err := os.WriteFile(bad, []byte(`this is not lua`), 0o644); err != nil {
		t.Fatal(err)
	}
	requireOutput(t, runCmd(mon, "script "+bad), "Error: script")
}

func TestScriptPumpRefusedInsideTurn(t *testing.T) {
	s, mon, _ := newTestScript(t, nil)
	loop := mon.emu.Scheduler().(*EventLoop)
	var err error
	loop.Post(func() { err = s.RunString(`r, msg = pump(1)`) })
	loop.RunPending()
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if luaGlobal(t, s, "r") != lua.LNil || !strings.Contains(luaGlobal(t, s, "msg").String(), "unavailable") {
		t.Fatalf("pump inside a turn = %v, %v", luaGlobal(t, s, "r"), luaGlobal(t, s, "msg"))
	}
}
