package main

import (
	"errors"
	"testing"
)

// cpuTestMemory is a flat 64K RAM address space.
func cpuTestMemory(t *testing.T) *AddressSpace {
	t.Helper()
	mem, err := NewAddressSpace(MAX_MEMORY_SIZE, NewRAMDevice(MAX_MEMORY_SIZE))
	if err != nil {
		t.Fatalf("NewAddressSpace: %v", err)
	}
	return mem
}

type cpuZ80TestRig struct {
	mem *AddressSpace
	io  *portLatch
	cpu *CPU_Z80
}

func newCPUZ80TestRig(t *testing.T) *cpuZ80TestRig {
	t.Helper()
	r := &cpuZ80TestRig{mem: cpuTestMemory(t), io: &portLatch{}}
	r.cpu = NewCPU_Z80(r.mem, r.io)
	return r
}

func (r *cpuZ80TestRig) resetAndLoad(t *testing.T, start uint16, program []byte) {
	t.Helper()
	r.mem = cpuTestMemory(t)
	r.io = &portLatch{}
	r.cpu = NewCPU_Z80(r.mem, r.io)
	if err := r.mem.Load(start, program); err != nil {
		t.Fatalf("Load: %v", err)
	}
	r.cpu.PC = start
}

func (r *cpuZ80TestRig) step(t *testing.T, n int) {
	t.Helper()
	for i := range n {
		if err := r.cpu.Step(); err != nil {
			t.Fatalf("step %d at $%04X: %v", i, r.cpu.PC, err)
		}
	}
}

func (r *cpuZ80TestRig) peek(addr uint16) byte {
	v, _ := r.mem.Read8(addr)
	return v
}

func (r *cpuZ80TestRig) poke(addr uint16, v byte) {
	_ = r.mem.Write8(addr, v)
}

type cpu8080TestRig struct {
	mem *AddressSpace
	io  *portLatch
	cpu *CPU_8080
}

func newCPU8080TestRig(t *testing.T, start uint16, program []byte) *cpu8080TestRig {
	t.Helper()
	r := &cpu8080TestRig{mem: cpuTestMemory(t), io: &portLatch{}}
	r.cpu = NewCPU_8080(r.mem, r.io)
	if err := r.mem.Load(start, program); err != nil {
		t.Fatalf("Load: %v", err)
	}
	r.cpu.PC = start
	return r
}

func (r *cpu8080TestRig) step(t *testing.T, n int) {
	t.Helper()
	for i := range n {
		if err := r.cpu.Step(); err != nil {
			t.Fatalf("step %d at $%04X: %v", i, r.cpu.PC, err)
		}
	}
}

func (r *cpu8080TestRig) peek(addr uint16) byte {
	v, _ := r.mem.Read8(addr)
	return v
}

func requireEqualU16(t *testing.T, name string, got, want uint16) {
	t.Helper()
	if got != want {
		t.Fatalf("%s = 0x%04X, want 0x%04X", name, got, want)
	}
}

func requireEqualU8(t *testing.T, name string, got, want byte) {
	t.Helper()
	if got != want {
		t.Fatalf("%s = 0x%02X, want 0x%02X", name, got, want)
	}
}

func requireCycles(t *testing.T, got, want uint64) {
	t.Helper()
	if got != want {
		t.Fatalf("cycles = %d, want %d", got, want)
	}
}

// requireExecutionError checks err is an *ExecutionError at pc that also
// matches kind.
func requireExecutionError(t *testing.T, err error, pc uint16, kind error) *ExecutionError {
	t.Helper()
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("err = %v, want *ExecutionError", err)
	}
	if execErr.PC != pc {
		t.Fatalf("ExecutionError.PC = $%04X, want $%04X", execErr.PC, pc)
	}
	if !errors.Is(err, ErrExecutionFailure) {
		t.Fatalf("errors.Is(%v, ErrExecutionFailure) = false", err)
	}
	if kind != nil && !errors.Is(err, kind) {
		t.Fatalf("errors.Is(%v, %v) = false", err, kind)
	}
	return execErr
}
