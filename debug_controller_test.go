package main

import (
	"errors"
	"testing"
)

type controllerRig struct {
	loop   *EventLoop
	cpu    *DebugZ80
	rig    *cpuZ80TestRig
	bps    *BreakpointSet
	ctrl   *ExecutionController
	errs   []error
	breaks []BreakpointEvent
}

func newControllerRig(t *testing.T, program []byte) *controllerRig {
	t.Helper()
	loop, _ := newFakeLoop()
	rig := newCPUZ80TestRig(t)
	rig.resetAndLoad(t, 0x0000, program)
	r := &controllerRig{loop: loop, rig: rig, cpu: NewDebugZ80(rig.cpu), bps: NewBreakpointSet()}
	r.ctrl = NewExecutionController(r.cpu, rig.mem, r.bps, loop)
	r.ctrl.onError = func(err error) { r.errs = append(r.errs, err) }
	r.ctrl.onBreak = func(ev BreakpointEvent) { r.breaks = append(r.breaks, ev) }
	return r
}

// turns pumps the loop n times.
func (r *controllerRig) turns(n int) {
	for range n {
		r.loop.RunPending()
	}
}

func TestControllerStep(t *testing.T) {
	r := newControllerRig(t, []byte{0x00, 0x3E, 0x07}) // NOP; LD A,07
	changes := 0
	r.ctrl.onChange = func() { changes++ }

	if err := r.ctrl.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if err := r.ctrl.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	requireEqualU16(t, "PC", r.cpu.GetPC(), 0x0003)
	requireEqualU8(t, "A", r.rig.cpu.A, 0x07)
	if changes != 2 {
		t.Fatalf("onChange called %d times, want 2", changes)
	}
	if r.ctrl.State() != StateIdle || r.ctrl.State().String() != "IDLE" {
		t.Fatalf("state = %v", r.ctrl.State())
	}
}

func TestControllerStepErrorIsReported(t *testing.T) {
	r := newControllerRig(t, []byte{0xED, 0x00})
	err := r.ctrl.Step()
	if !errors.Is(err, ErrExecutionFailure) {
		t.Fatalf("Step err = %v", err)
	}
	if r.ctrl.LastError() != err || len(r.errs) != 1 {
		t.Fatalf("error not recorded: last=%v hooks=%d", r.ctrl.LastError(), len(r.errs))
	}
	requireEqualU16(t, "PC", r.cpu.GetPC(), 0x0000)
}

func TestControllerRunAndStop(t *testing.T) {
	r := newControllerRig(t, []byte{0xC3, 0x00, 0x00}) // JP 0000
	r.ctrl.SetBudget(100)

	r.ctrl.ToggleRun()
	if !r.ctrl.Running() || r.ctrl.State().String() != "RUNNING" {
		t.Fatalf("ToggleRun did not start run-mode")
	}
	r.turns(3)
	if got := r.cpu.Cycles(); got < 300 {
		t.Fatalf("cycles after 3 ticks = %d, want >= 300", got)
	}

	r.ctrl.ToggleRun()
	if r.ctrl.Running() {
		t.Fatalf("second ToggleRun did not stop")
	}
	before := r.cpu.Cycles()
	r.turns(3)
	if r.cpu.Cycles() != before {
		t.Fatalf("CPU advanced after stop")
	}
}

func TestControllerRunStopsOnError(t *testing.T) {
	r := newControllerRig(t, []byte{0x00, 0x00, 0xED, 0x00})
	r.ctrl.ToggleRun()
	r.turns(2)
	if r.ctrl.Running() {
		t.Fatalf("run-mode survived an execution error")
	}
	if len(r.errs) != 1 || !errors.Is(r.errs[0], ErrExecutionFailure) {
		t.Fatalf("errors = %v", r.errs)
	}
	requireEqualU16(t, "PC", r.cpu.GetPC(), 0x0002)
}

func TestControllerBreakpointTrap(t *testing.T) {
	r := newControllerRig(t, []byte{
		0x00,       // 0000 NOP
		0x00,       // 0001 NOP
		0x18, 0xFC, // 0002 JR 0000
	})
	r.bps.Set(0x0002)

	r.ctrl.ToggleRun()
	r.turns(1)
	if r.ctrl.Running() {
		t.Fatalf("run-mode did not stop at the breakpoint")
	}
	requireEqualU16(t, "PC", r.cpu.GetPC(), 0x0002)
	if len(r.breaks) != 1 || r.breaks[0].Address != 0x0002 {
		t.Fatalf("break events = %+v", r.breaks)
	}

	// Restarting on the breakpoint moves past it and traps on the next lap.
	r.ctrl.ToggleRun()
	r.turns(1)
	requireEqualU16(t, "PC", r.cpu.GetPC(), 0x0002)
	if len(r.breaks) != 2 || r.breaks[1].Hits != 2 {
		t.Fatalf("break events = %+v", r.breaks)
	}
}

func TestControllerDisplayOnlyBreakpoints(t *testing.T) {
	r := newControllerRig(t, []byte{0x00, 0x18, 0xFD}) // NOP; JR 0000
	r.bps.Set(0x0001)
	r.ctrl.SetEnforceBreakpoints(false)
	r.ctrl.SetBudget(50)

	r.ctrl.ToggleRun()
	r.turns(2)
	if !r.ctrl.Running() || len(r.breaks) != 0 {
		t.Fatalf("display-only breakpoint stopped run-mode")
	}
	r.ctrl.StopRun()
}

func TestControllerToggleHalt(t *testing.T) {
	r := newControllerRig(t, []byte{0x00, 0x00})
	r.ctrl.ToggleHalt()
	if !r.ctrl.Halted() {
		t.Fatalf("ToggleHalt did not halt")
	}
	if err := r.ctrl.Step(); err != nil {
		t.Fatalf("Step while halted: %v", err)
	}
	requireEqualU16(t, "PC", r.cpu.GetPC(), 0x0000)
	r.ctrl.ToggleHalt()
	if r.ctrl.Halted() {
		t.Fatalf("second ToggleHalt did not resume")
	}
}

func TestControllerBudget(t *testing.T) {
	r := newControllerRig(t, nil)
	r.ctrl.SetBudget(123)
	if r.ctrl.Budget() != 123 {
		t.Fatalf("Budget = %d", r.ctrl.Budget())
	}
	r.ctrl.SetBudget(0)
	if r.ctrl.Budget() != DEFAULT_RUN_CYCLE_BUDGET {
		t.Fatalf("non-positive budget did not restore the default")
	}
}
