// debug_controller.go - Step / run / halt state machine

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
debug_controller.go - Execution controller

Run-mode is an interval timer on the event loop (zero delay unless
SetTickInterval says otherwise). Each tick asks the CPU for a bounded batch
of cycles so the loop stays responsive; the presence of the timer is the
only witness of run-mode.

    Step        one instruction, synchronously; an error stops run-mode
    ToggleRun   starts or cancels the run timer
    ToggleHalt  flips the CPU halted flag, independent of run/step
    StopRun     cancels the timer; a tick in progress finishes

When breakpoints are enforced and the set is not empty, ticks step one
instruction at a time and stop run-mode before executing an instruction at
a breakpoint. The instruction run-mode was started on is never trapped, so
toggling run on a breakpoint moves past it.
*/

package main

import "time"

const (
	DEFAULT_RUN_CYCLE_BUDGET = 70000 // 3.5MHz at 50 ticks per second
)

// ControllerState has no Stepping value: Step runs to completion inside
// one handler, so no caller can observe the controller mid-step.
type ControllerState int

const (
	StateIdle ControllerState = iota
	StateRunning
)

func (s ControllerState) String() string {
	if s == StateRunning {
		return "RUNNING"
	}
	return "IDLE"
}

type ExecutionController struct {
	cpu  DebuggableCPU
	mem  Memory
	bps  *BreakpointSet
	loop Scheduler

	budget   int
	enforce  bool
	interval time.Duration

	timer    *Timer
	skipTrap bool
	lastErr  error

	onChange func()
	onError  func(err error)
	onBreak  func(ev BreakpointEvent)
}

func NewExecutionController(cpu DebuggableCPU, mem Memory, bps *BreakpointSet, loop Scheduler) *ExecutionController {
	return &ExecutionController{
		cpu:     cpu,
		mem:     mem,
		bps:     bps,
		loop:    loop,
		budget:  DEFAULT_RUN_CYCLE_BUDGET,
		enforce: true,
	}
}

// SetBudget sets the cycles run per tick. Non-positive values restore the
// default.
func (c *ExecutionController) SetBudget(cycles int) {
	if cycles <= 0 {
		cycles = DEFAULT_RUN_CYCLE_BUDGET
	}
	c.budget = cycles
}

func (c *ExecutionController) Budget() int { return c.budget }

// SetTickInterval spaces run-mode batches. Zero runs one batch per loop
// turn, which suits front-ends that pump the loop once per frame.
func (c *ExecutionController) SetTickInterval(d time.Duration) { c.interval = max(d, 0) }

// Enforcing reports whether run-mode stops on breakpoints.
func (c *ExecutionController) Enforcing() bool { return c.enforce }

// SetEnforceBreakpoints selects between stopping on breakpoints and
// display-only breakpoints.
func (c *ExecutionController) SetEnforceBreakpoints(on bool) { c.enforce = on }

func (c *ExecutionController) State() ControllerState {
	if c.timer.Active() {
		return StateRunning
	}
	return StateIdle
}

func (c *ExecutionController) Running() bool { return c.State() == StateRunning }

func (c *ExecutionController) Halted() bool { return c.cpu.Halted() }

// LastError is the error that ended the most recent step or run, if any.
func (c *ExecutionController) LastError() error { return c.lastErr }

func (c *ExecutionController) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *ExecutionController) fail(err error) {
	c.lastErr = err
	c.StopRun()
	if c.onError != nil {
		c.onError(err)
	}
}

// Step executes exactly one instruction.
func (c *ExecutionController) Step() error {
	err := c.cpu.Step()
	c.changed()
	if err != nil {
		c.fail(err)
		return err
	}
	c.lastErr = nil
	return nil
}

func (c *ExecutionController) ToggleRun() {
	if c.Running() {
		c.StopRun()
		return
	}
	c.lastErr = nil
	c.skipTrap = true
	c.timer = c.loop.SetInterval(c.interval, c.tick)
	c.changed()
}

func (c *ExecutionController) StopRun() {
	if c.timer == nil {
		return
	}
	c.loop.ClearInterval(c.timer)
	c.timer = nil
	c.changed()
}

func (c *ExecutionController) ToggleHalt() {
	c.cpu.SetHalted(!c.cpu.Halted())
	c.changed()
}

// tick is one run-mode batch.
func (c *ExecutionController) tick() {
	if !c.Running() {
		return
	}
	var err error
	if c.enforce && c.bps.Len() > 0 {
		err = c.runTrapped()
	} else {
		err = c.cpu.RunForCycles(c.budget)
		c.skipTrap = false
	}
	c.changed()
	if err != nil {
		c.fail(err)
	}
}

func (c *ExecutionController) runTrapped() error {
	target := c.cpu.Cycles() + uint64(c.budget)
	for c.cpu.Cycles() < target && !c.cpu.Halted() {
		if !c.skipTrap {
			if ev, hit := c.bps.ShouldBreak(c.cpu.GetPC(), c.cpu, c.mem); hit {
				c.StopRun()
				if c.onBreak != nil {
					c.onBreak(ev)
				}
				return nil
			}
		}
		c.skipTrap = false
		if err := c.cpu.Step(); err != nil {
			return err
		}
	}
	return nil
}

// tickInterval paces run-mode and redraws for front-ends that hand the
// goroutine to EventLoop.Run.
const tickInterval = time.Second / 50
