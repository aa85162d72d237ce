// debug_breakpoints.go - Address-keyed breakpoint set

package main

import (
	"maps"
	"slices"
)

type Breakpoint struct {
	Address   uint16
	Condition *BreakpointCondition
	Hits      uint64
}

// BreakpointSet is owned by the event loop; it is not safe for concurrent
// use.
type BreakpointSet struct {
	points map[uint16]*Breakpoint
}

func NewBreakpointSet() *BreakpointSet {
	return &BreakpointSet{points: make(map[uint16]*Breakpoint)}
}

// Toggle flips membership of addr and returns the new membership. Toggling
// twice restores the original state.
func (s *BreakpointSet) Toggle(addr uint16) bool {
	if _, ok := s.points[addr]; ok {
		delete(s.points, addr)
		return false
	}
	s.points[addr] = &Breakpoint{Address: addr}
	return true
}

// Set adds an unconditional breakpoint. An existing breakpoint keeps its
// condition and hit count.
func (s *BreakpointSet) Set(addr uint16) {
	if _, ok := s.points[addr]; !ok {
		s.points[addr] = &Breakpoint{Address: addr}
	}
}

func (s *BreakpointSet) Remove(addr uint16) bool {
	if _, ok := s.points[addr]; !ok {
		return false
	}
	delete(s.points, addr)
	return true
}

func (s *BreakpointSet) Contains(addr uint16) bool {
	_, ok := s.points[addr]
	return ok
}

func (s *BreakpointSet) Len() int { return len(s.points) }

func (s *BreakpointSet) Clear() { clear(s.points) }

// List returns copies of all breakpoints in address order.
func (s *BreakpointSet) List() []Breakpoint {
	out := make([]Breakpoint, 0, len(s.points))
	for _, addr := range slices.Sorted(maps.Keys(s.points)) {
		out = append(out, *s.points[addr])
	}
	return out
}

// SetCondition attaches cond to the breakpoint at addr, creating it if
// needed. A nil cond makes the breakpoint unconditional.
func (s *BreakpointSet) SetCondition(addr uint16, cond *BreakpointCondition) {
	bp, ok := s.points[addr]
	if !ok {
		bp = &Breakpoint{Address: addr}
		s.points[addr] = bp
	}
	bp.Condition = cond
	bp.Hits = 0
}

// ShouldBreak is consulted by run-mode before executing the instruction
// at addr. Reaching a member address counts as a hit whether or not the
// condition holds.
func (s *BreakpointSet) ShouldBreak(addr uint16, cpu DebuggableCPU, mem Memory) (BreakpointEvent, bool) {
	bp, ok := s.points[addr]
	if !ok {
		return BreakpointEvent{}, false
	}
	bp.Hits++
	if !evaluateCondition(bp.Condition, cpu, mem, bp.Hits) {
		return BreakpointEvent{}, false
	}
	return BreakpointEvent{Address: addr, Hits: bp.Hits}, true
}
