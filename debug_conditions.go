// debug_conditions.go - Breakpoint condition parser and evaluator

package main

import (
	"fmt"
	"strings"
)

type ConditionSource int

const (
	CondSourceRegister ConditionSource = iota
	CondSourceMemory
	CondSourceHitCount
)

type ConditionOp int

const (
	CondOpEqual ConditionOp = iota
	CondOpNotEqual
	CondOpLess
	CondOpGreater
	CondOpLessEqual
	CondOpGreaterEqual
)

var conditionOps = []struct {
	text string
	op   ConditionOp
}{
	// Two-character operators first so "<=" is not read as "<".
	{"==", CondOpEqual},
	{"!=", CondOpNotEqual},
	{"<=", CondOpLessEqual},
	{">=", CondOpGreaterEqual},
	{"<", CondOpLess},
	{">", CondOpGreater},
}

// BreakpointCondition gates a breakpoint on a register, a memory byte or
// the number of times the breakpoint has been reached.
type BreakpointCondition struct {
	Source  ConditionSource
	RegName string
	MemAddr uint16
	Op      ConditionOp
	Value   uint64
}

// ParseCondition parses a condition string.
// Formats:
//
//	A==$FF         - register A, op ==, value 0xFF
//	[$1000]!=0     - memory at 0x1000
//	hitcount>=3    - breakpoint hit count
func ParseCondition(text string) (*BreakpointCondition, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty condition")
	}

	opIdx := -1
	var opText string
	var op ConditionOp
	for _, candidate := range conditionOps {
		if idx := strings.Index(text, candidate.text); idx >= 0 {
			opIdx, opText, op = idx, candidate.text, candidate.op
			break
		}
	}
	if opIdx < 0 {
		return nil, fmt.Errorf("no operator found (use ==, !=, <, >, <=, >=)")
	}

	lhs := strings.TrimSpace(text[:opIdx])
	rhs := strings.TrimSpace(text[opIdx+len(opText):])

	value, ok := ParseAddress(rhs)
	if !ok {
		return nil, fmt.Errorf("invalid value: %s", rhs)
	}

	if strings.HasPrefix(lhs, "[") && strings.HasSuffix(lhs, "]") {
		addrText := lhs[1 : len(lhs)-1]
		addr, ok := ParseAddress(addrText)
		if !ok || addr > 0xFFFF {
			return nil, fmt.Errorf("invalid memory address: %s", addrText)
		}
		return &BreakpointCondition{Source: CondSourceMemory, MemAddr: uint16(addr), Op: op, Value: value}, nil
	}

	if strings.EqualFold(lhs, "hitcount") {
		return &BreakpointCondition{Source: CondSourceHitCount, Op: op, Value: value}, nil
	}

	if lhs == "" {
		return nil, fmt.Errorf("missing register name")
	}
	return &BreakpointCondition{Source: CondSourceRegister, RegName: strings.ToUpper(lhs), Op: op, Value: value}, nil
}

// evaluateCondition reports whether cond holds. A nil condition always
// holds; an unknown register or unreadable byte never does.
func evaluateCondition(cond *BreakpointCondition, cpu DebuggableCPU, mem Memory, hitCount uint64) bool {
	if cond == nil {
		return true
	}

	var actual uint64
	switch cond.Source {
	case CondSourceRegister:
		val, ok := cpu.GetRegister(cond.RegName)
		if !ok {
			return false
		}
		actual = val
	case CondSourceMemory:
		v, err := mem.Read8(cond.MemAddr)
		if err != nil {
			return false
		}
		actual = uint64(v)
	case CondSourceHitCount:
		actual = hitCount
	}

	return compareValues(actual, cond.Op, cond.Value)
}

func compareValues(actual uint64, op ConditionOp, expected uint64) bool {
	switch op {
	case CondOpEqual:
		return actual == expected
	case CondOpNotEqual:
		return actual != expected
	case CondOpLess:
		return actual < expected
	case CondOpGreater:
		return actual > expected
	case CondOpLessEqual:
		return actual <= expected
	case CondOpGreaterEqual:
		return actual >= expected
	}
	return false
}

// FormatCondition returns a human-readable string for a condition.
func FormatCondition(cond *BreakpointCondition) string {
	if cond == nil {
		return ""
	}

	var lhs string
	switch cond.Source {
	case CondSourceRegister:
		lhs = cond.RegName
	case CondSourceMemory:
		lhs = fmt.Sprintf("[$%04X]", cond.MemAddr)
	case CondSourceHitCount:
		lhs = "hitcount"
	}

	opText := "?"
	for _, candidate := range conditionOps {
		if candidate.op == cond.Op {
			opText = candidate.text
			break
		}
	}

	return fmt.Sprintf("%s%s$%X", lhs, opText, cond.Value)
}
