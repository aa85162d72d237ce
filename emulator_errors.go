// emulator_errors.go - Error kinds shared by the debugger core

package main

import (
	"errors"
	"fmt"
)

// Error kinds. Every fallible debugger operation returns one of these,
// wrapped in a struct carrying the address or register involved.
var (
	ErrOutOfRange       = errors.New("address outside memory range")
	ErrReadOnly         = errors.New("device is read-only")
	ErrInvalidEncoding  = errors.New("invalid hex value")
	ErrDecodeFailure    = errors.New("unrecognised instruction")
	ErrExecutionFailure = errors.New("execution failed")
	ErrUnknownRegister  = errors.New("unknown register")
)

// MemoryError reports a failed address space access.
type MemoryError struct {
	Op   string // "read", "write", "load"
	Addr uint32
	Err  error
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("memory %s at $%04X: %v", e.Op, e.Addr, e.Err)
}

func (e *MemoryError) Unwrap() error { return e.Err }

// DecodeError reports an instruction that could not be decoded. Listing
// code treats it as a one byte entry.
type DecodeError struct {
	Address uint16
	Opcode  []byte // bytes consumed before the decoder gave up
	Reason  string
	Err     error // ErrDecodeFailure or the memory error that stopped decoding
}

func (e *DecodeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("decode at $%04X: %s", e.Address, e.Reason)
	}
	return fmt.Sprintf("decode at $%04X: %v", e.Address, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecodeFailure, e.Err}
}

// ExecutionError is returned by Step and RunForCycles when the CPU cannot
// complete an instruction. Registers and memory already modified by the
// partial instruction are left as they are.
type ExecutionError struct {
	PC     uint16
	Opcode []byte
	Err    error
}

func (e *ExecutionError) Error() string {
	if len(e.Opcode) > 0 {
		return fmt.Sprintf("%v at $%04X (opcode % X): %v", ErrExecutionFailure, e.PC, e.Opcode, e.Err)
	}
	return fmt.Sprintf("%v at $%04X: %v", ErrExecutionFailure, e.PC, e.Err)
}

func (e *ExecutionError) Unwrap() []error {
	return []error{ErrExecutionFailure, e.Err}
}

// RegisterError reports a rejected register write.
type RegisterError struct {
	Name string
	Err  error
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("register %s: %v", e.Name, e.Err)
}

func (e *RegisterError) Unwrap() error { return e.Err }
