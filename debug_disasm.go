// debug_disasm.go - Instruction decoding and disassembly listings

package main

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Instruction is one decoded instruction. It is produced on demand and
// never cached.
type Instruction struct {
	Address  uint16
	Length   int
	Bytes    []byte
	Mnemonic string
}

// HexBytes renders the encoding as space separated hex pairs.
func (in Instruction) HexBytes() string {
	parts := make([]string, len(in.Bytes))
	for i, b := range in.Bytes {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}

// decodeCursor feeds bytes from memory to a decoder. Read failures are
// latched; later reads return 0 and the decode is reported as failed.
type decodeCursor struct {
	mem    Memory
	base   uint16
	bytes  []byte
	err    error
	reason string
}

func (c *decodeCursor) next() byte {
	if c.err != nil {
		return 0
	}
	v, err := c.mem.Read8(c.base + uint16(len(c.bytes)))
	if err != nil {
		c.err = err
		return 0
	}
	c.bytes = append(c.bytes, v)
	return v
}

func (c *decodeCursor) word() uint16 {
	lo := c.next()
	hi := c.next()
	return uint16(hi)<<8 | uint16(lo)
}

// fail marks the instruction as unrecognised.
func (c *decodeCursor) fail(format string, args ...any) string {
	if c.reason == "" {
		c.reason = fmt.Sprintf(format, args...)
	}
	return ""
}

// decodeWith runs a decoder body and turns the cursor state into a result.
func decodeWith(mem Memory, addr uint16, body func(*decodeCursor) string) (Instruction, error) {
	cur := &decodeCursor{mem: mem, base: addr}
	text := body(cur)
	if cur.err != nil {
		return Instruction{}, &DecodeError{Address: addr, Opcode: cur.bytes, Err: cur.err}
	}
	if cur.reason != "" {
		return Instruction{}, &DecodeError{Address: addr, Opcode: cur.bytes, Reason: cur.reason, Err: ErrDecodeFailure}
	}
	return Instruction{Address: addr, Length: len(cur.bytes), Bytes: cur.bytes, Mnemonic: text}, nil
}

// ListingEntry is one row of a disassembly listing.
type ListingEntry struct {
	Address uint16
	Instr   Instruction
	Err     error
}

// Length is the decoded length, or 1 when decoding failed.
func (e ListingEntry) Length() int {
	if e.Err != nil {
		return 1
	}
	return e.Instr.Length
}

// HexText is the second listing column: the encoding on success, otherwise
// the raw byte at the address or ?? when even that could not be read.
func (e ListingEntry) HexText() string {
	if e.Err == nil {
		return e.Instr.HexBytes()
	}
	var de *DecodeError
	if errors.As(e.Err, &de) && len(de.Opcode) > 0 {
		return fmt.Sprintf("%02X", de.Opcode[0])
	}
	return "??"
}

// MnemonicText is the third listing column.
func (e ListingEntry) MnemonicText() string {
	if e.Err != nil {
		return "N/A"
	}
	return e.Instr.Mnemonic
}

// Disassembler decodes instructions for one CPU against one memory.
type Disassembler struct {
	cpu DebuggableCPU
	mem Memory
}

func NewDisassembler(cpu DebuggableCPU, mem Memory) *Disassembler {
	return &Disassembler{cpu: cpu, mem: mem}
}

// Decode never mutates memory or registers.
func (d *Disassembler) Decode(addr uint16) (Instruction, error) {
	return d.cpu.Decode(d.mem, addr)
}

// Entries yields count consecutive listing rows from start. Each row
// advances by the decoded length, or by one byte after a failure, wrapping
// at the top of the 16-bit address range. The sequence is recomputed on
// every iteration.
func (d *Disassembler) Entries(start uint16, count int) iter.Seq[ListingEntry] {
	return func(yield func(ListingEntry) bool) {
		pc := start
		for range count {
			in, err := d.Decode(pc)
			e := ListingEntry{Address: pc, Instr: in, Err: err}
			if !yield(e) {
				return
			}
			pc += uint16(e.Length())
		}
	}
}

func (d *Disassembler) Listing(start uint16, count int) []ListingEntry {
	return slices.Collect(d.Entries(start, count))
}

// ListingAnchor chooses where a listing starts. Unpinned, it follows the
// live PC on every render. Pinned, it stays on the PC captured when it was
// pinned until the user types a new address.
type ListingAnchor struct {
	pinned bool
	addr   uint16
}

// Toggle pins the anchor at livePC, or releases an existing pin.
func (a *ListingAnchor) Toggle(livePC uint16) {
	if a.pinned {
		a.pinned = false
		return
	}
	a.pinned = true
	a.addr = livePC
}

func (a *ListingAnchor) Pinned() bool { return a.pinned }

func (a *ListingAnchor) Start(livePC uint16) uint16 {
	if a.pinned {
		return a.addr
	}
	return livePC
}

// SetHex moves a pinned anchor. It fails without changing anything when
// the anchor is not pinned or the text is not a 16-bit hex value.
func (a *ListingAnchor) SetHex(text string) error {
	if !a.pinned {
		return fmt.Errorf("listing follows PC: %w", ErrInvalidEncoding)
	}
	v, err := parseHexInput(text, 16)
	if err != nil {
		return err
	}
	a.addr = uint16(v)
	return nil
}
