package main

import (
	"errors"
	"fmt"
	"testing"
)

func TestDecodeZ80Mnemonics(t *testing.T) {
	tests := []struct {
		bytes []byte
		want  string
	}{
		{[]byte{0x00}, "NOP"},
		{[]byte{0x3E, 0x42}, "LD A, $42"},
		{[]byte{0x21, 0x34, 0x12}, "LD HL, $1234"},
		{[]byte{0x78}, "LD A, B"},
		{[]byte{0x76}, "HALT"},
		{[]byte{0xC6, 0x01}, "ADD A, $01"},
		{[]byte{0x18, 0xFE}, "JR $0000"},
		{[]byte{0x20, 0x05}, "JR NZ, $0007"},
		{[]byte{0x10, 0xFC}, "DJNZ $FFFE"},
		{[]byte{0xCD, 0x00, 0x80}, "CALL $8000"},
		{[]byte{0xC2, 0x00, 0x80}, "JP NZ, $8000"},
		{[]byte{0xFF}, "RST $38"},
		{[]byte{0xF5}, "PUSH AF"},
		{[]byte{0xCB, 0x7E}, "BIT 7, (HL)"},
		{[]byte{0xCB, 0x11}, "RL C"},
		{[]byte{0xED, 0xB0}, "LDIR"},
		{[]byte{0xED, 0x4B, 0x00, 0x40}, "LD BC, ($4000)"},
		{[]byte{0xED, 0x78}, "IN A, (C)"},
		{[]byte{0xDD, 0x21, 0x00, 0x40}, "LD IX, $4000"},
		{[]byte{0xDD, 0x7E, 0xFE}, "LD A, (IX-$02)"},
		{[]byte{0xFD, 0x36, 0x03, 0x99}, "LD (IY+$03), $99"},
		{[]byte{0xFD, 0xCB, 0x02, 0xDE}, "SET 3, (IY+$02)"},
		{[]byte{0xDD, 0x29}, "ADD IX, IX"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			mem := cpuTestMemory(t)
			_ = mem.Load(0, tt.bytes)
			in, err := decodeWith(mem, 0, decodeZ80)
			if err != nil {
				t.Fatalf("decode % X: %v", tt.bytes, err)
			}
			if in.Mnemonic != tt.want {
				t.Fatalf("mnemonic = %q, want %q", in.Mnemonic, tt.want)
			}
			if in.Length != len(tt.bytes) {
				t.Fatalf("length = %d, want %d", in.Length, len(tt.bytes))
			}
		})
	}
}

func TestDecode8080Mnemonics(t *testing.T) {
	tests := []struct {
		bytes []byte
		want  string
	}{
		{[]byte{0x00}, "NOP"},
		{[]byte{0x3E, 0x42}, "MVI A, $42"},
		{[]byte{0x21, 0x34, 0x12}, "LXI H, $1234"},
		{[]byte{0x7E}, "MOV A, M"},
		{[]byte{0x76}, "HLT"},
		{[]byte{0xC6, 0x01}, "ADI $01"},
		{[]byte{0x98}, "SBB B"},
		{[]byte{0xCA, 0x00, 0x80}, "JZ $8000"},
		{[]byte{0xD8}, "RC"},
		{[]byte{0xEF}, "RST 5"},
		{[]byte{0xF1}, "POP PSW"},
		{[]byte{0x22, 0x00, 0x40}, "SHLD $4000"},
		{[]byte{0xEB}, "XCHG"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			mem := cpuTestMemory(t)
			_ = mem.Load(0, tt.bytes)
			in, err := decodeWith(mem, 0, decode8080)
			if err != nil {
				t.Fatalf("decode % X: %v", tt.bytes, err)
			}
			if in.Mnemonic != tt.want || in.Length != len(tt.bytes) {
				t.Fatalf("got %q/%d, want %q/%d", in.Mnemonic, in.Length, tt.want, len(tt.bytes))
			}
		})
	}
}

// The decoder must accept exactly the opcodes the core executes.
func TestDecoderAgreesWithExecutor(t *testing.T) {
	type page struct {
		name   string
		prefix []byte
	}
	pages := []page{{"base", nil}, {"CB", []byte{0xCB}}, {"ED", []byte{0xED}}, {"DD", []byte{0xDD}}, {"FD", []byte{0xFD}}}

	for _, p := range pages {
		for op := range 256 {
			program := append(append([]byte{}, p.prefix...), byte(op))
			name := fmt.Sprintf("Z80 %s %02X", p.name, op)
			rig := newCPUZ80TestRig(t)
			rig.resetAndLoad(t, 0x0100, program)
			rig.cpu.SP = 0x8000

			d := NewDebugZ80(rig.cpu)
			_, decErr := d.Decode(rig.mem, 0x0100)
			execErr := rig.cpu.Step()
			if (decErr == nil) != (execErr == nil) {
				t.Errorf("%s: decode err %v, execute err %v", name, decErr, execErr)
			}
		}
	}

	for op := range 256 {
		r := newCPU8080TestRig(t, 0x0100, []byte{byte(op)})
		r.cpu.SP = 0x8000
		d := NewDebug8080(r.cpu)
		_, decErr := d.Decode(r.mem, 0x0100)
		execErr := r.cpu.Step()
		if (decErr == nil) != (execErr == nil) {
			t.Errorf("8080 %02X: decode err %v, execute err %v", op, decErr, execErr)
		}
	}
}

func TestDecodeIsSideEffectFree(t *testing.T) {
	rig := newCPUZ80TestRig(t)
	rig.resetAndLoad(t, 0x0000, []byte{0xED, 0xB0})
	rig.cpu.R = 0x10
	d := NewDebugZ80(rig.cpu)
	for range 3 {
		if _, err := d.Decode(rig.mem, 0); err != nil {
			t.Fatalf("Decode: %v", err)
		}
	}
	requireEqualU16(t, "PC", rig.cpu.PC, 0x0000)
	requireEqualU8(t, "R", rig.cpu.R, 0x10)
	requireCycles(t, rig.cpu.cycles, 0)
}

func TestDecodeFailureReportsBytes(t *testing.T) {
	mem := cpuTestMemory(t)
	_ = mem.Load(0x10, []byte{0xED, 0x00})
	_, err := decodeWith(mem, 0x10, decodeZ80)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want *DecodeError", err)
	}
	if !errors.Is(err, ErrDecodeFailure) {
		t.Fatalf("errors.Is(err, ErrDecodeFailure) = false")
	}
	if de.Address != 0x10 || len(de.Opcode) != 2 {
		t.Fatalf("DecodeError = %+v", de)
	}
}

func newListingDisassembler(t *testing.T, size int, program []byte) *Disassembler {
	t.Helper()
	mem, err := NewAddressSpace(size, NewRAMDevice(size))
	if err != nil {
		t.Fatalf("NewAddressSpace: %v", err)
	}
	_ = mem.Load(0, program)
	cpu := NewDebugZ80(NewCPU_Z80(mem, nil))
	return NewDisassembler(cpu, mem)
}

func TestListingAdvancesByLength(t *testing.T) {
	d := newListingDisassembler(t, MAX_MEMORY_SIZE, []byte{
		0x21, 0x00, 0x40, // LD HL,$4000
		0xED, 0x00, // illegal
		0x3E, 0x01, // LD A,$01
	})
	entries := d.Listing(0, 4)

	wantAddr := []uint16{0x0000, 0x0003, 0x0004, 0x0005}
	wantHex := []string{"21 00 40", "ED", "00", "3E 01"}
	wantText := []string{"LD HL, $4000", "N/A", "NOP", "LD A, $01"}
	for i, e := range entries {
		if e.Address != wantAddr[i] || e.HexText() != wantHex[i] || e.MnemonicText() != wantText[i] {
			t.Fatalf("row %d = %04X %q %q, want %04X %q %q",
				i, e.Address, e.HexText(), e.MnemonicText(), wantAddr[i], wantHex[i], wantText[i])
		}
	}
	if entries[1].Length() != 1 {
		t.Fatalf("failed row length = %d, want 1", entries[1].Length())
	}
}

func TestListingIsRestartable(t *testing.T) {
	d := newListingDisassembler(t, MAX_MEMORY_SIZE, []byte{0x00, 0x3E, 0x01})
	seq := d.Entries(0, 2)
	var first, second []uint16
	for e := range seq {
		first = append(first, e.Address)
	}
	for e := range seq {
		second = append(second, e.Address)
	}
	if fmt.Sprint(first) != fmt.Sprint(second) {
		t.Fatalf("second iteration %v differs from first %v", second, first)
	}
}

func TestListingWrapsAtTopOfMemory(t *testing.T) {
	d := newListingDisassembler(t, MAX_MEMORY_SIZE, nil)
	entries := d.Listing(0xFFFF, 2)
	if entries[0].Address != 0xFFFF || entries[1].Address != 0x0000 {
		t.Fatalf("addresses = %04X %04X", entries[0].Address, entries[1].Address)
	}
}

func TestListingPastMemoryEnd(t *testing.T) {
	program := make([]byte, 0x100)
	program[0xFF] = 0xC3 // JP nn, operands missing
	d := newListingDisassembler(t, 0x100, program)

	entries := d.Listing(0xFF, 2)
	if got := entries[0].HexText(); got != "C3" {
		t.Fatalf("row 0 hex = %q, want C3", got)
	}
	if got := entries[1].HexText(); got != "??" {
		t.Fatalf("row 1 hex = %q, want ??", got)
	}
	if !errors.Is(entries[1].Err, ErrOutOfRange) {
		t.Fatalf("row 1 err = %v, want ErrOutOfRange", entries[1].Err)
	}
}

func TestListingAnchor(t *testing.T) {
	var a ListingAnchor
	if a.Start(0x1234) != 0x1234 {
		t.Fatalf("unpinned anchor should follow PC")
	}
	if err := a.SetHex("8000"); err == nil {
		t.Fatalf("SetHex on unpinned anchor should fail")
	}

	a.Toggle(0x1234)
	if a.Start(0x5555) != 0x1234 {
		t.Fatalf("pinned anchor moved with PC")
	}
	if err := a.SetHex("$8000"); err != nil {
		t.Fatalf("SetHex: %v", err)
	}
	if a.Start(0) != 0x8000 {
		t.Fatalf("Start = %04X, want 8000", a.Start(0))
	}
	if err := a.SetHex("XYZ"); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("SetHex(XYZ) err = %v", err)
	}
	if a.Start(0) != 0x8000 {
		t.Fatalf("bad SetHex changed the anchor")
	}

	a.Toggle(0x9999)
	if a.Pinned() || a.Start(0x4444) != 0x4444 {
		t.Fatalf("toggle did not release the pin")
	}
}

func TestListingOfUnrecognisedBytes(t *testing.T) {
	mem, err := NewAddressSpace(MAX_MEMORY_SIZE, NewRAMDevice(MAX_MEMORY_SIZE))
	if err != nil {
		t.Fatalf("NewAddressSpace: %v", err)
	}
	_ = mem.Load(0, []byte{0x08, 0x08, 0x08})
	d := NewDisassembler(NewDebug8080(NewCPU_8080(mem, nil)), mem)

	if _, err := d.Decode(0); !errors.Is(err, ErrDecodeFailure) {
		t.Fatalf("Decode(0) err = %v", err)
	}
	entries := d.Listing(0, 3)
	if len(entries) != 3 {
		t.Fatalf("listing has %d entries", len(entries))
	}
	for i, e := range entries {
		if e.Address != uint16(i) || e.Err == nil || e.MnemonicText() != "N/A" {
			t.Errorf("entry %d = %04X %q err=%v", i, e.Address, e.MnemonicText(), e.Err)
		}
	}
}
