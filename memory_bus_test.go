package main

import (
	"errors"
	"testing"
)

func newTestAddressSpace(t *testing.T, devices ...MemoryDevice) *AddressSpace {
	t.Helper()
	size := 0
	for _, d := range devices {
		size += d.Size()
	}
	as, err := NewAddressSpace(size, devices...)
	if err != nil {
		t.Fatalf("NewAddressSpace: %v", err)
	}
	return as
}

// TestAddressSpaceRoutesToDevices verifies that reads and writes land in the
// device owning the address, at the right offset.
func TestAddressSpaceRoutesToDevices(t *testing.T) {
	low := NewRAMDevice(0x100)
	display := NewDisplayDevice(4, 4)
	high := NewRAMDevice(0x10)
	as := newTestAddressSpace(t, low, display, high)

	if as.Size() != 0x100+16+0x10 {
		t.Fatalf("Size() = %d", as.Size())
	}
	if err := as.Write8(0x0105, 0xE0); err != nil {
		t.Fatalf("Write8: %v", err)
	}
	if display.buffer[5] != 0xE0 {
		t.Fatalf("display byte 5 = %02X, want E0", display.buffer[5])
	}
	if err := as.Write8(0x0110, 0x77); err != nil {
		t.Fatalf("Write8: %v", err)
	}
	if v, _ := high.Read8(0); v != 0x77 {
		t.Fatalf("high RAM byte 0 = %02X, want 77", v)
	}
	if v, err := as.Read8(0x0105); err != nil || v != 0xE0 {
		t.Fatalf("Read8 = %02X, %v", v, err)
	}
}

func TestAddressSpaceOutOfRange(t *testing.T) {
	as := newTestAddressSpace(t, NewRAMDevice(0x200))

	_, err := as.Read8(0x0200)
	var memErr *MemoryError
	if !errors.As(err, &memErr) || !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Read8 past end err = %v", err)
	}
	if memErr.Op != "read" || memErr.Addr != 0x0200 {
		t.Fatalf("MemoryError = %+v", memErr)
	}
	if err := as.Write8(0xFFFF, 1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Write8 past end err = %v", err)
	}
}

func TestROMRejectsWritesButLoads(t *testing.T) {
	rom := NewROMDevice(0x10)
	as := newTestAddressSpace(t, rom, NewRAMDevice(0x10))

	if err := as.Write8(0x0004, 0x12); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("ROM write err = %v, want ErrReadOnly", err)
	}
	if err := as.Load(0x000E, []byte{0xAA, 0xBB, 0xCC}); err != nil {
		t.Fatalf("Load across ROM/RAM: %v", err)
	}
	got, err := as.ReadRange(0x000E, 3)
	if err != nil || got[0] != 0xAA || got[1] != 0xBB || got[2] != 0xCC {
		t.Fatalf("ReadRange = % X, %v", got, err)
	}
}

func TestLoadThatDoesNotFitWritesNothing(t *testing.T) {
	as := newTestAddressSpace(t, NewRAMDevice(0x10))
	err := as.Load(0x000E, []byte{1, 2, 3})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Load err = %v, want ErrOutOfRange", err)
	}
	if v, _ := as.Read8(0x000E); v != 0 {
		t.Fatalf("partial load wrote %02X", v)
	}
}

func TestReadRangeStopsAtFailure(t *testing.T) {
	as := newTestAddressSpace(t, NewRAMDevice(0x10))
	_ = as.Load(0x0E, []byte{0x01, 0x02})
	got, err := as.ReadRange(0x000E, 4)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("ReadRange err = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReadRange returned %d bytes, want 2", len(got))
	}
}

func TestNewAddressSpaceValidatesLayout(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		devices []MemoryDevice
	}{
		{"zero size", 0, nil},
		{"too large", MAX_MEMORY_SIZE + 1, []MemoryDevice{NewRAMDevice(MAX_MEMORY_SIZE)}},
		{"gap at end", 0x200, []MemoryDevice{NewRAMDevice(0x100)}},
		{"overrun", 0x100, []MemoryDevice{NewRAMDevice(0x80), NewRAMDevice(0x100)}},
		{"empty device", 0x100, []MemoryDevice{NewRAMDevice(0), NewRAMDevice(0x100)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAddressSpace(tt.size, tt.devices...); err == nil {
				t.Fatalf("NewAddressSpace accepted %s", tt.name)
			}
		})
	}
}

func TestAddressSpaceResetAndRegions(t *testing.T) {
	rom := NewROMDevice(0x10)
	as := newTestAddressSpace(t, rom, NewDisplayDevice(2, 2), NewRAMDevice(0x0C))
	_ = as.Load(0, []byte{0x11})
	_ = as.Write8(0x0010, 0x22)
	_ = as.Write8(0x0014, 0x33)

	as.Reset()
	for _, addr := range []uint16{0x0010, 0x0014} {
		if v, _ := as.Read8(addr); v != 0 {
			t.Fatalf("byte at %04X = %02X after Reset", addr, v)
		}
	}
	if v, _ := as.Read8(0); v != 0x11 {
		t.Fatalf("ROM byte = %02X after Reset, want 11", v)
	}

	regions := as.Regions()
	want := []MemoryRegion{
		{Start: 0x00, End: 0x10, Device: "ROM"},
		{Start: 0x10, End: 0x14, Device: "DISPLAY"},
		{Start: 0x14, End: 0x20, Device: "RAM"},
	}
	if len(regions) != len(want) {
		t.Fatalf("Regions() = %+v", regions)
	}
	for i := range want {
		if regions[i] != want[i] {
			t.Fatalf("region %d = %+v, want %+v", i, regions[i], want[i])
		}
	}
}

func TestFullAddressSpaceWriteReadBack(t *testing.T) {
	as := newTestAddressSpace(t, NewRAMDevice(MAX_MEMORY_SIZE))
	if err := as.Write8(0x1234, 0xAB); err != nil {
		t.Fatalf("Write8: %v", err)
	}
	if v, err := as.Read8(0x1234); err != nil || v != 0xAB {
		t.Fatalf("Read8(0x1234) = %02X, %v", v, err)
	}
	if v, _ := as.Read8(0x1235); v != 0 {
		t.Fatalf("Read8(0x1235) = %02X, neighbour changed", v)
	}
}

func TestWriteRangeIsAllOrNothing(t *testing.T) {
	ram := NewRAMDevice(0x10)
	rom := NewROMDevice(0x10)
	as := newTestAddressSpace(t, ram, rom)

	if err := as.WriteRange(0x0E, []byte{1, 2, 3}); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("WriteRange into ROM err = %v", err)
	}
	if v, _ := as.Read8(0x0E); v != 0 {
		t.Fatalf("byte 0E = %02X, write happened before the check", v)
	}
	if err := as.WriteRange(0x1F, []byte{1, 2}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("WriteRange past the end err = %v", err)
	}
	if err := as.WriteRange(0x00, []byte{7, 8}); err != nil {
		t.Fatalf("WriteRange: %v", err)
	}
	if v, _ := as.Read8(0x01); v != 8 {
		t.Fatalf("byte 01 = %02X, want 08", v)
	}
}
