// memory_bus.go - Address space and memory devices for the debugger

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

(c) 2024 - 2026 Zayn Otley
(c) 2026 The emudbg Authors
https://github.com/mirage2032/emudbg
License: GPLv3 or later
*/

/*
memory_bus.go - Address Space for the debugger

The address space is the single source of truth for every byte the CPU,
the disassembler, the memory editor and the display see. It is composed of
memory devices laid end to end from address 0: each device owns a
contiguous range and is addressed by its offset inside that range.

Core Features:

    Devices are bound once at construction, in ascending order, and never remapped.
    The bound sizes must add up to the configured memory size (at most 64KB).
    Reads and writes outside the configured size fail with ErrOutOfRange.
    Writes to read-only devices fail with ErrReadOnly instead of being dropped.
    Program loading checks the whole payload before touching any byte.

The AddressSpace satisfies the CPU Memory contract directly, so the CPU
cores address it without an adapter.
*/

package main

import (
	"fmt"
	"sort"
)

const (
	MAX_MEMORY_SIZE = 0x10000
)

// Memory is the byte-level contract shared by the CPU cores, the
// disassembler and the address space itself.
type Memory interface {
	Read8(addr uint16) (byte, error)
	Write8(addr uint16, value byte) error
	Size() int
}

// MemoryDevice is a component bound to a range of the address space.
// Offsets passed to Read8/Write8 are relative to the start of that range.
type MemoryDevice interface {
	Memory
	Name() string
}

// ForceWriter is implemented by devices that can be seeded even when the
// CPU may not write to them (ROM).
type ForceWriter interface {
	Write8Force(offset uint16, value byte) error
}

// ReadOnlyDevice is implemented by devices that reject CPU and editor
// writes, so multi-byte edits can be checked up front.
type ReadOnlyDevice interface {
	ReadOnly() bool
}

// RAMDevice is a plain read/write block.
type RAMDevice struct {
	data []byte
}

func NewRAMDevice(size int) *RAMDevice {
	return &RAMDevice{data: make([]byte, size)}
}

func (r *RAMDevice) Name() string { return "RAM" }
func (r *RAMDevice) Size() int    { return len(r.data) }

func (r *RAMDevice) Read8(offset uint16) (byte, error) {
	if int(offset) >= len(r.data) {
		return 0, ErrOutOfRange
	}
	return r.data[offset], nil
}

func (r *RAMDevice) Write8(offset uint16, value byte) error {
	if int(offset) >= len(r.data) {
		return ErrOutOfRange
	}
	r.data[offset] = value
	return nil
}

func (r *RAMDevice) Write8Force(offset uint16, value byte) error {
	return r.Write8(offset, value)
}

func (r *RAMDevice) reset() {
	clear(r.data)
}

// ROMDevice rejects CPU and editor writes; only program loading may fill it.
type ROMDevice struct {
	data []byte
}

func NewROMDevice(size int) *ROMDevice {
	return &ROMDevice{data: make([]byte, size)}
}

func (r *ROMDevice) Name() string { return "ROM" }
func (r *ROMDevice) Size() int    { return len(r.data) }

func (r *ROMDevice) ReadOnly() bool { return true }

func (r *ROMDevice) Read8(offset uint16) (byte, error) {
	if int(offset) >= len(r.data) {
		return 0, ErrOutOfRange
	}
	return r.data[offset], nil
}

func (r *ROMDevice) Write8(offset uint16, value byte) error {
	if int(offset) >= len(r.data) {
		return ErrOutOfRange
	}
	return ErrReadOnly
}

func (r *ROMDevice) Write8Force(offset uint16, value byte) error {
	if int(offset) >= len(r.data) {
		return ErrOutOfRange
	}
	r.data[offset] = value
	return nil
}

// deviceBinding maps [start, end) onto a device.
type deviceBinding struct {
	start  uint32
	end    uint32
	device MemoryDevice
}

// MemoryRegion describes one binding for the memory map view.
type MemoryRegion struct {
	Start  uint32
	End    uint32 // exclusive
	Device string
}

// AddressSpace routes byte accesses to the device owning each address.
type AddressSpace struct {
	bindings []deviceBinding
	size     uint32
}

// NewAddressSpace lays the devices out from address 0 in the order given.
// The device sizes must add up to size.
func NewAddressSpace(size int, devices ...MemoryDevice) (*AddressSpace, error) {
	if size <= 0 || size > MAX_MEMORY_SIZE {
		return nil, fmt.Errorf("memory size $%X outside 1..$%X", size, MAX_MEMORY_SIZE)
	}
	as := &AddressSpace{size: uint32(size)}
	var next uint32
	for _, dev := range devices {
		if dev == nil || dev.Size() <= 0 {
			return nil, fmt.Errorf("device at $%04X has no storage", next)
		}
		end := next + uint32(dev.Size())
		if end > as.size {
			return nil, fmt.Errorf("%s at $%04X overruns memory size $%X", dev.Name(), next, size)
		}
		as.bindings = append(as.bindings, deviceBinding{start: next, end: end, device: dev})
		next = end
	}
	if next != as.size {
		return nil, fmt.Errorf("devices cover $%X bytes, memory size is $%X", next, size)
	}
	return as, nil
}

// Size returns the configured memory size in bytes.
func (as *AddressSpace) Size() int {
	return int(as.size)
}

func (as *AddressSpace) find(addr uint32) (*deviceBinding, bool) {
	if addr >= as.size {
		return nil, false
	}
	i := sort.Search(len(as.bindings), func(i int) bool {
		return as.bindings[i].end > addr
	})
	if i == len(as.bindings) {
		return nil, false
	}
	return &as.bindings[i], true
}

func (as *AddressSpace) Read8(addr uint16) (byte, error) {
	b, ok := as.find(uint32(addr))
	if !ok {
		return 0, &MemoryError{Op: "read", Addr: uint32(addr), Err: ErrOutOfRange}
	}
	v, err := b.device.Read8(uint16(uint32(addr) - b.start))
	if err != nil {
		return 0, &MemoryError{Op: "read", Addr: uint32(addr), Err: err}
	}
	return v, nil
}

func (as *AddressSpace) Write8(addr uint16, value byte) error {
	b, ok := as.find(uint32(addr))
	if !ok {
		return &MemoryError{Op: "write", Addr: uint32(addr), Err: ErrOutOfRange}
	}
	if err := b.device.Write8(uint16(uint32(addr)-b.start), value); err != nil {
		return &MemoryError{Op: "write", Addr: uint32(addr), Err: err}
	}
	return nil
}

// ReadRange reads n bytes starting at addr, stopping at the first failure.
// The bytes read before the failure are returned with the error.
func (as *AddressSpace) ReadRange(addr uint16, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for i := range n {
		a := uint32(addr) + uint32(i)
		if a >= MAX_MEMORY_SIZE {
			return out, &MemoryError{Op: "read", Addr: a, Err: ErrOutOfRange}
		}
		v, err := as.Read8(uint16(a))
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// WriteRange writes data from addr as one edit. The span must fit in
// memory and every target must be writable; nothing is written otherwise.
func (as *AddressSpace) WriteRange(addr uint16, data []byte) error {
	end := uint32(addr) + uint32(len(data))
	if end > as.size {
		return &MemoryError{Op: "write", Addr: max(uint32(addr), as.size), Err: ErrOutOfRange}
	}
	for a := uint32(addr); a < end; a++ {
		b, _ := as.find(a)
		if ro, ok := b.device.(ReadOnlyDevice); ok && ro.ReadOnly() {
			return &MemoryError{Op: "write", Addr: a, Err: ErrReadOnly}
		}
	}
	for i, v := range data {
		if err := as.Write8(addr+uint16(i), v); err != nil {
			return err
		}
	}
	return nil
}

// Load copies data into memory starting at origin. Read-only devices are
// seeded through ForceWriter. Nothing is written when data does not fit.
func (as *AddressSpace) Load(origin uint16, data []byte) error {
	if uint32(origin)+uint32(len(data)) > as.size {
		return &MemoryError{Op: "load", Addr: uint32(origin) + uint32(len(data)), Err: ErrOutOfRange}
	}
	for i, v := range data {
		addr := uint32(origin) + uint32(i)
		b, _ := as.find(addr)
		off := uint16(addr - b.start)
		var err error
		if fw, ok := b.device.(ForceWriter); ok {
			err = fw.Write8Force(off, v)
		} else {
			err = b.device.Write8(off, v)
		}
		if err != nil {
			return &MemoryError{Op: "load", Addr: addr, Err: err}
		}
	}
	return nil
}

// Reset zeroes every device that supports it.
func (as *AddressSpace) Reset() {
	for _, b := range as.bindings {
		if r, ok := b.device.(interface{ reset() }); ok {
			r.reset()
		}
	}
}

// Regions returns the memory map in ascending order.
func (as *AddressSpace) Regions() []MemoryRegion {
	regions := make([]MemoryRegion, len(as.bindings))
	for i, b := range as.bindings {
		regions[i] = MemoryRegion{Start: b.start, End: b.end, Device: b.device.Name()}
	}
	return regions
}
