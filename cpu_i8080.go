// cpu_i8080.go - Intel 8080 CPU core

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
cpu_i8080.go - Intel 8080 core

The 8080 core executes the documented 8080 instruction set against any
Memory implementation. It is also the base of the Z80 core, which embeds it
and switches the flag logic to Z80 semantics (P/V as overflow, N flag).

Execution model:

    Step executes exactly one instruction and returns an *ExecutionError when
    the opcode is not part of the instruction set or a memory access fails.
    A failed memory access does not roll back what the instruction already
    changed; an illegal opcode leaves PC on the offending byte.
    A halted CPU does not advance: Step and RunForCycles return immediately.
    Cycle counts come from the 8080 state table; conditional CALL/RET use the
    not-taken count.

The undocumented aliases (08, 10, 18, 20, 28, 30, 38, CB, D9, DD, ED, FD) are
rejected so that unknown data shows up as illegal in the debugger.
*/

package main

import "fmt"

// PortIO receives IN/OUT traffic. A nil PortIO reads $FF and drops writes.
type PortIO interface {
	In(port uint16) byte
	Out(port uint16, value byte)
}

const (
	flagS  = 0x80
	flagZ  = 0x40
	flagY  = 0x20
	flagH  = 0x10
	flagX  = 0x08
	flagPV = 0x04
	flagN  = 0x02
	flagC  = 0x01
)

var cycles8080 = [256]byte{
	4, 10, 7, 5, 5, 5, 7, 4, 4, 10, 7, 5, 5, 5, 7, 4,
	4, 10, 7, 5, 5, 5, 7, 4, 4, 10, 7, 5, 5, 5, 7, 4,
	4, 10, 16, 5, 5, 5, 7, 4, 4, 10, 16, 5, 5, 5, 7, 4,
	4, 10, 13, 5, 10, 10, 10, 4, 4, 10, 13, 5, 5, 5, 7, 4,
	5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5,
	5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5,
	5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5,
	7, 7, 7, 7, 7, 7, 7, 7, 5, 5, 5, 5, 5, 5, 7, 5,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	5, 10, 10, 10, 11, 11, 7, 11, 5, 10, 10, 10, 11, 17, 7, 11,
	5, 10, 10, 10, 11, 11, 7, 11, 5, 10, 10, 10, 11, 17, 7, 11,
	5, 10, 10, 18, 11, 11, 7, 11, 5, 5, 10, 4, 11, 17, 7, 11,
	5, 10, 10, 4, 11, 11, 7, 11, 5, 5, 10, 4, 11, 17, 7, 11,
}

type CPU_8080 struct {
	A byte
	F byte
	B byte
	C byte
	D byte
	E byte
	H byte
	L byte

	SP uint16
	PC uint16

	IFF1 bool
	IFF2 bool

	halted bool
	cycles uint64

	mem Memory
	io  PortIO

	// Per-instruction bookkeeping
	opStart uint16
	fault   error  // first memory error of the current instruction
	illegal []byte // set when a prefixed opcode is not implemented

	z80 bool // Z80 flag semantics

	baseOps [256]func(*CPU_8080)
}

func NewCPU_8080(mem Memory, io PortIO) *CPU_8080 {
	c := &CPU_8080{mem: mem, io: io}
	c.initBaseOps()
	c.Reset()
	return c
}

func (c *CPU_8080) Reset() {
	c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L = 0, 0, 0, 0, 0, 0, 0, 0
	if !c.z80 {
		c.F = 0x02
	}
	c.SP = 0
	c.PC = 0
	c.IFF1, c.IFF2 = false, false
	c.halted = false
	c.cycles = 0
}

func (c *CPU_8080) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU_8080) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU_8080) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU_8080) AF() uint16 { return uint16(c.A)<<8 | uint16(c.F) }

func (c *CPU_8080) SetBC(v uint16) { c.B, c.C = byte(v>>8), byte(v) }
func (c *CPU_8080) SetDE(v uint16) { c.D, c.E = byte(v>>8), byte(v) }
func (c *CPU_8080) SetHL(v uint16) { c.H, c.L = byte(v>>8), byte(v) }
func (c *CPU_8080) SetAF(v uint16) { c.A, c.F = byte(v>>8), c.normalizeFlags(byte(v)) }

// normalizeFlags forces the fixed 8080 flag bits (bit 1 set, bits 3 and 5
// clear). Z80 flags are stored as given.
func (c *CPU_8080) normalizeFlags(f byte) byte {
	if c.z80 {
		return f
	}
	return f&^(flagY|flagX) | flagN
}

// Bus access. Failures are latched in c.fault and surface when the
// instruction finishes.

func (c *CPU_8080) read(addr uint16) byte {
	v, err := c.mem.Read8(addr)
	if err != nil {
		if c.fault == nil {
			c.fault = err
		}
		return 0xFF
	}
	return v
}

func (c *CPU_8080) write(addr uint16, value byte) {
	if err := c.mem.Write8(addr, value); err != nil && c.fault == nil {
		c.fault = err
	}
}

func (c *CPU_8080) read16(addr uint16) uint16 {
	lo := c.read(addr)
	hi := c.read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU_8080) write16(addr uint16, value uint16) {
	c.write(addr, byte(value))
	c.write(addr+1, byte(value>>8))
}

func (c *CPU_8080) fetchByte() byte {
	v := c.read(c.PC)
	c.PC++
	return v
}

func (c *CPU_8080) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU_8080) push(value uint16) {
	c.SP -= 2
	c.write16(c.SP, value)
}

func (c *CPU_8080) pop() uint16 {
	v := c.read16(c.SP)
	c.SP += 2
	return v
}

func (c *CPU_8080) in(port uint16) byte {
	if c.io == nil {
		return 0xFF
	}
	return c.io.In(port)
}

func (c *CPU_8080) out(port uint16, value byte) {
	if c.io != nil {
		c.io.Out(port, value)
	}
}

// Register access by instruction encoding: B, C, D, E, H, L, (HL), A.
func (c *CPU_8080) getReg(code byte) byte {
	switch code & 7 {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.read(c.HL())
	}
	return c.A
}

func (c *CPU_8080) setReg(code byte, value byte) {
	switch code & 7 {
	case 0:
		c.B = value
	case 1:
		c.C = value
	case 2:
		c.D = value
	case 3:
		c.E = value
	case 4:
		c.H = value
	case 5:
		c.L = value
	case 6:
		c.write(c.HL(), value)
	default:
		c.A = value
	}
}

// Register pairs by encoding: BC, DE, HL, SP.
func (c *CPU_8080) getRP(code byte) uint16 {
	switch code & 3 {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	}
	return c.SP
}

func (c *CPU_8080) setRP(code byte, value uint16) {
	switch code & 3 {
	case 0:
		c.SetBC(value)
	case 1:
		c.SetDE(value)
	case 2:
		c.SetHL(value)
	default:
		c.SP = value
	}
}

func (c *CPU_8080) cond(code byte) bool {
	switch code & 7 {
	case 0:
		return c.F&flagZ == 0
	case 1:
		return c.F&flagZ != 0
	case 2:
		return c.F&flagC == 0
	case 3:
		return c.F&flagC != 0
	case 4:
		return c.F&flagPV == 0
	case 5:
		return c.F&flagPV != 0
	case 6:
		return c.F&flagS == 0
	}
	return c.F&flagS != 0
}

func parity(v byte) bool {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v&1 == 0
}

func szFlags(v byte) byte {
	f := v & flagS
	if v == 0 {
		f |= flagZ
	}
	return f
}

func (c *CPU_8080) subFlag() byte {
	if c.z80 {
		return flagN
	}
	return 0
}

// ALU

func (c *CPU_8080) add8(v, carry byte) {
	a := c.A
	r16 := uint16(a) + uint16(v) + uint16(carry)
	r := byte(r16)
	f := szFlags(r)
	if (a^v^r)&0x10 != 0 {
		f |= flagH
	}
	if r16 > 0xFF {
		f |= flagC
	}
	if c.z80 {
		if (a^r)&(v^r)&0x80 != 0 {
			f |= flagPV
		}
	} else if parity(r) {
		f |= flagPV
	}
	c.F = c.normalizeFlags(f)
	c.A = r
}

func (c *CPU_8080) sub8(v, carry byte, store bool) {
	a := c.A
	r16 := uint16(a) - uint16(v) - uint16(carry)
	r := byte(r16)
	f := szFlags(r) | c.subFlag()
	if (a^v^r)&0x10 != 0 {
		f |= flagH
	}
	if r16 > 0xFF {
		f |= flagC
	}
	if c.z80 {
		if (a^v)&(a^r)&0x80 != 0 {
			f |= flagPV
		}
	} else if parity(r) {
		f |= flagPV
	}
	c.F = c.normalizeFlags(f)
	if store {
		c.A = r
	}
}

func (c *CPU_8080) logic8(r byte, halfCarry bool) {
	f := szFlags(r)
	if parity(r) {
		f |= flagPV
	}
	if halfCarry {
		f |= flagH
	}
	c.F = c.normalizeFlags(f)
	c.A = r
}

// alu dispatches the eight accumulator operations: ADD, ADC, SUB, SBC,
// AND, XOR, OR, CP.
func (c *CPU_8080) alu(op byte, v byte) {
	carry := c.F & flagC
	switch op & 7 {
	case 0:
		c.add8(v, 0)
	case 1:
		c.add8(v, carry)
	case 2:
		c.sub8(v, 0, true)
	case 3:
		c.sub8(v, carry, true)
	case 4:
		c.logic8(c.A&v, true)
	case 5:
		c.logic8(c.A^v, false)
	case 6:
		c.logic8(c.A|v, false)
	case 7:
		c.sub8(v, 0, false)
	}
}

func (c *CPU_8080) inc8(v byte) byte {
	r := v + 1
	f := c.F&flagC | szFlags(r)
	if r&0x0F == 0 {
		f |= flagH
	}
	if c.z80 {
		if r == 0x80 {
			f |= flagPV
		}
	} else if parity(r) {
		f |= flagPV
	}
	c.F = c.normalizeFlags(f)
	return r
}

func (c *CPU_8080) dec8(v byte) byte {
	r := v - 1
	f := c.F&flagC | szFlags(r) | c.subFlag()
	if r&0x0F == 0x0F {
		f |= flagH
	}
	if c.z80 {
		if r == 0x7F {
			f |= flagPV
		}
	} else if parity(r) {
		f |= flagPV
	}
	c.F = c.normalizeFlags(f)
	return r
}

func (c *CPU_8080) addHL(v uint16) {
	hl := c.HL()
	r := uint32(hl) + uint32(v)
	f := c.F &^ (flagC | flagH | flagN)
	if r > 0xFFFF {
		f |= flagC
	}
	if c.z80 && (uint32(hl)^uint32(v)^r)&0x1000 != 0 {
		f |= flagH
	}
	c.F = c.normalizeFlags(f)
	c.SetHL(uint16(r))
}

func (c *CPU_8080) daa() {
	a := c.A
	var corr byte
	carry := c.F&flagC != 0
	if c.F&flagH != 0 || a&0x0F > 9 {
		corr |= 0x06
	}
	if carry || a > 0x99 {
		corr |= 0x60
		carry = true
	}
	var r, f byte
	if c.z80 && c.F&flagN != 0 {
		r = a - corr
		if c.F&flagH != 0 && a&0x0F < 6 {
			f = flagH
		}
	} else {
		r = a + corr
		if a&0x0F > 9 {
			f = flagH
		}
	}
	f |= szFlags(r) | c.F&flagN
	if parity(r) {
		f |= flagPV
	}
	if carry {
		f |= flagC
	}
	c.F = c.normalizeFlags(f)
	c.A = r
}

func (c *CPU_8080) initBaseOps() {
	ops := &c.baseOps

	ops[0x00] = func(c *CPU_8080) {}

	for rp := byte(0); rp < 4; rp++ {
		ops[0x01|rp<<4] = func(c *CPU_8080) { c.setRP(rp, c.fetchWord()) }
		ops[0x03|rp<<4] = func(c *CPU_8080) { c.setRP(rp, c.getRP(rp)+1) }
		ops[0x0B|rp<<4] = func(c *CPU_8080) { c.setRP(rp, c.getRP(rp)-1) }
		ops[0x09|rp<<4] = func(c *CPU_8080) { c.addHL(c.getRP(rp)) }
	}

	ops[0x02] = func(c *CPU_8080) { c.write(c.BC(), c.A) }
	ops[0x12] = func(c *CPU_8080) { c.write(c.DE(), c.A) }
	ops[0x0A] = func(c *CPU_8080) { c.A = c.read(c.BC()) }
	ops[0x1A] = func(c *CPU_8080) { c.A = c.read(c.DE()) }
	ops[0x22] = func(c *CPU_8080) { c.write16(c.fetchWord(), c.HL()) }
	ops[0x2A] = func(c *CPU_8080) { c.SetHL(c.read16(c.fetchWord())) }
	ops[0x32] = func(c *CPU_8080) { c.write(c.fetchWord(), c.A) }
	ops[0x3A] = func(c *CPU_8080) { c.A = c.read(c.fetchWord()) }

	for r := byte(0); r < 8; r++ {
		ops[0x04|r<<3] = func(c *CPU_8080) { c.setReg(r, c.inc8(c.getReg(r))) }
		ops[0x05|r<<3] = func(c *CPU_8080) { c.setReg(r, c.dec8(c.getReg(r))) }
		ops[0x06|r<<3] = func(c *CPU_8080) { c.setReg(r, c.fetchByte()) }
	}

	// Accumulator rotates and flag ops
	ops[0x07] = func(c *CPU_8080) {
		carry := c.A >> 7
		c.A = c.A<<1 | carry
		c.F = c.normalizeFlags(c.F&^(flagC|flagH|flagN) | carry)
	}
	ops[0x0F] = func(c *CPU_8080) {
		carry := c.A & 1
		c.A = c.A>>1 | carry<<7
		c.F = c.normalizeFlags(c.F&^(flagC|flagH|flagN) | carry)
	}
	ops[0x17] = func(c *CPU_8080) {
		carry := c.A >> 7
		c.A = c.A<<1 | c.F&flagC
		c.F = c.normalizeFlags(c.F&^(flagC|flagH|flagN) | carry)
	}
	ops[0x1F] = func(c *CPU_8080) {
		carry := c.A & 1
		c.A = c.A>>1 | (c.F&flagC)<<7
		c.F = c.normalizeFlags(c.F&^(flagC|flagH|flagN) | carry)
	}
	ops[0x27] = func(c *CPU_8080) { c.daa() }
	ops[0x2F] = func(c *CPU_8080) {
		c.A = ^c.A
		if c.z80 {
			c.F |= flagH | flagN
		}
	}
	ops[0x37] = func(c *CPU_8080) { c.F = c.normalizeFlags(c.F&^(flagH|flagN) | flagC) }
	ops[0x3F] = func(c *CPU_8080) {
		f := c.F &^ (flagH | flagN)
		if c.z80 && c.F&flagC != 0 {
			f |= flagH
		}
		c.F = c.normalizeFlags(f ^ flagC)
	}

	// MOV r, r' and HLT
	for op := 0x40; op < 0x80; op++ {
		dst := byte(op>>3) & 7
		src := byte(op) & 7
		ops[op] = func(c *CPU_8080) { c.setReg(dst, c.getReg(src)) }
	}
	ops[0x76] = func(c *CPU_8080) { c.halted = true }

	// ALU r
	for op := 0x80; op < 0xC0; op++ {
		aluOp := byte(op>>3) & 7
		src := byte(op) & 7
		ops[op] = func(c *CPU_8080) { c.alu(aluOp, c.getReg(src)) }
	}

	for cc := byte(0); cc < 8; cc++ {
		ops[0xC0|cc<<3] = func(c *CPU_8080) {
			if c.cond(cc) {
				c.PC = c.pop()
			}
		}
		ops[0xC2|cc<<3] = func(c *CPU_8080) {
			addr := c.fetchWord()
			if c.cond(cc) {
				c.PC = addr
			}
		}
		ops[0xC4|cc<<3] = func(c *CPU_8080) {
			addr := c.fetchWord()
			if c.cond(cc) {
				c.push(c.PC)
				c.PC = addr
			}
		}
		ops[0xC6|cc<<3] = func(c *CPU_8080) { c.alu(cc, c.fetchByte()) }
		ops[0xC7|cc<<3] = func(c *CPU_8080) {
			c.push(c.PC)
			c.PC = uint16(cc) * 8
		}
	}

	for rp := byte(0); rp < 4; rp++ {
		ops[0xC1|rp<<4] = func(c *CPU_8080) {
			v := c.pop()
			if rp == 3 {
				c.SetAF(v)
				return
			}
			c.setRP(rp, v)
		}
		ops[0xC5|rp<<4] = func(c *CPU_8080) {
			if rp == 3 {
				c.push(uint16(c.A)<<8 | uint16(c.normalizeFlags(c.F)))
				return
			}
			c.push(c.getRP(rp))
		}
	}

	ops[0xC3] = func(c *CPU_8080) { c.PC = c.fetchWord() }
	ops[0xC9] = func(c *CPU_8080) { c.PC = c.pop() }
	ops[0xCD] = func(c *CPU_8080) {
		addr := c.fetchWord()
		c.push(c.PC)
		c.PC = addr
	}
	ops[0xD3] = func(c *CPU_8080) {
		port := c.fetchByte()
		c.out(uint16(c.A)<<8|uint16(port), c.A)
	}
	ops[0xDB] = func(c *CPU_8080) {
		port := c.fetchByte()
		c.A = c.in(uint16(c.A)<<8 | uint16(port))
	}
	ops[0xE3] = func(c *CPU_8080) {
		v := c.read16(c.SP)
		c.write16(c.SP, c.HL())
		c.SetHL(v)
	}
	ops[0xE9] = func(c *CPU_8080) { c.PC = c.HL() }
	ops[0xEB] = func(c *CPU_8080) {
		de := c.DE()
		c.SetDE(c.HL())
		c.SetHL(de)
	}
	ops[0xF3] = func(c *CPU_8080) { c.IFF1, c.IFF2 = false, false }
	ops[0xF9] = func(c *CPU_8080) { c.SP = c.HL() }
	ops[0xFB] = func(c *CPU_8080) { c.IFF1, c.IFF2 = true, true }
}

// Step executes one instruction.
func (c *CPU_8080) Step() error {
	if c.halted {
		return nil
	}
	c.fault = nil
	c.opStart = c.PC
	op := c.fetchByte()
	if c.fault != nil {
		c.PC = c.opStart
		return &ExecutionError{PC: c.opStart, Err: c.fault}
	}
	fn := c.baseOps[op]
	if fn == nil {
		c.PC = c.opStart
		return &ExecutionError{PC: c.opStart, Opcode: []byte{op}, Err: fmt.Errorf("illegal opcode $%02X", op)}
	}
	fn(c)
	c.cycles += uint64(cycles8080[op])
	if c.fault != nil {
		return &ExecutionError{PC: c.opStart, Opcode: []byte{op}, Err: c.fault}
	}
	return nil
}

// runForCycles steps until at least budget cycles have elapsed, the CPU
// halts or an instruction fails.
func runForCycles(budget int, step func() error, cycles func() uint64, halted func() bool) error {
	target := cycles() + uint64(max(budget, 0))
	for cycles() < target {
		if halted() {
			return nil
		}
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
