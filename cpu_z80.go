// cpu_z80.go - Zilog Z80 CPU core

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
cpu_z80.go - Z80 core built on the 8080 core

The Z80 core reuses every 8080 operation with Z80 flag semantics and adds:

    EX AF,AF'   EXX   DJNZ   JR / JR cc
    the full CB page (rotates, shifts, BIT, RES, SET)
    ED: NEG, IM n, LD I/R, ADC/SBC HL, LD (nn)/rr, RETI/RETN,
        LDI/LDD/LDIR/LDDR, CPI/CPD/CPIR/CPDR, IN r,(C), OUT (C),r
    DD/FD: IX/IY loads, arithmetic, (IX+d) addressing and DD CB d op

Anything else behind a prefix is reported as an illegal opcode. The block
instructions repeat by rewinding PC, so one Step is one iteration.
*/

package main

import "fmt"

type CPU_Z80 struct {
	CPU_8080

	A2 byte
	F2 byte
	B2 byte
	C2 byte
	D2 byte
	E2 byte
	H2 byte
	L2 byte

	IX uint16
	IY uint16

	I  byte
	R  byte
	IM byte

	ops    [256]func(*CPU_Z80)
	edOps  [256]func(*CPU_Z80)
	idxOps [256]func(*CPU_Z80, *uint16)
}

func NewCPU_Z80(mem Memory, io PortIO) *CPU_Z80 {
	z := &CPU_Z80{}
	z.mem = mem
	z.io = io
	z.z80 = true
	z.initBaseOps()
	z.initZ80Ops()
	z.initEDOps()
	z.initIndexOps()
	z.Reset()
	return z
}

func (z *CPU_Z80) Reset() {
	z.CPU_8080.Reset()
	z.A2, z.F2, z.B2, z.C2, z.D2, z.E2, z.H2, z.L2 = 0, 0, 0, 0, 0, 0, 0, 0
	z.IX, z.IY = 0, 0
	z.I, z.R, z.IM = 0, 0, 0
	z.SP = 0xFFFF
}

func (z *CPU_Z80) AF2() uint16 { return uint16(z.A2)<<8 | uint16(z.F2) }
func (z *CPU_Z80) BC2() uint16 { return uint16(z.B2)<<8 | uint16(z.C2) }
func (z *CPU_Z80) DE2() uint16 { return uint16(z.D2)<<8 | uint16(z.E2) }
func (z *CPU_Z80) HL2() uint16 { return uint16(z.H2)<<8 | uint16(z.L2) }

func (z *CPU_Z80) SetAF2(v uint16) { z.A2, z.F2 = byte(v>>8), byte(v) }
func (z *CPU_Z80) SetBC2(v uint16) { z.B2, z.C2 = byte(v>>8), byte(v) }
func (z *CPU_Z80) SetDE2(v uint16) { z.D2, z.E2 = byte(v>>8), byte(v) }
func (z *CPU_Z80) SetHL2(v uint16) { z.H2, z.L2 = byte(v>>8), byte(v) }

func (z *CPU_Z80) ExAF() {
	z.A, z.A2 = z.A2, z.A
	z.F, z.F2 = z.F2, z.F
}

func (z *CPU_Z80) Exx() {
	z.B, z.B2 = z.B2, z.B
	z.C, z.C2 = z.C2, z.C
	z.D, z.D2 = z.D2, z.D
	z.E, z.E2 = z.E2, z.E
	z.H, z.H2 = z.H2, z.H
	z.L, z.L2 = z.L2, z.L
}

func (z *CPU_Z80) incrementR() {
	z.R = z.R&0x80 | (z.R+1)&0x7F
}

func (z *CPU_Z80) fetchOpcode() byte {
	z.incrementR()
	return z.fetchByte()
}

func (z *CPU_Z80) tick(cycles int) {
	z.cycles += uint64(cycles)
}

func (z *CPU_Z80) markIllegal(bytes ...byte) {
	if z.illegal == nil {
		z.illegal = bytes
	}
}

func (z *CPU_Z80) relJump(taken bool) {
	d := int8(z.fetchByte())
	if taken {
		z.PC += uint16(int16(d))
		z.tick(12)
		return
	}
	z.tick(7)
}

func (z *CPU_Z80) initZ80Ops() {
	for op := range 256 {
		if base := z.baseOps[op]; base != nil {
			cycles := int(cycles8080[op])
			z.ops[op] = func(z *CPU_Z80) {
				base(&z.CPU_8080)
				z.tick(cycles)
			}
		}
	}

	z.ops[0x08] = func(z *CPU_Z80) {
		z.ExAF()
		z.tick(4)
	}
	z.ops[0x10] = func(z *CPU_Z80) {
		z.B--
		z.relJump(z.B != 0)
		z.tick(1)
	}
	z.ops[0x18] = func(z *CPU_Z80) { z.relJump(true) }
	z.ops[0x20] = func(z *CPU_Z80) { z.relJump(z.F&flagZ == 0) }
	z.ops[0x28] = func(z *CPU_Z80) { z.relJump(z.F&flagZ != 0) }
	z.ops[0x30] = func(z *CPU_Z80) { z.relJump(z.F&flagC == 0) }
	z.ops[0x38] = func(z *CPU_Z80) { z.relJump(z.F&flagC != 0) }
	z.ops[0xD9] = func(z *CPU_Z80) {
		z.Exx()
		z.tick(4)
	}
	z.ops[0xCB] = func(z *CPU_Z80) {
		op := z.fetchOpcode()
		z.execCB(op, op&7, z.HL())
		if op&7 == 6 {
			z.tick(15)
		} else {
			z.tick(8)
		}
	}
	z.ops[0xED] = func(z *CPU_Z80) {
		op := z.fetchOpcode()
		fn := z.edOps[op]
		if fn == nil {
			z.markIllegal(0xED, op)
			return
		}
		fn(z)
	}
	z.ops[0xDD] = func(z *CPU_Z80) { z.execIndexed(0xDD, &z.IX) }
	z.ops[0xFD] = func(z *CPU_Z80) { z.execIndexed(0xFD, &z.IY) }
}

// execCB runs one CB-page operation on register code r, or on the byte at
// addr when r is 6.
func (z *CPU_Z80) execCB(op, r byte, addr uint16) {
	var v byte
	if r == 6 {
		v = z.read(addr)
	} else {
		v = z.getReg(r)
	}
	bit := (op >> 3) & 7

	switch op >> 6 {
	case 0:
		var carry byte
		switch bit {
		case 0: // RLC
			carry = v >> 7
			v = v<<1 | carry
		case 1: // RRC
			carry = v & 1
			v = v>>1 | carry<<7
		case 2: // RL
			carry = v >> 7
			v = v<<1 | z.F&flagC
		case 3: // RR
			carry = v & 1
			v = v>>1 | (z.F&flagC)<<7
		case 4: // SLA
			carry = v >> 7
			v <<= 1
		case 5: // SRA
			carry = v & 1
			v = v>>1 | v&0x80
		case 6: // SLL
			carry = v >> 7
			v = v<<1 | 1
		case 7: // SRL
			carry = v & 1
			v >>= 1
		}
		f := szFlags(v) | carry
		if parity(v) {
			f |= flagPV
		}
		z.F = f
	case 1: // BIT
		f := z.F&flagC | flagH
		if v&(1<<bit) == 0 {
			f |= flagZ | flagPV
		} else if bit == 7 {
			f |= flagS
		}
		z.F = f
		return
	case 2: // RES
		v &^= 1 << bit
	case 3: // SET
		v |= 1 << bit
	}

	if r == 6 {
		z.write(addr, v)
	} else {
		z.setReg(r, v)
	}
}

func (z *CPU_Z80) adcHL(v uint16) {
	hl := z.HL()
	carry := uint32(z.F & flagC)
	r := uint32(hl) + uint32(v) + carry
	res := uint16(r)
	f := byte(res>>8) & flagS
	if res == 0 {
		f |= flagZ
	}
	if (uint32(hl)^uint32(v)^r)&0x1000 != 0 {
		f |= flagH
	}
	if (hl^res)&(v^res)&0x8000 != 0 {
		f |= flagPV
	}
	if r > 0xFFFF {
		f |= flagC
	}
	z.F = f
	z.SetHL(res)
}

func (z *CPU_Z80) sbcHL(v uint16) {
	hl := z.HL()
	carry := uint32(z.F & flagC)
	r := uint32(hl) - uint32(v) - carry
	res := uint16(r)
	f := byte(res>>8)&flagS | flagN
	if res == 0 {
		f |= flagZ
	}
	if (uint32(hl)^uint32(v)^r)&0x1000 != 0 {
		f |= flagH
	}
	if (hl^v)&(hl^res)&0x8000 != 0 {
		f |= flagPV
	}
	if r > 0xFFFF {
		f |= flagC
	}
	z.F = f
	z.SetHL(res)
}

func (z *CPU_Z80) ldBlock(step uint16, repeat bool) {
	v := z.read(z.HL())
	z.write(z.DE(), v)
	z.SetHL(z.HL() + step)
	z.SetDE(z.DE() + step)
	z.SetBC(z.BC() - 1)
	f := z.F & (flagS | flagZ | flagC)
	if z.BC() != 0 {
		f |= flagPV
	}
	z.F = f
	if repeat && z.BC() != 0 {
		z.PC -= 2
		z.tick(21)
		return
	}
	z.tick(16)
}

func (z *CPU_Z80) cpBlock(step uint16, repeat bool) {
	v := z.read(z.HL())
	r := z.A - v
	z.SetHL(z.HL() + step)
	z.SetBC(z.BC() - 1)
	f := szFlags(r) | flagN | z.F&flagC
	if (z.A^v^r)&0x10 != 0 {
		f |= flagH
	}
	if z.BC() != 0 {
		f |= flagPV
	}
	z.F = f
	if repeat && z.BC() != 0 && r != 0 {
		z.PC -= 2
		z.tick(21)
		return
	}
	z.tick(16)
}

func (z *CPU_Z80) initEDOps() {
	ops := &z.edOps

	for rp := byte(0); rp < 4; rp++ {
		ops[0x42|rp<<4] = func(z *CPU_Z80) {
			z.sbcHL(z.getRP(rp))
			z.tick(15)
		}
		ops[0x4A|rp<<4] = func(z *CPU_Z80) {
			z.adcHL(z.getRP(rp))
			z.tick(15)
		}
		ops[0x43|rp<<4] = func(z *CPU_Z80) {
			z.write16(z.fetchWord(), z.getRP(rp))
			z.tick(20)
		}
		ops[0x4B|rp<<4] = func(z *CPU_Z80) {
			z.setRP(rp, z.read16(z.fetchWord()))
			z.tick(20)
		}
	}

	for r := byte(0); r < 8; r++ {
		if r == 6 {
			continue
		}
		ops[0x40|r<<3] = func(z *CPU_Z80) {
			v := z.in(z.BC())
			z.setReg(r, v)
			f := szFlags(v) | z.F&flagC
			if parity(v) {
				f |= flagPV
			}
			z.F = f
			z.tick(12)
		}
		ops[0x41|r<<3] = func(z *CPU_Z80) {
			z.out(z.BC(), z.getReg(r))
			z.tick(12)
		}
	}

	ops[0x44] = func(z *CPU_Z80) {
		v := z.A
		z.A = 0
		z.sub8(v, 0, true)
		z.tick(8)
	}
	ops[0x45] = func(z *CPU_Z80) {
		z.IFF1 = z.IFF2
		z.PC = z.pop()
		z.tick(14)
	}
	ops[0x4D] = func(z *CPU_Z80) {
		z.PC = z.pop()
		z.tick(14)
	}
	ops[0x46] = func(z *CPU_Z80) {
		z.IM = 0
		z.tick(8)
	}
	ops[0x56] = func(z *CPU_Z80) {
		z.IM = 1
		z.tick(8)
	}
	ops[0x5E] = func(z *CPU_Z80) {
		z.IM = 2
		z.tick(8)
	}
	ops[0x47] = func(z *CPU_Z80) {
		z.I = z.A
		z.tick(9)
	}
	ops[0x4F] = func(z *CPU_Z80) {
		z.R = z.A
		z.tick(9)
	}
	ldAir := func(z *CPU_Z80, v byte) {
		z.A = v
		f := szFlags(v) | z.F&flagC
		if z.IFF2 {
			f |= flagPV
		}
		z.F = f
		z.tick(9)
	}
	ops[0x57] = func(z *CPU_Z80) { ldAir(z, z.I) }
	ops[0x5F] = func(z *CPU_Z80) { ldAir(z, z.R) }

	ops[0xA0] = func(z *CPU_Z80) { z.ldBlock(1, false) }
	ops[0xA8] = func(z *CPU_Z80) { z.ldBlock(0xFFFF, false) }
	ops[0xB0] = func(z *CPU_Z80) { z.ldBlock(1, true) }
	ops[0xB8] = func(z *CPU_Z80) { z.ldBlock(0xFFFF, true) }
	ops[0xA1] = func(z *CPU_Z80) { z.cpBlock(1, false) }
	ops[0xA9] = func(z *CPU_Z80) { z.cpBlock(0xFFFF, false) }
	ops[0xB1] = func(z *CPU_Z80) { z.cpBlock(1, true) }
	ops[0xB9] = func(z *CPU_Z80) { z.cpBlock(0xFFFF, true) }
}

func (z *CPU_Z80) indexAddr(idx *uint16) uint16 {
	d := int8(z.fetchByte())
	return *idx + uint16(int16(d))
}

func (z *CPU_Z80) execIndexed(prefix byte, idx *uint16) {
	op := z.fetchOpcode()
	fn := z.idxOps[op]
	if fn == nil {
		z.markIllegal(prefix, op)
		return
	}
	fn(z, idx)
}

func (z *CPU_Z80) initIndexOps() {
	ops := &z.idxOps

	for rp := byte(0); rp < 4; rp++ {
		ops[0x09|rp<<4] = func(z *CPU_Z80, idx *uint16) {
			v := z.getRP(rp)
			if rp == 2 {
				v = *idx
			}
			r := uint32(*idx) + uint32(v)
			f := z.F &^ (flagC | flagH | flagN)
			if r > 0xFFFF {
				f |= flagC
			}
			if (uint32(*idx)^uint32(v)^r)&0x1000 != 0 {
				f |= flagH
			}
			z.F = f
			*idx = uint16(r)
			z.tick(15)
		}
	}

	ops[0x21] = func(z *CPU_Z80, idx *uint16) {
		*idx = z.fetchWord()
		z.tick(14)
	}
	ops[0x22] = func(z *CPU_Z80, idx *uint16) {
		z.write16(z.fetchWord(), *idx)
		z.tick(20)
	}
	ops[0x2A] = func(z *CPU_Z80, idx *uint16) {
		*idx = z.read16(z.fetchWord())
		z.tick(20)
	}
	ops[0x23] = func(z *CPU_Z80, idx *uint16) {
		*idx++
		z.tick(10)
	}
	ops[0x2B] = func(z *CPU_Z80, idx *uint16) {
		*idx--
		z.tick(10)
	}
	ops[0x34] = func(z *CPU_Z80, idx *uint16) {
		addr := z.indexAddr(idx)
		z.write(addr, z.inc8(z.read(addr)))
		z.tick(23)
	}
	ops[0x35] = func(z *CPU_Z80, idx *uint16) {
		addr := z.indexAddr(idx)
		z.write(addr, z.dec8(z.read(addr)))
		z.tick(23)
	}
	ops[0x36] = func(z *CPU_Z80, idx *uint16) {
		addr := z.indexAddr(idx)
		z.write(addr, z.fetchByte())
		z.tick(19)
	}

	for r := byte(0); r < 8; r++ {
		if r == 6 {
			continue
		}
		ops[0x46|r<<3] = func(z *CPU_Z80, idx *uint16) {
			z.setReg(r, z.read(z.indexAddr(idx)))
			z.tick(19)
		}
		ops[0x70|r] = func(z *CPU_Z80, idx *uint16) {
			z.write(z.indexAddr(idx), z.getReg(r))
			z.tick(19)
		}
	}

	for aluOp := byte(0); aluOp < 8; aluOp++ {
		ops[0x86|aluOp<<3] = func(z *CPU_Z80, idx *uint16) {
			z.alu(aluOp, z.read(z.indexAddr(idx)))
			z.tick(19)
		}
	}

	ops[0xCB] = func(z *CPU_Z80, idx *uint16) {
		addr := z.indexAddr(idx)
		op := z.fetchByte()
		if op&7 != 6 {
			z.markIllegal(0xCB, op)
			return
		}
		z.execCB(op, 6, addr)
		z.tick(23)
	}
	ops[0xE1] = func(z *CPU_Z80, idx *uint16) {
		*idx = z.pop()
		z.tick(14)
	}
	ops[0xE5] = func(z *CPU_Z80, idx *uint16) {
		z.push(*idx)
		z.tick(15)
	}
	ops[0xE3] = func(z *CPU_Z80, idx *uint16) {
		v := z.read16(z.SP)
		z.write16(z.SP, *idx)
		*idx = v
		z.tick(23)
	}
	ops[0xE9] = func(z *CPU_Z80, idx *uint16) {
		z.PC = *idx
		z.tick(8)
	}
	ops[0xF9] = func(z *CPU_Z80, idx *uint16) {
		z.SP = *idx
		z.tick(10)
	}
}

// Step executes one instruction, prefixes included.
func (z *CPU_Z80) Step() error {
	if z.halted {
		return nil
	}
	z.fault = nil
	z.illegal = nil
	z.opStart = z.PC
	op := z.fetchOpcode()
	if z.fault != nil {
		z.PC = z.opStart
		return &ExecutionError{PC: z.opStart, Err: z.fault}
	}
	z.ops[op](z)
	if z.illegal != nil {
		z.PC = z.opStart
		return &ExecutionError{PC: z.opStart, Opcode: z.illegal, Err: fmt.Errorf("illegal opcode % X", z.illegal)}
	}
	if z.fault != nil {
		return &ExecutionError{PC: z.opStart, Opcode: []byte{op}, Err: z.fault}
	}
	return nil
}
