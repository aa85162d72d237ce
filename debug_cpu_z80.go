// debug_cpu_z80.go - Z80 debug adapter

package main

type DebugZ80 struct {
	cpu  *CPU_Z80
	regs regTable
}

func NewDebugZ80(cpu *CPU_Z80) *DebugZ80 {
	d := &DebugZ80{cpu: cpu}
	c := cpu
	byteReg := func(name string, p *byte) regAccessor {
		return regAccessor{name, 8, "", func() uint64 { return uint64(*p) }, func(v uint64) { *p = byte(v) }}
	}
	d.regs = regTable{
		{"AF", 16, GroupMain, func() uint64 { return uint64(c.AF()) }, func(v uint64) { c.SetAF(uint16(v)) }},
		{"BC", 16, GroupMain, func() uint64 { return uint64(c.BC()) }, func(v uint64) { c.SetBC(uint16(v)) }},
		{"DE", 16, GroupMain, func() uint64 { return uint64(c.DE()) }, func(v uint64) { c.SetDE(uint16(v)) }},
		{"HL", 16, GroupMain, func() uint64 { return uint64(c.HL()) }, func(v uint64) { c.SetHL(uint16(v)) }},
		{"AF'", 16, GroupShadow, func() uint64 { return uint64(c.AF2()) }, func(v uint64) { c.SetAF2(uint16(v)) }},
		{"BC'", 16, GroupShadow, func() uint64 { return uint64(c.BC2()) }, func(v uint64) { c.SetBC2(uint16(v)) }},
		{"DE'", 16, GroupShadow, func() uint64 { return uint64(c.DE2()) }, func(v uint64) { c.SetDE2(uint16(v)) }},
		{"HL'", 16, GroupShadow, func() uint64 { return uint64(c.HL2()) }, func(v uint64) { c.SetHL2(uint16(v)) }},
		{"SP", 16, GroupPointer, func() uint64 { return uint64(c.SP) }, func(v uint64) { c.SP = uint16(v) }},
		{"PC", 16, GroupPointer, func() uint64 { return uint64(c.PC) }, func(v uint64) { c.PC = uint16(v) }},
		{"IX", 16, GroupIndex, func() uint64 { return uint64(c.IX) }, func(v uint64) { c.IX = uint16(v) }},
		{"IY", 16, GroupIndex, func() uint64 { return uint64(c.IY) }, func(v uint64) { c.IY = uint16(v) }},
		{"I", 8, GroupStatus, func() uint64 { return uint64(c.I) }, func(v uint64) { c.I = byte(v) }},
		{"R", 8, GroupStatus, func() uint64 { return uint64(c.R) }, func(v uint64) { c.R = byte(v) }},
		{"IM", 8, GroupStatus, func() uint64 { return uint64(c.IM) }, func(v uint64) { c.IM = byte(v) % 3 }},
		byteReg("A", &c.A), byteReg("F", &c.F),
		byteReg("B", &c.B), byteReg("C", &c.C),
		byteReg("D", &c.D), byteReg("E", &c.E),
		byteReg("H", &c.H), byteReg("L", &c.L),
		byteReg("A'", &c.A2), byteReg("F'", &c.F2),
		byteReg("B'", &c.B2), byteReg("C'", &c.C2),
		byteReg("D'", &c.D2), byteReg("E'", &c.E2),
		byteReg("H'", &c.H2), byteReg("L'", &c.L2),
	}
	return d
}

func (d *DebugZ80) CPUName() string { return "Z80" }
func (d *DebugZ80) Reset()          { d.cpu.Reset() }

func (d *DebugZ80) GetRegisters() []RegisterInfo { return d.regs.list() }

func (d *DebugZ80) GetRegister(name string) (uint64, bool) { return d.regs.get(name) }

func (d *DebugZ80) SetRegister(name string, value uint64) bool { return d.regs.set(name, value) }

func (d *DebugZ80) RegisterWidth(name string) (int, bool) { return d.regs.width(name) }

func (d *DebugZ80) GetPC() uint16     { return d.cpu.PC }
func (d *DebugZ80) SetPC(addr uint16) { d.cpu.PC = addr }

func (d *DebugZ80) RegisterBanks() int { return 2 }

// SwapRegisterBanks exchanges the main and alternate sets, the same as
// EX AF,AF' followed by EXX.
func (d *DebugZ80) SwapRegisterBanks() {
	d.cpu.ExAF()
	d.cpu.Exx()
}

func (d *DebugZ80) Halted() bool          { return d.cpu.halted }
func (d *DebugZ80) SetHalted(halted bool) { d.cpu.halted = halted }
func (d *DebugZ80) Cycles() uint64        { return d.cpu.cycles }

func (d *DebugZ80) Step() error { return d.cpu.Step() }

func (d *DebugZ80) RunForCycles(budget int) error {
	return runForCycles(budget, d.cpu.Step, d.Cycles, d.Halted)
}

func (d *DebugZ80) Decode(mem Memory, addr uint16) (Instruction, error) {
	return decodeWith(mem, addr, decodeZ80)
}
