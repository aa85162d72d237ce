// debug_cpu_8080.go - Intel 8080 debug adapter

package main

type Debug8080 struct {
	cpu  *CPU_8080
	regs regTable
}

func NewDebug8080(cpu *CPU_8080) *Debug8080 {
	d := &Debug8080{cpu: cpu}
	c := cpu
	d.regs = regTable{
		{"AF", 16, GroupMain, func() uint64 { return uint64(c.AF()) }, func(v uint64) { c.SetAF(uint16(v)) }},
		{"BC", 16, GroupMain, func() uint64 { return uint64(c.BC()) }, func(v uint64) { c.SetBC(uint16(v)) }},
		{"DE", 16, GroupMain, func() uint64 { return uint64(c.DE()) }, func(v uint64) { c.SetDE(uint16(v)) }},
		{"HL", 16, GroupMain, func() uint64 { return uint64(c.HL()) }, func(v uint64) { c.SetHL(uint16(v)) }},
		{"SP", 16, GroupPointer, func() uint64 { return uint64(c.SP) }, func(v uint64) { c.SP = uint16(v) }},
		{"PC", 16, GroupPointer, func() uint64 { return uint64(c.PC) }, func(v uint64) { c.PC = uint16(v) }},
		{"PSW", 16, "", func() uint64 { return uint64(c.AF()) }, func(v uint64) { c.SetAF(uint16(v)) }},
		{"A", 8, "", func() uint64 { return uint64(c.A) }, func(v uint64) { c.A = byte(v) }},
		{"F", 8, "", func() uint64 { return uint64(c.F) }, func(v uint64) { c.F = c.normalizeFlags(byte(v)) }},
		{"B", 8, "", func() uint64 { return uint64(c.B) }, func(v uint64) { c.B = byte(v) }},
		{"C", 8, "", func() uint64 { return uint64(c.C) }, func(v uint64) { c.C = byte(v) }},
		{"D", 8, "", func() uint64 { return uint64(c.D) }, func(v uint64) { c.D = byte(v) }},
		{"E", 8, "", func() uint64 { return uint64(c.E) }, func(v uint64) { c.E = byte(v) }},
		{"H", 8, "", func() uint64 { return uint64(c.H) }, func(v uint64) { c.H = byte(v) }},
		{"L", 8, "", func() uint64 { return uint64(c.L) }, func(v uint64) { c.L = byte(v) }},
	}
	return d
}

func (d *Debug8080) CPUName() string { return "8080" }
func (d *Debug8080) Reset()          { d.cpu.Reset() }

func (d *Debug8080) GetRegisters() []RegisterInfo { return d.regs.list() }

func (d *Debug8080) GetRegister(name string) (uint64, bool) { return d.regs.get(name) }

func (d *Debug8080) SetRegister(name string, value uint64) bool { return d.regs.set(name, value) }

func (d *Debug8080) RegisterWidth(name string) (int, bool) { return d.regs.width(name) }

func (d *Debug8080) GetPC() uint16     { return d.cpu.PC }
func (d *Debug8080) SetPC(addr uint16) { d.cpu.PC = addr }

// The 8080 has a single register bank.
func (d *Debug8080) RegisterBanks() int { return 1 }
func (d *Debug8080) SwapRegisterBanks() {}

func (d *Debug8080) Halted() bool          { return d.cpu.halted }
func (d *Debug8080) SetHalted(halted bool) { d.cpu.halted = halted }
func (d *Debug8080) Cycles() uint64        { return d.cpu.cycles }

func (d *Debug8080) Step() error { return d.cpu.Step() }

func (d *Debug8080) RunForCycles(budget int) error {
	return runForCycles(budget, d.cpu.Step, d.Cycles, d.Halted)
}

func (d *Debug8080) Decode(mem Memory, addr uint16) (Instruction, error) {
	return decodeWith(mem, addr, decode8080)
}
