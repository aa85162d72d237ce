package main

import (
	"bytes"
	"testing"
)

func TestZ80ResetDefaults(t *testing.T) {
	rig := newCPUZ80TestRig(t)
	cpu := rig.cpu

	cpu.A, cpu.F, cpu.B, cpu.C = 0x11, 0x22, 0x33, 0x44
	cpu.A2, cpu.F2, cpu.H2, cpu.L2 = 0x99, 0xAA, 0xFF, 0x01
	cpu.IX, cpu.IY = 0x1234, 0x4567
	cpu.SP, cpu.PC = 0xABCD, 0xFEED
	cpu.I, cpu.R, cpu.IM = 0x12, 0x34, 2
	cpu.IFF1, cpu.IFF2 = true, true
	cpu.halted = true
	cpu.cycles = 999

	cpu.Reset()

	requireEqualU16(t, "PC", cpu.PC, 0x0000)
	requireEqualU16(t, "SP", cpu.SP, 0xFFFF)
	requireEqualU8(t, "A", cpu.A, 0x00)
	requireEqualU8(t, "F", cpu.F, 0x00)
	requireEqualU16(t, "AF'", cpu.AF2(), 0x0000)
	requireEqualU16(t, "HL'", cpu.HL2(), 0x0000)
	requireEqualU16(t, "IX", cpu.IX, 0x0000)
	requireEqualU16(t, "IY", cpu.IY, 0x0000)
	requireEqualU8(t, "I", cpu.I, 0x00)
	requireEqualU8(t, "R", cpu.R, 0x00)
	if cpu.IM != 0 {
		t.Fatalf("IM = %d, want 0", cpu.IM)
	}
	if cpu.IFF1 || cpu.IFF2 {
		t.Fatalf("IFF1/IFF2 should be cleared on reset")
	}
	if cpu.halted {
		t.Fatalf("halted should be cleared on reset")
	}
	requireCycles(t, cpu.cycles, 0)
}

func TestZ80ArithmeticFlags(t *testing.T) {
	tests := []struct {
		name    string
		a       byte
		program []byte
		wantA   byte
		wantF   byte
	}{
		{"ADD overflow", 0x7F, []byte{0xC6, 0x01}, 0x80, 0x94},
		{"SUB sets N", 0x05, []byte{0xD6, 0x05}, 0x00, 0x42},
		{"CP leaves A", 0x00, []byte{0xFE, 0x01}, 0x00, 0x93},
		{"XOR parity", 0x0F, []byte{0xEE, 0xFF}, 0xF0, 0x84},
		{"NEG", 0x01, []byte{0xED, 0x44}, 0xFF, 0x93},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := newCPUZ80TestRig(t)
			rig.resetAndLoad(t, 0x0000, tt.program)
			rig.cpu.A = tt.a
			rig.step(t, 1)
			requireEqualU8(t, "A", rig.cpu.A, tt.wantA)
			requireEqualU8(t, "F", rig.cpu.F, tt.wantF)
		})
	}
}

func TestZ80IncDecOverflow(t *testing.T) {
	rig := newCPUZ80TestRig(t)
	rig.resetAndLoad(t, 0x0000, []byte{
		0x3C, // INC A
		0x05, // DEC B
	})
	rig.cpu.A = 0x7F
	rig.cpu.B = 0x80
	rig.cpu.F = flagC

	rig.step(t, 1)
	requireEqualU8(t, "A", rig.cpu.A, 0x80)
	requireEqualU8(t, "F after INC", rig.cpu.F, 0x95)

	rig.step(t, 1)
	requireEqualU8(t, "B", rig.cpu.B, 0x7F)
	requireEqualU8(t, "F after DEC", rig.cpu.F, 0x17)
}

func TestZ80ExchangeInstructions(t *testing.T) {
	rig := newCPUZ80TestRig(t)
	rig.resetAndLoad(t, 0x0000, []byte{
		0x08, // EX AF,AF'
		0xD9, // EXX
	})
	rig.cpu.SetAF(0x1122)
	rig.cpu.SetAF2(0x3344)
	rig.cpu.SetBC(0x1234)
	rig.cpu.SetBC2(0x5678)
	rig.cpu.SetHL(0x9ABC)

	rig.step(t, 2)
	requireEqualU16(t, "AF", rig.cpu.AF(), 0x3344)
	requireEqualU16(t, "AF'", rig.cpu.AF2(), 0x1122)
	requireEqualU16(t, "BC", rig.cpu.BC(), 0x5678)
	requireEqualU16(t, "BC'", rig.cpu.BC2(), 0x1234)
	requireEqualU16(t, "HL", rig.cpu.HL(), 0x0000)
	requireEqualU16(t, "HL'", rig.cpu.HL2(), 0x9ABC)
	requireCycles(t, rig.cpu.cycles, 8)
}

func TestZ80DJNZLoop(t *testing.T) {
	rig := newCPUZ80TestRig(t)
	rig.resetAndLoad(t, 0x0000, []byte{
		0x06, 0x03, // LD B,3
		0x10, 0xFE, // DJNZ $
	})

	rig.step(t, 2)
	requireEqualU8(t, "B", rig.cpu.B, 0x02)
	requireEqualU16(t, "PC", rig.cpu.PC, 0x0002)

	rig.step(t, 2)
	requireEqualU8(t, "B", rig.cpu.B, 0x00)
	requireEqualU16(t, "PC", rig.cpu.PC, 0x0004)
	requireCycles(t, rig.cpu.cycles, 41)
}

func TestZ80RelativeJumps(t *testing.T) {
	rig := newCPUZ80TestRig(t)
	rig.resetAndLoad(t, 0x0100, []byte{
		0x20, 0x02, // JR NZ,+2 (not taken, Z set)
		0x18, 0x02, // JR +2
		0x00, 0x00,
		0x38, 0xF8, // JR C,-8 (taken)
	})
	rig.cpu.F = flagZ | flagC

	rig.step(t, 1)
	requireEqualU16(t, "PC after JR NZ", rig.cpu.PC, 0x0102)
	rig.step(t, 1)
	requireEqualU16(t, "PC after JR", rig.cpu.PC, 0x0106)
	rig.step(t, 1)
	requireEqualU16(t, "PC after JR C", rig.cpu.PC, 0x0100)
	requireCycles(t, rig.cpu.cycles, 7+12+12)
}

func TestZ80LDIAndLDIR(t *testing.T) {
	rig := newCPUZ80TestRig(t)
	rig.resetAndLoad(t, 0x0000, []byte{
		0xED, 0xA0, // LDI
	})
	rig.cpu.SetHL(0x4000)
	rig.cpu.SetDE(0x5000)
	rig.cpu.SetBC(0x0001)
	rig.poke(0x4000, 0x22)
	rig.cpu.F = flagC

	rig.step(t, 1)
	requireEqualU8(t, "mem[5000]", rig.peek(0x5000), 0x22)
	requireEqualU16(t, "HL", rig.cpu.HL(), 0x4001)
	requireEqualU16(t, "DE", rig.cpu.DE(), 0x5001)
	requireEqualU16(t, "BC", rig.cpu.BC(), 0x0000)
	requireEqualU8(t, "F", rig.cpu.F, flagC)
	requireCycles(t, rig.cpu.cycles, 16)

	rig.resetAndLoad(t, 0x0000, []byte{
		0xED, 0xB0, // LDIR
	})
	rig.cpu.SetHL(0x4100)
	rig.cpu.SetDE(0x5100)
	rig.cpu.SetBC(0x0002)
	rig.poke(0x4100, 0x11)
	rig.poke(0x4101, 0x22)

	rig.step(t, 1)
	requireEqualU16(t, "BC", rig.cpu.BC(), 0x0001)
	requireEqualU16(t, "PC", rig.cpu.PC, 0x0000)
	requireEqualU8(t, "F", rig.cpu.F, flagPV)
	requireCycles(t, rig.cpu.cycles, 21)

	rig.step(t, 1)
	requireEqualU16(t, "BC", rig.cpu.BC(), 0x0000)
	requireEqualU16(t, "HL", rig.cpu.HL(), 0x4102)
	requireEqualU16(t, "DE", rig.cpu.DE(), 0x5102)
	requireEqualU16(t, "PC", rig.cpu.PC, 0x0002)
	requireCycles(t, rig.cpu.cycles, 37)
	if rig.peek(0x5100) != 0x11 || rig.peek(0x5101) != 0x22 {
		t.Fatalf("LDIR copy failed")
	}
}

func TestZ80CPIRStopsOnMatch(t *testing.T) {
	rig := newCPUZ80TestRig(t)
	rig.resetAndLoad(t, 0x0000, []byte{
		0xED, 0xB1, // CPIR
	})
	rig.cpu.A = 0x33
	rig.cpu.SetHL(0x4000)
	rig.cpu.SetBC(0x0005)
	rig.poke(0x4000, 0x11)
	rig.poke(0x4001, 0x33)

	rig.step(t, 1)
	requireEqualU16(t, "PC", rig.cpu.PC, 0x0000)
	rig.step(t, 1)
	requireEqualU16(t, "PC", rig.cpu.PC, 0x0002)
	requireEqualU16(t, "HL", rig.cpu.HL(), 0x4002)
	requireEqualU16(t, "BC", rig.cpu.BC(), 0x0003)
	requireEqualU8(t, "F", rig.cpu.F, flagZ|flagN|flagPV)
	requireEqualU8(t, "A", rig.cpu.A, 0x33)
}

func TestZ80CBPage(t *testing.T) {
	rig := newCPUZ80TestRig(t)
	rig.resetAndLoad(t, 0x0000, []byte{
		0xCB, 0x00, // RLC B
		0xCB, 0x7F, // BIT 7,A
		0xCB, 0xC6, // SET 0,(HL)
		0xCB, 0x3C, // SRL H
	})
	rig.cpu.B = 0x81
	rig.cpu.A = 0x80
	rig.cpu.SetHL(0x4000)

	rig.step(t, 1)
	requireEqualU8(t, "B", rig.cpu.B, 0x03)
	requireEqualU8(t, "F after RLC", rig.cpu.F, flagC|flagPV)

	rig.step(t, 1)
	requireEqualU8(t, "F after BIT", rig.cpu.F, flagS|flagH|flagC)

	rig.step(t, 1)
	requireEqualU8(t, "mem[4000]", rig.peek(0x4000), 0x01)

	rig.step(t, 1)
	requireEqualU8(t, "H", rig.cpu.H, 0x20)
	requireEqualU8(t, "F after SRL", rig.cpu.F, 0x00)
	requireCycles(t, rig.cpu.cycles, 8+8+15+8)
}

func TestZ80EDOperations(t *testing.T) {
	rig := newCPUZ80TestRig(t)
	rig.resetAndLoad(t, 0x0000, []byte{
		0xED, 0x52, // SBC HL,DE
		0xED, 0x43, 0x00, 0x50, // LD (5000),BC
		0xED, 0x5E, // IM 2
		0xED, 0x57, // LD A,I
	})
	rig.cpu.SetHL(0x1000)
	rig.cpu.SetDE(0x0001)
	rig.cpu.SetBC(0xBEEF)
	rig.cpu.F = flagC
	rig.cpu.I = 0x80
	rig.cpu.IFF2 = true

	rig.step(t, 1)
	requireEqualU16(t, "HL", rig.cpu.HL(), 0x0FFE)
	requireEqualU8(t, "F after SBC", rig.cpu.F, flagN|flagH)

	rig.step(t, 1)
	requireEqualU8(t, "mem[5000]", rig.peek(0x5000), 0xEF)
	requireEqualU8(t, "mem[5001]", rig.peek(0x5001), 0xBE)

	rig.step(t, 1)
	if rig.cpu.IM != 2 {
		t.Fatalf("IM = %d, want 2", rig.cpu.IM)
	}

	rig.step(t, 1)
	requireEqualU8(t, "A", rig.cpu.A, 0x80)
	requireEqualU8(t, "F after LD A,I", rig.cpu.F, flagS|flagPV)
	requireCycles(t, rig.cpu.cycles, 15+20+8+9)
}

func TestZ80IndexedAddressing(t *testing.T) {
	rig := newCPUZ80TestRig(t)
	rig.resetAndLoad(t, 0x0000, []byte{
		0xDD, 0x21, 0x00, 0x40, // LD IX,4000
		0xDD, 0x36, 0x05, 0x7E, // LD (IX+5),7E
		0xDD, 0x7E, 0x05, // LD A,(IX+5)
		0xDD, 0x34, 0xFF, // INC (IX-1)
		0xFD, 0xCB, 0x02, 0xDE, // SET 3,(IY+2)
	})
	rig.poke(0x3FFF, 0x7F)
	rig.cpu.IY = 0x5000

	rig.step(t, 3)
	requireEqualU16(t, "IX", rig.cpu.IX, 0x4000)
	requireEqualU8(t, "mem[4005]", rig.peek(0x4005), 0x7E)
	requireEqualU8(t, "A", rig.cpu.A, 0x7E)

	rig.step(t, 1)
	requireEqualU8(t, "mem[3FFF]", rig.peek(0x3FFF), 0x80)
	requireEqualU8(t, "F after INC", rig.cpu.F, flagS|flagH|flagPV)

	rig.step(t, 1)
	requireEqualU8(t, "mem[5002]", rig.peek(0x5002), 0x08)
	requireCycles(t, rig.cpu.cycles, 14+19+19+23+23)
}

func TestZ80RefreshCounter(t *testing.T) {
	rig := newCPUZ80TestRig(t)
	rig.resetAndLoad(t, 0x0000, []byte{
		0x00,       // NOP
		0xCB, 0x00, // RLC B
		0xDD, 0x23, // INC IX
	})
	rig.cpu.R = 0xFF

	rig.step(t, 3)
	requireEqualU8(t, "R", rig.cpu.R, 0x84)
}

func TestZ80IllegalPrefixedOpcodes(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		opcode  []byte
	}{
		{"ED page hole", []byte{0xED, 0x00}, []byte{0xED, 0x00}},
		{"DD without index use", []byte{0xDD, 0x00}, []byte{0xDD, 0x00}},
		{"DD CB register form", []byte{0xDD, 0xCB, 0x01, 0x00}, []byte{0xCB, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := newCPUZ80TestRig(t)
			rig.resetAndLoad(t, 0x0200, tt.program)
			err := rig.cpu.Step()
			execErr := requireExecutionError(t, err, 0x0200, nil)
			if !bytes.Equal(execErr.Opcode, tt.opcode) {
				t.Fatalf("Opcode = % X, want % X", execErr.Opcode, tt.opcode)
			}
			requireEqualU16(t, "PC", rig.cpu.PC, 0x0200)
		})
	}
}

func TestZ80PortIO(t *testing.T) {
	rig := newCPUZ80TestRig(t)
	rig.resetAndLoad(t, 0x0000, []byte{
		0xED, 0x79, // OUT (C),A
		0xED, 0x50, // IN D,(C)
	})
	rig.cpu.SetBC(0x0020)
	rig.cpu.A = 0x81

	rig.step(t, 2)
	requireEqualU8(t, "port 20", rig.io.ports[0x20], 0x81)
	requireEqualU8(t, "D", rig.cpu.D, 0x81)
	requireEqualU8(t, "F after IN", rig.cpu.F, flagS|flagPV)
}
