// debug_disasm_z80.go - Z80 disassembler (Zilog mnemonics)

package main

import "fmt"

var z80Reg8 = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
var z80Reg16 = [4]string{"BC", "DE", "HL", "SP"}
var z80Reg16Push = [4]string{"BC", "DE", "HL", "AF"}
var z80Cond = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}
var z80ALU = [8]string{"ADD A,", "ADC A,", "SUB", "SBC A,", "AND", "XOR", "OR", "CP"}
var z80Rot = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SLL", "SRL"}

// decodeZ80 accepts exactly the opcodes CPU_Z80 executes.
func decodeZ80(cur *decodeCursor) string {
	op := cur.next()
	if cur.err != nil {
		return ""
	}
	switch op {
	case 0xCB:
		return decodeZ80CB(cur.next(), "(HL)")
	case 0xED:
		return decodeZ80ED(cur)
	case 0xDD:
		return decodeZ80Index(cur, "IX")
	case 0xFD:
		return decodeZ80Index(cur, "IY")
	}
	return decodeZ80Base(cur, op)
}

func relTarget(cur *decodeCursor) uint16 {
	d := int8(cur.next())
	return cur.base + uint16(len(cur.bytes)) + uint16(int16(d))
}

func decodeZ80Base(cur *decodeCursor, op byte) string {
	if op == 0x76 {
		return "HALT"
	}
	// LD r, r' (01rrrsss) excluding HALT
	if op&0xC0 == 0x40 {
		return fmt.Sprintf("LD %s, %s", z80Reg8[(op>>3)&7], z80Reg8[op&7])
	}
	// ALU r (10aaasss)
	if op&0xC0 == 0x80 {
		return fmt.Sprintf("%s %s", z80ALU[(op>>3)&7], z80Reg8[op&7])
	}

	if op < 0x40 {
		switch op & 0x07 {
		case 0x04:
			return "INC " + z80Reg8[(op>>3)&7]
		case 0x05:
			return "DEC " + z80Reg8[(op>>3)&7]
		case 0x06:
			return fmt.Sprintf("LD %s, $%02X", z80Reg8[(op>>3)&7], cur.next())
		}
		switch op & 0x0F {
		case 0x01:
			return fmt.Sprintf("LD %s, $%04X", z80Reg16[(op>>4)&3], cur.word())
		case 0x03:
			return "INC " + z80Reg16[(op>>4)&3]
		case 0x09:
			return "ADD HL, " + z80Reg16[(op>>4)&3]
		case 0x0B:
			return "DEC " + z80Reg16[(op>>4)&3]
		}
	}

	if op >= 0xC0 {
		cc := (op >> 3) & 7
		switch op & 0x07 {
		case 0x00:
			return "RET " + z80Cond[cc]
		case 0x02:
			return fmt.Sprintf("JP %s, $%04X", z80Cond[cc], cur.word())
		case 0x04:
			return fmt.Sprintf("CALL %s, $%04X", z80Cond[cc], cur.word())
		case 0x06:
			return fmt.Sprintf("%s $%02X", z80ALU[cc], cur.next())
		case 0x07:
			return fmt.Sprintf("RST $%02X", cc*8)
		}
		switch op & 0x0F {
		case 0x01:
			return "POP " + z80Reg16Push[(op>>4)&3]
		case 0x05:
			return "PUSH " + z80Reg16Push[(op>>4)&3]
		}
	}

	switch op {
	case 0x00:
		return "NOP"
	case 0x08:
		return "EX AF, AF'"
	case 0x10:
		return fmt.Sprintf("DJNZ $%04X", relTarget(cur))
	case 0x18:
		return fmt.Sprintf("JR $%04X", relTarget(cur))
	case 0x20, 0x28, 0x30, 0x38:
		return fmt.Sprintf("JR %s, $%04X", z80Cond[(op>>3)&3], relTarget(cur))
	case 0x02:
		return "LD (BC), A"
	case 0x12:
		return "LD (DE), A"
	case 0x0A:
		return "LD A, (BC)"
	case 0x1A:
		return "LD A, (DE)"
	case 0x22:
		return fmt.Sprintf("LD ($%04X), HL", cur.word())
	case 0x2A:
		return fmt.Sprintf("LD HL, ($%04X)", cur.word())
	case 0x32:
		return fmt.Sprintf("LD ($%04X), A", cur.word())
	case 0x3A:
		return fmt.Sprintf("LD A, ($%04X)", cur.word())
	case 0x07:
		return "RLCA"
	case 0x0F:
		return "RRCA"
	case 0x17:
		return "RLA"
	case 0x1F:
		return "RRA"
	case 0x27:
		return "DAA"
	case 0x2F:
		return "CPL"
	case 0x37:
		return "SCF"
	case 0x3F:
		return "CCF"
	case 0xC3:
		return fmt.Sprintf("JP $%04X", cur.word())
	case 0xC9:
		return "RET"
	case 0xCD:
		return fmt.Sprintf("CALL $%04X", cur.word())
	case 0xD3:
		return fmt.Sprintf("OUT ($%02X), A", cur.next())
	case 0xDB:
		return fmt.Sprintf("IN A, ($%02X)", cur.next())
	case 0xD9:
		return "EXX"
	case 0xE3:
		return "EX (SP), HL"
	case 0xE9:
		return "JP (HL)"
	case 0xEB:
		return "EX DE, HL"
	case 0xF3:
		return "DI"
	case 0xF9:
		return "LD SP, HL"
	case 0xFB:
		return "EI"
	}
	return cur.fail("illegal opcode $%02X", op)
}

// decodeZ80CB names a CB-page operation; target is the operand used for
// register code 6.
func decodeZ80CB(op byte, target string) string {
	reg := z80Reg8[op&7]
	if op&7 == 6 {
		reg = target
	}
	bit := (op >> 3) & 7
	switch op >> 6 {
	case 0:
		return fmt.Sprintf("%s %s", z80Rot[bit], reg)
	case 1:
		return fmt.Sprintf("BIT %d, %s", bit, reg)
	case 2:
		return fmt.Sprintf("RES %d, %s", bit, reg)
	}
	return fmt.Sprintf("SET %d, %s", bit, reg)
}

func decodeZ80ED(cur *decodeCursor) string {
	op := cur.next()
	if cur.err != nil {
		return ""
	}

	if op&0xC0 == 0x40 {
		r := (op >> 3) & 7
		rp := z80Reg16[(op>>4)&3]
		switch op & 0x0F {
		case 0x02:
			return "SBC HL, " + rp
		case 0x0A:
			return "ADC HL, " + rp
		case 0x03:
			return fmt.Sprintf("LD ($%04X), %s", cur.word(), rp)
		case 0x0B:
			return fmt.Sprintf("LD %s, ($%04X)", rp, cur.word())
		}
		if r != 6 {
			switch op & 0x07 {
			case 0x00:
				return fmt.Sprintf("IN %s, (C)", z80Reg8[r])
			case 0x01:
				return fmt.Sprintf("OUT (C), %s", z80Reg8[r])
			}
		}
	}

	switch op {
	case 0x44:
		return "NEG"
	case 0x45:
		return "RETN"
	case 0x4D:
		return "RETI"
	case 0x46:
		return "IM 0"
	case 0x56:
		return "IM 1"
	case 0x5E:
		return "IM 2"
	case 0x47:
		return "LD I, A"
	case 0x4F:
		return "LD R, A"
	case 0x57:
		return "LD A, I"
	case 0x5F:
		return "LD A, R"
	case 0xA0:
		return "LDI"
	case 0xA8:
		return "LDD"
	case 0xB0:
		return "LDIR"
	case 0xB8:
		return "LDDR"
	case 0xA1:
		return "CPI"
	case 0xA9:
		return "CPD"
	case 0xB1:
		return "CPIR"
	case 0xB9:
		return "CPDR"
	}
	return cur.fail("illegal opcode $ED $%02X", op)
}

func indexOperand(reg string, d int8) string {
	if d < 0 {
		return fmt.Sprintf("(%s-$%02X)", reg, -int(d))
	}
	return fmt.Sprintf("(%s+$%02X)", reg, d)
}

func decodeZ80Index(cur *decodeCursor, reg string) string {
	op := cur.next()
	if cur.err != nil {
		return ""
	}
	disp := func() string { return indexOperand(reg, int8(cur.next())) }

	switch op {
	case 0x09, 0x19, 0x29, 0x39:
		rp := z80Reg16[(op>>4)&3]
		if rp == "HL" {
			rp = reg
		}
		return fmt.Sprintf("ADD %s, %s", reg, rp)
	case 0x21:
		return fmt.Sprintf("LD %s, $%04X", reg, cur.word())
	case 0x22:
		return fmt.Sprintf("LD ($%04X), %s", cur.word(), reg)
	case 0x2A:
		return fmt.Sprintf("LD %s, ($%04X)", reg, cur.word())
	case 0x23:
		return "INC " + reg
	case 0x2B:
		return "DEC " + reg
	case 0x34:
		return "INC " + disp()
	case 0x35:
		return "DEC " + disp()
	case 0x36:
		m := disp()
		return fmt.Sprintf("LD %s, $%02X", m, cur.next())
	case 0xCB:
		m := disp()
		sub := cur.next()
		if cur.err != nil {
			return ""
		}
		if sub&7 != 6 {
			return cur.fail("illegal opcode %s CB $%02X", reg, sub)
		}
		return decodeZ80CB(sub, m)
	case 0xE1:
		return "POP " + reg
	case 0xE5:
		return "PUSH " + reg
	case 0xE3:
		return fmt.Sprintf("EX (SP), %s", reg)
	case 0xE9:
		return fmt.Sprintf("JP (%s)", reg)
	case 0xF9:
		return fmt.Sprintf("LD SP, %s", reg)
	}

	r := (op >> 3) & 7
	switch {
	case op&0xC7 == 0x46 && r != 6:
		return fmt.Sprintf("LD %s, %s", z80Reg8[r], disp())
	case op&0xF8 == 0x70 && op&7 != 6:
		return fmt.Sprintf("LD %s, %s", disp(), z80Reg8[op&7])
	case op&0xC7 == 0x86:
		return fmt.Sprintf("%s %s", z80ALU[r], disp())
	}
	return cur.fail("illegal opcode %s $%02X", reg, op)
}
