// debug_disasm_8080.go - Intel 8080 disassembler (Intel mnemonics)

package main

import "fmt"

var i8080Reg8 = [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}
var i8080RegPair = [4]string{"B", "D", "H", "SP"}
var i8080RegPush = [4]string{"B", "D", "H", "PSW"}
var i8080Cond = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}
var i8080ALU = [8]string{"ADD", "ADC", "SUB", "SBB", "ANA", "XRA", "ORA", "CMP"}
var i8080ALUImm = [8]string{"ADI", "ACI", "SUI", "SBI", "ANI", "XRI", "ORI", "CPI"}

// decode8080 accepts exactly the opcodes CPU_8080 executes.
func decode8080(cur *decodeCursor) string {
	op := cur.next()
	if cur.err != nil {
		return ""
	}

	if op == 0x76 {
		return "HLT"
	}
	// MOV d, s (01dddsss)
	if op&0xC0 == 0x40 {
		return fmt.Sprintf("MOV %s, %s", i8080Reg8[(op>>3)&7], i8080Reg8[op&7])
	}
	// ALU r (10aaasss)
	if op&0xC0 == 0x80 {
		return fmt.Sprintf("%s %s", i8080ALU[(op>>3)&7], i8080Reg8[op&7])
	}

	if op < 0x40 {
		switch op & 0x07 {
		case 0x04:
			return "INR " + i8080Reg8[(op>>3)&7]
		case 0x05:
			return "DCR " + i8080Reg8[(op>>3)&7]
		case 0x06:
			return fmt.Sprintf("MVI %s, $%02X", i8080Reg8[(op>>3)&7], cur.next())
		}
		switch op & 0x0F {
		case 0x01:
			return fmt.Sprintf("LXI %s, $%04X", i8080RegPair[(op>>4)&3], cur.word())
		case 0x03:
			return "INX " + i8080RegPair[(op>>4)&3]
		case 0x09:
			return "DAD " + i8080RegPair[(op>>4)&3]
		case 0x0B:
			return "DCX " + i8080RegPair[(op>>4)&3]
		}
	}

	if op >= 0xC0 {
		cc := (op >> 3) & 7
		switch op & 0x07 {
		case 0x00:
			return "R" + i8080Cond[cc]
		case 0x02:
			return fmt.Sprintf("J%s $%04X", i8080Cond[cc], cur.word())
		case 0x04:
			return fmt.Sprintf("C%s $%04X", i8080Cond[cc], cur.word())
		case 0x06:
			return fmt.Sprintf("%s $%02X", i8080ALUImm[cc], cur.next())
		case 0x07:
			return fmt.Sprintf("RST %d", cc)
		}
		switch op & 0x0F {
		case 0x01:
			return "POP " + i8080RegPush[(op>>4)&3]
		case 0x05:
			return "PUSH " + i8080RegPush[(op>>4)&3]
		}
	}

	switch op {
	case 0x00:
		return "NOP"
	case 0x02:
		return "STAX B"
	case 0x12:
		return "STAX D"
	case 0x0A:
		return "LDAX B"
	case 0x1A:
		return "LDAX D"
	case 0x22:
		return fmt.Sprintf("SHLD $%04X", cur.word())
	case 0x2A:
		return fmt.Sprintf("LHLD $%04X", cur.word())
	case 0x32:
		return fmt.Sprintf("STA $%04X", cur.word())
	case 0x3A:
		return fmt.Sprintf("LDA $%04X", cur.word())
	case 0x07:
		return "RLC"
	case 0x0F:
		return "RRC"
	case 0x17:
		return "RAL"
	case 0x1F:
		return "RAR"
	case 0x27:
		return "DAA"
	case 0x2F:
		return "CMA"
	case 0x37:
		return "STC"
	case 0x3F:
		return "CMC"
	case 0xC3:
		return fmt.Sprintf("JMP $%04X", cur.word())
	case 0xC9:
		return "RET"
	case 0xCD:
		return fmt.Sprintf("CALL $%04X", cur.word())
	case 0xD3:
		return fmt.Sprintf("OUT $%02X", cur.next())
	case 0xDB:
		return fmt.Sprintf("IN $%02X", cur.next())
	case 0xE3:
		return "XTHL"
	case 0xE9:
		return "PCHL"
	case 0xEB:
		return "XCHG"
	case 0xF3:
		return "DI"
	case 0xF9:
		return "SPHL"
	case 0xFB:
		return "EI"
	}

	// 08, 10, 18, 20, 28, 30, 38, CB, D9, DD, ED, FD
	return cur.fail("illegal opcode $%02X", op)
}
