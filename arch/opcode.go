package arch

import "strings"

// Entry pairs an opcode byte with the addressing mode it encodes.
// A mnemonic's table lists its entries in short-to-long operand order
// so that the opcode emitter's matching algorithm (see package
// assembler) prefers the smallest encoding a resolvable value permits.
type Entry struct {
	Opcode byte
	Mode   Mode
}

// table holds every official 6502 mnemonic's addressing-mode/opcode
// pairs. Branch mnemonics carry a single REL entry; the rest are
// ordered zero-page-like modes before absolute-like modes, per the
// matching algorithm in the assembler package's assembleInstruction.
var table = map[string][]Entry{
	"ADC": {{0x65, ZP}, {0x75, ZPX}, {0x69, IMM}, {0x6D, ABS}, {0x7D, ABSX}, {0x79, ABSY}, {0x61, INDX}, {0x71, INDY}},
	"AND": {{0x25, ZP}, {0x35, ZPX}, {0x29, IMM}, {0x2D, ABS}, {0x3D, ABSX}, {0x39, ABSY}, {0x21, INDX}, {0x31, INDY}},
	"ASL": {{0x0A, ACC}, {0x06, ZP}, {0x16, ZPX}, {0x0E, ABS}, {0x1E, ABSX}},
	"BCC": {{0x90, REL}},
	"BCS": {{0xB0, REL}},
	"BEQ": {{0xF0, REL}},
	"BIT": {{0x24, ZP}, {0x2C, ABS}},
	"BMI": {{0x30, REL}},
	"BNE": {{0xD0, REL}},
	"BPL": {{0x10, REL}},
	"BRK": {{0x00, IMP}},
	"BVC": {{0x50, REL}},
	"BVS": {{0x70, REL}},
	"CLC": {{0x18, IMP}},
	"CLD": {{0xD8, IMP}},
	"CLI": {{0x58, IMP}},
	"CLV": {{0xB8, IMP}},
	"CMP": {{0xC5, ZP}, {0xD5, ZPX}, {0xC9, IMM}, {0xCD, ABS}, {0xDD, ABSX}, {0xD9, ABSY}, {0xC1, INDX}, {0xD1, INDY}},
	"CPX": {{0xE4, ZP}, {0xE0, IMM}, {0xEC, ABS}},
	"CPY": {{0xC4, ZP}, {0xC0, IMM}, {0xCC, ABS}},
	"DEC": {{0xC6, ZP}, {0xD6, ZPX}, {0xCE, ABS}, {0xDE, ABSX}},
	"DEX": {{0xCA, IMP}},
	"DEY": {{0x88, IMP}},
	"EOR": {{0x45, ZP}, {0x55, ZPX}, {0x49, IMM}, {0x4D, ABS}, {0x5D, ABSX}, {0x59, ABSY}, {0x41, INDX}, {0x51, INDY}},
	"INC": {{0xE6, ZP}, {0xF6, ZPX}, {0xEE, ABS}, {0xFE, ABSX}},
	"INX": {{0xE8, IMP}},
	"INY": {{0xC8, IMP}},
	"JMP": {{0x4C, ABS}, {0x6C, IND}},
	"JSR": {{0x20, ABS}},
	"LDA": {{0xA5, ZP}, {0xB5, ZPX}, {0xA9, IMM}, {0xAD, ABS}, {0xBD, ABSX}, {0xB9, ABSY}, {0xA1, INDX}, {0xB1, INDY}},
	"LDX": {{0xA6, ZP}, {0xB6, ZPY}, {0xA2, IMM}, {0xAE, ABS}, {0xBE, ABSY}},
	"LDY": {{0xA4, ZP}, {0xB4, ZPX}, {0xA0, IMM}, {0xAC, ABS}, {0xBC, ABSX}},
	"LSR": {{0x4A, ACC}, {0x46, ZP}, {0x56, ZPX}, {0x4E, ABS}, {0x5E, ABSX}},
	"NOP": {{0xEA, IMP}},
	"ORA": {{0x05, ZP}, {0x15, ZPX}, {0x09, IMM}, {0x0D, ABS}, {0x1D, ABSX}, {0x19, ABSY}, {0x01, INDX}, {0x11, INDY}},
	"PHA": {{0x48, IMP}},
	"PHP": {{0x08, IMP}},
	"PLA": {{0x68, IMP}},
	"PLP": {{0x28, IMP}},
	"ROL": {{0x2A, ACC}, {0x26, ZP}, {0x36, ZPX}, {0x2E, ABS}, {0x3E, ABSX}},
	"ROR": {{0x6A, ACC}, {0x66, ZP}, {0x76, ZPX}, {0x6E, ABS}, {0x7E, ABSX}},
	"RTI": {{0x40, IMP}},
	"RTS": {{0x60, IMP}},
	"SBC": {{0xE5, ZP}, {0xF5, ZPX}, {0xE9, IMM}, {0xED, ABS}, {0xFD, ABSX}, {0xF9, ABSY}, {0xE1, INDX}, {0xF1, INDY}},
	"SEC": {{0x38, IMP}},
	"SED": {{0xF8, IMP}},
	"SEI": {{0x78, IMP}},
	"STA": {{0x85, ZP}, {0x95, ZPX}, {0x8D, ABS}, {0x9D, ABSX}, {0x99, ABSY}, {0x81, INDX}, {0x91, INDY}},
	"STX": {{0x86, ZP}, {0x96, ZPY}, {0x8E, ABS}},
	"STY": {{0x84, ZP}, {0x94, ZPX}, {0x8C, ABS}},
	"TAX": {{0xAA, IMP}},
	"TAY": {{0xA8, IMP}},
	"TSX": {{0xBA, IMP}},
	"TXA": {{0x8A, IMP}},
	"TXS": {{0x9A, IMP}},
	"TYA": {{0x98, IMP}},
}

// branchMnemonics names every instruction whose sole addressing mode
// is REL, so the opcode emitter can special-case the signed 8-bit
// branch-offset computation (target - (pc+2)).
var branchMnemonics = map[string]bool{
	"BCC": true, "BCS": true, "BEQ": true, "BMI": true,
	"BNE": true, "BPL": true, "BVC": true, "BVS": true,
}

// IsBranch returns true if name is one of the eight relative-branch mnemonics.
func IsBranch(name string) bool {
	return branchMnemonics[strings.ToUpper(name)]
}

// Entries returns the addressing-mode table for the given mnemonic,
// in short-to-long order. Returns false if name is not a known
// mnemonic.
func Entries(name string) ([]Entry, bool) {
	e, ok := table[strings.ToUpper(name)]
	return e, ok
}

// IsMnemonic returns true if name names one of the 56 official 6502
// instructions.
func IsMnemonic(name string) bool {
	_, ok := table[strings.ToUpper(name)]
	return ok
}

// Mnemonics returns every known mnemonic name, in no particular
// order, used to pre-register reserved words in the symbol
// table at assembler start-up.
func Mnemonics() []string {
	out := make([]string, 0, len(table))
	for k := range table {
		out = append(out, k)
	}
	return out
}
