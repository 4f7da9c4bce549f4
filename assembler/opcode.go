package assembler

import (
	"strings"

	"asm8/arch"
	"asm8/lexer"
)

// assembleInstruction classifies the operand syntax of a 6502 mnemonic
// invocation, picks the first table entry (already ordered short-to-
// long) whose addressing mode matches the syntax and whose value fits
// the mode's operand size, and emits the opcode byte plus 0/1/2
// little-endian operand bytes.
func (p *pass) assembleInstruction(mnemonic string, entries []arch.Entry, rest lexer.Cursor) error {
	rest = rest.SkipSpace()

	// IMP/ACC: no operand, or the literal accumulator mnemonic "A".
	if rest.AtEnd() || isAccumulatorOperand(rest) {
		mode := arch.IMP
		if !rest.AtEnd() {
			mode = arch.ACC
		}
		for _, e := range entries {
			if e.Mode == mode || (mode == arch.IMP && e.Mode == arch.ACC) {
				p.emitOpcode(e, nil)
				return nil
			}
		}
		return p.fail(IllegalInstruction, "%s does not support this addressing mode", mnemonic)
	}

	if arch.IsBranch(mnemonic) {
		r, _, err := p.Eval(rest)
		if err != nil {
			return err
		}
		entry := entries[0]
		if r.Dependent {
			// Pessimistic placeholder; forces another pass once the
			// target resolves and the true offset is known.
			p.needAnotherPass = true
			p.emitOpcode(entry, []byte{0})
			return nil
		}
		offset := r.Value - (p.PC() + 2)
		if offset < -128 || offset > 127 {
			if p.lastChance {
				return p.fail(OutOfRange, "branch target out of range")
			}
			p.needAnotherPass = true
			p.emitOpcode(entry, []byte{0})
			return nil
		}
		p.emitOpcode(entry, []byte{byte(int8(offset))})
		return nil
	}

	if rest.Peek() == '#' {
		r, _, err := p.Eval(rest.Advance(1))
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.Mode == arch.IMM {
				if r.Dependent {
					p.needAnotherPass = true
				}
				p.emitOpcode(e, []byte{byte(r.Value)})
				return nil
			}
		}
		return p.fail(IllegalInstruction, "%s does not support immediate addressing", mnemonic)
	}

	if rest.Peek() == '(' {
		return p.assembleIndirect(mnemonic, entries, rest)
	}

	// Remaining forms: zp / abs, optionally ",X" or ",Y" indexed.
	r, next, err := p.Eval(rest)
	if err != nil {
		return err
	}
	next = next.SkipSpace()

	indexed := byte(0)
	if next.Peek() == ',' {
		idx := next.Advance(1).SkipSpace()
		switch idx.Peek() {
		case 'X', 'x':
			indexed = 'X'
		case 'Y', 'y':
			indexed = 'Y'
		default:
			return p.fail(ExtraCharsOnLine, "expected index register after ','")
		}
	}

	var wantZP, wantABS arch.Mode
	switch indexed {
	case 'X':
		wantZP, wantABS = arch.ZPX, arch.ABSX
	case 'Y':
		wantZP, wantABS = arch.ZPY, arch.ABSY
	default:
		wantZP, wantABS = arch.ZP, arch.ABS
	}

	fitsZP := (!r.Dependent || r.ByteMasked) && r.Value >= 0 && r.Value <= 0xFF

	if fitsZP {
		if e, ok := findMode(entries, wantZP); ok {
			if r.Dependent {
				p.needAnotherPass = true
			}
			p.emitOpcode(e, []byte{byte(r.Value)})
			return nil
		}
	}
	if e, ok := findMode(entries, wantABS); ok {
		if r.Dependent {
			p.needAnotherPass = true
		}
		p.emitOpcode(e, []byte{byte(r.Value), byte(r.Value >> 8)})
		return nil
	}
	if e, ok := findMode(entries, wantZP); ok {
		// Dependent value pessimistically chose ABS above but the
		// mnemonic only has a ZP form; accept once resolved.
		if r.Dependent {
			p.needAnotherPass = true
			p.emitOpcode(e, []byte{0})
			return nil
		}
		return p.fail(OutOfRange, "value does not fit zero-page addressing")
	}

	return p.fail(IllegalInstruction, "%s does not support this addressing mode", mnemonic)
}

func (p *pass) assembleIndirect(mnemonic string, entries []arch.Entry, rest lexer.Cursor) error {
	c := rest.Advance(1) // consume '('
	r, next, err := p.Eval(c)
	if err != nil {
		return err
	}
	next = next.SkipSpace()

	if next.Peek() == ',' {
		// (zp,X)
		idx := next.Advance(1).SkipSpace()
		if idx.Peek() != 'X' && idx.Peek() != 'x' {
			return p.fail(ExtraCharsOnLine, "expected ',X' in indexed-indirect operand")
		}
		idx = idx.Advance(1).SkipSpace()
		if idx.Peek() != ')' {
			return p.fail(ExtraCharsOnLine, "missing closing ')'")
		}
		if e, ok := findMode(entries, arch.INDX); ok {
			p.emitOpcode(e, []byte{byte(r.Value)})
			return nil
		}
		return p.fail(IllegalInstruction, "%s does not support indexed-indirect addressing", mnemonic)
	}

	if next.Peek() != ')' {
		return p.fail(ExtraCharsOnLine, "missing closing ')'")
	}
	next = next.Advance(1).SkipSpace()

	if next.Peek() == ',' {
		// (zp),Y
		idx := next.Advance(1).SkipSpace()
		if idx.Peek() != 'Y' && idx.Peek() != 'y' {
			return p.fail(ExtraCharsOnLine, "expected ',Y' in indirect-indexed operand")
		}
		if e, ok := findMode(entries, arch.INDY); ok {
			p.emitOpcode(e, []byte{byte(r.Value)})
			return nil
		}
		return p.fail(IllegalInstruction, "%s does not support indirect-indexed addressing", mnemonic)
	}

	// Plain (abs) — JMP only.
	if e, ok := findMode(entries, arch.IND); ok {
		p.emitOpcode(e, []byte{byte(r.Value), byte(r.Value >> 8)})
		return nil
	}
	return p.fail(IllegalInstruction, "%s does not support indirect addressing", mnemonic)
}

// emitOpcode writes the opcode byte followed by operand, advancing the
// sink's PC by 1+len(operand).
func (p *pass) emitOpcode(e arch.Entry, operand []byte) {
	p.asm.sink.Write([]byte{e.Opcode})
	if len(operand) > 0 {
		p.asm.sink.Write(operand)
	}
}

func findMode(entries []arch.Entry, mode arch.Mode) (arch.Entry, bool) {
	for _, e := range entries {
		if e.Mode == mode {
			return e, true
		}
	}
	return arch.Entry{}, false
}

func isAccumulatorOperand(c lexer.Cursor) bool {
	rest := strings.TrimSpace(c.Rest())
	return rest == "A" || rest == "a"
}
