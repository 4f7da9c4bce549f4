// Package preprocess expands equates (textual macros) on a single
// source line, ahead of expression evaluation and directive dispatch.
package preprocess

import (
	"strings"

	"asm8/lexer"
	"asm8/symtab"
)

// Lookup is the subset of symtab.Table the expander needs. It is
// satisfied by *symtab.Table; tests substitute a stub.
type Lookup interface {
	Lookup(name string, scope int) (*symtab.Label, bool)
}

// Expand walks line character-by-character, substituting the source
// text of any EQUATE identifier it encounters, and returns the
// expanded line. pos is used only for error reporting. scope is the
// caller's current lexical scope, passed through to every identifier
// lookup.
//
// Numeric literals and quoted strings are copied verbatim without
// being scanned for identifiers inside them. A leading '.' on an
// identifier is stripped before lookup, so ".ORG" and "ORG" expand
// identically. Immediately after IFDEF/IFNDEF, the following
// identifier is left untouched: it names a symbol to test for
// existence, not a value to substitute.
func Expand(line string, pos lexer.Position, scope int, table Lookup) (string, error) {
	var out strings.Builder
	c := lexer.NewCursor(line)
	suppressNext := false

	for !c.AtEnd() {
		switch {
		case c.Peek() == '$' && !(len(c.Rest()) > 1 && lexer.IsHexDigit(c.PeekAt(1))):
			// Bare '$' (current-PC atom): copy through, not a numeric lead-in.
			out.WriteByte(c.Peek())
			c = c.Advance(1)

		case lexer.IsDigit(c.Peek()) || c.Peek() == '$':
			lit, next, ok := lexer.ScanNumber(c)
			if !ok {
				out.WriteByte(c.Peek())
				c = c.Advance(1)
				break
			}
			out.WriteString(lit)
			c = next

		case c.Peek() == '"':
			lit, next, ok := scanRawQuoted(c, '"')
			if !ok {
				return "", lexer.NewError(pos, "unterminated string literal")
			}
			out.WriteString(lit)
			c = next

		case c.Peek() == '\'':
			lit, next, ok := scanRawQuoted(c, '\'')
			if !ok {
				return "", lexer.NewError(pos, "unterminated character literal")
			}
			out.WriteString(lit)
			c = next

		case c.Peek() == ';':
			// Comments are stripped by the caller before expansion runs;
			// if one slips through, copy it verbatim rather than
			// attempting identifier substitution inside it.
			out.WriteString(c.Rest())
			c = c.Advance(len(c.Rest()))

		case lexer.IsIdentStart(c.Peek()):
			dotted := c.Peek() == '.'
			start := c
			ident, next, _ := lexer.ScanIdent(c)
			c = next

			if suppressNext {
				suppressNext = false
				out.WriteString(ident)
				break
			}

			name := ident
			if dotted {
				name = ident[1:]
			}

			upper := strings.ToUpper(name)
			if upper == "IFDEF" || upper == "IFNDEF" {
				suppressNext = true
				out.WriteString(ident)
				break
			}

			expanded, err := expandIdent(name, start.Text[:start.Pos], pos, scope, table)
			if err != nil {
				return "", err
			}
			out.WriteString(expanded)

		default:
			out.WriteByte(c.Peek())
			c = c.Advance(1)
		}
	}

	return out.String(), nil
}

// expandIdent resolves a single identifier: if it names an EQUATE
// that isn't already mid-expansion, its text is recursively expanded
// and substituted; otherwise the identifier is copied through
// unchanged (it may be a label, opcode, or directive, which the
// evaluator/dispatcher resolve later).
func expandIdent(name, prefix string, pos lexer.Position, scope int, table Lookup) (string, error) {
	label, ok := table.Lookup(name, scope)
	if !ok || label.Kind != symtab.KindEquate {
		return name, nil
	}

	if label.Expanding() {
		return "", lexer.NewError(pos, "recursive equate: %s", name)
	}

	end := label.BeginExpand()
	defer end()

	return Expand(label.Text, pos, scope, table)
}

// scanRawQuoted copies a quoted literal through verbatim, including its
// delimiters and any backslash-escapes, without unescaping it — equate
// expansion must preserve the original spelling for the evaluator to
// parse later.
func scanRawQuoted(c lexer.Cursor, quote byte) (string, lexer.Cursor, bool) {
	start := c.Pos
	if c.Peek() != quote {
		return "", c, false
	}
	c = c.Advance(1)
	for {
		if c.AtEnd() {
			return "", c, false
		}
		b := c.Peek()
		if b == '\\' {
			c = c.Advance(2)
			continue
		}
		c = c.Advance(1)
		if b == quote {
			break
		}
	}
	return c.Text[start:c.Pos], c, true
}
