package lexer

import "strings"

// Cursor walks an immutable line of source text without ever mutating
// it. Every helper takes a Cursor by value and returns the Cursor at
// the new position, per the design note that the evaluator and
// preprocessor must never hide mutation inside the line text itself.
type Cursor struct {
	Text string
	Pos  int
}

// NewCursor returns a Cursor positioned at the start of text.
func NewCursor(text string) Cursor {
	return Cursor{Text: text, Pos: 0}
}

// AtEnd reports whether the cursor has consumed the whole line.
func (c Cursor) AtEnd() bool {
	return c.Pos >= len(c.Text)
}

// Peek returns the byte at the cursor without advancing, and 0 at end of line.
func (c Cursor) Peek() byte {
	if c.AtEnd() {
		return 0
	}
	return c.Text[c.Pos]
}

// PeekAt returns the byte offset bytes ahead of the cursor, or 0 past the end.
func (c Cursor) PeekAt(offset int) byte {
	i := c.Pos + offset
	if i < 0 || i >= len(c.Text) {
		return 0
	}
	return c.Text[i]
}

// Advance returns a cursor moved forward by n bytes, clamped to the line length.
func (c Cursor) Advance(n int) Cursor {
	c.Pos += n
	if c.Pos > len(c.Text) {
		c.Pos = len(c.Text)
	}
	return c
}

// SkipSpace returns a cursor advanced past any run of plain spaces and
// tabs. The statement separator ':' is treated as whitespace by the
// lexer per the input format, so it is skipped here too.
func (c Cursor) SkipSpace() Cursor {
	for !c.AtEnd() {
		switch c.Peek() {
		case ' ', '\t', ':':
			c = c.Advance(1)
			continue
		}
		break
	}
	return c
}

// Rest returns the unconsumed remainder of the line.
func (c Cursor) Rest() string {
	return c.Text[c.Pos:]
}

// HasPrefix reports whether the remaining text starts with s, and
// returns a cursor advanced past it if so.
func (c Cursor) HasPrefix(s string) (Cursor, bool) {
	if strings.HasPrefix(c.Rest(), s) {
		return c.Advance(len(s)), true
	}
	return c, false
}

func IsDigit(b byte) bool { return b >= '0' && b <= '9' }

func IsHexDigit(b byte) bool {
	return IsDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func IsAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func IsIdentStart(b byte) bool {
	return b == '_' || b == '.' || b == '@' || IsAlpha(b)
}

func IsIdentCont(b byte) bool {
	return IsIdentStart(b) || IsDigit(b)
}

func IsSpace(b byte) bool {
	return b == ' ' || b == '\t'
}
