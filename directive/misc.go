package directive

import (
	"strings"

	"asm8/lexer"
)

func handleError(ctx Context, c lexer.Cursor) error {
	msg, _ := quotedOrRest(c)
	ctx.Fail("UserError", "%s", msg)
	return nil
}

func handleEcho(ctx Context, c lexer.Cursor) error {
	msg, _ := quotedOrRest(c)
	ctx.Echo(msg)
	return nil
}

func handleAssert(ctx Context, c lexer.Cursor) error {
	r, next, err := ctx.Eval(c)
	if err != nil {
		return err
	}
	if r.Value != 0 {
		return nil
	}
	msg := "assertion failed"
	next = next.SkipSpace()
	if next.Peek() == ',' {
		if m, ok := quotedOrRest(next.Advance(1).SkipSpace()); ok {
			msg = m
		}
	}
	ctx.Fail("AssertionFailed", "%s", msg)
	return nil
}

func handleIncdir(ctx Context, c lexer.Cursor) error {
	path, ok := quotedOrRest(c)
	if !ok {
		ctx.Fail("NeedName", "INCDIR requires a path")
		return nil
	}
	ctx.AddIncludeDir(path)
	return nil
}

func handleInclude(ctx Context, c lexer.Cursor) error {
	path, ok := quotedOrRest(c)
	if !ok {
		ctx.Fail("CantOpenFile", "INCLUDE requires a path")
		return nil
	}
	return ctx.IncludeFile(path)
}

func handleIncbin(ctx Context, c lexer.Cursor) error {
	c = c.SkipSpace()
	path, next, ok := scanQuotedPath(c)
	if !ok {
		ctx.Fail("CantOpenFile", "INCBIN requires a path")
		return nil
	}

	var offset, size int64 = 0, -1
	next = next.SkipSpace()
	if next.Peek() == ',' {
		r, n, err := ctx.Eval(next.Advance(1))
		if err != nil {
			return err
		}
		offset = r.Value
		next = n.SkipSpace()
		if next.Peek() == ',' {
			r, n, err := ctx.Eval(next.Advance(1))
			if err != nil {
				return err
			}
			size = r.Value
			next = n
		}
	}

	return ctx.IncludeBinary(path, offset, size)
}

func handleMacro(ctx Context, c lexer.Cursor) error {
	c = c.SkipSpace()
	name, next, ok := lexer.ScanIdent(c)
	if !ok {
		ctx.Fail("NeedName", "MACRO requires a name")
		return nil
	}
	next = next.SkipSpace()
	var params []string
	for next.Peek() == ',' {
		next = next.Advance(1).SkipSpace()
		p, n, ok := lexer.ScanIdent(next)
		if !ok {
			break
		}
		params = append(params, p)
		next = n.SkipSpace()
	}
	ctx.BeginMacroCapture(name, params)
	return nil
}

func handleRept(ctx Context, c lexer.Cursor) error {
	r, _, err := ctx.Eval(c)
	if err != nil {
		return err
	}
	ctx.BeginReptCapture(r.Value)
	return nil
}

func handleStrayEndm(ctx Context, c lexer.Cursor) error {
	ctx.Fail("ExtraEndM", "ENDM without a matching MACRO")
	return nil
}

func handleStrayEndr(ctx Context, c lexer.Cursor) error {
	ctx.Fail("ExtraEndR", "ENDR without a matching REPT")
	return nil
}

// quotedOrRest returns a quoted string's contents if the operand
// starts with one, else the trimmed remainder of the line.
func quotedOrRest(c lexer.Cursor) (string, bool) {
	c = c.SkipSpace()
	if c.Peek() == '"' {
		s, _, ok := lexer.ScanString(c)
		return s, ok
	}
	return strings.TrimSpace(c.Rest()), !c.AtEnd()
}

func scanQuotedPath(c lexer.Cursor) (string, lexer.Cursor, bool) {
	if c.Peek() == '"' {
		return lexer.ScanString(c)
	}
	start := c.Pos
	for !c.AtEnd() && c.Peek() != ',' && c.Peek() != ' ' && c.Peek() != '\t' {
		c = c.Advance(1)
	}
	if c.Pos == start {
		return "", c, false
	}
	return c.Text[start:c.Pos], c, true
}
