package directive

import (
	"strconv"

	"asm8/lexer"
)

// eachExpr walks a comma-separated expression list until end of line,
// calling fn with each result (and whether it is still an unresolved
// forward reference) in turn. A dependent result forces another pass,
// exactly like the opcode emitter does for a dependent operand — the
// placeholder byte(s) emitted now are provisional.
func eachExpr(ctx Context, c lexer.Cursor, fn func(v int64, dependent bool) error) error {
	c = c.SkipSpace()
	for {
		r, next, err := ctx.Eval(c)
		if err != nil {
			return err
		}
		if err := fn(r.Value, r.Dependent); err != nil {
			return err
		}
		c = next.SkipSpace()
		if c.AtEnd() {
			return nil
		}
		if c.Peek() != ',' {
			ctx.Fail("ExtraCharsOnLine", "unexpected characters after expression")
			return nil
		}
		c = c.Advance(1).SkipSpace()
	}
}

func handleBytes(ctx Context, c lexer.Cursor) error {
	return eachExpr(ctx, c, func(v int64, dependent bool) error {
		if dependent {
			ctx.MarkDependent()
		}
		ctx.EmitBytes([]byte{byte(v)})
		return nil
	})
}

func handleWords(ctx Context, c lexer.Cursor) error {
	return eachExpr(ctx, c, func(v int64, dependent bool) error {
		if dependent {
			ctx.MarkDependent()
		}
		ctx.EmitBytes([]byte{byte(v), byte(v >> 8)})
		return nil
	})
}

func handleLowBytes(ctx Context, c lexer.Cursor) error {
	return eachExpr(ctx, c, func(v int64, dependent bool) error {
		if dependent {
			ctx.MarkDependent()
		}
		ctx.EmitBytes([]byte{byte(v)})
		return nil
	})
}

func handleHighBytes(ctx Context, c lexer.Cursor) error {
	return eachExpr(ctx, c, func(v int64, dependent bool) error {
		if dependent {
			ctx.MarkDependent()
		}
		ctx.EmitBytes([]byte{byte(v >> 8)})
		return nil
	})
}

func handleDSB(ctx Context, c lexer.Cursor) error {
	n, next, err := requireValue(ctx, c)
	if err != nil {
		return err
	}
	restore, err := withOptionalFill(ctx, next)
	if err != nil {
		return err
	}
	defer restore()
	ctx.Pad(ctx.PC() + n)
	return nil
}

func handleDSW(ctx Context, c lexer.Cursor) error {
	n, next, err := requireValue(ctx, c)
	if err != nil {
		return err
	}
	restore, err := withOptionalFill(ctx, next)
	if err != nil {
		return err
	}
	defer restore()
	ctx.Pad(ctx.PC() + n*2)
	return nil
}

func handleHex(ctx Context, c lexer.Cursor) error {
	c = c.SkipSpace()
	var out []byte
	for !c.AtEnd() {
		c = c.SkipSpace()
		if c.AtEnd() {
			break
		}
		if !lexer.IsHexDigit(c.Peek()) || !lexer.IsHexDigit(c.PeekAt(1)) {
			ctx.Fail("NotANumber", "expected a hex byte pair")
			return nil
		}
		pair := string(c.Peek()) + string(c.PeekAt(1))
		n, err := strconv.ParseInt(pair, 16, 16)
		if err != nil {
			ctx.Fail("NotANumber", "invalid hex byte %q", pair)
			return nil
		}
		out = append(out, byte(n))
		c = c.Advance(2)
	}
	ctx.EmitBytes(out)
	return nil
}
