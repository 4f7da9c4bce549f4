package directive

import "asm8/lexer"

func handleOrg(ctx Context, c lexer.Cursor) error {
	v, _, err := requireValue(ctx, c)
	if err != nil {
		return err
	}
	ctx.SetOrg(v)
	return nil
}

func handleBase(ctx Context, c lexer.Cursor) error {
	v, _, err := requireValue(ctx, c)
	if err != nil {
		return err
	}
	ctx.SetBase(v)
	return nil
}

func handlePad(ctx Context, c lexer.Cursor) error {
	v, next, err := requireValue(ctx, c)
	if err != nil {
		return err
	}
	restore, err := withOptionalFill(ctx, next)
	if err != nil {
		return err
	}
	defer restore()
	if !ctx.Pad(v) {
		ctx.Fail("OutOfRange", "PAD target is behind the current address")
	}
	return nil
}

func handleAlign(ctx Context, c lexer.Cursor) error {
	n, next, err := requireValue(ctx, c)
	if err != nil {
		return err
	}
	restore, err := withOptionalFill(ctx, next)
	if err != nil {
		return err
	}
	defer restore()
	if n <= 0 {
		return nil
	}
	pc := ctx.PC()
	rem := pc % n
	if rem != 0 {
		ctx.Pad(pc + (n - rem))
	}
	return nil
}

func handleFillValue(ctx Context, c lexer.Cursor) error {
	v, _, err := requireValue(ctx, c)
	if err != nil {
		return err
	}
	ctx.SetFill(byte(v))
	return nil
}

func handleEnum(ctx Context, c lexer.Cursor) error {
	v, _, err := requireValue(ctx, c)
	if err != nil {
		return err
	}
	ctx.SetOrg(v)
	ctx.EnterEnum()
	return nil
}

func handleEnde(ctx Context, c lexer.Cursor) error {
	if !ctx.InEnum() {
		ctx.Fail("ExtraEndE", "ENDE without a matching ENUM")
		return nil
	}
	ctx.LeaveEnum()
	return nil
}

// optionalFill parses a trailing ",fill" clause shared by PAD/ALIGN/DSB/DSW.
func optionalFill(ctx Context, c lexer.Cursor) (byte, bool, error) {
	c = c.SkipSpace()
	if c.AtEnd() || c.Peek() != ',' {
		return 0, false, nil
	}
	c = c.Advance(1)
	v, _, err := requireValue(ctx, c)
	if err != nil {
		return 0, false, err
	}
	return byte(v), true, nil
}

// withOptionalFill parses a trailing ",fill" clause and, if present,
// swaps the sink's fill byte in for the duration of this operation
// only. The returned func must be called (typically via defer) to put
// the prior sticky fill back, so a per-operation override never leaks
// into a later unqualified PAD/ALIGN/DSB/DSW.
func withOptionalFill(ctx Context, c lexer.Cursor) (restore func(), err error) {
	fill, ok, err := optionalFill(ctx, c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return func() {}, nil
	}
	prev := ctx.FillByte()
	ctx.SetFill(fill)
	return func() { ctx.SetFill(prev) }, nil
}

func requireValue(ctx Context, c lexer.Cursor) (int64, lexer.Cursor, error) {
	r, next, err := ctx.Eval(c)
	if err != nil {
		return 0, c, err
	}
	return r.Value, next, nil
}
